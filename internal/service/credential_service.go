package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lazzydev/taskdeck-api/internal/domain"
	"github.com/lazzydev/taskdeck-api/internal/platform/logger"
	"github.com/lazzydev/taskdeck-api/internal/service/auth"
	"github.com/lazzydev/taskdeck-api/internal/store"
)

// CredentialService registers accounts and verifies username/password pairs.
type CredentialService struct {
	users    store.UserStore
	hasher   auth.PasswordHasher
	verifier auth.PasswordVerifier
	logger   *slog.Logger
}

// NewCredentialService creates a CredentialService with the given dependencies.
// If logger is nil, a default logger will be used.
func NewCredentialService(
	users store.UserStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	logger *slog.Logger,
) *CredentialService {
	if logger == nil {
		logger = slog.Default()
	}

	return &CredentialService{
		users:    users,
		hasher:   hasher,
		verifier: verifier,
		logger:   logger.With(slog.String("component", "credential_service")),
	}
}

// Register creates a new account with the given username, role, and
// password. The password is hashed before it reaches the store; uniqueness
// of the username is enforced by the store's constraint, so two concurrent
// registrations of the same name cannot both succeed.
// Returns store.ErrUsernameExists when the username is taken.
func (s *CredentialService) Register(
	ctx context.Context,
	username string,
	role domain.Role,
	password string,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(username, role, password)
	if err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Authenticate verifies a username/password pair and returns the matching
// user. Unknown usernames and wrong passwords both yield
// ErrInvalidCredentials: the two cases are deliberately indistinguishable.
func (s *CredentialService) Authenticate(
	ctx context.Context,
	username, password string,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to look up user during authentication",
			slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetRole returns the role recorded for the given user ID.
// Returns store.ErrUserNotFound if no such user exists.
func (s *CredentialService) GetRole(ctx context.Context, userID uuid.UUID) (domain.Role, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Role, nil
}
