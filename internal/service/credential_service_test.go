package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazzydev/taskdeck-api/internal/domain"
	"github.com/lazzydev/taskdeck-api/internal/store"
)

// fakeUserStore is an in-memory UserStore for unit testing.
type fakeUserStore struct {
	byID   map[uuid.UUID]*domain.User
	byName map[string]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byID:   make(map[uuid.UUID]*domain.User),
		byName: make(map[string]*domain.User),
	}
}

func (s *fakeUserStore) Create(_ context.Context, user *domain.User) error {
	if _, exists := s.byName[user.Username]; exists {
		return store.ErrUsernameExists
	}
	stored := *user
	s.byID[user.ID] = &stored
	s.byName[user.Username] = &stored
	return nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := s.byID[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	found := *user
	return &found, nil
}

func (s *fakeUserStore) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	user, ok := s.byName[username]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	found := *user
	return &found, nil
}

// fakeHasher is a deterministic stand-in for bcrypt, fast enough for tests.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Compare(hashedPassword, password string) error {
	if hashedPassword != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

func newTestCredentialService(users store.UserStore) *CredentialService {
	return NewCredentialService(users, fakeHasher{}, fakeHasher{}, nil)
}

func TestCredentialServiceRegister(t *testing.T) {
	t.Parallel()

	t.Run("stores hashed password and clears plaintext", func(t *testing.T) {
		t.Parallel()
		users := newFakeUserStore()
		svc := newTestCredentialService(users)

		user, err := svc.Register(context.Background(), "alice", domain.RoleUser, "secret-pass")
		require.NoError(t, err)

		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, domain.RoleUser, user.Role)
		assert.Empty(t, user.Password)
		assert.Equal(t, "hashed:secret-pass", user.HashedPassword)

		stored, err := users.GetByUsername(context.Background(), "alice")
		require.NoError(t, err)
		assert.Empty(t, stored.Password)
		assert.Equal(t, "hashed:secret-pass", stored.HashedPassword)
	})

	t.Run("duplicate username is reported", func(t *testing.T) {
		t.Parallel()
		users := newFakeUserStore()
		svc := newTestCredentialService(users)

		_, err := svc.Register(context.Background(), "alice", domain.RoleUser, "first")
		require.NoError(t, err)

		_, err = svc.Register(context.Background(), "alice", domain.RoleAdmin, "second")
		assert.ErrorIs(t, err, store.ErrUsernameExists)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		t.Parallel()
		svc := newTestCredentialService(newFakeUserStore())

		_, err := svc.Register(context.Background(), "alice", domain.Role("root"), "secret-pass")
		assert.ErrorIs(t, err, domain.ErrInvalidRole)
	})

	t.Run("rejects empty username", func(t *testing.T) {
		t.Parallel()
		svc := newTestCredentialService(newFakeUserStore())

		_, err := svc.Register(context.Background(), "", domain.RoleUser, "secret-pass")
		assert.ErrorIs(t, err, domain.ErrEmptyUsername)
	})
}

func TestCredentialServiceAuthenticate(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T) (*CredentialService, *domain.User) {
		t.Helper()
		users := newFakeUserStore()
		svc := newTestCredentialService(users)
		user, err := svc.Register(context.Background(), "bob", domain.RoleAdmin, "right-password")
		require.NoError(t, err)
		return svc, user
	}

	t.Run("valid credentials return the user", func(t *testing.T) {
		t.Parallel()
		svc, registered := setup(t)

		user, err := svc.Authenticate(context.Background(), "bob", "right-password")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
		assert.Equal(t, domain.RoleAdmin, user.Role)
	})

	t.Run("unknown username and wrong password are indistinguishable", func(t *testing.T) {
		t.Parallel()
		svc, _ := setup(t)

		_, unknownErr := svc.Authenticate(context.Background(), "nobody", "right-password")
		_, wrongErr := svc.Authenticate(context.Background(), "bob", "wrong-password")

		assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
		assert.ErrorIs(t, wrongErr, ErrInvalidCredentials)
		assert.Equal(t, unknownErr.Error(), wrongErr.Error())
	})
}

func TestCredentialServiceGetRole(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	svc := newTestCredentialService(users)
	user, err := svc.Register(context.Background(), "carol", domain.RoleAdmin, "secret-pass")
	require.NoError(t, err)

	role, err := svc.GetRole(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, role)

	_, err = svc.GetRole(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}
