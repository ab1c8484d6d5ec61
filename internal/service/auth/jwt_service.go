// Package auth provides token issuance/verification and password hashing.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lazzydev/taskdeck-api/internal/domain"
)

// TokenService defines operations for managing signed identity assertions.
type TokenService interface {
	// Generate creates a signed token encoding the user's identity and role.
	// The token lifetime is fixed by configuration; callers cannot extend it.
	// Returns the token string or an error if signing fails.
	Generate(ctx context.Context, userID uuid.UUID, role domain.Role) (string, error)

	// Verify validates the provided token string and extracts the claims.
	// Returns the claims if the signature is valid and the token has not
	// expired, or ErrInvalidToken/ErrExpiredToken otherwise. Callers treat
	// every failure the same way: the request is unauthenticated.
	Verify(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the verified payload of an identity assertion: who the caller
// is and what role they hold. Nothing is persisted server-side; the claims
// are trusted solely on the strength of the signature and expiry check.
type Claims struct {
	Subject   uuid.UUID
	Role      domain.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}
