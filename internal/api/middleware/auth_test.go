package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazzydev/taskdeck-api/internal/domain"
	"github.com/lazzydev/taskdeck-api/internal/service/auth"
)

// stubTokenService returns canned verification results.
type stubTokenService struct {
	claims *auth.Claims
	err    error
}

func (s *stubTokenService) Generate(_ context.Context, _ uuid.UUID, _ domain.Role) (string, error) {
	return "", errors.New("not implemented")
}

func (s *stubTokenService) Verify(_ context.Context, _ string) (*auth.Claims, error) {
	return s.claims, s.err
}

func runAuthenticated(t *testing.T, tokens auth.TokenService, header string) (*httptest.ResponseRecorder, *auth.Claims, bool) {
	t.Helper()

	var (
		gotClaims *auth.Claims
		gotOK     bool
		reached   bool
	)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		gotClaims, gotOK = GetClaims(r)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/tasks/get_all", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()

	NewAuthMiddleware(tokens).Authenticate(next).ServeHTTP(w, req)

	if !reached {
		return w, nil, false
	}
	return w, gotClaims, gotOK
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	validClaims := &auth.Claims{Subject: uuid.New(), Role: domain.RoleUser}

	t.Run("valid token passes claims to the handler", func(t *testing.T) {
		t.Parallel()
		tokens := &stubTokenService{claims: validClaims}

		w, claims, ok := runAuthenticated(t, tokens, "Bearer some-token")
		require.Equal(t, http.StatusOK, w.Code)
		require.True(t, ok)
		assert.Equal(t, validClaims.Subject, claims.Subject)
		assert.Equal(t, domain.RoleUser, claims.Role)
	})

	t.Run("missing header is a 401 with an auth hint", func(t *testing.T) {
		t.Parallel()
		tokens := &stubTokenService{claims: validClaims}

		w, _, ok := runAuthenticated(t, tokens, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
		assert.False(t, ok)
	})

	t.Run("malformed header never reaches the verifier", func(t *testing.T) {
		t.Parallel()
		tokens := &stubTokenService{err: errors.New("verify must not be called")}

		w, _, ok := runAuthenticated(t, tokens, "Basic dXNlcjpwYXNz")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, ok)
	})

	t.Run("expired token names the failure", func(t *testing.T) {
		t.Parallel()
		tokens := &stubTokenService{err: auth.ErrExpiredToken}

		w, _, _ := runAuthenticated(t, tokens, "Bearer stale-token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Token expired")
	})

	t.Run("invalid token is a generic 401", func(t *testing.T) {
		t.Parallel()
		tokens := &stubTokenService{err: auth.ErrInvalidToken}

		w, _, _ := runAuthenticated(t, tokens, "Bearer forged-token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid token")
	})

	t.Run("unexpected verifier failure is a 500", func(t *testing.T) {
		t.Parallel()
		tokens := &stubTokenService{err: errors.New("key store unavailable")}

		w, _, _ := runAuthenticated(t, tokens, "Bearer some-token")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
