package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lazzydev/taskdeck-api/internal/api/shared"
	"github.com/lazzydev/taskdeck-api/internal/redact"
	"github.com/lazzydev/taskdeck-api/internal/service/auth"
)

// AuthMiddleware provides bearer-token authentication for routes.
type AuthMiddleware struct {
	tokens auth.TokenService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(tokens auth.TokenService) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
	}
}

// Authenticate verifies the bearer token before the handler runs. Missing,
// malformed, and expired tokens all end the request with a 401 carrying a
// WWW-Authenticate hint; handlers never see unauthenticated requests.
// On success the verified claims are placed in the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			respondUnauthenticated(w, r, "Authorization header required")
			return
		}

		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondUnauthenticated(w, r, "Invalid authorization format")
			return
		}

		claims, err := m.tokens.Verify(r.Context(), parts[1])
		if err != nil {
			switch err {
			case auth.ErrExpiredToken:
				respondUnauthenticated(w, r, "Token expired")
			case auth.ErrInvalidToken, auth.ErrTokenNotYetValid:
				respondUnauthenticated(w, r, "Invalid token")
			default:
				slog.Error("failed to validate token", "error", redact.Error(err))
				shared.RespondWithError(
					w,
					r,
					http.StatusInternalServerError,
					"Authentication error",
				)
			}
			return
		}

		ctx := context.WithValue(r.Context(), shared.ClaimsContextKey, claims)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetClaims extracts the verified identity claims from the request context.
// Returns the claims and a boolean indicating if they were found.
func GetClaims(r *http.Request) (*auth.Claims, bool) {
	claims, ok := r.Context().Value(shared.ClaimsContextKey).(*auth.Claims)
	return claims, ok
}

func respondUnauthenticated(w http.ResponseWriter, r *http.Request, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	shared.RespondWithError(w, r, http.StatusUnauthorized, message)
}
