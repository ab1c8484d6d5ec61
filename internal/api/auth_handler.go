package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/lazzydev/taskdeck-api/internal/api/shared"
	"github.com/lazzydev/taskdeck-api/internal/config"
	"github.com/lazzydev/taskdeck-api/internal/domain"
	"github.com/lazzydev/taskdeck-api/internal/service"
	"github.com/lazzydev/taskdeck-api/internal/service/auth"
	"github.com/lazzydev/taskdeck-api/internal/store"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	credentials *service.CredentialService
	tokens      auth.TokenService
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	credentials *service.CredentialService,
	tokens auth.TokenService,
	logger *slog.Logger,
) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthHandler{
		credentials: credentials,
		tokens:      tokens,
		validator:   validator.New(),
		logger:      logger.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /users/register.
// A duplicate username is answered with a 200 carrying an error payload;
// that shape predates this implementation and existing clients rely on it.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid role")
		return
	}

	_, err = h.credentials.Register(r.Context(), req.Username, role, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			shared.RespondWithJSON(w, r, http.StatusOK, RegisterResponse{
				Status:  "error",
				Details: "user already exists",
			})
			return
		}
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err, config.DenialModeForbidden),
			GetSafeErrorMessage(err, config.DenialModeForbidden), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, RegisterResponse{Status: "success"})
}

// Login handles POST /users/login. Failed authentication is answered 401
// with a WWW-Authenticate hint; unknown usernames and wrong passwords are
// indistinguishable.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	user, err := h.credentials.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			w.Header().Set("WWW-Authenticate", "Bearer")
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Incorrect username or password")
			return
		}
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to authenticate user", err)
		return
	}

	token, err := h.tokens.Generate(r.Context(), user.ID, user.Role)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to generate authentication token", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}
