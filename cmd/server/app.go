package main

import (
	"database/sql"
	"log/slog"

	"github.com/lazzydev/taskdeck-api/internal/config"
	"github.com/lazzydev/taskdeck-api/internal/platform/postgres"
	"github.com/lazzydev/taskdeck-api/internal/service"
	"github.com/lazzydev/taskdeck-api/internal/service/auth"
)

// application holds the wired dependency graph. Everything downstream of
// config and the database pool is constructed here once, at startup;
// nothing reaches for process-wide singletons.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	credentialService *service.CredentialService
	taskService       *service.TaskService
	tokenService      auth.TokenService
}

// newApplication wires stores, services, and auth components into an
// application ready to serve requests.
func newApplication(
	cfg *config.Config,
	db *sql.DB,
	logger *slog.Logger,
) (*application, error) {
	tokenService, err := auth.NewTokenService(cfg.Auth)
	if err != nil {
		return nil, err
	}

	hasher := auth.NewBcryptHasher()
	userStore := postgres.NewPostgresUserStore(db, logger)
	taskStore := postgres.NewPostgresTaskStore(db, logger)

	return &application{
		config:            cfg,
		logger:            logger,
		db:                db,
		credentialService: service.NewCredentialService(userStore, hasher, hasher, logger),
		taskService:       service.NewTaskService(db, taskStore, logger),
		tokenService:      tokenService,
	}, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", "error", err)
		}
	}
}
