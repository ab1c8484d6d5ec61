// Package main implements the entry point for the taskdeck API server,
// which handles user registration/login and role-scoped task CRUD.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/lazzydev/taskdeck-api/internal/config"
	"github.com/lazzydev/taskdeck-api/internal/platform/logger"
	"github.com/lazzydev/taskdeck-api/internal/platform/postgres"
)

func main() {
	app, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.cleanup()

	if err := app.startHTTPServer(context.Background(), app.setupRouter()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// initializeApp loads configuration and sets up application components:
// logging, the database pool, schema migrations, and the service graph.
func initializeApp() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"denial_mode", string(cfg.Auth.DenialMode))

	db, err := setupDatabase(cfg, appLogger)
	if err != nil {
		return nil, err
	}

	// Schema bootstrap runs on every startup; goose makes it a no-op when
	// the schema is current.
	if err := postgres.MigrateUp(db); err != nil {
		return nil, err
	}

	return newApplication(cfg, db, appLogger)
}
