package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lazzydev/taskdeck-api/internal/api"
	apiMiddleware "github.com/lazzydev/taskdeck-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)
	r.Use(apiMiddleware.MetricsMiddleware)

	authHandler := api.NewAuthHandler(app.credentialService, app.tokenService, app.logger)
	taskHandler := api.NewTaskHandler(app.taskService, app.config.Auth.DenialMode, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.tokenService)

	// Authentication endpoints (public)
	r.Route("/users", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	// Task endpoints (bearer token required)
	r.Route("/tasks", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		r.Post("/create_task", taskHandler.CreateTask)
		r.Get("/get_task/{id}", taskHandler.GetTask)
		r.Delete("/delete_task/{id}", taskHandler.DeleteTask)
		r.Put("/update/{id}", taskHandler.UpdateTask)
		r.Get("/get_all", taskHandler.ListTasks)
		r.Get("/analytics", taskHandler.Analytics)
	})

	// Operational endpoints
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
