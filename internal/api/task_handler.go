package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/lazzydev/taskdeck-api/internal/api/metrics"
	"github.com/lazzydev/taskdeck-api/internal/api/shared"
	"github.com/lazzydev/taskdeck-api/internal/config"
	"github.com/lazzydev/taskdeck-api/internal/domain"
	"github.com/lazzydev/taskdeck-api/internal/service"
	"github.com/lazzydev/taskdeck-api/internal/store"
)

// TaskHandler handles task-related API requests. All routes require the
// auth middleware; the handler trusts the claims it finds in the context
// and delegates every access decision to the task service.
type TaskHandler struct {
	tasks      *service.TaskService
	denialMode config.DenialMode
	validator  *validator.Validate
	logger     *slog.Logger
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(
	tasks *service.TaskService,
	denialMode config.DenialMode,
	logger *slog.Logger,
) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskHandler{
		tasks:      tasks,
		denialMode: denialMode,
		validator:  validator.New(),
		logger:     logger.With(slog.String("component", "task_handler")),
	}
}

// CreateTask handles POST /tasks/create_task.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if len(req.Weather) > 0 && !json.Valid(req.Weather) {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid weather payload")
		return
	}

	task, err := h.tasks.Create(r.Context(), claims, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.TaskStatus(req.Status),
		CreatedAt:   epochToTime(req.CreatedAt),
		City:        req.City,
		Weather:     req.Weather,
	})
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to create task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewTaskResponse(task))
}

// GetTask handles GET /tasks/get_task/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	id, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.tasks.Get(r.Context(), claims, id)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to get task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// DeleteTask handles DELETE /tasks/delete_task/{id}. Deleting a task that
// does not exist is not an error; the response reports deleted=false.
// In not_found denial mode a refused delete takes that same shape, since a
// missing task answers 200 here and a 404 would give the row's existence
// away.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	id, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	deleted, err := h.tasks.Delete(r.Context(), claims, id)
	if err != nil {
		if errors.Is(err, service.ErrForbidden) && h.denialMode == config.DenialModeNotFound {
			metrics.RefusalsTotal.WithLabelValues(routePattern(r)).Inc()
			shared.RespondWithJSON(w, r, http.StatusOK, DeleteTaskResponse{Deleted: false})
			return
		}
		h.respondServiceError(w, r, err, "Failed to delete task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DeleteTaskResponse{Deleted: deleted})
}

// UpdateTask handles PUT /tasks/update/{id}. Fields travel as query
// parameters; only the supplied ones change. An empty parameter set is a
// no-op answered with updated=false.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	id, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	update, err := parseTaskUpdate(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.tasks.Update(r.Context(), claims, id, update)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to update task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, UpdateTaskResponse{Updated: updated})
}

// ListTasks handles GET /tasks/get_all?status=&user=&date=.
// Absent parameters impose no constraint; date means created at-or-after,
// in seconds since epoch.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	filter, err := parseTaskFilter(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	tasks, err := h.tasks.List(r.Context(), claims, filter)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to list tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskListResponse(tasks))
}

// Analytics handles GET /tasks/analytics?user=&status=&from=&to=.
// All four parameters are required.
func (h *TaskHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	filter, err := parseAnalyticsFilter(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	tasks, err := h.tasks.Analytics(r.Context(), claims, filter)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to query analytics")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskListResponse(tasks))
}

// respondServiceError translates a service error into the transport
// response, honoring the configured denial mode for refusals.
func (h *TaskHandler) respondServiceError(
	w http.ResponseWriter,
	r *http.Request,
	err error,
	logMessage string,
) {
	if errors.Is(err, service.ErrForbidden) {
		metrics.RefusalsTotal.WithLabelValues(routePattern(r)).Inc()
	}

	status := MapErrorToStatusCode(err, h.denialMode)
	message := GetSafeErrorMessage(err, h.denialMode)

	if status >= http.StatusInternalServerError {
		shared.RespondWithErrorAndLog(w, r, status, logMessage, err)
		return
	}

	shared.RespondWithError(w, r, status, message)
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

// parseTaskUpdate builds a sparse update from query parameters. Parameter
// names are fixed; values only ever reach the database as bound parameters.
func parseTaskUpdate(r *http.Request) (store.TaskUpdate, error) {
	query := r.URL.Query()
	var update store.TaskUpdate

	if query.Has("title") {
		title := query.Get("title")
		update.Title = &title
	}
	if query.Has("description") {
		description := query.Get("description")
		update.Description = &description
	}
	if query.Has("status") {
		status, err := domain.ParseTaskStatus(query.Get("status"))
		if err != nil {
			return store.TaskUpdate{}, err
		}
		update.Status = &status
	}
	if query.Has("created_at") {
		seconds, err := strconv.ParseFloat(query.Get("created_at"), 64)
		if err != nil {
			return store.TaskUpdate{}, domain.NewValidationError(
				"created_at", "must be seconds since epoch", domain.ErrValidation)
		}
		createdAt := epochToTime(seconds)
		update.CreatedAt = &createdAt
	}
	if query.Has("city") {
		city := query.Get("city")
		update.City = &city
	}
	if query.Has("weather") {
		weather := json.RawMessage(query.Get("weather"))
		if !json.Valid(weather) {
			return store.TaskUpdate{}, domain.ErrInvalidWeather
		}
		update.Weather = weather
	}

	return update, nil
}

// parseTaskFilter builds a listing filter from query parameters; each is
// optional and independently combinable.
func parseTaskFilter(r *http.Request) (store.TaskFilter, error) {
	query := r.URL.Query()
	var filter store.TaskFilter

	if raw := query.Get("status"); raw != "" {
		status, err := domain.ParseTaskStatus(raw)
		if err != nil {
			return store.TaskFilter{}, err
		}
		filter.Status = &status
	}
	if raw := query.Get("user"); raw != "" {
		ownerID, err := uuid.Parse(raw)
		if err != nil {
			return store.TaskFilter{}, domain.NewValidationError(
				"user", "has invalid format", domain.ErrInvalidID)
		}
		filter.OwnerID = &ownerID
	}
	if raw := query.Get("date"); raw != "" {
		seconds, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return store.TaskFilter{}, domain.NewValidationError(
				"date", "must be seconds since epoch", domain.ErrValidation)
		}
		createdAfter := epochToTime(seconds)
		filter.CreatedAfter = &createdAfter
	}

	return filter, nil
}

// parseAnalyticsFilter builds the analytics filter; every parameter is
// required.
func parseAnalyticsFilter(r *http.Request) (store.AnalyticsFilter, error) {
	query := r.URL.Query()

	ownerID, err := uuid.Parse(query.Get("user"))
	if err != nil {
		return store.AnalyticsFilter{}, domain.NewValidationError(
			"user", "has invalid format", domain.ErrInvalidID)
	}

	status, err := domain.ParseTaskStatus(query.Get("status"))
	if err != nil {
		return store.AnalyticsFilter{}, err
	}

	from, err := strconv.ParseFloat(query.Get("from"), 64)
	if err != nil {
		return store.AnalyticsFilter{}, domain.NewValidationError(
			"from", "must be seconds since epoch", domain.ErrValidation)
	}

	to, err := strconv.ParseFloat(query.Get("to"), 64)
	if err != nil {
		return store.AnalyticsFilter{}, domain.NewValidationError(
			"to", "must be seconds since epoch", domain.ErrValidation)
	}

	return store.AnalyticsFilter{
		OwnerID: ownerID,
		Status:  status,
		From:    epochToTime(from),
		To:      epochToTime(to),
	}, nil
}
