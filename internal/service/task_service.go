package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lazzydev/taskdeck-api/internal/domain"
	"github.com/lazzydev/taskdeck-api/internal/platform/logger"
	"github.com/lazzydev/taskdeck-api/internal/service/auth"
	"github.com/lazzydev/taskdeck-api/internal/store"
)

// CreateTaskInput carries the client-supplied fields for a new task. The
// owner is never part of the input: it is always the authenticated caller.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      domain.TaskStatus
	CreatedAt   time.Time
	City        *string
	Weather     json.RawMessage
}

// txRunner executes a function inside a database transaction. Injectable
// so policy tests can run without a live database.
type txRunner func(ctx context.Context, db *sql.DB, fn store.TxFn) error

// TaskService is the authorization decision point for every task
// operation. Each request moves through one evaluation:
//
//	verified claims -> policy decision -> store call | refusal
//
// The policy inputs are the claims (subject + role, both signed into the
// token) and, for ownership-gated operations, the task row fetched under
// the same transaction that performs the mutation. No second role lookup
// happens between the decision and the store call.
//
// Policy:
//   - create: any authenticated caller; owner is forced to the caller
//   - get/delete by id: admin unconditionally, user only for own tasks
//   - update by id: admin only (ownership does not grant update rights)
//   - list, analytics: admin only
type TaskService struct {
	db     *sql.DB
	tasks  store.TaskStore
	logger *slog.Logger
	runTx  txRunner
}

// NewTaskService creates a TaskService with the given dependencies.
// If logger is nil, a default logger will be used.
func NewTaskService(db *sql.DB, tasks store.TaskStore, logger *slog.Logger) *TaskService {
	if db == nil {
		panic("db cannot be nil")
	}

	if tasks == nil {
		panic("tasks cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &TaskService{
		db:     db,
		tasks:  tasks,
		logger: logger.With(slog.String("component", "task_service")),
		runTx:  store.RunInTransaction,
	}
}

// Create stores a new task owned by the caller. Any authenticated identity
// may create tasks; a client-supplied id would be ignored because the
// repository always assigns a fresh one.
func (s *TaskService) Create(
	ctx context.Context,
	claims *auth.Claims,
	input CreateTaskInput,
) (*domain.Task, error) {
	task, err := domain.NewTask(
		claims.Subject,
		input.Title,
		input.Description,
		input.Status,
		input.CreatedAt,
		input.City,
		input.Weather,
	)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

// Get retrieves a task by ID on behalf of the caller. Admins read any
// task; user-role callers read only their own. A task that exists but
// belongs to someone else yields ErrForbidden, never the task itself and
// never a fake not-found (the HTTP layer may still shape the refusal as
// 404 depending on the configured denial mode).
func (s *TaskService) Get(
	ctx context.Context,
	claims *auth.Claims,
	id uuid.UUID,
) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !canAccessTask(claims, task) {
		s.logRefusal(ctx, claims, "get", id)
		return nil, ErrForbidden
	}

	return task, nil
}

// Delete removes a task by ID on behalf of the caller. Deleting a task
// that does not exist is a no-op, reported through the bool result. For
// user-role callers the ownership check and the delete run inside one
// transaction, so the row the decision was made on is the row removed.
func (s *TaskService) Delete(
	ctx context.Context,
	claims *auth.Claims,
	id uuid.UUID,
) (bool, error) {
	if claims.Role == domain.RoleAdmin {
		return s.tasks.Delete(ctx, id)
	}

	var deleted bool
	err := s.runTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		tasks := s.tasks.WithTx(tx)

		task, err := tasks.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// Nothing to delete; idempotent outcome, owned by nobody.
				return nil
			}
			return err
		}

		if task.OwnerID != claims.Subject {
			s.logRefusal(ctx, claims, "delete", id)
			return ErrForbidden
		}

		deleted, err = tasks.Delete(ctx, id)
		return err
	})
	if err != nil {
		return false, err
	}

	return deleted, nil
}

// Update applies a sparse field update to a task. Update is admin-only:
// owning a task does not grant the right to change it. An empty update is
// a no-op, not an error.
func (s *TaskService) Update(
	ctx context.Context,
	claims *auth.Claims,
	id uuid.UUID,
	update store.TaskUpdate,
) (bool, error) {
	if claims.Role != domain.RoleAdmin {
		s.logRefusal(ctx, claims, "update", id)
		return false, ErrForbidden
	}

	return s.tasks.Update(ctx, id, update)
}

// List returns tasks matching the filter, newest first. Listing across
// owners is admin-only.
func (s *TaskService) List(
	ctx context.Context,
	claims *auth.Claims,
	filter store.TaskFilter,
) ([]*domain.Task, error) {
	if claims.Role != domain.RoleAdmin {
		s.logRefusal(ctx, claims, "list", uuid.Nil)
		return nil, ErrForbidden
	}

	return s.tasks.List(ctx, filter)
}

// Analytics returns one owner's tasks of a given status inside a closed
// created-at interval. Admin-only, like List.
func (s *TaskService) Analytics(
	ctx context.Context,
	claims *auth.Claims,
	filter store.AnalyticsFilter,
) ([]*domain.Task, error) {
	if claims.Role != domain.RoleAdmin {
		s.logRefusal(ctx, claims, "analytics", uuid.Nil)
		return nil, ErrForbidden
	}

	return s.tasks.ListForAnalytics(ctx, filter)
}

// canAccessTask is the read/delete ownership rule: admins see everything,
// user-role callers see only what they own.
func canAccessTask(claims *auth.Claims, task *domain.Task) bool {
	if claims.Role == domain.RoleAdmin {
		return true
	}
	return task.OwnerID == claims.Subject
}

func (s *TaskService) logRefusal(
	ctx context.Context,
	claims *auth.Claims,
	operation string,
	taskID uuid.UUID,
) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	attrs := []any{
		slog.String("operation", operation),
		slog.String("subject", claims.Subject.String()),
		slog.String("role", string(claims.Role)),
	}
	if taskID != uuid.Nil {
		attrs = append(attrs, slog.String("task_id", taskID.String()))
	}

	log.Info("task operation refused", attrs...)
}
