package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lazzydev/taskdeck-api/internal/domain"
)

// TaskUpdate is a sparse set of task fields to change. Nil fields are left
// untouched; they are never nulled out. The set of updatable fields is the
// fixed allow-list enforced by the store's SQL builder.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
	CreatedAt   *time.Time
	City        *string
	Weather     json.RawMessage
}

// IsEmpty reports whether the update would change nothing.
func (u TaskUpdate) IsEmpty() bool {
	return u.Title == nil &&
		u.Description == nil &&
		u.Status == nil &&
		u.CreatedAt == nil &&
		u.City == nil &&
		u.Weather == nil
}

// TaskFilter narrows a task listing. Each predicate is optional and
// independently combinable; the store ANDs whichever are present.
// CreatedAfter means "created at or after this instant".
type TaskFilter struct {
	Status       *domain.TaskStatus
	OwnerID      *uuid.UUID
	CreatedAfter *time.Time
}

// AnalyticsFilter selects one owner's tasks of a given status inside a
// closed created-at interval.
type AnalyticsFilter struct {
	OwnerID uuid.UUID
	Status  domain.TaskStatus
	From    time.Time
	To      time.Time
}

// TaskStore defines the interface for task data persistence. It performs
// no authorization: callers decide access before invoking it.
type TaskStore interface {
	// Create saves a new task. The task ID is assigned by the caller via
	// domain.NewTask; owners must reference an existing user or the store
	// returns ErrInvalidEntity.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Update applies a sparse field update to the task with the given ID.
	// An empty update is a no-op and returns (false, nil). Returns
	// ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, id uuid.UUID, update TaskUpdate) (bool, error)

	// Delete removes a task by ID. Deleting a nonexistent task is not an
	// error: the returned bool reports whether a row was actually removed.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// List returns tasks matching the filter, ordered by created_at
	// descending. The result is fully materialized; there is no cursor.
	List(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)

	// ListForAnalytics returns one owner's tasks of a given status created
	// inside the filter's [From, To] interval.
	ListForAnalytics(ctx context.Context, filter AnalyticsFilter) ([]*domain.Task, error)

	// WithTx returns a TaskStore bound to the provided transaction, so a
	// read-decide-act sequence can execute under one consistent view.
	// The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) TaskStore
}
