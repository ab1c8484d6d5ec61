package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// ParseTaskStatus converts a raw string into a TaskStatus, rejecting
// unknown values.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return TaskStatus(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTaskStatus, s)
	}
}

// Common task validation errors.
var (
	ErrEmptyTaskID      = errors.New("task ID cannot be empty")
	ErrEmptyTaskOwner   = errors.New("task owner cannot be empty")
	ErrEmptyTitle       = errors.New("title cannot be empty")
	ErrEmptyDescription = errors.New("description cannot be empty")
)

// Task is a unit of work owned by exactly one user. Ownership is
// established at creation and never changes; it drives access decisions
// for user-role callers.
//
// Weather is an opaque JSON payload. The system stores and returns it
// verbatim without interpreting its structure.
type Task struct {
	ID          uuid.UUID       `json:"id"`
	OwnerID     uuid.UUID       `json:"user_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Status      TaskStatus      `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	City        *string         `json:"city,omitempty"`
	Weather     json.RawMessage `json:"weather,omitempty"`
}

// NewTask creates a Task with a fresh server-side ID. Any client-supplied
// ID is ignored: the repository always assigns its own. CreatedAt is
// accepted as-is from the caller and is not validated against the clock.
func NewTask(
	ownerID uuid.UUID,
	title, description string,
	status TaskStatus,
	createdAt time.Time,
	city *string,
	weather json.RawMessage,
) (*Task, error) {
	task := &Task{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Status:      status,
		CreatedAt:   createdAt,
		City:        city,
		Weather:     weather,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks that the Task carries the data required to persist it.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.OwnerID == uuid.Nil {
		return ErrEmptyTaskOwner
	}

	if t.Title == "" {
		return ErrEmptyTitle
	}

	if t.Description == "" {
		return ErrEmptyDescription
	}

	if _, err := ParseTaskStatus(string(t.Status)); err != nil {
		return err
	}

	if len(t.Weather) > 0 && !json.Valid(t.Weather) {
		return ErrInvalidWeather
	}

	return nil
}
