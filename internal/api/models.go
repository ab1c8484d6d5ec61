package api

import (
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/lazzydev/taskdeck-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Role     string `json:"role"     validate:"required,oneof=admin user"`
	Password string `json:"password" validate:"required,max=72"`
}

// RegisterResponse mirrors the long-standing registration contract:
// a status string plus details on failure, always delivered with a 200.
type RegisterResponse struct {
	Status  string `json:"status"`
	Details string `json:"details,omitempty"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse defines the successful response for the login endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// CreateTaskRequest defines the payload for creating a task. CreatedAt is
// a client-supplied instant in seconds since epoch, accepted as-is.
// Any client-supplied id is ignored; the server always assigns one.
type CreateTaskRequest struct {
	Title       string          `json:"title"       validate:"required"`
	Description string          `json:"description" validate:"required"`
	Status      string          `json:"status"      validate:"required,oneof=todo in_progress done"`
	CreatedAt   float64         `json:"created_at"  validate:"required"`
	City        *string         `json:"city,omitempty"`
	Weather     json.RawMessage `json:"weather,omitempty"`
}

// TaskResponse is the wire representation of a task. CreatedAt is seconds
// since epoch, matching the creation contract.
type TaskResponse struct {
	ID          uuid.UUID       `json:"id"`
	OwnerID     uuid.UUID       `json:"user_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	CreatedAt   float64         `json:"created_at"`
	City        *string         `json:"city,omitempty"`
	Weather     json.RawMessage `json:"weather,omitempty"`
}

// DeleteTaskResponse reports whether a row was actually removed.
type DeleteTaskResponse struct {
	Deleted bool `json:"deleted"`
}

// UpdateTaskResponse reports whether any fields were changed. An empty
// update yields updated=false without error.
type UpdateTaskResponse struct {
	Updated bool `json:"updated"`
}

// NewTaskResponse converts a domain task to its wire representation.
func NewTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		OwnerID:     task.OwnerID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		CreatedAt:   timeToEpoch(task.CreatedAt),
		City:        task.City,
		Weather:     task.Weather,
	}
}

// NewTaskListResponse converts a slice of domain tasks, preserving order.
func NewTaskListResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, len(tasks))
	for i, task := range tasks {
		out[i] = NewTaskResponse(task)
	}
	return out
}

// epochToTime converts client-supplied seconds since epoch to a UTC instant.
func epochToTime(seconds float64) time.Time {
	sec, frac := math.Modf(seconds)
	return time.Unix(int64(sec), int64(frac*float64(time.Second))).UTC()
}

// timeToEpoch converts an instant to seconds since epoch.
func timeToEpoch(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
