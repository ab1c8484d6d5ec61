package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazzydev/taskdeck-api/internal/domain"
	"github.com/lazzydev/taskdeck-api/internal/service/auth"
	"github.com/lazzydev/taskdeck-api/internal/store"
)

// fakeTaskStore is an in-memory TaskStore for policy unit testing. WithTx
// returns the same store while counting the calls, so tests can assert the
// ownership check and the mutation shared a transaction.
type fakeTaskStore struct {
	tasks   map[uuid.UUID]*domain.Task
	txCalls int
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[uuid.UUID]*domain.Task)}
}

func (s *fakeTaskStore) Create(_ context.Context, task *domain.Task) error {
	stored := *task
	s.tasks[task.ID] = &stored
	return nil
}

func (s *fakeTaskStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Task, error) {
	task, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	found := *task
	return &found, nil
}

func (s *fakeTaskStore) Update(_ context.Context, id uuid.UUID, update store.TaskUpdate) (bool, error) {
	if update.IsEmpty() {
		return false, nil
	}
	task, ok := s.tasks[id]
	if !ok {
		return false, store.ErrTaskNotFound
	}
	if update.Title != nil {
		task.Title = *update.Title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.Status != nil {
		task.Status = *update.Status
	}
	if update.CreatedAt != nil {
		task.CreatedAt = *update.CreatedAt
	}
	if update.City != nil {
		task.City = update.City
	}
	if update.Weather != nil {
		task.Weather = update.Weather
	}
	return true, nil
}

func (s *fakeTaskStore) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := s.tasks[id]
	delete(s.tasks, id)
	return ok, nil
}

func (s *fakeTaskStore) List(_ context.Context, filter store.TaskFilter) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, task := range s.tasks {
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		if filter.OwnerID != nil && task.OwnerID != *filter.OwnerID {
			continue
		}
		if filter.CreatedAfter != nil && task.CreatedAt.Before(*filter.CreatedAfter) {
			continue
		}
		found := *task
		out = append(out, &found)
	}
	return out, nil
}

func (s *fakeTaskStore) ListForAnalytics(ctx context.Context, filter store.AnalyticsFilter) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, task := range s.tasks {
		if task.OwnerID != filter.OwnerID || task.Status != filter.Status {
			continue
		}
		if task.CreatedAt.Before(filter.From) || task.CreatedAt.After(filter.To) {
			continue
		}
		found := *task
		out = append(out, &found)
	}
	return out, nil
}

func (s *fakeTaskStore) WithTx(_ *sql.Tx) store.TaskStore {
	s.txCalls++
	return s
}

// newTestTaskService wires a TaskService onto the fake store with a
// pass-through transaction runner, so no database is needed.
func newTestTaskService(tasks *fakeTaskStore) *TaskService {
	return &TaskService{
		tasks:  tasks,
		logger: slog.Default().With(slog.String("component", "task_service")),
		runTx: func(ctx context.Context, _ *sql.DB, fn store.TxFn) error {
			return fn(ctx, nil)
		},
	}
}

func adminClaims() *auth.Claims {
	return &auth.Claims{Subject: uuid.New(), Role: domain.RoleAdmin}
}

func userClaims(id uuid.UUID) *auth.Claims {
	return &auth.Claims{Subject: id, Role: domain.RoleUser}
}

func seedTask(t *testing.T, tasks *fakeTaskStore, owner uuid.UUID) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(
		owner,
		"write report",
		"quarterly numbers",
		domain.TaskStatusTodo,
		time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		nil,
		nil,
	)
	require.NoError(t, err)
	require.NoError(t, tasks.Create(context.Background(), task))
	return task
}

func TestNewTaskService(t *testing.T) {
	t.Parallel()

	t.Run("nil db panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() {
			NewTaskService(nil, newFakeTaskStore(), nil)
		})
	})

	t.Run("nil store panics", func(t *testing.T) {
		t.Parallel()
		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		assert.Panics(t, func() {
			NewTaskService(db, nil, nil)
		})
	})
}

func TestTaskServiceCreate(t *testing.T) {
	t.Parallel()

	t.Run("owner is always the caller", func(t *testing.T) {
		t.Parallel()
		tasks := newFakeTaskStore()
		svc := newTestTaskService(tasks)
		caller := userClaims(uuid.New())

		city := "Berlin"
		task, err := svc.Create(context.Background(), caller, CreateTaskInput{
			Title:       "buy milk",
			Description: "two liters",
			Status:      domain.TaskStatusTodo,
			CreatedAt:   time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
			City:        &city,
			Weather:     json.RawMessage(`{"temp": 21.5}`),
		})
		require.NoError(t, err)

		assert.Equal(t, caller.Subject, task.OwnerID)
		assert.NotEqual(t, uuid.Nil, task.ID)

		stored, err := tasks.GetByID(context.Background(), task.ID)
		require.NoError(t, err)
		assert.Equal(t, caller.Subject, stored.OwnerID)
		assert.JSONEq(t, `{"temp": 21.5}`, string(stored.Weather))
	})

	t.Run("invalid input is rejected before the store", func(t *testing.T) {
		t.Parallel()
		tasks := newFakeTaskStore()
		svc := newTestTaskService(tasks)

		_, err := svc.Create(context.Background(), userClaims(uuid.New()), CreateTaskInput{
			Title:       "",
			Description: "no title",
			Status:      domain.TaskStatusTodo,
			CreatedAt:   time.Now(),
		})
		assert.ErrorIs(t, err, domain.ErrEmptyTitle)
		assert.Empty(t, tasks.tasks)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		t.Parallel()
		svc := newTestTaskService(newFakeTaskStore())

		_, err := svc.Create(context.Background(), userClaims(uuid.New()), CreateTaskInput{
			Title:       "buy milk",
			Description: "two liters",
			Status:      domain.TaskStatus("someday"),
			CreatedAt:   time.Now(),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidTaskStatus)
	})
}

func TestTaskServiceGet(t *testing.T) {
	t.Parallel()

	t.Run("admin reads any task", func(t *testing.T) {
		t.Parallel()
		tasks := newFakeTaskStore()
		svc := newTestTaskService(tasks)
		task := seedTask(t, tasks, uuid.New())

		got, err := svc.Get(context.Background(), adminClaims(), task.ID)
		require.NoError(t, err)
		assert.Equal(t, task.ID, got.ID)
	})

	t.Run("user reads own task", func(t *testing.T) {
		t.Parallel()
		tasks := newFakeTaskStore()
		svc := newTestTaskService(tasks)
		owner := uuid.New()
		task := seedTask(t, tasks, owner)

		got, err := svc.Get(context.Background(), userClaims(owner), task.ID)
		require.NoError(t, err)
		assert.Equal(t, task.ID, got.ID)
	})

	t.Run("user is refused another owner's task", func(t *testing.T) {
		t.Parallel()
		tasks := newFakeTaskStore()
		svc := newTestTaskService(tasks)
		task := seedTask(t, tasks, uuid.New())

		got, err := svc.Get(context.Background(), userClaims(uuid.New()), task.ID)
		assert.ErrorIs(t, err, ErrForbidden)
		assert.Nil(t, got)
	})

	t.Run("missing task is not found for everyone", func(t *testing.T) {
		t.Parallel()
		svc := newTestTaskService(newFakeTaskStore())

		_, err := svc.Get(context.Background(), adminClaims(), uuid.New())
		assert.ErrorIs(t, err, store.ErrTaskNotFound)

		_, err = svc.Get(context.Background(), userClaims(uuid.New()), uuid.New())
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestTaskServiceDelete(t *testing.T) {
	t.Parallel()

	t.Run("admin deletes any task", func(t *testing.T) {
		t.Parallel()
		tasks := newFakeTaskStore()
		svc := newTestTaskService(tasks)
		task := seedTask(t, tasks, uuid.New())

		deleted, err := svc.Delete(context.Background(), adminClaims(), task.ID)
		require.NoError(t, err)
		assert.True(t, deleted)
		assert.Empty(t, tasks.tasks)
	})

	t.Run("admin deleting a missing task is a no-op", func(t *testing.T) {
		t.Parallel()
		svc := newTestTaskService(newFakeTaskStore())

		deleted, err := svc.Delete(context.Background(), adminClaims(), uuid.New())
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("owner deletes own task under a transaction", func(t *testing.T) {
		t.Parallel()
		tasks := newFakeTaskStore()
		svc := newTestTaskService(tasks)
		owner := uuid.New()
		task := seedTask(t, tasks, owner)

		deleted, err := svc.Delete(context.Background(), userClaims(owner), task.ID)
		require.NoError(t, err)
		assert.True(t, deleted)
		assert.Empty(t, tasks.tasks)
		assert.Equal(t, 1, tasks.txCalls)
	})

	t.Run("user is refused another owner's task", func(t *testing.T) {
		t.Parallel()
		tasks := newFakeTaskStore()
		svc := newTestTaskService(tasks)
		task := seedTask(t, tasks, uuid.New())

		deleted, err := svc.Delete(context.Background(), userClaims(uuid.New()), task.ID)
		assert.ErrorIs(t, err, ErrForbidden)
		assert.False(t, deleted)
		assert.Len(t, tasks.tasks, 1)
	})

	t.Run("user deleting a missing task is a no-op", func(t *testing.T) {
		t.Parallel()
		svc := newTestTaskService(newFakeTaskStore())

		deleted, err := svc.Delete(context.Background(), userClaims(uuid.New()), uuid.New())
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}

func TestTaskServiceUpdate(t *testing.T) {
	t.Parallel()

	t.Run("admin updates any task", func(t *testing.T) {
		t.Parallel()
		tasks := newFakeTaskStore()
		svc := newTestTaskService(tasks)
		task := seedTask(t, tasks, uuid.New())

		status := domain.TaskStatusDone
		updated, err := svc.Update(context.Background(), adminClaims(), task.ID, store.TaskUpdate{
			Status: &status,
		})
		require.NoError(t, err)
		assert.True(t, updated)

		stored, err := tasks.GetByID(context.Background(), task.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusDone, stored.Status)
	})

	t.Run("ownership does not grant update rights", func(t *testing.T) {
		t.Parallel()
		tasks := newFakeTaskStore()
		svc := newTestTaskService(tasks)
		owner := uuid.New()
		task := seedTask(t, tasks, owner)

		status := domain.TaskStatusDone
		updated, err := svc.Update(context.Background(), userClaims(owner), task.ID, store.TaskUpdate{
			Status: &status,
		})
		assert.ErrorIs(t, err, ErrForbidden)
		assert.False(t, updated)

		stored, err := tasks.GetByID(context.Background(), task.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusTodo, stored.Status)
	})

	t.Run("empty update is a no-op", func(t *testing.T) {
		t.Parallel()
		tasks := newFakeTaskStore()
		svc := newTestTaskService(tasks)
		task := seedTask(t, tasks, uuid.New())

		updated, err := svc.Update(context.Background(), adminClaims(), task.ID, store.TaskUpdate{})
		require.NoError(t, err)
		assert.False(t, updated)
	})

	t.Run("missing task is reported", func(t *testing.T) {
		t.Parallel()
		svc := newTestTaskService(newFakeTaskStore())

		title := "renamed"
		_, err := svc.Update(context.Background(), adminClaims(), uuid.New(), store.TaskUpdate{
			Title: &title,
		})
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestTaskServiceList(t *testing.T) {
	t.Parallel()

	t.Run("admin lists across owners", func(t *testing.T) {
		t.Parallel()
		tasks := newFakeTaskStore()
		svc := newTestTaskService(tasks)
		seedTask(t, tasks, uuid.New())
		seedTask(t, tasks, uuid.New())

		got, err := svc.List(context.Background(), adminClaims(), store.TaskFilter{})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("user is refused", func(t *testing.T) {
		t.Parallel()
		tasks := newFakeTaskStore()
		svc := newTestTaskService(tasks)
		owner := uuid.New()
		seedTask(t, tasks, owner)

		got, err := svc.List(context.Background(), userClaims(owner), store.TaskFilter{})
		assert.ErrorIs(t, err, ErrForbidden)
		assert.Nil(t, got)
	})
}

func TestTaskServiceAnalytics(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	filter := store.AnalyticsFilter{
		OwnerID: owner,
		Status:  domain.TaskStatusTodo,
		From:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		To:      time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	}

	t.Run("admin queries any owner", func(t *testing.T) {
		t.Parallel()
		tasks := newFakeTaskStore()
		svc := newTestTaskService(tasks)
		seedTask(t, tasks, owner)
		seedTask(t, tasks, uuid.New())

		got, err := svc.Analytics(context.Background(), adminClaims(), filter)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("user is refused even for own tasks", func(t *testing.T) {
		t.Parallel()
		tasks := newFakeTaskStore()
		svc := newTestTaskService(tasks)
		seedTask(t, tasks, owner)

		_, err := svc.Analytics(context.Background(), userClaims(owner), filter)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}
