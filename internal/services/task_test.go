package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/task-tracker/internal/errs"
	"github.com/magabrotheeeer/task-tracker/internal/lib/cipher"
	"github.com/magabrotheeeer/task-tracker/internal/models"
)

type TaskRepoMock struct{ mock.Mock }

func (m *TaskRepoMock) CreateTask(ctx context.Context, task models.Task) error {
	return m.Called(ctx, task).Error(0)
}
func (m *TaskRepoMock) ReadTask(ctx context.Context, id string) (*models.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}
func (m *TaskRepoMock) UpdateTask(ctx context.Context, task models.Task) (int, error) {
	args := m.Called(ctx, task)
	return args.Int(0), args.Error(1)
}
func (m *TaskRepoMock) RemoveTask(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}
func (m *TaskRepoMock) ListTasks(ctx context.Context, filter models.TaskFilter) ([]*models.Task, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Task), args.Int(1), args.Error(2)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newTestCipher(t *testing.T) *cipher.Cipher {
	t.Helper()
	c, err := cipher.New(bytes.Repeat([]byte{0x42}, cipher.KeySize))
	require.NoError(t, err)
	return c
}

func storedTask(t *testing.T, c *cipher.Cipher, id, ownerUID, plaintext string) *models.Task {
	t.Helper()
	envelope, err := c.Encrypt(plaintext)
	require.NoError(t, err)
	return &models.Task{
		ID:          id,
		Title:       "stored title",
		Description: envelope,
		Status:      models.StatusTodo,
		OwnerUID:    ownerUID,
		CreatedDate: time.Now().UTC(),
	}
}

func TestTaskService_Create(t *testing.T) {
	c := newTestCipher(t)

	tests := []struct {
		name       string
		req        models.DummyTask
		wantStatus string
	}{
		{
			name:       "status defaults to TODO",
			req:        models.DummyTask{Title: "buy milk", Description: "two liters"},
			wantStatus: models.StatusTodo,
		},
		{
			name:       "explicit status kept",
			req:        models.DummyTask{Title: "write report", Description: "for friday", Status: models.StatusInProgress},
			wantStatus: models.StatusInProgress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(TaskRepoMock)
			cacheMock := new(CacheMock)

			var savedEnvelope string
			repo.On("CreateTask", mock.Anything, mock.MatchedBy(func(task models.Task) bool {
				savedEnvelope = task.Description
				return task.Title == tt.req.Title &&
					task.Status == tt.wantStatus &&
					task.OwnerUID == "owner-1" &&
					task.ID != "" &&
					task.Description != tt.req.Description
			})).Return(nil).Once()
			cacheMock.On("Set", mock.Anything, mock.Anything, time.Hour).Return(nil).Once()

			svc := NewTaskService(repo, cacheMock, c, newNoopLogger())
			task, err := svc.Create(context.Background(), "owner-1", tt.req)

			require.NoError(t, err)
			// Наружу уходит открытый текст, в хранилище — конверт.
			assert.Equal(t, tt.req.Description, task.Description)
			plaintext, err := c.Decrypt(savedEnvelope)
			require.NoError(t, err)
			assert.Equal(t, tt.req.Description, plaintext)

			repo.AssertExpectations(t)
			cacheMock.AssertExpectations(t)
		})
	}
}

func TestTaskService_Get(t *testing.T) {
	c := newTestCipher(t)
	stored := storedTask(t, c, "task-1", "owner-1", "secret plan")

	tests := []struct {
		name       string
		ownerUID   string
		setupMocks func(r *TaskRepoMock, cm *CacheMock)
		wantErr    error
		wantText   string
	}{
		{
			name:     "success on cache miss",
			ownerUID: "owner-1",
			setupMocks: func(r *TaskRepoMock, cm *CacheMock) {
				cm.On("Get", "task:task-1", mock.Anything).Return(false, nil).Once()
				r.On("ReadTask", mock.Anything, "task-1").Return(stored, nil).Once()
				cm.On("Set", "task:task-1", stored, time.Hour).Return(nil).Once()
			},
			wantText: "secret plan",
		},
		{
			name:     "success on cache hit",
			ownerUID: "owner-1",
			setupMocks: func(_ *TaskRepoMock, cm *CacheMock) {
				cm.On("Get", "task:task-1", mock.Anything).
					Run(func(args mock.Arguments) {
						ptr := args.Get(1).(**models.Task)
						*ptr = stored
					}).
					Return(true, nil).Once()
			},
			wantText: "secret plan",
		},
		{
			name:     "foreign task is forbidden",
			ownerUID: "intruder",
			setupMocks: func(r *TaskRepoMock, cm *CacheMock) {
				cm.On("Get", "task:task-1", mock.Anything).Return(false, nil).Once()
				r.On("ReadTask", mock.Anything, "task-1").Return(stored, nil).Once()
				cm.On("Set", "task:task-1", stored, time.Hour).Return(nil).Once()
			},
			wantErr: errs.ErrForbidden,
		},
		{
			name:     "missing task",
			ownerUID: "owner-1",
			setupMocks: func(r *TaskRepoMock, cm *CacheMock) {
				cm.On("Get", "task:task-1", mock.Anything).Return(false, nil).Once()
				r.On("ReadTask", mock.Anything, "task-1").Return(nil, errs.ErrTaskNotFound).Once()
			},
			wantErr: errs.ErrTaskNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(TaskRepoMock)
			cacheMock := new(CacheMock)
			tt.setupMocks(repo, cacheMock)

			svc := NewTaskService(repo, cacheMock, c, newNoopLogger())
			task, err := svc.Get(context.Background(), tt.ownerUID, "task-1")

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				assert.Nil(t, task)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantText, task.Description)
			}
			repo.AssertExpectations(t)
			cacheMock.AssertExpectations(t)
		})
	}
}

func TestTaskService_Update(t *testing.T) {
	c := newTestCipher(t)

	strPtr := func(s string) *string { return &s }

	tests := []struct {
		name      string
		patch     models.DummyTaskUpdate
		wantTitle string
		wantText  string
		wantState string
	}{
		{
			name:      "full patch",
			patch:     models.DummyTaskUpdate{Title: strPtr("  new title  "), Description: strPtr("new plan"), Status: strPtr(models.StatusDone)},
			wantTitle: "new title",
			wantText:  "new plan",
			wantState: models.StatusDone,
		},
		{
			name:      "nil fields keep stored values",
			patch:     models.DummyTaskUpdate{Status: strPtr(models.StatusInProgress)},
			wantTitle: "stored title",
			wantText:  "secret plan",
			wantState: models.StatusInProgress,
		},
		{
			name:      "empty description keeps stored envelope",
			patch:     models.DummyTaskUpdate{Title: strPtr("renamed"), Description: strPtr("")},
			wantTitle: "renamed",
			wantText:  "secret plan",
			wantState: models.StatusTodo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored := storedTask(t, c, "task-1", "owner-1", "secret plan")

			repo := new(TaskRepoMock)
			cacheMock := new(CacheMock)
			cacheMock.On("Get", "task:task-1", mock.Anything).Return(false, nil).Once()
			repo.On("ReadTask", mock.Anything, "task-1").Return(stored, nil).Once()
			cacheMock.On("Set", "task:task-1", mock.Anything, time.Hour).Return(nil).Twice()

			var savedTask models.Task
			repo.On("UpdateTask", mock.Anything, mock.MatchedBy(func(task models.Task) bool {
				savedTask = task
				return task.ID == "task-1"
			})).Return(1, nil).Once()

			svc := NewTaskService(repo, cacheMock, c, newNoopLogger())
			task, err := svc.Update(context.Background(), "owner-1", "task-1", tt.patch)

			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, task.Title)
			assert.Equal(t, tt.wantText, task.Description)
			assert.Equal(t, tt.wantState, task.Status)

			// В хранилище всегда уходит конверт, не открытый текст.
			plaintext, err := c.Decrypt(savedTask.Description)
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, plaintext)

			repo.AssertExpectations(t)
			cacheMock.AssertExpectations(t)
		})
	}
}

func TestTaskService_Update_Forbidden(t *testing.T) {
	c := newTestCipher(t)
	stored := storedTask(t, c, "task-1", "owner-1", "secret plan")

	repo := new(TaskRepoMock)
	cacheMock := new(CacheMock)
	cacheMock.On("Get", "task:task-1", mock.Anything).Return(false, nil).Once()
	repo.On("ReadTask", mock.Anything, "task-1").Return(stored, nil).Once()
	cacheMock.On("Set", "task:task-1", stored, time.Hour).Return(nil).Once()

	svc := NewTaskService(repo, cacheMock, c, newNoopLogger())
	title := "hijacked"
	task, err := svc.Update(context.Background(), "intruder", "task-1", models.DummyTaskUpdate{Title: &title})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrForbidden))
	assert.Nil(t, task)
	repo.AssertNotCalled(t, "UpdateTask", mock.Anything, mock.Anything)
}

func TestTaskService_Remove(t *testing.T) {
	c := newTestCipher(t)
	stored := storedTask(t, c, "task-1", "owner-1", "secret plan")

	tests := []struct {
		name       string
		ownerUID   string
		setupMocks func(r *TaskRepoMock, cm *CacheMock)
		wantErr    error
	}{
		{
			name:     "success remove",
			ownerUID: "owner-1",
			setupMocks: func(r *TaskRepoMock, cm *CacheMock) {
				cm.On("Get", "task:task-1", mock.Anything).Return(false, nil).Once()
				r.On("ReadTask", mock.Anything, "task-1").Return(stored, nil).Once()
				cm.On("Set", "task:task-1", stored, time.Hour).Return(nil).Once()
				cm.On("Invalidate", "task:task-1").Return(nil).Once()
				r.On("RemoveTask", mock.Anything, "task-1").Return(1, nil).Once()
			},
		},
		{
			name:     "foreign task is forbidden",
			ownerUID: "intruder",
			setupMocks: func(r *TaskRepoMock, cm *CacheMock) {
				cm.On("Get", "task:task-1", mock.Anything).Return(false, nil).Once()
				r.On("ReadTask", mock.Anything, "task-1").Return(stored, nil).Once()
				cm.On("Set", "task:task-1", stored, time.Hour).Return(nil).Once()
			},
			wantErr: errs.ErrForbidden,
		},
		{
			name:     "missing task",
			ownerUID: "owner-1",
			setupMocks: func(r *TaskRepoMock, cm *CacheMock) {
				cm.On("Get", "task:task-1", mock.Anything).Return(false, nil).Once()
				r.On("ReadTask", mock.Anything, "task-1").Return(nil, errs.ErrTaskNotFound).Once()
			},
			wantErr: errs.ErrTaskNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(TaskRepoMock)
			cacheMock := new(CacheMock)
			tt.setupMocks(repo, cacheMock)

			svc := NewTaskService(repo, cacheMock, c, newNoopLogger())
			err := svc.Remove(context.Background(), tt.ownerUID, "task-1")

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				repo.AssertNotCalled(t, "RemoveTask", mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
			}
			repo.AssertExpectations(t)
			cacheMock.AssertExpectations(t)
		})
	}
}

func TestTaskService_Remove_StorageErrorKeepsCache(t *testing.T) {
	c := newTestCipher(t)
	stored := storedTask(t, c, "task-1", "owner-1", "secret plan")

	repo := new(TaskRepoMock)
	cacheMock := new(CacheMock)
	cacheMock.On("Get", "task:task-1", mock.Anything).Return(false, nil).Once()
	repo.On("ReadTask", mock.Anything, "task-1").Return(stored, nil).Once()
	cacheMock.On("Set", "task:task-1", stored, time.Hour).Return(nil).Once()
	repo.On("RemoveTask", mock.Anything, "task-1").Return(0, errors.New("connection reset")).Once()

	svc := NewTaskService(repo, cacheMock, c, newNoopLogger())
	err := svc.Remove(context.Background(), "owner-1", "task-1")

	require.Error(t, err)
	// Строка всё ещё в базе, её кэшированная копия тоже должна остаться.
	cacheMock.AssertNotCalled(t, "Invalidate", mock.Anything)
	repo.AssertExpectations(t)
	cacheMock.AssertExpectations(t)
}

func TestTaskService_List(t *testing.T) {
	c := newTestCipher(t)

	tests := []struct {
		name       string
		page       int
		limit      int
		total      int
		returned   int
		wantPages  int
		wantOffset int
	}{
		{name: "first page full", page: 1, limit: 5, total: 12, returned: 5, wantPages: 3, wantOffset: 0},
		{name: "last page partial", page: 3, limit: 5, total: 12, returned: 2, wantPages: 3, wantOffset: 10},
		{name: "page beyond data is empty", page: 9, limit: 5, total: 12, returned: 0, wantPages: 3, wantOffset: 40},
		{name: "empty set", page: 1, limit: 10, total: 0, returned: 0, wantPages: 0, wantOffset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := make([]*models.Task, 0, tt.returned)
			for i := 0; i < tt.returned; i++ {
				items = append(items, storedTask(t, c, "task-1", "owner-1", "plan"))
			}

			repo := new(TaskRepoMock)
			cacheMock := new(CacheMock)
			repo.On("ListTasks", mock.Anything, mock.MatchedBy(func(f models.TaskFilter) bool {
				return f.OwnerUID == "owner-1" && f.Limit == tt.limit && f.Offset == tt.wantOffset
			})).Return(items, tt.total, nil).Once()

			svc := NewTaskService(repo, cacheMock, c, newNoopLogger())
			tasks, pagination, err := svc.List(context.Background(), "owner-1", tt.page, tt.limit, nil, nil)

			require.NoError(t, err)
			require.NotNil(t, tasks)
			assert.Len(t, tasks, tt.returned)
			for _, task := range tasks {
				assert.Equal(t, "plan", task.Description)
			}
			assert.Equal(t, tt.page, pagination.Page)
			assert.Equal(t, tt.limit, pagination.Limit)
			assert.Equal(t, tt.total, pagination.Total)
			assert.Equal(t, tt.wantPages, pagination.TotalPages)
			repo.AssertExpectations(t)
		})
	}
}

func TestTaskService_List_PassesFilters(t *testing.T) {
	c := newTestCipher(t)
	status := models.StatusDone
	search := "milk"

	repo := new(TaskRepoMock)
	cacheMock := new(CacheMock)
	repo.On("ListTasks", mock.Anything, mock.MatchedBy(func(f models.TaskFilter) bool {
		return f.Status != nil && *f.Status == status &&
			f.Search != nil && *f.Search == search
	})).Return([]*models.Task{}, 0, nil).Once()

	svc := NewTaskService(repo, cacheMock, c, newNoopLogger())
	_, _, err := svc.List(context.Background(), "owner-1", 1, 10, &status, &search)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}
