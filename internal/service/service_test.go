package service_test

import (
	"context"
	"errors"
	"os"
	"strconv"
	"testing"
	"time"

	"taskvault/internal/logger"
	"taskvault/internal/models"
	"taskvault/internal/repository"
	"taskvault/internal/repository/task/inmemory"
	"taskvault/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init(true)
	os.Exit(m.Run())
}

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTaskRepository) GetItem(ctx context.Context, id string) (*models.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskRepository) PutItem(ctx context.Context, t *models.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) UpdateItem(ctx context.Context, id string, updates []repository.FieldUpdate) (*models.Task, error) {
	args := m.Called(ctx, id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskRepository) ScanAll(ctx context.Context) ([]*models.Task, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Task), args.Error(1)
}

func (m *MockTaskRepository) DeleteItem(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ repository.TaskRepository = (*MockTaskRepository)(nil)

func TestTaskService_Create(t *testing.T) {
	t.Run("success - new record with defaults", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)

		var stored *models.Task
		mockRepo.On("PutItem", mock.Anything, mock.AnythingOfType("*models.Task")).
			Run(func(args mock.Arguments) {
				stored = args.Get(1).(*models.Task)
			}).
			Return(nil)

		svc := service.NewTaskService(mockRepo)
		created, err := svc.Create(context.Background(), "buy milk")
		require.NoError(t, err)

		assert.Equal(t, "buy milk", created.Text)
		assert.False(t, created.Done)
		assert.Equal(t, created.CreatedAt, created.UpdatedAt)

		_, err = uuid.Parse(created.ID)
		assert.NoError(t, err)

		_, err = strconv.ParseInt(created.CreatedAt, 10, 64)
		assert.NoError(t, err)

		assert.Same(t, created, stored)
		mockRepo.AssertExpectations(t)
	})

	t.Run("error - store failure surfaces", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("PutItem", mock.Anything, mock.Anything).
			Return(repository.ErrStoreUnavailable)

		svc := service.NewTaskService(mockRepo)
		_, err := svc.Create(context.Background(), "buy milk")

		assert.ErrorIs(t, err, repository.ErrStoreUnavailable)
		mockRepo.AssertExpectations(t)
	})
}

func TestTaskService_Fetch(t *testing.T) {
	taskID := uuid.NewString()

	tests := []struct {
		name      string
		setupMock func(*MockTaskRepository)
		wantTask  bool
		wantErr   bool
	}{
		{
			name: "success - record found",
			setupMock: func(m *MockTaskRepository) {
				m.On("GetItem", mock.Anything, taskID).
					Return(&models.Task{ID: taskID, Text: "buy milk"}, nil)
			},
			wantTask: true,
		},
		{
			name: "absent - nil without error",
			setupMock: func(m *MockTaskRepository) {
				m.On("GetItem", mock.Anything, taskID).
					Return(nil, repository.ErrNotFound)
			},
		},
		{
			name: "error - store failure",
			setupMock: func(m *MockTaskRepository) {
				m.On("GetItem", mock.Anything, taskID).
					Return(nil, repository.ErrStoreUnavailable)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			tt.setupMock(mockRepo)

			svc := service.NewTaskService(mockRepo)
			got, err := svc.Fetch(context.Background(), taskID)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			if tt.wantTask {
				require.NotNil(t, got)
				assert.Equal(t, taskID, got.ID)
			} else {
				assert.Nil(t, got)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestTaskService_List(t *testing.T) {
	t.Run("success - all records decoded", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("ScanAll", mock.Anything).
			Return([]*models.Task{
				{ID: uuid.NewString(), Text: "one"},
				{ID: uuid.NewString(), Text: "two"},
			}, nil)

		svc := service.NewTaskService(mockRepo)
		tasks, err := svc.List(context.Background())

		require.NoError(t, err)
		assert.Len(t, tasks, 2)
	})

	t.Run("success - empty store yields empty slice", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("ScanAll", mock.Anything).
			Return([]*models.Task{}, nil)

		svc := service.NewTaskService(mockRepo)
		tasks, err := svc.List(context.Background())

		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	})

	t.Run("error - store failure", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("ScanAll", mock.Anything).
			Return(nil, repository.ErrStoreUnavailable)

		svc := service.NewTaskService(mockRepo)
		_, err := svc.List(context.Background())

		assert.ErrorIs(t, err, repository.ErrStoreUnavailable)
	})
}

func TestTaskService_Modify(t *testing.T) {
	taskID := uuid.NewString()
	newText := "walk dog"
	done := true

	existing := &models.Task{ID: taskID, Text: "buy milk"}

	tests := []struct {
		name         string
		text         *string
		done         *bool
		checkUpdates func(*testing.T, []repository.FieldUpdate)
	}{
		{
			name: "text only",
			text: &newText,
			checkUpdates: func(t *testing.T, updates []repository.FieldUpdate) {
				require.Len(t, updates, 2)
				assert.Equal(t, repository.FieldText, updates[0].Field)
				assert.Equal(t, newText, updates[0].Value)
				assert.Equal(t, repository.FieldUpdatedAt, updates[1].Field)
			},
		},
		{
			name: "done only",
			done: &done,
			checkUpdates: func(t *testing.T, updates []repository.FieldUpdate) {
				require.Len(t, updates, 2)
				assert.Equal(t, repository.FieldDone, updates[0].Field)
				assert.Equal(t, true, updates[0].Value)
				assert.Equal(t, repository.FieldUpdatedAt, updates[1].Field)
			},
		},
		{
			name: "text and done",
			text: &newText,
			done: &done,
			checkUpdates: func(t *testing.T, updates []repository.FieldUpdate) {
				require.Len(t, updates, 3)
				assert.Equal(t, repository.FieldText, updates[0].Field)
				assert.Equal(t, repository.FieldDone, updates[1].Field)
				assert.Equal(t, repository.FieldUpdatedAt, updates[2].Field)
			},
		},
		{
			name: "neither - still touches updatedAt",
			checkUpdates: func(t *testing.T, updates []repository.FieldUpdate) {
				require.Len(t, updates, 1)
				assert.Equal(t, repository.FieldUpdatedAt, updates[0].Field)
				ts, ok := updates[0].Value.(string)
				require.True(t, ok)
				_, err := strconv.ParseInt(ts, 10, 64)
				assert.NoError(t, err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			mockRepo.On("GetItem", mock.Anything, taskID).Return(existing, nil)

			var gotUpdates []repository.FieldUpdate
			mockRepo.On("UpdateItem", mock.Anything, taskID, mock.Anything).
				Run(func(args mock.Arguments) {
					gotUpdates = args.Get(2).([]repository.FieldUpdate)
				}).
				Return(&models.Task{ID: taskID}, nil)

			svc := service.NewTaskService(mockRepo)
			updated, err := svc.Modify(context.Background(), taskID, tt.text, tt.done)

			require.NoError(t, err)
			require.NotNil(t, updated)
			tt.checkUpdates(t, gotUpdates)
			mockRepo.AssertExpectations(t)
		})
	}

	t.Run("error - task not found", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("GetItem", mock.Anything, taskID).
			Return(nil, repository.ErrNotFound)

		svc := service.NewTaskService(mockRepo)
		_, err := svc.Modify(context.Background(), taskID, &newText, nil)

		var businessErr *service.BusinessError
		require.ErrorAs(t, err, &businessErr)
		assert.Equal(t, service.CodeNotFound, businessErr.Code)
		mockRepo.AssertNotCalled(t, "UpdateItem", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("error - store failure on existence check", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("GetItem", mock.Anything, taskID).
			Return(nil, repository.ErrStoreUnavailable)

		svc := service.NewTaskService(mockRepo)
		_, err := svc.Modify(context.Background(), taskID, &newText, nil)

		assert.ErrorIs(t, err, repository.ErrStoreUnavailable)
	})

	t.Run("error - store failure on update", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("GetItem", mock.Anything, taskID).Return(existing, nil)
		mockRepo.On("UpdateItem", mock.Anything, taskID, mock.Anything).
			Return(nil, repository.ErrStoreUnavailable)

		svc := service.NewTaskService(mockRepo)
		_, err := svc.Modify(context.Background(), taskID, &newText, nil)

		assert.ErrorIs(t, err, repository.ErrStoreUnavailable)
	})
}

func TestTaskService_Delete(t *testing.T) {
	taskID := uuid.NewString()

	t.Run("success", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("GetItem", mock.Anything, taskID).
			Return(&models.Task{ID: taskID}, nil)
		mockRepo.On("DeleteItem", mock.Anything, taskID).Return(nil)

		svc := service.NewTaskService(mockRepo)
		err := svc.Delete(context.Background(), taskID)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("error - task not found", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("GetItem", mock.Anything, taskID).
			Return(nil, repository.ErrNotFound)

		svc := service.NewTaskService(mockRepo)
		err := svc.Delete(context.Background(), taskID)

		var businessErr *service.BusinessError
		require.ErrorAs(t, err, &businessErr)
		assert.Equal(t, service.CodeNotFound, businessErr.Code)
		mockRepo.AssertNotCalled(t, "DeleteItem", mock.Anything, mock.Anything)
	})

	t.Run("error - store failure", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("GetItem", mock.Anything, taskID).
			Return(&models.Task{ID: taskID}, nil)
		mockRepo.On("DeleteItem", mock.Anything, taskID).
			Return(repository.ErrStoreUnavailable)

		svc := service.NewTaskService(mockRepo)
		err := svc.Delete(context.Background(), taskID)

		assert.ErrorIs(t, err, repository.ErrStoreUnavailable)
	})
}

// TestTaskService_Lifecycle walks a record through the whole lifecycle
// against the real in-memory store.
func TestTaskService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	svc := service.NewTaskService(inmemory.NewTaskStorage())

	created, err := svc.Create(ctx, "buy milk")
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.False(t, created.Done)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	fetched, err := svc.Fetch(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, *created, *fetched)

	tasks, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)

	time.Sleep(2 * time.Millisecond)

	done := true
	updated, err := svc.Modify(ctx, created.ID, nil, &done)
	require.NoError(t, err)
	assert.True(t, updated.Done)
	assert.Equal(t, "buy milk", updated.Text)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	before, err := strconv.ParseInt(created.UpdatedAt, 10, 64)
	require.NoError(t, err)
	after, err := strconv.ParseInt(updated.UpdatedAt, 10, 64)
	require.NoError(t, err)
	assert.Greater(t, after, before)

	require.NoError(t, svc.Delete(ctx, created.ID))

	gone, err := svc.Fetch(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestTaskService_HealthCheck(t *testing.T) {
	tests := []struct {
		name        string
		setupMock   func(*MockTaskRepository)
		expectError bool
	}{
		{
			name: "success",
			setupMock: func(m *MockTaskRepository) {
				m.On("HealthCheck", mock.Anything).Return(nil)
			},
		},
		{
			name: "error - store down",
			setupMock: func(m *MockTaskRepository) {
				m.On("HealthCheck", mock.Anything).Return(errors.New("connection failed"))
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			tt.setupMock(mockRepo)

			svc := service.NewTaskService(mockRepo)
			err := svc.HealthCheck(context.Background())

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}
