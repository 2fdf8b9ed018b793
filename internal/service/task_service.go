package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskvault/internal/logger"
	"taskvault/internal/models"
	repo "taskvault/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TaskService owns the domain verbs. Not-found is reported as a
// BusinessError; backend failures pass through wrapped in
// repository.ErrStoreUnavailable for the handlers to sanitize.
type TaskService struct {
	repo repo.TaskRepository
}

func NewTaskService(repository repo.TaskRepository) TaskService {
	return TaskService{
		repo: repository,
	}
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	return s.repo.HealthCheck(ctx)
}

func (s *TaskService) Create(ctx context.Context, text string) (*models.Task, error) {
	// single clock read, so createdAt == updatedAt on a fresh record
	now := models.EpochMillis(time.Now())
	t := &models.Task{
		ID:        uuid.NewString(),
		Text:      text,
		Done:      false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.PutItem(ctx, t); err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	logger.Info("Service: task created", zap.String("task_id", t.ID))
	return t, nil
}

// Fetch returns (nil, nil) when no task has the given id; absence is a
// normal result here, not a failure.
func (s *TaskService) Fetch(ctx context.Context, id string) (*models.Task, error) {
	t, err := s.repo.GetItem(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetching task: %w", err)
	}
	return t, nil
}

func (s *TaskService) List(ctx context.Context) ([]*models.Task, error) {
	tasks, err := s.repo.ScanAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	if tasks == nil {
		tasks = []*models.Task{}
	}
	return tasks, nil
}

// Modify applies a partial update. A nil text or done leaves the field
// untouched; updatedAt is refreshed on every accepted call, even when
// both are nil.
func (s *TaskService) Modify(ctx context.Context, id string, text *string, done *bool) (*models.Task, error) {
	// the backend silently creates a record on update of an absent key,
	// so existence is checked here
	if _, err := s.repo.GetItem(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: task not found", zap.String("task_id", id))
			return nil, NewNotFound("task", id)
		}
		return nil, fmt.Errorf("checking task: %w", err)
	}

	updates := make([]repo.FieldUpdate, 0, 3)
	if text != nil {
		updates = append(updates, repo.SetText(*text))
	}
	if done != nil {
		updates = append(updates, repo.SetDone(*done))
	}
	updates = append(updates, repo.TouchUpdatedAt(models.EpochMillis(time.Now())))

	updated, err := s.repo.UpdateItem(ctx, id, updates)
	if err != nil {
		return nil, fmt.Errorf("updating task: %w", err)
	}

	logger.Info("Service: task updated",
		zap.String("task_id", id),
		zap.Int("assignments", len(updates)))
	return updated, nil
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	// the store-level delete is idempotent; the existence check exists
	// only to report not-found to the caller
	if _, err := s.repo.GetItem(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: task not found", zap.String("task_id", id))
			return NewNotFound("task", id)
		}
		return fmt.Errorf("checking task: %w", err)
	}

	if err := s.repo.DeleteItem(ctx, id); err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}

	logger.Info("Service: task deleted", zap.String("task_id", id))
	return nil
}
