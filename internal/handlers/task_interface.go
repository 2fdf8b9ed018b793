package handlers

import (
	"context"

	"taskvault/internal/models"
)

type TaskService interface {
	Create(ctx context.Context, text string) (*models.Task, error)
	Fetch(ctx context.Context, id string) (*models.Task, error)
	List(ctx context.Context) ([]*models.Task, error)
	Modify(ctx context.Context, id string, text *string, done *bool) (*models.Task, error)
	Delete(ctx context.Context, id string) error
	HealthCheck(ctx context.Context) error
}
