package repository

import (
	"context"
	"errors"

	"taskvault/internal/models"
)

var (
	ErrNotFound         = errors.New("task not found")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Attribute names of the task record. "text" and "done" clash with
// reserved words in some backends, so adapters must alias them rather
// than splice them into expressions directly.
const (
	FieldText      = "text"
	FieldDone      = "done"
	FieldUpdatedAt = "updatedAt"
)

// FieldUpdate is a single field assignment of an update. An update is an
// ordered list of these; a field absent from the list is left untouched.
type FieldUpdate struct {
	Field string
	Value any
}

func SetText(text string) FieldUpdate {
	return FieldUpdate{Field: FieldText, Value: text}
}

func SetDone(done bool) FieldUpdate {
	return FieldUpdate{Field: FieldDone, Value: done}
}

func TouchUpdatedAt(ts string) FieldUpdate {
	return FieldUpdate{Field: FieldUpdatedAt, Value: ts}
}

type TaskRepository interface {
	HealthCheck(ctx context.Context) error

	// GetItem returns ErrNotFound when no record has the given id.
	GetItem(ctx context.Context, id string) (*models.Task, error)

	// PutItem is an unconditional insert-or-replace.
	PutItem(ctx context.Context, t *models.Task) error

	// UpdateItem applies the assignments atomically to one record and
	// returns the post-update record.
	UpdateItem(ctx context.Context, id string, updates []FieldUpdate) (*models.Task, error)

	// ScanAll returns every stored record. Order is backend-defined.
	ScanAll(ctx context.Context) ([]*models.Task, error)

	// DeleteItem is unconditional; deleting an absent id is not an error.
	DeleteItem(ctx context.Context, id string) error
}
