package inmemory

import (
	"context"
	"sync"

	"taskvault/internal/models"
	repo "taskvault/internal/repository"
)

// TaskStorage keeps records in a map guarded by a RWMutex. Used for local
// runs and tests; mirrors the semantics of the dynamo storage, including
// update-creates-nothing being the caller's concern.
type TaskStorage struct {
	storage map[string]models.Task
	mtx     sync.RWMutex
	ids     []string
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[string]models.Task),
		ids:     []string{},
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	return nil
}

func (s *TaskStorage) GetItem(ctx context.Context, id string) (*models.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	t, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &t, nil
}

func (s *TaskStorage) PutItem(ctx context.Context, t *models.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, exists := s.storage[t.ID]; !exists {
		s.ids = append(s.ids, t.ID)
	}
	s.storage[t.ID] = *t
	return nil
}

func (s *TaskStorage) UpdateItem(ctx context.Context, id string, updates []repo.FieldUpdate) (*models.Task, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	// like the backend, an update against an absent key creates a
	// partial record; the service checks existence first
	t, exists := s.storage[id]
	if !exists {
		t = models.Task{ID: id}
		s.ids = append(s.ids, id)
	}

	for _, u := range updates {
		switch u.Field {
		case repo.FieldText:
			if text, ok := u.Value.(string); ok {
				t.Text = text
			}
		case repo.FieldDone:
			if done, ok := u.Value.(bool); ok {
				t.Done = done
			}
		case repo.FieldUpdatedAt:
			if ts, ok := u.Value.(string); ok {
				t.UpdatedAt = ts
			}
		}
	}

	s.storage[id] = t
	return &t, nil
}

func (s *TaskStorage) ScanAll(ctx context.Context) ([]*models.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]*models.Task, 0, len(s.ids))
	for _, id := range s.ids {
		t := s.storage[id]
		res = append(res, &t)
	}
	return res, nil
}

func (s *TaskStorage) DeleteItem(ctx context.Context, id string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, exists := s.storage[id]; !exists {
		return nil
	}

	delete(s.storage, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
	return nil
}
