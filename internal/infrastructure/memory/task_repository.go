package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/taskhive/taskhive/internal/domain/entity"
	"github.com/taskhive/taskhive/internal/domain/repository"
)

type TaskRepository struct {
	mu     sync.RWMutex
	nextID int64
	tasks  map[int64]entity.Task
}

func NewTaskRepository() *TaskRepository {
	return &TaskRepository{tasks: make(map[int64]entity.Task)}
}

func (r *TaskRepository) List(_ context.Context, ownerID int64) ([]entity.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []entity.Task{}
	for _, t := range r.tasks {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	// ids are monotonic, so this is creation order
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *TaskRepository) Get(_ context.Context, ownerID, taskID int64) (*entity.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[taskID]
	if !ok || t.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	cp := t
	return &cp, nil
}

func (r *TaskRepository) Create(_ context.Context, t *entity.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	t.ID = r.nextID
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	r.tasks[t.ID] = *t
	return nil
}

func (r *TaskRepository) Update(_ context.Context, ownerID, taskID int64, patch entity.TaskPatch) (*entity.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[taskID]
	if !ok || t.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}

	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	now := time.Now()
	if !now.After(t.UpdatedAt) {
		now = t.UpdatedAt.Add(time.Nanosecond)
	}
	t.UpdatedAt = now

	r.tasks[taskID] = t
	cp := t
	return &cp, nil
}

func (r *TaskRepository) Delete(_ context.Context, ownerID, taskID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[taskID]
	if !ok || t.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(r.tasks, taskID)
	return nil
}

var _ repository.TaskRepository = (*TaskRepository)(nil)
