package repository

import (
	"context"

	"github.com/taskhive/taskhive/internal/domain/entity"
)

// TaskRepository defines owner-scoped task storage. Every method takes the
// owner id as a mandatory filter; a task that exists but belongs to another
// owner is indistinguishable from one that does not exist.
type TaskRepository interface {
	List(ctx context.Context, ownerID int64) ([]entity.Task, error)
	Get(ctx context.Context, ownerID, taskID int64) (*entity.Task, error)
	Create(ctx context.Context, t *entity.Task) error
	// Update applies the non-nil patch fields and refreshes UpdatedAt in a
	// single atomic write. It returns the updated task.
	Update(ctx context.Context, ownerID, taskID int64, patch entity.TaskPatch) (*entity.Task, error)
	Delete(ctx context.Context, ownerID, taskID int64) error
}
