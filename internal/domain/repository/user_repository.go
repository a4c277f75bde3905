package repository

import (
	"context"

	"github.com/taskhive/taskhive/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
// Create must fail with entity-specific duplicate errors when the username or
// email is already taken, even under concurrent registration.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}
