package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/taskhive/taskhive/internal/domain/entity"
	"github.com/taskhive/taskhive/internal/domain/repository"
	"github.com/taskhive/taskhive/internal/infrastructure/memory"
)

func newUser(username, email string) *entity.User {
	return &entity.User{
		Username:     username,
		Email:        email,
		PasswordHash: "x",
		IsActive:     true,
	}
}

func TestUserRepository_Create(t *testing.T) {
	repo := memory.NewUserRepository()
	ctx := context.Background()

	u := newUser("alice", "alice@example.com")
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID == 0 {
		t.Fatal("expected user ID to be set after create")
	}
	if u.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set")
	}
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	repo := memory.NewUserRepository()
	ctx := context.Background()

	if err := repo.Create(ctx, newUser("alice", "alice@example.com")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err := repo.Create(ctx, newUser("alice", "other@example.com"))
	if !errors.Is(err, repository.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	repo := memory.NewUserRepository()
	ctx := context.Background()

	if err := repo.Create(ctx, newUser("alice", "alice@example.com")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err := repo.Create(ctx, newUser("bob", "alice@example.com"))
	if !errors.Is(err, repository.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestUserRepository_GetByUsername(t *testing.T) {
	repo := memory.NewUserRepository()
	ctx := context.Background()

	u := newUser("alice", "alice@example.com")
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := repo.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if found.ID != u.ID || found.Email != u.Email {
		t.Fatalf("unexpected user: %+v", found)
	}

	if _, err := repo.GetByUsername(ctx, "nobody"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	repo := memory.NewUserRepository()
	if _, err := repo.GetByID(context.Background(), 99999); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
