// Package repository persists users and tasks. Every task query is scoped by
// the owning user's id.
package repository

import (
	"context"
	"errors"

	"task-manager/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

type UserRepository interface {
	// Create stores u and fills in its ID and timestamps. It returns
	// ErrDuplicate when the username is taken.
	Create(ctx context.Context, u *models.User) error
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

type TaskRepository interface {
	// Create stores t and fills in its ID and timestamps.
	Create(ctx context.Context, t *models.Task) error
	List(ctx context.Context, userID string, offset, limit int) ([]models.Task, error)
	FindByID(ctx context.Context, id, userID string) (*models.Task, error)
	// Update applies patch atomically and returns the updated task.
	Update(ctx context.Context, id, userID string, patch models.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, id, userID string) error
	// SearchByTitle matches title as a case-insensitive literal substring.
	SearchByTitle(ctx context.Context, userID, title string) ([]models.Task, error)
	Filter(ctx context.Context, userID string, filter models.TaskFilter) ([]models.Task, error)
}

// TaskCache is a best-effort cache of single tasks keyed by id. Misses and
// backend failures are indistinguishable to callers.
type TaskCache interface {
	Get(ctx context.Context, id string) (*models.Task, bool)
	Set(ctx context.Context, t *models.Task)
	Delete(ctx context.Context, id string)
}
