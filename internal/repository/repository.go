package repository

import (
	"context"

	"github.com/yukikurage/game-event-planner/internal/models"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create inserts a task and fills in its generated ID
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID regardless of owner
	FindByID(ctx context.Context, id uint64) (*models.Task, error)

	// ListByUser returns the user's tasks ordered by start date ascending
	ListByUser(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error)

	// Update applies the given column values to an existing task
	Update(ctx context.Context, id uint64, fields map[string]any) error

	// Delete removes a task, reporting whether a row was removed
	Delete(ctx context.Context, id uint64) (bool, error)
}

// TaskFilter holds listing options for a user's tasks
type TaskFilter struct {
	UserID uint64
	// Limit <= 0 returns every task
	Limit  int
	Offset int
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create inserts a user and fills in its generated ID
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByUsername finds a user by exact username
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}
