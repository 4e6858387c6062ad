package repository

import (
	"context"

	"github.com/yukikurage/task-tracker-api/internal/models"
)

// TaskRepository defines the interface for task data access.
// Every lookup and mutation is scoped to the owning user; a task owned by
// someone else behaves exactly like a missing one (gorm.ErrRecordNotFound).
type TaskRepository interface {
	// FindByID finds a task by ID among the tasks owned by ownerID
	FindByID(ctx context.Context, ownerID, id uint64) (*models.Task, error)

	// FindByOwner lists all tasks owned by ownerID, oldest first
	FindByOwner(ctx context.Context, ownerID uint64) ([]models.Task, error)

	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// Update writes every mutable column of task, restricted to task.UserID
	Update(ctx context.Context, task *models.Task) error

	// Delete permanently deletes a task owned by ownerID
	Delete(ctx context.Context, ownerID, id uint64) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// Store hands out repositories bound to one database handle and runs units
// of work atomically.
type Store interface {
	Users() UserRepository
	Tasks() TaskRepository

	// Transaction runs fn with a Store bound to a single transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
