package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrTitleRequired   = errors.New("title is required")
	ErrTitleEmpty      = errors.New("title cannot be empty")
	ErrTitleTooLong    = fmt.Errorf("title must be at most %d characters", constants.MaxTaskTitleLength)
	ErrInvalidStatus   = errors.New("status must be one of todo, in_progress, done")
	ErrInvalidPriority = errors.New("priority must be one of low, medium, high")
)

// TaskService handles task business logic. Every method takes the id of the
// authenticated user and only ever sees that user's tasks.
type TaskService struct {
	store repository.Store
	now   func() time.Time
}

// NewTaskService creates a new TaskService
func NewTaskService(store repository.Store) *TaskService {
	return &TaskService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// CreateTaskInput represents input for creating a task. Empty Status and
// Priority select the defaults.
type CreateTaskInput struct {
	Title       *string
	Description string
	Status      string
	Priority    string
	DueDate     *time.Time
}

// UpdateTaskInput represents input for updating a task. Nil fields are left
// untouched; ClearDueDate removes the due date.
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	Status       *string
	Priority     *string
	DueDate      *time.Time
	ClearDueDate bool
}

// ListTasks returns all tasks owned by the user
func (s *TaskService) ListTasks(ctx context.Context, ownerID uint64) ([]models.Task, error) {
	var tasks []models.Task
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		tasks, err = tx.Tasks().FindByOwner(ctx, ownerID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// GetTask returns one of the user's tasks
func (s *TaskService) GetTask(ctx context.Context, ownerID, taskID uint64) (*models.Task, error) {
	var task *models.Task
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		task, err = findOwnedTask(ctx, tx, ownerID, taskID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return task, nil
}

// CreateTask validates the input, applies defaults and stores a new task
func (s *TaskService) CreateTask(ctx context.Context, ownerID uint64, input CreateTaskInput) (*models.Task, error) {
	if input.Title == nil {
		return nil, ErrTitleRequired
	}
	title, err := validateTitle(*input.Title)
	if err != nil {
		if errors.Is(err, ErrTitleEmpty) {
			return nil, ErrTitleRequired
		}
		return nil, err
	}

	status := models.TaskStatusTodo
	if input.Status != "" {
		if status, err = parseStatus(input.Status); err != nil {
			return nil, err
		}
	}

	priority := models.TaskPriorityMedium
	if input.Priority != "" {
		if priority, err = parsePriority(input.Priority); err != nil {
			return nil, err
		}
	}

	now := s.now()
	task := &models.Task{
		Title:       title,
		Description: input.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     input.DueDate,
		UserID:      ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		return tx.Tasks().Create(ctx, task)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// UpdateTask applies the fields present in input to one of the user's
// tasks. The updated timestamp is refreshed even when nothing else changes.
func (s *TaskService) UpdateTask(ctx context.Context, ownerID, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	var task *models.Task
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		task, err = findOwnedTask(ctx, tx, ownerID, taskID)
		if err != nil {
			return err
		}

		if input.Title != nil {
			title, err := validateTitle(*input.Title)
			if err != nil {
				return err
			}
			task.Title = title
		}
		if input.Description != nil {
			task.Description = *input.Description
		}
		if input.Status != nil {
			if task.Status, err = parseStatus(*input.Status); err != nil {
				return err
			}
		}
		if input.Priority != nil {
			if task.Priority, err = parsePriority(*input.Priority); err != nil {
				return err
			}
		}
		if input.ClearDueDate {
			task.DueDate = nil
		} else if input.DueDate != nil {
			task.DueDate = input.DueDate
		}
		task.UpdatedAt = s.now()

		if err := tx.Tasks().Update(ctx, task); err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return task, nil
}

// DeleteTask permanently deletes one of the user's tasks
func (s *TaskService) DeleteTask(ctx context.Context, ownerID, taskID uint64) error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		return tx.Tasks().Delete(ctx, ownerID, taskID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// findOwnedTask maps a missing or foreign task onto ErrTaskNotFound
func findOwnedTask(ctx context.Context, tx repository.Store, ownerID, taskID uint64) (*models.Task, error) {
	task, err := tx.Tasks().FindByID(ctx, ownerID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrTitleEmpty
	}
	if len([]rune(title)) > constants.MaxTaskTitleLength {
		return "", ErrTitleTooLong
	}
	return title, nil
}

func parseStatus(s string) (models.TaskStatus, error) {
	status, ok := models.ParseTaskStatus(s)
	if !ok {
		return "", ErrInvalidStatus
	}
	return status, nil
}

func parsePriority(s string) (models.TaskPriority, error) {
	priority, ok := models.ParseTaskPriority(s)
	if !ok {
		return "", ErrInvalidPriority
	}
	return priority, nil
}
