package models

import (
	"strings"
	"time"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

type Task struct {
	ID          uint64       `gorm:"primarykey" json:"id"`
	Title       string       `gorm:"type:varchar(200);not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'todo'" json:"status"`
	Priority    TaskPriority `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	DueDate     *time.Time   `json:"due_date"`
	UserID      uint64       `gorm:"not null" json:"user_id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// ParseTaskStatus normalises s and reports whether it names a known status.
// "in-progress" is accepted as an alias of in_progress.
func ParseTaskStatus(s string) (TaskStatus, bool) {
	status := TaskStatus(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	switch status {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return status, true
	}
	return "", false
}

// ParseTaskPriority normalises s and reports whether it names a known priority.
func ParseTaskPriority(s string) (TaskPriority, bool) {
	priority := TaskPriority(strings.ToLower(strings.TrimSpace(s)))
	switch priority {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return priority, true
	}
	return "", false
}
