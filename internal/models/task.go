package models

import (
	"time"

	"github.com/gofrs/uuid"
)

const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

// Task is owned transitively through its parent project. ProjectID is set at
// creation and never reassigned.
type Task struct {
	ID          uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description"`
	ProjectID   uuid.UUID `json:"project" gorm:"type:uuid;not null;index"`
	Status      string    `json:"status" gorm:"not null;default:'todo'"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsValidTaskStatus reports whether s is one of the task status literals.
func IsValidTaskStatus(s string) bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}
