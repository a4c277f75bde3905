package entity

import (
	"time"
)

// TaskStatus is the lifecycle state of a task. The constant values are the
// wire form used in API payloads and in the tasks table.
type TaskStatus string

const (
	StatusTodo      TaskStatus = "To do"
	StatusDoing     TaskStatus = "Doing"
	StatusDone      TaskStatus = "Done"
	StatusCancelled TaskStatus = "Cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusDoing, StatusDone, StatusCancelled:
		return true
	}
	return false
}

// Task belongs to exactly one user. OwnerID is set on creation and never
// changes; every repository query combines it with the task id.
type Task struct {
	ID          int64
	OwnerID     int64
	Title       string
	Description string
	Status      TaskStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskPatch is a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
}
