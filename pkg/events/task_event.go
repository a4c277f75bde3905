// Package events defines the JSON payloads exchanged over RabbitMQ between
// the API server and the indexer worker.
package events

import "time"

// Task event actions.
const (
	TaskCreated = "task.created"
	TaskUpdated = "task.updated"
	TaskDeleted = "task.deleted"
)

// TaskEvent is published on every task mutation. For deletions only ID,
// OwnerID, and Action are meaningful.
type TaskEvent struct {
	EventID     string    `json:"event_id"`
	Action      string    `json:"action"`
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}
