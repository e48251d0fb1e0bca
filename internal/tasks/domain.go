package tasks

import "time"

// Priority classifies task urgency.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Task is a unit of work owned by exactly one user. Every read and write
// is scoped by UserID; a task outside the caller's scope behaves as absent.
type Task struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	Priority    Priority   `json:"priority"`
	Tags        []string   `json:"tags"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Stats aggregates per-owner task counts.
type Stats struct {
	Total      int            `json:"total"`
	Completed  int            `json:"completed"`
	Open       int            `json:"open"`
	Overdue    int            `json:"overdue"`
	ByPriority map[string]int `json:"by_priority"`
}

// DueReminder pairs a due task with its owner's contact details for the
// reminder job.
type DueReminder struct {
	TaskID    int64
	Title     string
	DueDate   time.Time
	OwnerID   int64
	OwnerName string
	Email     string
}
