package tasks

import "time"

type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required,min=1,max=200"`
	Description string     `json:"description" validate:"max=2000"`
	Completed   bool       `json:"completed"`
	Priority    Priority   `json:"priority" validate:"omitempty,oneof=low medium high"`
	Tags        []string   `json:"tags" validate:"max=20,dive,min=1,max=50"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	Completed   *bool      `json:"completed,omitempty"`
	Priority    *Priority  `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	Tags        []string   `json:"tags,omitempty" validate:"omitempty,max=20,dive,min=1,max=50"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// ListTasksRequest carries owner-scoped listing filters. OwnerID is always
// stamped from the bound identity, never from client input.
type ListTasksRequest struct {
	OwnerID   int64
	Query     *string
	Completed *bool
	Priority  *Priority
	Tags      []string
	Sort      string
	Page      int
	Limit     int
}
