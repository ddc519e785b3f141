package models

import "time"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID          string     `firestore:"id" json:"id"`
	Title       string     `firestore:"title" json:"title"`
	Description *string    `firestore:"description" json:"description"`
	Completed   bool       `firestore:"completed" json:"completed"`
	CategoryID  *string    `firestore:"categoryId" json:"categoryId"`
	OwnerID     string     `firestore:"userId" json:"userId"`
	Priority    Priority   `firestore:"priority" json:"priority"`
	DueDate     *time.Time `firestore:"dueDate" json:"dueDate,omitempty"`
	CreatedAt   time.Time  `firestore:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time  `firestore:"updatedAt" json:"updatedAt"`
}

type CreateTaskData struct {
	Title       string
	Description *string
	CategoryID  *string
	// Priority defaults to medium when empty.
	Priority Priority
	DueDate  *time.Time
}

// UpdateTaskData is a partial patch: nil fields are left untouched.
type UpdateTaskData struct {
	Title       *string
	Description *string
	Completed   *bool
	CategoryID  *string
	Priority    *Priority
	DueDate     *time.Time
}
