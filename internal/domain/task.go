package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task validation errors
var (
	ErrTaskIDEmpty     = errors.New("task ID cannot be empty")
	ErrTaskUserIDEmpty = errors.New("task must belong to a user")
	ErrTaskTitleEmpty  = errors.New("task title cannot be empty")
	ErrInvalidPriority = errors.New("priority must be one of: low, medium, high")
)

// Priority is the urgency level of a task.
type Priority string

// Valid priority values, ordered from least to most urgent.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DefaultCategory is assigned to tasks created without an explicit category.
const DefaultCategory = "general"

// IsValid reports whether the priority is one of the known values.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Ordinal returns the sort weight of the priority, with high greatest.
// Unknown values sort below low.
func (p Priority) Ordinal() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Task represents a single to-do item owned by a user.
// The owning user is fixed at creation and never changes.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"userId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	Priority    Priority   `json:"priority"`
	Category    string     `json:"category"`
	Tags        []string   `json:"tags"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// NewTask creates a new Task owned by the given user with the given title.
// It generates a new UUID for the task ID and applies the field defaults:
// not completed, medium priority, the "general" category and no tags.
// Returns an error if validation fails.
func NewTask(userID uuid.UUID, title string) (*Task, error) {
	task := &Task{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     strings.TrimSpace(title),
		Priority:  PriorityMedium,
		Category:  DefaultCategory,
		Tags:      []string{},
		CreatedAt: time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTaskIDEmpty
	}

	if t.UserID == uuid.Nil {
		return ErrTaskUserIDEmpty
	}

	if strings.TrimSpace(t.Title) == "" {
		return ErrTaskTitleEmpty
	}

	if !t.Priority.IsValid() {
		return ErrInvalidPriority
	}

	return nil
}
