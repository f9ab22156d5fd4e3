package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/tasknest/tasknest-api/internal/domain"
)

// Sentinel filter value meaning "do not filter on this field".
const FilterAll = "all"

// Sort keys accepted by TaskFilter.SortBy. Any other value (including
// the empty string) falls back to SortCreatedAt.
const (
	SortCreatedAt = "createdAt"
	SortDueDate   = "dueDate"
	SortPriority  = "priority"
	SortTitle     = "title"
)

// TaskFilter carries the optional listing parameters for TaskStore.List.
// All fields hold the raw query-parameter values; empty strings and the
// FilterAll sentinel mean "no filter". Completed is tri-state: "true" and
// "false" filter exactly, anything else matches all tasks.
type TaskFilter struct {
	Search    string
	Category  string
	Priority  string
	Completed string
	SortBy    string
}

// TaskSummary holds the per-user aggregate counts returned by Summarize.
// Pending is always Total - Completed. The group maps omit empty groups.
type TaskSummary struct {
	Total      int            `json:"total"`
	Completed  int            `json:"completed"`
	Pending    int            `json:"pending"`
	ByPriority map[string]int `json:"byPriority"`
	ByCategory map[string]int `json:"byCategory"`
}

// TaskStore defines the interface for task data persistence.
// Every operation except Create takes the owning user's ID and applies it
// before any other predicate; a task that exists but belongs to another
// user is reported as ErrTaskNotFound.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID, scoped to the given owner.
	// Returns ErrTaskNotFound if the task does not exist or is not owned
	// by userID.
	GetByID(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)

	// List retrieves all of the owner's tasks matching the filter, in the
	// order requested by filter.SortBy. The full matching set is returned;
	// there is no pagination.
	List(ctx context.Context, userID uuid.UUID, filter TaskFilter) ([]*domain.Task, error)

	// Update replaces the stored fields of an existing task. The task's
	// UserID must be the owner; ownership itself is immutable.
	// Returns ErrTaskNotFound if the task does not exist or is not owned
	// by task.UserID.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task from the store, scoped to the given owner.
	// Deletion is immediate and unrecoverable.
	// Returns ErrTaskNotFound if the task does not exist or is not owned
	// by userID.
	Delete(ctx context.Context, userID, taskID uuid.UUID) error

	// ListCategories returns the distinct category values across the
	// owner's tasks, sorted lexicographically.
	ListCategories(ctx context.Context, userID uuid.UUID) ([]string, error)

	// ListTags returns the distinct tag values across the owner's tasks,
	// flattened and deduplicated in first-seen order.
	ListTags(ctx context.Context, userID uuid.UUID) ([]string, error)

	// Summarize computes the owner's aggregate task counts.
	Summarize(ctx context.Context, userID uuid.UUID) (*TaskSummary, error)
}
