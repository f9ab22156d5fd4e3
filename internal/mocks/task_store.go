package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing. The default
// implementation keeps tasks in memory and mirrors the owner scoping and
// filter semantics of the real store, so handler tests can exercise the
// full request paths without a database.
type MockTaskStore struct {
	// Function fields for customizable behavior
	CreateFn         func(ctx context.Context, task *domain.Task) error
	GetByIDFn        func(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)
	ListFn           func(ctx context.Context, userID uuid.UUID, filter store.TaskFilter) ([]*domain.Task, error)
	UpdateFn         func(ctx context.Context, task *domain.Task) error
	DeleteFn         func(ctx context.Context, userID, taskID uuid.UUID) error
	ListCategoriesFn func(ctx context.Context, userID uuid.UUID) ([]string, error)
	ListTagsFn       func(ctx context.Context, userID uuid.UUID) ([]string, error)
	SummarizeFn      func(ctx context.Context, userID uuid.UUID) (*store.TaskSummary, error)

	// Forced error for all default operations
	Err error

	mu    sync.Mutex
	tasks []*domain.Task
}

// NewMockTaskStore creates a new mock store with initialized defaults
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{}
}

// Seed inserts tasks directly, bypassing validation.
func (m *MockTaskStore) Seed(tasks ...*domain.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, tasks...)
}

// Create implements the store.TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	if m.Err != nil {
		return m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, task)
	return nil
}

// GetByID implements the store.TaskStore interface
func (m *MockTaskStore) GetByID(
	ctx context.Context,
	userID, taskID uuid.UUID,
) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, userID, taskID)
	}
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tasks {
		if t.ID == taskID && t.UserID == userID {
			return t, nil
		}
	}
	return nil, store.ErrTaskNotFound
}

// List implements the store.TaskStore interface
func (m *MockTaskStore) List(
	ctx context.Context,
	userID uuid.UUID,
	filter store.TaskFilter,
) ([]*domain.Task, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, userID, filter)
	}
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	matched := make([]*domain.Task, 0)
	for _, t := range m.tasks {
		if t.UserID == userID && matchesFilter(t, filter) {
			matched = append(matched, t)
		}
	}
	sortTasks(matched, filter.SortBy)
	return matched, nil
}

// Update implements the store.TaskStore interface
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}
	if m.Err != nil {
		return m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.tasks {
		if t.ID == task.ID && t.UserID == task.UserID {
			m.tasks[i] = task
			return nil
		}
	}
	return store.ErrTaskNotFound
}

// Delete implements the store.TaskStore interface
func (m *MockTaskStore) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, taskID)
	}
	if m.Err != nil {
		return m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.tasks {
		if t.ID == taskID && t.UserID == userID {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return nil
		}
	}
	return store.ErrTaskNotFound
}

// ListCategories implements the store.TaskStore interface
func (m *MockTaskStore) ListCategories(
	ctx context.Context,
	userID uuid.UUID,
) ([]string, error) {
	if m.ListCategoriesFn != nil {
		return m.ListCategoriesFn(ctx, userID)
	}
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]bool)
	categories := make([]string, 0)
	for _, t := range m.tasks {
		if t.UserID == userID && !seen[t.Category] {
			seen[t.Category] = true
			categories = append(categories, t.Category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

// ListTags implements the store.TaskStore interface
func (m *MockTaskStore) ListTags(ctx context.Context, userID uuid.UUID) ([]string, error) {
	if m.ListTagsFn != nil {
		return m.ListTagsFn(ctx, userID)
	}
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]bool)
	tags := make([]string, 0)
	for _, t := range m.tasks {
		if t.UserID != userID {
			continue
		}
		for _, tag := range t.Tags {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	return tags, nil
}

// Summarize implements the store.TaskStore interface
func (m *MockTaskStore) Summarize(
	ctx context.Context,
	userID uuid.UUID,
) (*store.TaskSummary, error) {
	if m.SummarizeFn != nil {
		return m.SummarizeFn(ctx, userID)
	}
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	summary := &store.TaskSummary{
		ByPriority: make(map[string]int),
		ByCategory: make(map[string]int),
	}
	for _, t := range m.tasks {
		if t.UserID != userID {
			continue
		}
		summary.Total++
		if t.Completed {
			summary.Completed++
		}
		summary.ByPriority[string(t.Priority)]++
		summary.ByCategory[t.Category]++
	}
	summary.Pending = summary.Total - summary.Completed
	return summary, nil
}

func matchesFilter(t *domain.Task, f store.TaskFilter) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		hit := strings.Contains(strings.ToLower(t.Title), needle) ||
			strings.Contains(strings.ToLower(t.Description), needle)
		for _, tag := range t.Tags {
			if strings.Contains(strings.ToLower(tag), needle) {
				hit = true
			}
		}
		if !hit {
			return false
		}
	}
	if f.Category != "" && f.Category != store.FilterAll && t.Category != f.Category {
		return false
	}
	if f.Priority != "" && f.Priority != store.FilterAll && string(t.Priority) != f.Priority {
		return false
	}
	switch f.Completed {
	case "true":
		if !t.Completed {
			return false
		}
	case "false":
		if t.Completed {
			return false
		}
	}
	return true
}

func sortTasks(tasks []*domain.Task, sortBy string) {
	switch sortBy {
	case store.SortDueDate:
		sort.SliceStable(tasks, func(i, j int) bool {
			a, b := tasks[i].DueDate, tasks[j].DueDate
			switch {
			case a == nil && b == nil:
				return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
			case a == nil:
				return false
			case b == nil:
				return true
			case a.Equal(*b):
				return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
			default:
				return a.Before(*b)
			}
		})
	case store.SortPriority:
		sort.SliceStable(tasks, func(i, j int) bool {
			pi, pj := tasks[i].Priority.Ordinal(), tasks[j].Priority.Ordinal()
			if pi == pj {
				return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
			}
			return pi > pj
		})
	case store.SortTitle:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].Title < tasks[j].Title
		})
	default:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		})
	}
}
