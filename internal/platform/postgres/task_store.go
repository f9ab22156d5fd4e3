package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/platform/logger"
	"github.com/tasknest/tasknest-api/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask reads one task row in taskColumns order. Tags are stored as a
// JSONB array of strings.
func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task     domain.Task
		tagsJSON []byte
		dueDate  sql.NullTime
	)

	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.Completed,
		&task.Priority,
		&task.Category,
		&tagsJSON,
		&dueDate,
		&task.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Tags = []string{}
	if len(tagsJSON) > 0 {
		if err := json.Unmarshal(tagsJSON, &task.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode task tags: %w", err)
		}
	}

	if dueDate.Valid {
		t := dueDate.Time
		task.DueDate = &t
	}

	return &task, nil
}

// marshalTags encodes a tag slice for the JSONB column. A nil slice is
// stored as an empty array so reads never produce null.
func marshalTags(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	return json.Marshal(tags)
}

// Create implements store.TaskStore.Create
// It saves a new task to the database, handling domain validation.
// Returns store.ErrInvalidEntity if the owner does not exist.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	tagsJSON, err := marshalTags(task.Tags)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO tasks (id, user_id, title, description, completed, priority, category, tags, due_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.Completed,
		task.Priority,
		task.Category,
		tagsJSON,
		task.DueDate,
		task.CreatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during task creation",
				slog.String("task_id", task.ID.String()),
				slog.String("user_id", task.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, task.UserID)
		}

		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()),
			slog.String("user_id", task.UserID.String()))
		return MapError(err)
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", task.UserID.String()))
	return nil
}

// GetByID implements store.TaskStore.GetByID
// The owner predicate is part of the query, so a task owned by another
// user is indistinguishable from a missing one.
func (s *PostgresTaskStore) GetByID(
	ctx context.Context,
	userID, taskID uuid.UUID,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := "SELECT " + taskColumns + " FROM tasks WHERE user_id = $1 AND id = $2"

	task, err := scanTask(s.db.QueryRowContext(ctx, query, userID, taskID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found",
				slog.String("task_id", taskID.String()),
				slog.String("user_id", userID.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return nil, MapError(err)
	}

	return task, nil
}

// List implements store.TaskStore.List
// It returns the full matching set in the requested order; there is no
// pagination.
func (s *PostgresTaskStore) List(
	ctx context.Context,
	userID uuid.UUID,
	filter store.TaskFilter,
) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args := buildListQuery(userID, filter)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return tasks, nil
}

// Update implements store.TaskStore.Update
// It replaces all mutable fields of the task; partial-update semantics are
// resolved by the caller before this point. Ownership is part of the WHERE
// clause and never changes.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	tagsJSON, err := marshalTags(task.Tags)
	if err != nil {
		return err
	}

	query := `
		UPDATE tasks
		SET title = $3, description = $4, completed = $5, priority = $6, category = $7, tags = $8, due_date = $9
		WHERE user_id = $1 AND id = $2
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		task.UserID,
		task.ID,
		task.Title,
		task.Description,
		task.Completed,
		task.Priority,
		task.Category,
		tagsJSON,
		task.DueDate,
	)

	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		log.Debug("task not found for update",
			slog.String("task_id", task.ID.String()),
			slog.String("user_id", task.UserID.String()))
		return err
	}

	log.Info("task updated successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", task.UserID.String()))
	return nil
}

// Delete implements store.TaskStore.Delete
// Deletion is immediate and unrecoverable; there is no soft-delete.
func (s *PostgresTaskStore) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(
		ctx,
		"DELETE FROM tasks WHERE user_id = $1 AND id = $2",
		userID,
		taskID,
	)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		log.Debug("task not found for delete",
			slog.String("task_id", taskID.String()),
			slog.String("user_id", userID.String()))
		return err
	}

	log.Info("task deleted successfully",
		slog.String("task_id", taskID.String()),
		slog.String("user_id", userID.String()))
	return nil
}

// ListCategories implements store.TaskStore.ListCategories
func (s *PostgresTaskStore) ListCategories(
	ctx context.Context,
	userID uuid.UUID,
) ([]string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(
		ctx,
		"SELECT DISTINCT category FROM tasks WHERE user_id = $1 ORDER BY category ASC",
		userID,
	)
	if err != nil {
		log.Error("failed to list categories",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	categories := make([]string, 0)
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return categories, nil
}

// ListTags implements store.TaskStore.ListTags
// Tags are flattened in memory and deduplicated in first-seen order,
// matching the per-task ordering the owner entered.
func (s *PostgresTaskStore) ListTags(ctx context.Context, userID uuid.UUID) ([]string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(
		ctx,
		"SELECT tags FROM tasks WHERE user_id = $1 ORDER BY created_at ASC",
		userID,
	)
	if err != nil {
		log.Error("failed to list tags",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	seen := make(map[string]struct{})
	tags := make([]string, 0)
	for rows.Next() {
		var tagsJSON []byte
		if err := rows.Scan(&tagsJSON); err != nil {
			return nil, err
		}

		var taskTags []string
		if len(tagsJSON) > 0 {
			if err := json.Unmarshal(tagsJSON, &taskTags); err != nil {
				return nil, fmt.Errorf("failed to decode task tags: %w", err)
			}
		}

		for _, tag := range taskTags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return tags, nil
}

// Summarize implements store.TaskStore.Summarize
// Pending is derived as total minus completed so the three counts are
// always mutually consistent. Groups with zero tasks are omitted.
func (s *PostgresTaskStore) Summarize(
	ctx context.Context,
	userID uuid.UUID,
) (*store.TaskSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	summary := &store.TaskSummary{
		ByPriority: make(map[string]int),
		ByCategory: make(map[string]int),
	}

	err := s.db.QueryRowContext(
		ctx,
		"SELECT COUNT(*), COUNT(*) FILTER (WHERE completed) FROM tasks WHERE user_id = $1",
		userID,
	).Scan(&summary.Total, &summary.Completed)
	if err != nil {
		log.Error("failed to count tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	summary.Pending = summary.Total - summary.Completed

	if err := s.groupCounts(ctx, userID, "priority", summary.ByPriority); err != nil {
		return nil, err
	}
	if err := s.groupCounts(ctx, userID, "category", summary.ByCategory); err != nil {
		return nil, err
	}

	return summary, nil
}

// groupCounts fills dest with per-group counts of the owner's tasks,
// grouped by the given column. Output ordering is made deterministic by
// sorting groups by key.
func (s *PostgresTaskStore) groupCounts(
	ctx context.Context,
	userID uuid.UUID,
	column string,
	dest map[string]int,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// column is one of the fixed identifiers "priority" or "category",
	// never user input.
	query := fmt.Sprintf(
		"SELECT %s, COUNT(*) FROM tasks WHERE user_id = $1 GROUP BY %s ORDER BY %s ASC",
		column, column, column,
	)

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to group tasks",
			slog.String("error", err.Error()),
			slog.String("column", column),
			slog.String("user_id", userID.String()))
		return MapError(err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			key   string
			count int
		)
		if err := rows.Scan(&key, &count); err != nil {
			return err
		}
		dest[key] = count
	}

	return rows.Err()
}
