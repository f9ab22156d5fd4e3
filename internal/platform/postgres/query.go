package postgres

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tasknest/tasknest-api/internal/store"
)

// taskColumns is the canonical column list for task queries. Scan order in
// scanTask must match.
const taskColumns = "id, user_id, title, description, completed, priority, category, tags, due_date, created_at"

// buildListQuery translates a task filter into a SQL query and its
// arguments. The owner predicate is always first and non-optional; every
// other predicate is appended only when its filter is active. The literal
// "all" is the sentinel for "no filter" on category and priority, and the
// completed filter only applies for the exact strings "true" and "false".
func buildListQuery(userID uuid.UUID, f store.TaskFilter) (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT " + taskColumns + " FROM tasks WHERE user_id = $1")
	args := []any{userID}

	// Case-insensitive substring match over title, description and tags.
	if f.Search != "" {
		args = append(args, "%"+escapeLike(f.Search)+"%")
		n := len(args)
		sb.WriteString(fmt.Sprintf(
			" AND (title ILIKE $%d OR description ILIKE $%d"+
				" OR EXISTS (SELECT 1 FROM jsonb_array_elements_text(tags) AS tag WHERE tag ILIKE $%d))",
			n, n, n,
		))
	}

	if f.Category != "" && f.Category != store.FilterAll {
		args = append(args, f.Category)
		sb.WriteString(fmt.Sprintf(" AND category = $%d", len(args)))
	}

	if f.Priority != "" && f.Priority != store.FilterAll {
		args = append(args, f.Priority)
		sb.WriteString(fmt.Sprintf(" AND priority = $%d", len(args)))
	}

	// Tri-state: any value other than "true"/"false" means no filter.
	switch f.Completed {
	case "true":
		sb.WriteString(" AND completed = TRUE")
	case "false":
		sb.WriteString(" AND completed = FALSE")
	}

	switch f.SortBy {
	case store.SortDueDate:
		sb.WriteString(" ORDER BY due_date ASC NULLS LAST, created_at DESC")
	case store.SortPriority:
		sb.WriteString(
			" ORDER BY CASE priority WHEN 'high' THEN 3 WHEN 'medium' THEN 2 WHEN 'low' THEN 1 ELSE 0 END DESC, created_at DESC",
		)
	case store.SortTitle:
		sb.WriteString(" ORDER BY title ASC")
	default:
		sb.WriteString(" ORDER BY created_at DESC")
	}

	return sb.String(), args
}

// escapeLike escapes the LIKE metacharacters in a user-supplied search
// term so they match literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
