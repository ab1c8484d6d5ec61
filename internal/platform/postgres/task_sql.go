package postgres

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lazzydev/taskdeck-api/internal/store"
)

// taskColumns is the SELECT list shared by every task query.
const taskColumns = "id, user_id, title, description, status, created_at, city, weather"

// Updatable task fields, in the order their SET fragments are emitted.
// Column identifiers come exclusively from this allow-list; request input
// only ever reaches the database as bound parameters.
var taskUpdateColumns = []string{"title", "description", "status", "created_at", "city", "weather"}

// buildTaskUpdate renders an UPDATE statement touching only the fields
// present in the update. Returns ok=false when the update is empty, in
// which case no statement should be executed.
func buildTaskUpdate(id uuid.UUID, update store.TaskUpdate) (query string, args []any, ok bool) {
	values := map[string]any{}
	if update.Title != nil {
		values["title"] = *update.Title
	}
	if update.Description != nil {
		values["description"] = *update.Description
	}
	if update.Status != nil {
		values["status"] = string(*update.Status)
	}
	if update.CreatedAt != nil {
		values["created_at"] = *update.CreatedAt
	}
	if update.City != nil {
		values["city"] = *update.City
	}
	if update.Weather != nil {
		values["weather"] = []byte(update.Weather)
	}

	if len(values) == 0 {
		return "", nil, false
	}

	setParts := make([]string, 0, len(values))
	args = make([]any, 0, len(values)+1)
	for _, column := range taskUpdateColumns {
		value, present := values[column]
		if !present {
			continue
		}
		args = append(args, value)
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	args = append(args, id)
	query = fmt.Sprintf(
		"UPDATE tasks SET %s WHERE id = $%d",
		strings.Join(setParts, ", "),
		len(args),
	)

	return query, args, true
}

// buildTaskList renders the filtered listing query. Absent predicates
// impose no constraint; present ones are combined with AND. Results are
// always ordered newest-first.
func buildTaskList(filter store.TaskFilter) (query string, args []any) {
	var whereParts []string

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		whereParts = append(whereParts, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		whereParts = append(whereParts, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.CreatedAfter != nil {
		args = append(args, *filter.CreatedAfter)
		whereParts = append(whereParts, fmt.Sprintf("created_at >= $%d", len(args)))
	}

	query = "SELECT " + taskColumns + " FROM tasks"
	if len(whereParts) > 0 {
		query += " WHERE " + strings.Join(whereParts, " AND ")
	}
	query += " ORDER BY created_at DESC"

	return query, args
}
