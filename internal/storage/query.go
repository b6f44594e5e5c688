package storage

import "strings"

const eventColumns = "id, title, description, category, event_date, event_time, created_at"

// BuildEventsQuery assembles the events listing statement. Placeholders are
// written as '?' and every predicate appends its own arguments, so the order
// of args always follows the order of placeholders in the query.
func BuildEventsQuery(filter EventFilter) (string, []interface{}) {
	var b strings.Builder
	args := make([]interface{}, 0, 4)

	b.WriteString("SELECT " + eventColumns + " FROM events WHERE 1=1")

	if filter.Date != "" {
		b.WriteString(" AND event_date = ?")
		args = append(args, filter.Date)
	}

	if filter.Category != "" {
		b.WriteString(" AND category = ?")
		args = append(args, filter.Category)
	}

	if filter.Search != "" {
		b.WriteString(" AND (title LIKE ? OR description LIKE ?)")
		keyword := "%" + filter.Search + "%"
		args = append(args, keyword, keyword)
	}

	b.WriteString(" ORDER BY event_date ASC, event_time ASC")
	return b.String(), args
}

// BuildEventQuery selects a single event by id.
func BuildEventQuery(id int64) (string, []interface{}) {
	return "SELECT " + eventColumns + " FROM events WHERE id = ?", []interface{}{id}
}
