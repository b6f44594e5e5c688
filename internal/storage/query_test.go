package storage_test

import (
	"strings"
	"testing"

	"github.com/lomoval/otus-golang/eventrsvp/internal/storage"
	"github.com/stretchr/testify/require"
)

func TestBuildEventsQuery(t *testing.T) {
	const (
		base  = "SELECT id, title, description, category, event_date, event_time, created_at FROM events WHERE 1=1"
		order = " ORDER BY event_date ASC, event_time ASC"
	)

	tests := []struct {
		name         string
		filter       storage.EventFilter
		expectedSQL  string
		expectedArgs []interface{}
	}{
		{
			name:         "no filters",
			filter:       storage.EventFilter{},
			expectedSQL:  base + order,
			expectedArgs: []interface{}{},
		},
		{
			name:         "date only",
			filter:       storage.EventFilter{Date: "2024-06-01"},
			expectedSQL:  base + " AND event_date = ?" + order,
			expectedArgs: []interface{}{"2024-06-01"},
		},
		{
			name:         "category only",
			filter:       storage.EventFilter{Category: "music"},
			expectedSQL:  base + " AND category = ?" + order,
			expectedArgs: []interface{}{"music"},
		},
		{
			name:         "search only",
			filter:       storage.EventFilter{Search: "jazz"},
			expectedSQL:  base + " AND (title LIKE ? OR description LIKE ?)" + order,
			expectedArgs: []interface{}{"%jazz%", "%jazz%"},
		},
		{
			name:   "all filters",
			filter: storage.EventFilter{Date: "2024-06-01", Category: "music", Search: "jazz"},
			expectedSQL: base + " AND event_date = ? AND category = ? AND (title LIKE ? OR description LIKE ?)" +
				order,
			expectedArgs: []interface{}{"2024-06-01", "music", "%jazz%", "%jazz%"},
		},
		{
			name:         "date and search",
			filter:       storage.EventFilter{Date: "2024-06-01", Search: "x"},
			expectedSQL:  base + " AND event_date = ? AND (title LIKE ? OR description LIKE ?)" + order,
			expectedArgs: []interface{}{"2024-06-01", "%x%", "%x%"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			query, args := storage.BuildEventsQuery(tt.filter)
			require.Equal(t, tt.expectedSQL, query)
			require.Equal(t, tt.expectedArgs, args)
			require.Equal(t, strings.Count(query, "?"), len(args))
			require.True(t, strings.HasSuffix(query, order))
		})
	}
}

func TestBuildEventsQuerySearchArgsAreIndependent(t *testing.T) {
	_, args := storage.BuildEventsQuery(storage.EventFilter{Search: "abc"})
	require.Len(t, args, 2)

	args[0] = "changed"
	require.Equal(t, "%abc%", args[1])
}

func TestBuildEventQuery(t *testing.T) {
	query, args := storage.BuildEventQuery(42)
	require.True(t, strings.HasSuffix(query, "FROM events WHERE id = ?"))
	require.Equal(t, []interface{}{int64(42)}, args)
}
