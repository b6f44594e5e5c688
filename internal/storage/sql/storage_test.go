package sqlstorage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/lomoval/otus-golang/eventrsvp/internal/storage"
	"github.com/stretchr/testify/require"
)

func createStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(Config{Driver: DriverSQLite, Database: filepath.Join(t.TempDir(), "events.db")})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Connect(ctx))
	t.Cleanup(func() {
		require.NoError(t, s.Close(context.Background()))
	})

	n, err := s.Migrate()
	require.NoError(t, err)
	require.Equal(t, 1, n)
	return s
}

func insertEvent(t *testing.T, s *Storage, title, description, category, date, tm string) int64 {
	t.Helper()
	res, err := s.db.Exec(
		"INSERT INTO events (title, description, category, event_date, event_time) VALUES (?, ?, ?, ?, ?)",
		title, description, category, date, tm)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func insertUser(t *testing.T, s *Storage, username, email, hash string) int64 {
	t.Helper()
	res, err := s.db.Exec("INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)", username, email, hash)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func eventTitles(list storage.EventList) []string {
	res := make([]string, 0, len(list.Events))
	for _, e := range list.Events {
		res = append(res, e.Title)
	}
	return res
}

func TestListEvents(t *testing.T) {
	ctx := context.Background()
	s := createStorage(t)

	insertEvent(t, s, "A", "jazz night", "music", "2024-06-02", "20:00:00")
	insertEvent(t, s, "B", "rock show", "music", "2024-06-01", "21:00:00")
	insertEvent(t, s, "Brunch", "jazz and food", "food", "2024-06-01", "10:00:00")
	insertEvent(t, s, "Meetup", "talks", "tech", "2024-06-02", "09:00:00")

	t.Run("no filters sorted by date and time", func(t *testing.T) {
		list, err := s.ListEvents(ctx, storage.EventFilter{})
		require.NoError(t, err)
		require.Equal(t, 4, list.TotalEvents)
		require.Equal(t, []string{"Brunch", "B", "Meetup", "A"}, eventTitles(list))
	})

	t.Run("category and search", func(t *testing.T) {
		list, err := s.ListEvents(ctx, storage.EventFilter{Category: "music", Search: "jazz"})
		require.NoError(t, err)
		require.Equal(t, 1, list.TotalEvents)
		require.Equal(t, []string{"A"}, eventTitles(list))
	})

	t.Run("search in title or description", func(t *testing.T) {
		list, err := s.ListEvents(ctx, storage.EventFilter{Search: "jazz"})
		require.NoError(t, err)
		require.Equal(t, []string{"Brunch", "A"}, eventTitles(list))

		list, err = s.ListEvents(ctx, storage.EventFilter{Search: "Meet"})
		require.NoError(t, err)
		require.Equal(t, []string{"Meetup"}, eventTitles(list))
	})

	t.Run("date", func(t *testing.T) {
		list, err := s.ListEvents(ctx, storage.EventFilter{Date: "2024-06-01"})
		require.NoError(t, err)
		require.Equal(t, []string{"Brunch", "B"}, eventTitles(list))
	})

	t.Run("all filters", func(t *testing.T) {
		list, err := s.ListEvents(ctx, storage.EventFilter{Date: "2024-06-01", Category: "food", Search: "food"})
		require.NoError(t, err)
		require.Equal(t, []string{"Brunch"}, eventTitles(list))
	})

	t.Run("nothing found", func(t *testing.T) {
		list, err := s.ListEvents(ctx, storage.EventFilter{Category: "sport"})
		require.NoError(t, err)
		require.Equal(t, 0, list.TotalEvents)
		require.NotNil(t, list.Events)
	})

	t.Run("values rendered as text", func(t *testing.T) {
		list, err := s.ListEvents(ctx, storage.EventFilter{Category: "music", Search: "jazz"})
		require.NoError(t, err)
		e := list.Events[0]
		require.Equal(t, "2024-06-02", e.Date)
		require.Equal(t, "20:00:00", e.Time)
		_, err = time.Parse(storage.TimestampLayout, e.CreatedAt)
		require.NoError(t, err)
	})
}

func TestGetEvent(t *testing.T) {
	ctx := context.Background()
	s := createStorage(t)
	id := insertEvent(t, s, "A", "jazz night", "music", "2024-06-02", "20:00:00")

	e, err := s.GetEvent(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "A", e.Title)
	require.Equal(t, "music", e.Category)

	_, err = s.GetEvent(ctx, id+100)
	require.ErrorIs(t, err, storage.ErrNotFoundEvent)
}

func TestRSVP(t *testing.T) {
	ctx := context.Background()
	s := createStorage(t)
	event := insertEvent(t, s, "A", "jazz night", "music", "2024-06-02", "20:00:00")
	other := insertEvent(t, s, "B", "rock show", "music", "2024-06-01", "21:00:00")
	alice := insertUser(t, s, "alice", "alice@example.com", "")
	bob := insertUser(t, s, "bob", "bob@example.com", "")

	t.Run("add and list", func(t *testing.T) {
		require.NoError(t, s.AddRSVP(ctx, alice, event))
		require.NoError(t, s.AddRSVP(ctx, bob, other))

		attendees, err := s.ListAttendees(ctx, event)
		require.NoError(t, err)
		require.Equal(t, []storage.Attendee{{ID: alice, Username: "alice", Email: "alice@example.com"}}, attendees)
	})

	t.Run("duplicate", func(t *testing.T) {
		require.ErrorIs(t, s.AddRSVP(ctx, alice, event), storage.ErrDuplicateRSVP)

		attendees, err := s.ListAttendees(ctx, event)
		require.NoError(t, err)
		require.Len(t, attendees, 1)
	})

	t.Run("remove not exists", func(t *testing.T) {
		require.NoError(t, s.RemoveRSVP(ctx, bob, event))

		attendees, err := s.ListAttendees(ctx, event)
		require.NoError(t, err)
		require.Len(t, attendees, 1)
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, s.RemoveRSVP(ctx, alice, event))

		attendees, err := s.ListAttendees(ctx, event)
		require.NoError(t, err)
		require.Empty(t, attendees)
	})
	t.Run("unknown user or event", func(t *testing.T) {
		require.ErrorIs(t, s.AddRSVP(ctx, bob+100, event), storage.ErrUnknownRSVPPair)
		require.ErrorIs(t, s.AddRSVP(ctx, bob, other+100), storage.ErrUnknownRSVPPair)

		attendees, err := s.ListAttendees(ctx, other+100)
		require.NoError(t, err)
		require.Empty(t, attendees)
	})
}

func TestGetUserByUsername(t *testing.T) {
	ctx := context.Background()
	s := createStorage(t)
	id := insertUser(t, s, "alice", "alice@example.com", "secret-hash")

	u, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, storage.User{ID: id, Username: "alice", Email: "alice@example.com", PasswordHash: "secret-hash"}, u)

	_, err = s.GetUserByUsername(ctx, "bob")
	require.ErrorIs(t, err, storage.ErrNotFoundUser)
}

func TestNotConnected(t *testing.T) {
	s, err := New(Config{Driver: DriverSQLite, Database: "unused.db"})
	require.NoError(t, err)

	_, err = s.ListEvents(context.Background(), storage.EventFilter{})
	require.ErrorIs(t, err, storage.ErrConnectionFailed)
	require.ErrorIs(t, s.AddRSVP(context.Background(), 1, 1), storage.ErrConnectionFailed)
	require.ErrorIs(t, s.Ping(context.Background()), storage.ErrConnectionFailed)
}

func TestDataSourceName(t *testing.T) {
	tests := []struct {
		config   Config
		expected string
	}{
		{
			config:   Config{Driver: DriverPostgres, Host: "db", Database: "events", Username: "u", Password: "p"},
			expected: "sslmode=disable host=db port=5432 dbname=events user=u password=p",
		},
		{
			config:   Config{Driver: DriverPgx, Host: "db", Port: 6432, Database: "events", Username: "u", Password: "p"},
			expected: "sslmode=disable host=db port=6432 dbname=events user=u password=p",
		},
		{
			config:   Config{Driver: DriverMySQL, Host: "db", Database: "events", Username: "u", Password: "p"},
			expected: "u:p@tcp(db:3306)/events",
		},
		{
			config:   Config{Driver: DriverSQLite, Database: "/tmp/events.db"},
			expected: "file:/tmp/events.db?_foreign_keys=on",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.config.Driver, func(t *testing.T) {
			dsn, err := dataSourceName(tt.config)
			require.NoError(t, err)
			require.Equal(t, tt.expected, dsn)
		})
	}

	_, err := dataSourceName(Config{Driver: "oracle"})
	require.ErrorIs(t, err, storage.ErrUnknownDriver)
}
