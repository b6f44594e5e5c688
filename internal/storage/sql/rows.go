package sqlstorage

import (
	"database/sql"

	"github.com/lomoval/otus-golang/eventrsvp/internal/storage"
)

// Date and time columns are scanned as raw driver values: drivers disagree
// on whether they come back as time.Time, []byte or string.
type eventRow struct {
	ID          int64          `db:"id"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
	Category    sql.NullString `db:"category"`
	Date        interface{}    `db:"event_date"`
	Time        interface{}    `db:"event_time"`
	CreatedAt   interface{}    `db:"created_at"`
}

func (r eventRow) event() storage.Event {
	return storage.Event{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description.String,
		Category:    r.Category.String,
		Date:        storage.FormatDate(r.Date),
		Time:        storage.FormatTime(r.Time),
		CreatedAt:   storage.FormatTimestamp(r.CreatedAt),
	}
}

type userRow struct {
	ID           int64          `db:"id"`
	Username     string         `db:"username"`
	Email        string         `db:"email"`
	PasswordHash sql.NullString `db:"password_hash"`
}

func (r userRow) user() storage.User {
	return storage.User{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash.String,
	}
}
