package storage

import (
	"context"
	"errors"
)

var (
	ErrConnectionFailed = errors.New("database connection failed")
	ErrNotFoundEvent    = errors.New("event not found")
	ErrNotFoundUser     = errors.New("user not found")
	ErrDuplicateRSVP    = errors.New("rsvp already exists")
	ErrUnknownRSVPPair  = errors.New("user or event does not exist")
	ErrUnknownDriver    = errors.New("unknown database driver")
)

type Storage interface {
	Connect(ctx context.Context) error
	Close(ctx context.Context) error
	Ping(ctx context.Context) error
	ListEvents(ctx context.Context, filter EventFilter) (EventList, error)
	GetEvent(ctx context.Context, id int64) (Event, error)
	AddRSVP(ctx context.Context, userID int64, eventID int64) error
	RemoveRSVP(ctx context.Context, userID int64, eventID int64) error
	ListAttendees(ctx context.Context, eventID int64) ([]Attendee, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
}
