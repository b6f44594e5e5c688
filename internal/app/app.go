package app

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/lomoval/otus-golang/eventrsvp/internal/auth"
	"github.com/lomoval/otus-golang/eventrsvp/internal/storage"
	log "github.com/sirupsen/logrus"
)

const (
	ActionRSVPAdded   = "rsvp.added"
	ActionRSVPRemoved = "rsvp.removed"
)

var ErrAuthNotConfigured = errors.New("authentication is not configured")

// Notification is published after a successful RSVP change.
type Notification struct {
	Action  string    `json:"action"`
	UserID  int64     `json:"userId"`
	EventID int64     `json:"eventId"`
	Time    time.Time `json:"time"`
}

type Publisher interface {
	Publish(body []byte) error
}

type Option func(a *App)

func WithAuth(verifier auth.Verifier, tokens *auth.TokenIssuer) Option {
	return func(a *App) {
		a.verifier = verifier
		a.tokens = tokens
	}
}

func WithPublisher(p Publisher) Option {
	return func(a *App) {
		a.publisher = p
	}
}

type App struct {
	Storage   storage.Storage
	verifier  auth.Verifier
	tokens    *auth.TokenIssuer
	publisher Publisher
}

func New(storage storage.Storage, opts ...Option) *App {
	a := &App{Storage: storage}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *App) Login(ctx context.Context, username string, password string) (string, error) {
	if a.verifier == nil || a.tokens == nil {
		return "", ErrAuthNotConfigured
	}
	p, err := a.verifier.Verify(ctx, username, password)
	if err != nil {
		return "", err
	}
	return a.tokens.Issue(p)
}

func (a *App) Authenticate(token string) (auth.Principal, error) {
	if a.tokens == nil {
		return auth.Principal{}, ErrAuthNotConfigured
	}
	return a.tokens.Parse(token)
}

func (a *App) ListEvents(ctx context.Context, filter storage.EventFilter) (storage.EventList, error) {
	return a.Storage.ListEvents(ctx, filter)
}

func (a *App) GetEvent(ctx context.Context, id int64) (storage.Event, error) {
	return a.Storage.GetEvent(ctx, id)
}

func (a *App) ListAttendees(ctx context.Context, eventID int64) ([]storage.Attendee, error) {
	return a.Storage.ListAttendees(ctx, eventID)
}

func (a *App) AddRSVP(ctx context.Context, userID int64, eventID int64) error {
	if err := a.Storage.AddRSVP(ctx, userID, eventID); err != nil {
		return err
	}
	a.notify(ActionRSVPAdded, userID, eventID)
	return nil
}

func (a *App) RemoveRSVP(ctx context.Context, userID int64, eventID int64) error {
	if err := a.Storage.RemoveRSVP(ctx, userID, eventID); err != nil {
		return err
	}
	a.notify(ActionRSVPRemoved, userID, eventID)
	return nil
}

func (a *App) Ping(ctx context.Context) error {
	return a.Storage.Ping(ctx)
}

// Publishing is best effort, a failed notification does not fail the change.
func (a *App) notify(action string, userID int64, eventID int64) {
	if a.publisher == nil {
		return
	}
	data, err := json.Marshal(Notification{Action: action, UserID: userID, EventID: eventID, Time: time.Now().UTC()})
	if err != nil {
		log.Errorf("failed to marshal notification: %v", err)
		return
	}
	if err := a.publisher.Publish(data); err != nil {
		log.WithField("action", action).Warnf("failed to publish notification: %v", err)
	}
}
