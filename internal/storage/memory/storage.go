package memorystorage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lomoval/otus-golang/eventrsvp/internal/storage"
)

type rsvpKey struct {
	userID  int64
	eventID int64
}

type Storage struct {
	mu         sync.RWMutex
	events     map[int64]storage.Event
	users      map[int64]storage.User
	rsvps      []rsvpKey
	eventIDSeq int64
	userIDSeq  int64
}

func New() *Storage {
	return &Storage{
		events: make(map[int64]storage.Event),
		users:  make(map[int64]storage.User),
	}
}

func (s *Storage) Connect(_ context.Context) error {
	return nil
}

func (s *Storage) Close(_ context.Context) error {
	return nil
}

func (s *Storage) Ping(_ context.Context) error {
	return nil
}

// AddEvent stores a copy of e and returns its id. Events are never created
// through the services, this is used to seed the storage.
func (s *Storage) AddEvent(e storage.Event) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == 0 {
		s.eventIDSeq++
		e.ID = s.eventIDSeq
	} else if e.ID > s.eventIDSeq {
		s.eventIDSeq = e.ID
	}
	if e.CreatedAt == "" {
		e.CreatedAt = time.Now().UTC().Format(storage.TimestampLayout)
	}
	s.events[e.ID] = e
	return e.ID
}

// AddUser stores a copy of u and returns its id.
func (s *Storage) AddUser(u storage.User) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		s.userIDSeq++
		u.ID = s.userIDSeq
	} else if u.ID > s.userIDSeq {
		s.userIDSeq = u.ID
	}
	s.users[u.ID] = u
	return u.ID
}

func (s *Storage) ListEvents(_ context.Context, filter storage.EventFilter) (storage.EventList, error) {
	s.mu.RLock()
	events := make([]storage.Event, 0, len(s.events))
	for _, e := range s.events {
		if matches(e, filter) {
			events = append(events, e)
		}
	}
	s.mu.RUnlock()

	sort.Slice(events, func(i, j int) bool {
		if events[i].Date != events[j].Date {
			return events[i].Date < events[j].Date
		}
		if events[i].Time != events[j].Time {
			return events[i].Time < events[j].Time
		}
		return events[i].ID < events[j].ID
	})
	return storage.NewEventList(events), nil
}

func (s *Storage) GetEvent(_ context.Context, id int64) (storage.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[id]
	if !ok {
		return storage.Event{}, fmt.Errorf("failed to get event with id %d: %w", id, storage.ErrNotFoundEvent)
	}
	return e, nil
}

func (s *Storage) AddRSVP(_ context.Context, userID int64, eventID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		return fmt.Errorf("user %d for event %d: %w: %w", userID, eventID, storage.ErrUnknownRSVPPair, storage.ErrNotFoundUser)
	}
	if _, ok := s.events[eventID]; !ok {
		return fmt.Errorf("user %d for event %d: %w: %w", userID, eventID, storage.ErrUnknownRSVPPair, storage.ErrNotFoundEvent)
	}
	key := rsvpKey{userID: userID, eventID: eventID}
	for _, k := range s.rsvps {
		if k == key {
			return fmt.Errorf("user %d for event %d: %w", userID, eventID, storage.ErrDuplicateRSVP)
		}
	}
	s.rsvps = append(s.rsvps, key)
	return nil
}

func (s *Storage) RemoveRSVP(_ context.Context, userID int64, eventID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := rsvpKey{userID: userID, eventID: eventID}
	rsvps := s.rsvps[:0]
	for _, k := range s.rsvps {
		if k != key {
			rsvps = append(rsvps, k)
		}
	}
	s.rsvps = rsvps
	return nil
}

func (s *Storage) ListAttendees(_ context.Context, eventID int64) ([]storage.Attendee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	attendees := make([]storage.Attendee, 0)
	for _, k := range s.rsvps {
		if k.eventID != eventID {
			continue
		}
		u, ok := s.users[k.userID]
		if !ok {
			continue
		}
		attendees = append(attendees, storage.Attendee{ID: u.ID, Username: u.Username, Email: u.Email})
	}
	return attendees, nil
}

func (s *Storage) GetUserByUsername(_ context.Context, username string) (storage.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return storage.User{}, fmt.Errorf("failed to get user %q: %w", username, storage.ErrNotFoundUser)
}

func matches(e storage.Event, filter storage.EventFilter) bool {
	if filter.Date != "" && e.Date != filter.Date {
		return false
	}
	if filter.Category != "" && e.Category != filter.Category {
		return false
	}
	if filter.Search != "" &&
		!strings.Contains(e.Title, filter.Search) && !strings.Contains(e.Description, filter.Search) {
		return false
	}
	return true
}
