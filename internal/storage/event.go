package storage

type Event struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Date        string `json:"event_date"`
	Time        string `json:"event_time"`
	CreatedAt   string `json:"created_at"`
}

type EventFilter struct {
	Date     string
	Category string
	Search   string
}

type EventList struct {
	TotalEvents int     `json:"total_events"`
	Events      []Event `json:"events"`
}

func NewEventList(events []Event) EventList {
	if events == nil {
		events = make([]Event, 0)
	}
	return EventList{TotalEvents: len(events), Events: events}
}

type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

type Attendee struct {
	ID       int64  `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	Email    string `json:"email" db:"email"`
}
