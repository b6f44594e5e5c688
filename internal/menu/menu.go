package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lomoval/otus-golang/eventrsvp/internal/storage"
)

const header = `
--- RSVP MENU ---
1. Add RSVP
2. Remove RSVP
3. View Event Attendees
4. Exit
`

const (
	choiceAdd       = "1"
	choiceRemove    = "2"
	choiceAttendees = "3"
	choiceExit      = "4"
)

var errInvalidNumber = errors.New("invalid number")

type Service interface {
	AddRSVP(ctx context.Context, userID int64, eventID int64) error
	RemoveRSVP(ctx context.Context, userID int64, eventID int64) error
	ListAttendees(ctx context.Context, eventID int64) ([]storage.Attendee, error)
}

// Menu is a line oriented RSVP console. Failed operations are reported to
// the output and never stop the loop.
type Menu struct {
	in      *bufio.Scanner
	out     io.Writer
	service Service
}

func New(in io.Reader, out io.Writer, service Service) *Menu {
	return &Menu{in: bufio.NewScanner(in), out: out, service: service}
}

// Run shows the menu until the exit choice, the end of input or ctx is done.
func (m *Menu) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		fmt.Fprint(m.out, header)
		choice, ok := m.prompt("Enter choice: ")
		if !ok {
			return m.in.Err()
		}

		var err error
		switch choice {
		case choiceAdd:
			err = m.withUserAndEvent(func(userID, eventID int64) { m.Add(ctx, userID, eventID) })
		case choiceRemove:
			err = m.withUserAndEvent(func(userID, eventID int64) { m.Remove(ctx, userID, eventID) })
		case choiceAttendees:
			var eventID int64
			eventID, err = m.promptID("Enter Event ID: ")
			if err == nil {
				m.Attendees(ctx, eventID)
			}
		case choiceExit:
			fmt.Fprintln(m.out, "Exiting...")
			return nil
		default:
			fmt.Fprintln(m.out, "Invalid choice. Try again.")
		}

		switch {
		case errors.Is(err, errInvalidNumber):
			fmt.Fprintln(m.out, "Invalid number. Try again.")
		case errors.Is(err, io.EOF):
			return m.in.Err()
		}
	}
	return ctx.Err()
}

func (m *Menu) Add(ctx context.Context, userID int64, eventID int64) bool {
	if err := m.service.AddRSVP(ctx, userID, eventID); err != nil {
		fmt.Fprintf(m.out, "Error adding RSVP: %v\n", err)
		return false
	}
	fmt.Fprintln(m.out, "RSVP added successfully!")
	return true
}

func (m *Menu) Remove(ctx context.Context, userID int64, eventID int64) bool {
	if err := m.service.RemoveRSVP(ctx, userID, eventID); err != nil {
		fmt.Fprintf(m.out, "Error removing RSVP: %v\n", err)
		return false
	}
	fmt.Fprintln(m.out, "RSVP removed successfully!")
	return true
}

func (m *Menu) Attendees(ctx context.Context, eventID int64) bool {
	attendees, err := m.service.ListAttendees(ctx, eventID)
	if err != nil {
		fmt.Fprintf(m.out, "Error fetching attendees: %v\n", err)
		return false
	}
	fmt.Fprintln(m.out, "Attendees:")
	for _, a := range attendees {
		fmt.Fprintln(m.out, FormatAttendee(a))
	}
	return true
}

func FormatAttendee(a storage.Attendee) string {
	return fmt.Sprintf("(%d, '%s', '%s')", a.ID, a.Username, a.Email)
}

func (m *Menu) withUserAndEvent(f func(userID, eventID int64)) error {
	userID, err := m.promptID("Enter User ID: ")
	if err != nil {
		return err
	}
	eventID, err := m.promptID("Enter Event ID: ")
	if err != nil {
		return err
	}
	f(userID, eventID)
	return nil
}

func (m *Menu) promptID(text string) (int64, error) {
	line, ok := m.prompt(text)
	if !ok {
		return 0, io.EOF
	}
	id, err := ParseID(line)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (m *Menu) prompt(text string) (string, bool) {
	fmt.Fprint(m.out, text)
	if !m.in.Scan() {
		fmt.Fprintln(m.out)
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

// ParseID parses a decimal identifier.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errInvalidNumber, s)
	}
	return id, nil
}
