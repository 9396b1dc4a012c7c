package display

import (
	"time"

	"github.com/alejandrobavaro/msjspantallaeventos/internal/guestbook"
)

// EventKind is a notification the display emits to subscribers.
type EventKind int

const (
	// EventState carries the full state after any change.
	EventState EventKind = iota
	// EventNotice carries a one-off notice for the audience.
	EventNotice
)

// Event is sent to subscribers to describe what happened.
type Event struct {
	Kind   EventKind
	State  *State
	Notice *guestbook.Notice
}

// State is the read-only view the presentation surface renders.
type State struct {
	Room                 string
	Messages             []guestbook.Message
	CurrentIndex         int
	IsPresentationActive bool
	Interval             time.Duration
}

// Current returns the message under the cursor.
func (s State) Current() (guestbook.Message, bool) {
	if len(s.Messages) == 0 || s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Messages) {
		return guestbook.Message{}, false
	}
	return s.Messages[s.CurrentIndex], true
}

// Subscriber receives display events.
type Subscriber struct {
	ID     string
	Events chan *Event
}

// NewSubscriber creates a subscriber with a buffered event channel.
func NewSubscriber(id string) *Subscriber {
	return &Subscriber{
		ID:     id,
		Events: make(chan *Event, 16),
	}
}

func (s *Subscriber) send(ev *Event) {
	select {
	case s.Events <- ev:
	default:
		// Drop if slow consumer.
	}
}
