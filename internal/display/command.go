package display

import (
	"time"

	"github.com/alejandrobavaro/msjspantallaeventos/internal/guestbook"
	"github.com/alejandrobavaro/msjspantallaeventos/internal/media"
)

// CommandKind describes what the caller wants the display to do.
type CommandKind int

const (
	// CommandSelectRoom switches the active room.
	CommandSelectRoom CommandKind = iota
	// CommandSubmit appends a new message.
	CommandSubmit
	// CommandEdit replaces a message with a freshly stamped one.
	CommandEdit
	// CommandDelete removes a message.
	CommandDelete
	// CommandEnterPresentation starts the rotation.
	CommandEnterPresentation
	// CommandExitPresentation stops the rotation.
	CommandExitPresentation
	// CommandSetInterval changes the rotation period.
	CommandSetInterval
	// CommandNext moves the cursor forward.
	CommandNext
	// CommandPrevious moves the cursor back.
	CommandPrevious
	// CommandSnapshot reads the current state.
	CommandSnapshot
	// CommandSubscribe registers a subscriber.
	CommandSubscribe
	// CommandUnsubscribe removes a subscriber.
	CommandUnsubscribe
)

// Command is a request processed on the display goroutine.
type Command struct {
	Kind       CommandKind
	Room       string
	ID         int64
	Draft      guestbook.Draft
	Media      *media.Attachment
	Interval   time.Duration
	Subscriber *Subscriber

	reply chan result
}

type result struct {
	state   State
	message guestbook.Message
	found   bool
	active  bool
	err     error
}
