package guestbook

import (
	"time"

	"github.com/benbjohnson/clock"

	"github.com/alejandrobavaro/msjspantallaeventos/internal/media"
)

// Stamper assigns ids, timestamps and display dates to new messages.
// It is owned by a single goroutine.
type Stamper struct {
	clock clock.Clock
	loc   *time.Location
	last  int64
}

// NewStamper creates a stamper. A nil location means time.Local.
func NewStamper(clk clock.Clock, loc *time.Location) *Stamper {
	if loc == nil {
		loc = time.Local
	}
	return &Stamper{clock: clk, loc: loc}
}

// Stamp builds a message from a validated draft. Ids are strictly
// increasing even when two messages share a millisecond.
func (s *Stamper) Stamp(d Draft, att *media.Attachment) Message {
	now := s.clock.Now()

	id := now.UnixMilli()
	if id <= s.last {
		id = s.last + 1
	}
	s.last = id

	var m *media.Attachment
	if att != nil {
		cp := *att
		m = &cp
	}

	return Message{
		ID:        id,
		Text:      d.Text,
		Author:    d.Author,
		Date:      FormatDate(now.In(s.loc)),
		CreatedAt: id,
		Media:     m,
	}
}
