// Package guestbook holds the guest message model and the per-room message
// store that keeps a bounded, newest-first collection in sync with its slot.
package guestbook

import (
	"github.com/alejandrobavaro/msjspantallaeventos/internal/media"
)

const (
	// Capacity bounds the collection of a room.
	Capacity = 50
	// MaxTextLen is the maximum message length in characters.
	MaxTextLen = 200
	// MaxAuthorLen is the maximum author length in characters.
	MaxAuthorLen = 30
	// DefaultRoom is used when no room is supplied.
	DefaultRoom = "boda"

	slotPrefix = "weddingMessages_"
)

// Message is one guest submission.
type Message struct {
	// ID is the creation time in milliseconds, unique within the process.
	ID        int64
	Text      string
	Author    string
	Date      string
	CreatedAt int64
	Media     *media.Attachment
}

// SlotKey returns the slot a room persists into.
func SlotKey(room string) string {
	return slotPrefix + room
}
