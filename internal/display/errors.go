package display

import "errors"

var (
	// ErrStopped is returned once the display goroutine has exited.
	ErrStopped = errors.New("display: stopped")
	// ErrRoomClosed is returned when the active room does not take messages.
	ErrRoomClosed = errors.New("display: room is not accepting messages")
)
