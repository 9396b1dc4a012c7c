package guestbook

import "errors"

var (
	// ErrEmptyField is returned when text or author is blank after trimming.
	ErrEmptyField = errors.New("required field is empty")
	// ErrTooLong is returned when text or author exceeds its length limit.
	ErrTooLong = errors.New("field is too long")
)

// ValidationError names the offending field. Validation failures never
// mutate the store.
type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
