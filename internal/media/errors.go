package media

import (
	"errors"
	"fmt"
)

var (
	// ErrTooLarge is returned when an upload exceeds its category's ceiling.
	ErrTooLarge = errors.New("file too large")
	// ErrUnsupportedType is returned for uploads that are neither image nor video.
	ErrUnsupportedType = errors.New("unsupported media type")
	// ErrEmptyFile is returned when no bytes were uploaded.
	ErrEmptyFile = errors.New("empty file")
	// ErrInvalidAttachment is returned for malformed or unknown media references.
	ErrInvalidAttachment = errors.New("invalid attachment")
	// ErrBlobInUse is returned when a blob reference already belongs to a message.
	ErrBlobInUse = errors.New("media already in use")
)

// ValidationError is reported to the guest at the point of input. It never
// leaves partial state behind.
type ValidationError struct {
	Msg string
	Err error
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(msg string, err error) *ValidationError {
	return &ValidationError{Msg: msg, Err: err}
}

func tooLarge(limit int64) *ValidationError {
	return invalid(fmt.Sprintf("file too large: maximum allowed is %dMB", limit>>20), ErrTooLarge)
}
