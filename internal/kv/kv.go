// Package kv defines the slot store the guestbook persists rooms into.
//
// A slot is a single string value under a string key. Backends enforce a
// capacity and report exhaustion as ErrQuotaExceeded so callers can apply
// their own recovery policy.
package kv

import (
	"context"
	"errors"
)

var (
	// ErrQuotaExceeded is returned by Set when the write would exceed the
	// backend's capacity.
	ErrQuotaExceeded = errors.New("kv: quota exceeded")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("kv: store closed")
)

// Store handles slot persistence.
type Store interface {
	// Get returns the value stored at key. ok is false when the slot is missing.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set writes value at key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes the slot. Removing a missing slot is not an error.
	Remove(ctx context.Context, key string) error

	// Close releases the underlying connection.
	Close() error
}

// Footprint is the number of bytes a slot counts against a quota.
func Footprint(key, value string) int64 {
	return int64(len(key) + len(value))
}
