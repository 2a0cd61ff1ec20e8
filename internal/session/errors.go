package session

import "errors"

var (
	// ErrNotAttached is returned for input aimed at a device card that is not mounted.
	ErrNotAttached = errors.New("session: device not attached")

	// ErrUnknownSurface is returned for malformed or unknown surface names.
	ErrUnknownSurface = errors.New("session: unknown surface")

	// ErrClosed is returned when attaching to a closed session.
	ErrClosed = errors.New("session: closed")
)
