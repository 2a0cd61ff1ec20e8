package gesture

import "errors"

var (
	// ErrUnknownEventKind is returned when a pointer event kind is not recognised.
	ErrUnknownEventKind = errors.New("gesture: unknown event kind")

	// ErrUnknownSource is returned when a pointer event source is not recognised.
	ErrUnknownSource = errors.New("gesture: unknown event source")
)
