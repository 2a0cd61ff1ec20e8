package store

import "errors"

// Domain errors for the store package.
//
// These errors can be checked using errors.Is():
//
//	if errors.Is(err, store.ErrDeviceNotFound) {
//	    // handle not found case
//	}
var (
	// ErrDeviceNotFound is returned when a device ID does not exist in the home.
	ErrDeviceNotFound = errors.New("store: device not found")

	// ErrDuplicateDevice is returned when two devices share an ID.
	ErrDuplicateDevice = errors.New("store: duplicate device id")

	// ErrInvalidDevice is returned when a device definition is incomplete.
	ErrInvalidDevice = errors.New("store: invalid device")

	// ErrInvalidName is returned when a device name fails validation.
	ErrInvalidName = errors.New("store: invalid name")

	// ErrInvalidStatus is returned when a capability update fails validation.
	ErrInvalidStatus = errors.New("store: invalid status")

	// ErrListenerFailed wraps an error returned (or panic raised) by a listener callback.
	// Notification of the remaining listeners continues regardless.
	ErrListenerFailed = errors.New("store: listener failed")
)
