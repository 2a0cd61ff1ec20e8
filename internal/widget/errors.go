package widget

import "errors"

var (
	// ErrUnsupportedCapability is returned for capabilities with no widget.
	ErrUnsupportedCapability = errors.New("widget: unsupported capability")

	// ErrCapabilityMissing is returned when a device lacks the requested capability.
	ErrCapabilityMissing = errors.New("widget: device lacks capability")
)
