package store

import (
	"fmt"
	"math"
	"strings"
)

// Validation limits.
const (
	maxNameLength       = 100
	maxCapabilityLength = 50
	maxStateKeys        = 20
	maxFieldLength      = 50
)

// ValidateName checks a device display name.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, maxNameLength)
	}
	return nil
}

// ValidateCapabilityUpdate checks a partial capability update before it is
// merged. Unknown capabilities are accepted; the widget layer simply has no
// renderer for them.
func ValidateCapabilityUpdate(c Capability, partial CapabilityState) error {
	if c == "" {
		return fmt.Errorf("%w: capability cannot be empty", ErrInvalidStatus)
	}
	if len(c) > maxCapabilityLength {
		return fmt.Errorf("%w: capability exceeds %d characters", ErrInvalidStatus, maxCapabilityLength)
	}
	if len(partial) == 0 {
		return fmt.Errorf("%w: no fields to update", ErrInvalidStatus)
	}
	if len(partial) > maxStateKeys {
		return fmt.Errorf("%w: more than %d fields", ErrInvalidStatus, maxStateKeys)
	}
	for field, v := range partial {
		if field == "" || len(field) > maxFieldLength {
			return fmt.Errorf("%w: invalid field name %q", ErrInvalidStatus, field)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: field %q is not a finite number", ErrInvalidStatus, field)
		}
	}
	return nil
}
