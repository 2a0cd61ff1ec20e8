package carousel

import "errors"

var (
	// ErrNoSlides is returned when a carousel is created without slides.
	ErrNoSlides = errors.New("carousel: no slides")

	// ErrInvalidDirection is returned when Advance gets a direction other than +1 or -1.
	ErrInvalidDirection = errors.New("carousel: direction must be +1 or -1")

	// ErrIndexOutOfRange is returned when SelectIndex targets a slide that does not exist.
	ErrIndexOutOfRange = errors.New("carousel: index out of range")

	// ErrInvalidSize is returned for non-positive widths or heights.
	ErrInvalidSize = errors.New("carousel: invalid size")
)
