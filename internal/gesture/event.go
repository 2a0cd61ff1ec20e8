package gesture

import (
	"fmt"
	"time"
)

// Kind is the type of a raw pointer event.
type Kind string

// Pointer event kinds. Mouse and touch events map onto the same kinds.
const (
	KindDown  Kind = "down"
	KindMove  Kind = "move"
	KindUp    Kind = "up"
	KindLeave Kind = "leave"
)

// Source is the input device that produced an event.
type Source string

// Event sources.
const (
	SourceMouse Source = "mouse"
	SourceTouch Source = "touch"
)

// Event is one raw pointer event for a surface.
type Event struct {
	Kind   Kind
	Source Source
	X, Y   float64
	Time   time.Time
}

// ParseKind validates a kind received from a client.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindDown, KindMove, KindUp, KindLeave:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEventKind, s)
}

// ParseSource validates a source received from a client. Empty means mouse.
func ParseSource(s string) (Source, error) {
	switch src := Source(s); src {
	case "":
		return SourceMouse, nil
	case SourceMouse, SourceTouch:
		return src, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSource, s)
}

// Handle dispatches a raw event to Press, Move, Release or Leave.
// Touch and mouse events share one session, so a second press from the
// other source is ignored until the first one resolves.
func (r *Recognizer) Handle(ev Event) (Result, error) {
	switch ev.Kind {
	case KindDown:
		r.Press(ev.X, ev.Y, ev.Time)
	case KindMove:
		r.Move(ev.X, ev.Y)
	case KindUp:
		return r.Release(ev.Time), nil
	case KindLeave:
		return r.Leave(), nil
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownEventKind, ev.Kind)
	}
	return Result{}, nil
}
