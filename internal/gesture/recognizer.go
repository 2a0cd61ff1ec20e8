package gesture

import (
	"math"
	"time"
)

// Outcome is the terminal classification of one press/release cycle.
type Outcome int

// Outcomes, in no particular precedence.
const (
	OutcomeNone Outcome = iota
	OutcomeShortClick
	OutcomeMediumClick
	OutcomeLongClick
	OutcomeMoveEnd
)

func (o Outcome) String() string {
	switch o {
	case OutcomeShortClick:
		return "short-click"
	case OutcomeMediumClick:
		return "medium-click"
	case OutcomeLongClick:
		return "long-click"
	case OutcomeMoveEnd:
		return "move-end"
	default:
		return "none"
	}
}

// Thresholds tune the classification rules.
type Thresholds struct {
	// MoveEnd is the vertical distance (px) a vertical-dominant release must exceed.
	MoveEnd float64
	// ClickMaxHorizontal is the horizontal distance (px) a click must stay below.
	ClickMaxHorizontal float64
	// ShortClick and MediumClick are exclusive upper bounds on press duration.
	ShortClick  time.Duration
	MediumClick time.Duration
}

// DefaultThresholds returns 10px move-end, 25px click tolerance, 300ms and 1s.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MoveEnd:            10,
		ClickMaxHorizontal: 25,
		ShortClick:         300 * time.Millisecond,
		MediumClick:        time.Second,
	}
}

// Handlers are the callback slots a widget assigns. Nil slots are no-ops.
//
// Deltas are start minus current: a positive delta means the pointer moved
// up (vertical) or left (horizontal).
type Handlers struct {
	OnShortClick  func()
	OnMediumClick func()
	OnLongClick   func()
	OnMove        func(deltaY float64)
	OnMoveEnd     func(deltaY float64)
}

// Result describes what a release or leave produced.
type Result struct {
	Outcome Outcome
	// Delta carries deltaY for OutcomeMoveEnd and is zero otherwise.
	Delta float64
}

// Recognizer classifies pointer input for a single surface.
type Recognizer struct {
	th Thresholds
	h  Handlers

	pressed   bool
	startX    float64
	startY    float64
	startTime time.Time
	deltaX    float64
	deltaY    float64
}

// New creates an idle recognizer.
func New(th Thresholds, h Handlers) *Recognizer {
	return &Recognizer{th: th, h: h}
}

// SetHandlers replaces the callback slots.
func (r *Recognizer) SetHandlers(h Handlers) {
	r.h = h
}

// Pressed reports whether a press is in progress.
func (r *Recognizer) Pressed() bool {
	return r.pressed
}

// Delta returns the running start-minus-current displacement of the current press.
func (r *Recognizer) Delta() (dx, dy float64) {
	return r.deltaX, r.deltaY
}

// Press starts a session at (x, y). Ignored while already pressed.
func (r *Recognizer) Press(x, y float64, t time.Time) {
	if r.pressed {
		return
	}
	r.pressed = true
	r.startX, r.startY = x, y
	r.startTime = t
	r.deltaX, r.deltaY = 0, 0
}

// Move updates the displacement and, when vertical movement dominates,
// emits OnMove with deltaY. Ignored while idle.
func (r *Recognizer) Move(x, y float64) {
	if !r.pressed {
		return
	}
	r.deltaX = r.startX - x
	r.deltaY = r.startY - y

	if r.verticalDominant() && r.h.OnMove != nil {
		r.h.OnMove(r.deltaY)
	}
}

// Release ends the session and emits at most one gesture.
// Ignored while idle.
func (r *Recognizer) Release(t time.Time) Result {
	if !r.pressed {
		return Result{}
	}
	r.pressed = false

	if res, ok := r.moveEnd(); ok {
		return res
	}

	if math.Abs(r.deltaX) >= r.th.ClickMaxHorizontal {
		// Horizontal drag: deliberately unclassified.
		return Result{}
	}

	elapsed := t.Sub(r.startTime)
	switch {
	case elapsed < r.th.ShortClick:
		call(r.h.OnShortClick)
		return Result{Outcome: OutcomeShortClick}
	case elapsed < r.th.MediumClick:
		call(r.h.OnMediumClick)
		return Result{Outcome: OutcomeMediumClick}
	default:
		call(r.h.OnLongClick)
		return Result{Outcome: OutcomeLongClick}
	}
}

// Leave cancels the session when the pointer leaves the surface.
// Only the move-end rule is evaluated.
func (r *Recognizer) Leave() Result {
	if !r.pressed {
		return Result{}
	}
	r.pressed = false

	res, _ := r.moveEnd()
	return res
}

func (r *Recognizer) verticalDominant() bool {
	return math.Abs(r.deltaY) > math.Abs(r.deltaX)
}

func (r *Recognizer) moveEnd() (Result, bool) {
	if !r.verticalDominant() || math.Abs(r.deltaY) <= r.th.MoveEnd {
		return Result{}, false
	}
	if r.h.OnMoveEnd != nil {
		r.h.OnMoveEnd(r.deltaY)
	}
	return Result{Outcome: OutcomeMoveEnd, Delta: r.deltaY}, true
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}
