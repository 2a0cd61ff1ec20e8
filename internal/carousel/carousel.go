package carousel

import "fmt"

// Options configure a carousel. Zero fields take the defaults.
type Options struct {
	// Width is the slide width in pixels and the distance of one shift.
	Width float64
	// Height is the slide and viewport height in pixels.
	Height float64
	// Threshold is the drag distance in pixels that pages to the next slide.
	Threshold float64
}

// DefaultOptions returns 250x250 slides and a 100px drag threshold.
func DefaultOptions() Options {
	return Options{Width: 250, Height: 250, Threshold: 100}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Width <= 0 {
		o.Width = def.Width
	}
	if o.Height <= 0 {
		o.Height = def.Height
	}
	if o.Threshold <= 0 {
		o.Threshold = def.Threshold
	}
	return o
}

// Carousel is a looping slide track over slides of type T.
type Carousel[T any] struct {
	slides    []T
	width     float64
	height    float64
	threshold float64

	index      int
	offset     float64
	posInitial float64
	dragging   bool
	allowShift bool
	inFlight   bool
	dots       []bool
}

// New creates a carousel showing slide 0.
func New[T any](slides []T, opts Options) (*Carousel[T], error) {
	if len(slides) == 0 {
		return nil, ErrNoSlides
	}
	opts = opts.withDefaults()

	c := &Carousel[T]{
		slides:     append([]T(nil), slides...),
		width:      opts.Width,
		height:     opts.Height,
		threshold:  opts.Threshold,
		allowShift: true,
		dots:       make([]bool, len(slides)),
	}
	c.offset = c.OffsetFor(0)
	c.posInitial = c.offset
	c.dots[0] = true
	return c, nil
}

// Len returns the number of logical slides.
func (c *Carousel[T]) Len() int { return len(c.slides) }

// Index returns the current logical slide. While a boundary transition is in
// flight it may be -1 or Len() until Settle runs.
func (c *Carousel[T]) Index() int { return c.index }

// Offset returns the rendered horizontal position of the track in pixels.
func (c *Carousel[T]) Offset() float64 { return c.offset }

// OffsetFor returns the track offset that shows logical slide i.
func (c *Carousel[T]) OffsetFor(i int) float64 {
	return -float64(i+1) * c.width
}

// Size returns the slide width and height.
func (c *Carousel[T]) Size() (width, height float64) { return c.width, c.height }

// AllowShift reports whether a new transition may start.
func (c *Carousel[T]) AllowShift() bool { return c.allowShift }

// InFlight reports whether a transition is waiting for Settle.
func (c *Carousel[T]) InFlight() bool { return c.inFlight }

// Dragging reports whether a drag is in progress.
func (c *Carousel[T]) Dragging() bool { return c.dragging }

// Track returns the rendered sequence: last slide, every slide, first slide.
func (c *Carousel[T]) Track() []T {
	n := len(c.slides)
	track := make([]T, 0, n+2)
	track = append(track, c.slides[n-1])
	track = append(track, c.slides...)
	return append(track, c.slides[0])
}

// Dots returns the indicator states, one per logical slide.
func (c *Carousel[T]) Dots() []bool {
	return append([]bool(nil), c.dots...)
}

// ActiveDot returns the index of the active indicator.
func (c *Carousel[T]) ActiveDot() int {
	for i, on := range c.dots {
		if on {
			return i
		}
	}
	return -1
}

// DragStart records the current offset as the drag origin. It is accepted
// even while a transition is in flight.
func (c *Carousel[T]) DragStart() {
	c.posInitial = c.offset
	c.dragging = true
}

// DragMove moves the track by delta pixels, where delta is the pointer's
// previous x minus its current x. The track follows the pointer 1:1.
func (c *Carousel[T]) DragMove(delta float64) {
	if !c.dragging {
		return
	}
	c.offset -= delta
}

// DragEnd finishes a drag. A drag past the threshold shifts one slide in the
// drag direction; anything shorter restores the offset recorded by DragStart.
// It returns the direction shifted, or 0.
func (c *Carousel[T]) DragEnd() int {
	if !c.dragging {
		return 0
	}
	c.dragging = false

	moved := c.offset - c.posInitial
	dir := 0
	switch {
	case moved < -c.threshold:
		dir = 1
	case moved > c.threshold:
		dir = -1
	}

	if dir == 0 || !c.shift(dir, true) {
		c.offset = c.posInitial
		return 0
	}
	return dir
}

// Advance shifts one slide forward (+1) or back (-1). The request is dropped
// while another transition is in flight.
func (c *Carousel[T]) Advance(dir int) error {
	if dir != 1 && dir != -1 {
		return fmt.Errorf("%w: %d", ErrInvalidDirection, dir)
	}
	c.shift(dir, false)
	return nil
}

func (c *Carousel[T]) shift(dir int, fromDrag bool) bool {
	if !c.allowShift {
		return false
	}
	if !fromDrag {
		c.posInitial = c.offset
	}
	c.offset = c.posInitial - float64(dir)*c.width
	c.index += dir
	c.allowShift = false
	c.inFlight = true
	return true
}

// SelectIndex jumps straight to slide target. Selecting the current slide is
// a no-op, and the request is dropped while a transition is in flight.
func (c *Carousel[T]) SelectIndex(target int) error {
	if target < 0 || target >= len(c.slides) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, target)
	}
	if target == c.index || !c.allowShift {
		return nil
	}
	c.index = target
	c.offset = c.OffsetFor(target)
	c.allowShift = false
	c.inFlight = true
	return nil
}

// Settle completes the current transition: a clone position is replaced by
// the real slide it copies, the dots follow the index, and the next shift is
// allowed. Calling it with nothing in flight only re-syncs the dots.
func (c *Carousel[T]) Settle() {
	n := len(c.slides)
	switch c.index {
	case -1:
		c.index = n - 1
		c.offset = c.OffsetFor(c.index)
	case n:
		c.index = 0
		c.offset = c.OffsetFor(c.index)
	}

	for i := range c.dots {
		c.dots[i] = i == c.index
	}
	c.allowShift = true
	c.inFlight = false
}

// Resize changes the slide size and re-aligns the track on the current slide.
// A drag in progress is cancelled.
func (c *Carousel[T]) Resize(width, height float64) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %vx%v", ErrInvalidSize, width, height)
	}
	c.width, c.height = width, height
	c.dragging = false
	c.offset = c.OffsetFor(c.index)
	c.posInitial = c.offset
	return nil
}

// View is a JSON-ready snapshot of the carousel's rendering state.
type View struct {
	Index    int     `json:"index"`
	Offset   float64 `json:"offset"`
	Dots     []bool  `json:"dots"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Shifting bool    `json:"shifting"`
	Dragging bool    `json:"dragging"`
}

// Snapshot returns the current view.
func (c *Carousel[T]) Snapshot() View {
	return View{
		Index:    c.index,
		Offset:   c.offset,
		Dots:     c.Dots(),
		Width:    c.width,
		Height:   c.height,
		Shifting: c.inFlight,
		Dragging: c.dragging,
	}
}
