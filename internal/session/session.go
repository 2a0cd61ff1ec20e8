package session

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/heima-panel/internal/carousel"
	"github.com/nerrad567/heima-panel/internal/gesture"
	"github.com/nerrad567/heima-panel/internal/store"
	"github.com/nerrad567/heima-panel/internal/widget"
)

// Event types pushed to the panel.
const (
	EventDeviceView   = "device.view"
	EventCarouselView = "carousel.view"
	EventGesture      = "gesture"
)

// Sender delivers events to the panel. SendEvent must not block.
type Sender interface {
	SendEvent(eventType string, payload any)
}

// Logger is the logging interface used by sessions.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}

// Options configure the widgets and cards of a session.
type Options struct {
	Thresholds    gesture.Thresholds
	Carousel      carousel.Options
	SettleTimeout time.Duration
}

// DefaultOptions returns the default gesture thresholds, 250px cards and a
// 400ms settle fallback.
func DefaultOptions() Options {
	return Options{
		Thresholds:    gesture.DefaultThresholds(),
		Carousel:      carousel.DefaultOptions(),
		SettleTimeout: 400 * time.Millisecond,
	}
}

// CarouselView is the carousel state of one device card.
type CarouselView struct {
	Device string             `json:"device"`
	Slides []store.Capability `json:"slides"`
	carousel.View
}

// GestureView reports a classified gesture on a widget surface.
type GestureView struct {
	Surface string  `json:"surface"`
	Outcome string  `json:"outcome"`
	Delta   float64 `json:"delta,omitempty"`
}

// Session is the interaction state of one connected panel.
type Session struct {
	id     string
	home   *store.Home
	out    Sender
	opts   Options
	logger Logger

	mu     sync.Mutex
	cards  map[string]*card
	closed bool
}

type card struct {
	device   *store.Device
	listener store.ListenerID
	slides   []store.Capability
	track    *carousel.Carousel[store.Capability]
	widgets  map[store.Capability]*surface
	lastX    float64

	// settle fallback; gen invalidates timers from earlier transitions
	settle *time.Timer
	gen    uint64

	viewMu   sync.Mutex
	views    map[store.Capability]widget.View
	name     string
	detached bool
}

type surface struct {
	ctrl *widget.Controller
	rec  *gesture.Recognizer
}

// New creates a session for one panel. Events go to out.
func New(home *store.Home, out Sender, opts Options) *Session {
	if opts.SettleTimeout <= 0 {
		opts.SettleTimeout = DefaultOptions().SettleTimeout
	}
	return &Session{
		id:     uuid.NewString(),
		home:   home,
		out:    out,
		opts:   opts,
		logger: noopLogger{},
		cards:  make(map[string]*card),
	}
}

// SetLogger sets the logger for the session and its widgets.
func (s *Session) SetLogger(logger Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Attach mounts the card of a device: it creates the card's carousel and
// widgets, registers a listener on the device and pushes the initial views.
// Attaching a mounted card only re-sends its views.
func (s *Session) Attach(deviceID string) error {
	d, err := s.home.Device(deviceID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	c, ok := s.cards[deviceID]
	if ok && c.device != d {
		// the home was reloaded since the card was built
		delete(s.cards, deviceID)
		c.stopSettle()
		release(c)
		ok = false
	}
	if !ok {
		c, err = s.newCard(d)
		if err != nil {
			s.mu.Unlock()
			return err
		}
		s.cards[deviceID] = c
		d.AddListener(c.listener, nil, func(*store.Store) error {
			s.deviceChanged(c)
			return nil
		})
		s.logger.Debug("device card attached", "session", s.id, "device", deviceID, "slides", len(c.slides))
	}
	view := carouselView(deviceID, c)
	s.mu.Unlock()

	s.out.SendEvent(EventDeviceView, widget.RenderDevice(d))
	s.out.SendEvent(EventCarouselView, view)
	return nil
}

func (s *Session) newCard(d *store.Device) (*card, error) {
	slides := widget.Slides(d)
	track, err := carousel.New(slides, s.opts.Carousel)
	if err != nil {
		return nil, fmt.Errorf("device %s: %w", d.ID(), err)
	}

	c := &card{
		device:   d,
		listener: store.ListenerID(s.id + "/" + d.ID()),
		slides:   slides,
		track:    track,
		widgets:  make(map[store.Capability]*surface, len(slides)),
		views:    make(map[store.Capability]widget.View, len(slides)),
		name:     d.Name(),
	}
	for _, capability := range slides {
		ctrl, err := widget.NewController(d, capability)
		if err != nil {
			return nil, err
		}
		ctrl.SetLogger(s.logger)
		c.widgets[capability] = &surface{
			ctrl: ctrl,
			rec:  gesture.New(s.opts.Thresholds, ctrl.Handlers()),
		}
		c.views[capability] = ctrl.View()
	}
	return c, nil
}

// Detach unmounts a device card and removes its store listener.
// Detaching a card that is not mounted does nothing.
func (s *Session) Detach(deviceID string) {
	s.mu.Lock()
	c, ok := s.cards[deviceID]
	if ok {
		delete(s.cards, deviceID)
		c.stopSettle()
	}
	s.mu.Unlock()

	if ok {
		release(c)
		s.logger.Debug("device card detached", "session", s.id, "device", deviceID)
	}
}

// Attached returns the ids of the mounted device cards, sorted.
func (s *Session) Attached() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.cards))
	for id := range s.cards {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Close detaches every card. Further Attach calls fail with ErrClosed.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	cards := s.cards
	s.cards = make(map[string]*card)
	for _, c := range cards {
		c.stopSettle()
	}
	s.mu.Unlock()

	for _, c := range cards {
		release(c)
	}
}

func release(c *card) {
	c.device.RemoveListener(c.listener)
	c.viewMu.Lock()
	c.detached = true
	c.viewMu.Unlock()
}

// deviceChanged runs as a store listener. It pushes the device view unless
// no widget needs the update.
func (s *Session) deviceChanged(c *card) {
	c.viewMu.Lock()
	if c.detached {
		c.viewMu.Unlock()
		return
	}
	push := false
	if name := c.device.Name(); name != c.name {
		c.name = name
		push = true
	}
	for capability, sf := range c.widgets {
		next := sf.ctrl.View()
		if sf.ctrl.Kind().NeedsPush(c.views[capability], next) {
			push = true
		}
		c.views[capability] = next
	}
	c.viewMu.Unlock()

	if push {
		s.out.SendEvent(EventDeviceView, widget.RenderDevice(c.device))
	}
}

// HandlePointer routes a raw pointer event to the named surface.
func (s *Session) HandlePointer(surfaceName string, ev gesture.Event) error {
	target, err := ParseSurface(surfaceName)
	if err != nil {
		return err
	}
	if target.Kind == SurfaceCarousel {
		return s.carouselPointer(target.Device, ev)
	}
	return s.widgetPointer(target, ev)
}

func (s *Session) widgetPointer(target Surface, ev gesture.Event) error {
	s.mu.Lock()
	c, ok := s.cards[target.Device]
	var sf *surface
	if ok {
		sf = c.widgets[target.Capability]
	}
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrNotAttached, target.Device)
	}
	if sf == nil {
		return fmt.Errorf("%w: %s", ErrUnknownSurface, target)
	}

	// handlers write to the store, whose listeners call back into the session
	res, err := sf.rec.Handle(ev)
	if err != nil {
		return err
	}
	if res.Outcome != gesture.OutcomeNone {
		s.logger.Debug("gesture recognised",
			"session", s.id,
			"surface", target.String(),
			"outcome", res.Outcome.String(),
		)
		s.out.SendEvent(EventGesture, GestureView{
			Surface: target.String(),
			Outcome: res.Outcome.String(),
			Delta:   res.Delta,
		})
	}
	return nil
}

func (s *Session) carouselPointer(deviceID string, ev gesture.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.card(deviceID)
	if err != nil {
		return err
	}

	switch ev.Kind {
	case gesture.KindDown:
		c.track.DragStart()
		c.lastX = ev.X
	case gesture.KindMove:
		if !c.track.Dragging() {
			return nil
		}
		c.track.DragMove(c.lastX - ev.X)
		c.lastX = ev.X
	case gesture.KindUp, gesture.KindLeave:
		if !c.track.Dragging() {
			return nil
		}
		c.track.DragEnd()
	default:
		return fmt.Errorf("%w: %q", gesture.ErrUnknownEventKind, ev.Kind)
	}

	s.afterCarouselChange(deviceID, c)
	return nil
}

// Advance pages a device card forward (+1) or back (-1).
func (s *Session) Advance(deviceID string, dir int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.card(deviceID)
	if err != nil {
		return err
	}
	if err := c.track.Advance(dir); err != nil {
		return err
	}
	s.afterCarouselChange(deviceID, c)
	return nil
}

// Select jumps a device card to slide index.
func (s *Session) Select(deviceID string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.card(deviceID)
	if err != nil {
		return err
	}
	if err := c.track.SelectIndex(index); err != nil {
		return err
	}
	s.afterCarouselChange(deviceID, c)
	return nil
}

// Resize changes the slide size of a device card, e.g. when the panel's
// layout changes. A drag in progress is cancelled.
func (s *Session) Resize(deviceID string, width, height float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.card(deviceID)
	if err != nil {
		return err
	}
	if err := c.track.Resize(width, height); err != nil {
		return err
	}
	s.afterCarouselChange(deviceID, c)
	return nil
}

// Settle completes a card's slide transition. The panel calls it when its
// slide animation ends.
func (s *Session) Settle(deviceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.card(deviceID)
	if err != nil {
		return err
	}
	s.settle(deviceID, c)
	return nil
}

// Carousel returns the carousel view of a mounted card.
func (s *Session) Carousel(deviceID string) (CarouselView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.card(deviceID)
	if err != nil {
		return CarouselView{}, err
	}
	return carouselView(deviceID, c), nil
}

// card must be called with s.mu held.
func (s *Session) card(deviceID string) (*card, error) {
	c, ok := s.cards[deviceID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotAttached, deviceID)
	}
	return c, nil
}

// afterCarouselChange arms the settle fallback for a new transition and
// pushes the carousel view. Called with s.mu held.
func (s *Session) afterCarouselChange(deviceID string, c *card) {
	if c.track.InFlight() && c.settle == nil {
		gen := c.gen
		c.settle = time.AfterFunc(s.opts.SettleTimeout, func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.cards[deviceID] != c || c.gen != gen {
				return
			}
			s.logger.Debug("carousel settled without panel signal", "session", s.id, "device", deviceID)
			s.settle(deviceID, c)
		})
	}
	s.out.SendEvent(EventCarouselView, carouselView(deviceID, c))
}

// settle must be called with s.mu held.
func (s *Session) settle(deviceID string, c *card) {
	c.stopSettle()
	c.track.Settle()
	s.out.SendEvent(EventCarouselView, carouselView(deviceID, c))
}

func (c *card) stopSettle() {
	if c.settle != nil {
		c.settle.Stop()
		c.settle = nil
	}
	c.gen++
}

func carouselView(deviceID string, c *card) CarouselView {
	return CarouselView{
		Device: deviceID,
		Slides: slices.Clone(c.slides),
		View:   c.track.Snapshot(),
	}
}
