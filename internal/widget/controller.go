package widget

import (
	"fmt"

	"github.com/nerrad567/heima-panel/internal/gesture"
	"github.com/nerrad567/heima-panel/internal/store"
)

// Logger is the logging interface used by controllers.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

// Controller applies one widget's gestures to its device.
type Controller struct {
	device *store.Device
	kind   Kind
	logger Logger
}

// NewController binds capability c of device d to its widget.
func NewController(d *store.Device, c store.Capability) (*Controller, error) {
	kind, ok := Lookup(c)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCapability, c)
	}
	if _, ok := d.Capability(c); !ok {
		return nil, fmt.Errorf("%w: %s on %s", ErrCapabilityMissing, c, d.ID())
	}
	return &Controller{device: d, kind: kind, logger: noopLogger{}}, nil
}

// SetLogger sets the logger for update failures.
func (c *Controller) SetLogger(logger Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// Kind returns the widget kind.
func (c *Controller) Kind() Kind { return c.kind }

// Device returns the bound device.
func (c *Controller) Device() *store.Device { return c.device }

// View renders the device's current state.
func (c *Controller) View() View {
	state, _ := c.device.Capability(c.kind.Capability)
	return c.kind.View(state)
}

// Handlers returns the gesture callbacks for this widget. Gestures the
// widget does not use are left nil.
func (c *Controller) Handlers() gesture.Handlers {
	var h gesture.Handlers
	if c.kind.ShortClick != nil {
		h.OnShortClick = func() { c.apply("short-click", c.kind.ShortClick) }
	}
	if c.kind.MediumClick != nil {
		h.OnMediumClick = func() { c.apply("medium-click", c.kind.MediumClick) }
	}
	if c.kind.LongClick != nil {
		h.OnLongClick = func() { c.apply("long-click", c.kind.LongClick) }
	}
	if c.kind.Move != nil {
		h.OnMove = func(delta float64) {
			c.apply("move", func(state store.CapabilityState) store.CapabilityState {
				return c.kind.Move(state, delta)
			})
		}
	}
	return h
}

func (c *Controller) apply(gestureName string, reduce func(store.CapabilityState) store.CapabilityState) {
	state, ok := c.device.Capability(c.kind.Capability)
	if !ok {
		return
	}
	partial := reduce(state)
	if len(partial) == 0 {
		return
	}

	c.logger.Debug("widget gesture",
		"device", c.device.ID(),
		"capability", c.kind.Capability,
		"gesture", gestureName,
		"update", partial,
	)
	if err := c.device.UpdateStatus(c.kind.Capability, partial); err != nil {
		c.logger.Warn("widget update notified failing listeners",
			"device", c.device.ID(),
			"capability", c.kind.Capability,
			"error", err,
		)
	}
}
