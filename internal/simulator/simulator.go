package simulator

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/nerrad567/heima-panel/internal/store"
)

// ErrInvalidInterval is returned when the tick interval is not positive.
var ErrInvalidInterval = errors.New("simulator: interval must be positive")

// Logger is the logging interface used by the simulator.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}

// Options configure a Simulator.
type Options struct {
	Interval time.Duration
	Jitter   float64

	// Float64 returns values in [0, 1). Nil uses math/rand.
	Float64 func() float64
}

// Simulator random-walks meter readings.
type Simulator struct {
	home     *store.Home
	interval time.Duration
	jitter   float64
	random   func() float64
	logger   Logger
}

// New creates a simulator over home.
func New(home *store.Home, opts Options) (*Simulator, error) {
	if opts.Interval <= 0 {
		return nil, ErrInvalidInterval
	}
	if opts.Float64 == nil {
		opts.Float64 = rand.Float64
	}
	return &Simulator{
		home:     home,
		interval: opts.Interval,
		jitter:   opts.Jitter,
		random:   opts.Float64,
		logger:   noopLogger{},
	}, nil
}

// SetLogger sets the logger.
func (s *Simulator) SetLogger(logger Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Run ticks until ctx is cancelled. It always returns nil.
func (s *Simulator) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("meter simulator started", "interval", s.interval.String(), "jitter", s.jitter)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("meter simulator stopped")
			return nil
		case <-ticker.C:
			s.Step()
		}
	}
}

// Step moves every meter once and returns how many were updated.
func (s *Simulator) Step() int {
	updated := 0
	for _, d := range s.home.Devices() {
		meter, ok := d.Capability(store.CapMeter)
		if !ok {
			continue
		}

		power := meter["power"] + (s.random()*2-1)*s.jitter
		power = math.Max(power, 0)
		if limit, ok := meter["max"]; ok && limit > 0 {
			power = math.Min(power, limit)
		}

		if err := d.UpdateStatus(store.CapMeter, store.CapabilityState{"power": power}); err != nil {
			s.logger.Warn("meter update notified failing listeners", "device", d.ID(), "error", err)
		}
		updated++
	}
	return updated
}
