package widget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/heima-panel/internal/store"
)

func TestLookup(t *testing.T) {
	for _, c := range store.CapabilityOrder {
		k, ok := Lookup(c)
		require.True(t, ok, c)
		assert.Equal(t, c, k.Capability)
	}

	_, ok := Lookup("Thermostat")
	assert.False(t, ok)
}

func TestInteractive(t *testing.T) {
	meter, _ := Lookup(store.CapMeter)
	assert.False(t, meter.Interactive())

	blind, _ := Lookup(store.CapBlind)
	assert.True(t, blind.Interactive())
}

func TestToggle(t *testing.T) {
	light, _ := Lookup(store.CapLight)

	assert.Equal(t, store.CapabilityState{"power": 1}, light.ShortClick(store.CapabilityState{"power": 0}))
	assert.Equal(t, store.CapabilityState{"power": 0}, light.LongClick(store.CapabilityState{"power": 1}))
	// a dimmed light counts as on
	assert.Equal(t, store.CapabilityState{"power": 0}, light.MediumClick(store.CapabilityState{"power": 0.3}))
}

func TestDimLightMove(t *testing.T) {
	k, _ := Lookup(store.CapDimLight)

	tests := []struct {
		name  string
		power float64
		delta float64
		want  float64
	}{
		{"brighten", 0.5, 500, 0.6},
		{"darken", 0.5, -1000, 0.3},
		{"clamped high", 0.9, 5000, 1},
		{"clamped low", 0.1, -5000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := k.Move(store.CapabilityState{"power": tt.power}, tt.delta)
			assert.InDelta(t, tt.want, got["power"], 1e-9)
		})
	}
}

func TestBlindGestures(t *testing.T) {
	k, _ := Lookup(store.CapBlind)

	assert.Equal(t, store.CapabilityState{"open": 1}, k.ShortClick(store.CapabilityState{"open": 0}))
	assert.Equal(t, store.CapabilityState{"open": 0}, k.ShortClick(store.CapabilityState{"open": 0.5}))

	assert.Equal(t, store.CapabilityState{"angle": 0.25}, k.MediumClick(store.CapabilityState{"angle": 0}))
	assert.Equal(t, store.CapabilityState{"angle": 1.0}, k.MediumClick(store.CapabilityState{"angle": 0.9}))

	assert.Equal(t, store.CapabilityState{"angle": 0.0}, k.LongClick(store.CapabilityState{"angle": 0.75}))

	// an upward drag (positive delta) closes the blind
	got := k.Move(store.CapabilityState{"open": 0.5}, 500)
	assert.InDelta(t, 0.4, got["open"], 1e-9)
}

func TestMeterView(t *testing.T) {
	k, _ := Lookup(store.CapMeter)
	v := k.View(store.CapabilityState{"power": 12.5, "max": 30})

	assert.Equal(t, "meter", v.Icon)
	assert.Equal(t, map[string]float64{"value": 12.5, "max": 30}, v.Attrs)
}

func TestNeedsPush(t *testing.T) {
	socket, _ := Lookup(store.CapSocket)
	on := socket.View(store.CapabilityState{"power": 1})
	off := socket.View(store.CapabilityState{"power": 0})

	assert.False(t, socket.NeedsPush(on, on))
	assert.True(t, socket.NeedsPush(on, off))

	light, _ := Lookup(store.CapLight)
	lit := light.View(store.CapabilityState{"power": 1})
	assert.True(t, light.NeedsPush(lit, lit))
}
