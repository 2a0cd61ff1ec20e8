package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedYAML = `
devices:
  - id: "0"
    name: Light
    rooms: [Favorites, Kitchen]
    status:
      DimLight: {power: 1.0}
      Meter: {power: 12.5, max: 30}
  - id: "2"
    name: Blend
    rooms: [Guestroom]
    status:
      Blind: {open: 0.5, angle: 0}
`

func TestParseDevices(t *testing.T) {
	devices, err := ParseDevices([]byte(seedYAML))
	require.NoError(t, err)
	require.Len(t, devices, 2)

	assert.Equal(t, "0", devices[0].ID())
	assert.Equal(t, []string{"Favorites", "Kitchen"}, devices[0].Rooms())
	assert.Equal(t, []Capability{CapDimLight, CapMeter}, devices[0].Capabilities())

	meter, ok := devices[0].Capability(CapMeter)
	require.True(t, ok)
	assert.Equal(t, CapabilityState{"power": 12.5, "max": 30}, meter)

	blind, _ := devices[1].Capability(CapBlind)
	assert.Equal(t, 0.5, blind["open"])
}

func TestParseDevices_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"missing name", "devices:\n  - id: \"1\"\n", ErrInvalidDevice},
		{"missing id", "devices:\n  - name: x\n", ErrInvalidDevice},
		{"duplicate", "devices:\n  - {id: \"1\", name: a}\n  - {id: \"1\", name: b}\n", ErrDuplicateDevice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDevices([]byte(tt.yaml))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := ParseDevices([]byte("devices: [oops"))
	assert.Error(t, err)
}

func TestLoadDevices(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devices.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0600))

	devices, err := LoadDevices(path)
	require.NoError(t, err)
	assert.Len(t, devices, 2)

	_, err = LoadDevices(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaultDevices(t *testing.T) {
	devices := DefaultDevices()
	require.Len(t, devices, 3)

	socketMeter, ok := devices[1].Capability(CapMeter)
	require.True(t, ok)
	assert.Equal(t, 7.0, socketMeter["max"])
	assert.Equal(t, []Capability{CapBlind}, devices[2].Capabilities())
}
