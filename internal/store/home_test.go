package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHome(t *testing.T) *Home {
	t.Helper()
	home, err := NewHome(DefaultDevices())
	require.NoError(t, err)
	return home
}

func TestHome_RoomsFirstSeenOrder(t *testing.T) {
	home := newTestHome(t)

	assert.Equal(t, []string{"Favorites", "Kitchen", "Bath", "Guestroom"}, home.Rooms())
	// stable across calls
	assert.Equal(t, home.Rooms(), home.Rooms())
}

func TestHome_RoomDevices(t *testing.T) {
	home := newTestHome(t)

	ids := func(devices []*Device) []string {
		var out []string
		for _, d := range devices {
			out = append(out, d.ID())
		}
		return out
	}

	assert.Equal(t, []string{"0", "1", "2"}, ids(home.RoomDevices("Favorites")))
	assert.Equal(t, []string{"1"}, ids(home.RoomDevices("Bath")))
	assert.Empty(t, home.RoomDevices("Attic"))
}

func TestHome_Device(t *testing.T) {
	home := newTestHome(t)

	d, err := home.Device("2")
	require.NoError(t, err)
	assert.Equal(t, "Blend", d.Name())

	_, err = home.Device("99")
	assert.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestHome_DeviceReturnsSharedInstance(t *testing.T) {
	home := newTestHome(t)

	a, _ := home.Device("0")
	b, _ := home.Device("0")
	assert.Same(t, a, b)
}

func TestNewHome_RejectsDuplicateIDs(t *testing.T) {
	_, err := NewHome([]*Device{
		NewDevice("0", "A", nil, nil),
		NewDevice("0", "B", nil, nil),
	})
	assert.ErrorIs(t, err, ErrDuplicateDevice)
}

func TestNewHome_RejectsEmptyID(t *testing.T) {
	_, err := NewHome([]*Device{NewDevice("", "A", nil, nil)})
	assert.ErrorIs(t, err, ErrInvalidDevice)
}

func TestHome_TouchNotifiesRootListeners(t *testing.T) {
	home := newTestHome(t)
	renders := 0
	home.AddListener("ui", nil, func(*Store) error { renders++; return nil })

	d, _ := home.Device("0")
	require.NoError(t, d.Rename("Light new"))
	assert.Zero(t, renders, "device writes do not reach root listeners")

	require.NoError(t, home.Touch())
	assert.Equal(t, 1, renders)
	assert.Len(t, home.Devices(), 3)
}

func TestHome_Reset(t *testing.T) {
	home := newTestHome(t)
	renders := 0
	home.AddListener("ui", []string{FieldDevices}, func(*Store) error { renders++; return nil })

	require.NoError(t, home.Reset([]*Device{NewDevice("9", "Fan", []string{"Loft"}, nil)}))

	assert.Equal(t, 1, renders)
	assert.Equal(t, []string{"Loft"}, home.Rooms())

	err := home.Reset([]*Device{NewDevice("1", "a", nil, nil), NewDevice("1", "b", nil, nil)})
	assert.ErrorIs(t, err, ErrDuplicateDevice)
	assert.Equal(t, 1, renders)
}

func TestHome_DevicesReturnsCopyOfSlice(t *testing.T) {
	home := newTestHome(t)

	devices := home.Devices()
	devices[0] = nil

	d, err := home.Device("0")
	require.NoError(t, err)
	assert.NotNil(t, d)
}
