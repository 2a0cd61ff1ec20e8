package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevice_UpdateStatusMergesPartialFields(t *testing.T) {
	d := NewDevice("0", "Light", []string{"Kitchen"}, Status{
		CapMeter: {"power": 12.5, "max": 30},
	})

	notifications := 0
	d.AddListener("w", []string{FieldStatus}, func(*Store) error { notifications++; return nil })

	require.NoError(t, d.UpdateStatus(CapMeter, CapabilityState{"power": 7}))

	meter, ok := d.Capability(CapMeter)
	require.True(t, ok)
	assert.Equal(t, CapabilityState{"power": 7, "max": 30}, meter)
	assert.Equal(t, 1, notifications)
}

func TestDevice_UpdateStatusOneNotificationForManyFields(t *testing.T) {
	d := NewDevice("2", "Blend", nil, Status{CapBlind: {"open": 0.5, "angle": 0}})

	notifications := 0
	d.AddListener("w", nil, func(*Store) error { notifications++; return nil })

	require.NoError(t, d.UpdateStatus(CapBlind, CapabilityState{"open": 1, "angle": 0.25}))
	assert.Equal(t, 1, notifications)
}

func TestDevice_UpdateStatusCreatesCapability(t *testing.T) {
	d := NewDevice("1", "Socket", nil, nil)

	require.NoError(t, d.UpdateStatus(CapSocket, CapabilityState{"power": 1}))

	socket, ok := d.Capability(CapSocket)
	require.True(t, ok)
	assert.Equal(t, 1.0, socket["power"])
}

func TestDevice_UpdateStatusDoesNotNotifyNameListeners(t *testing.T) {
	d := NewDevice("0", "Light", nil, Status{CapLight: {"power": 0}})

	nameCalls := 0
	d.AddListener("title", []string{FieldName}, func(*Store) error { nameCalls++; return nil })

	require.NoError(t, d.UpdateStatus(CapLight, CapabilityState{"power": 1}))
	assert.Zero(t, nameCalls)

	require.NoError(t, d.Rename("Ceiling"))
	assert.Equal(t, 1, nameCalls)
	assert.Equal(t, "Ceiling", d.Name())
}

func TestDevice_AccessorsReturnCopies(t *testing.T) {
	d := NewDevice("0", "Light", []string{"Kitchen"}, Status{CapLight: {"power": 1}})

	st := d.Status()
	st[CapLight]["power"] = 0
	rooms := d.Rooms()
	rooms[0] = "Garage"
	cs, _ := d.Capability(CapLight)
	cs["power"] = 0.5

	light, _ := d.Capability(CapLight)
	assert.Equal(t, 1.0, light["power"])
	assert.Equal(t, []string{"Kitchen"}, d.Rooms())
}

func TestDevice_ConstructorCopiesStatus(t *testing.T) {
	status := Status{CapLight: {"power": 1}}
	d := NewDevice("0", "Light", nil, status)

	status[CapLight]["power"] = 0

	light, _ := d.Capability(CapLight)
	assert.Equal(t, 1.0, light["power"])
}

func TestDevice_RoomsAreASet(t *testing.T) {
	d := NewDevice("0", "Light", []string{"Kitchen", "Favorites", "Kitchen"}, nil)

	assert.Equal(t, []string{"Kitchen", "Favorites"}, d.Rooms())
	assert.True(t, d.InRoom("Favorites"))
	assert.False(t, d.InRoom("Bath"))
}

func TestDevice_CapabilitiesOrder(t *testing.T) {
	d := NewDevice("0", "Multi", nil, Status{
		CapMeter:    {"power": 1},
		"Zigbee":    {"lqi": 80},
		CapDimLight: {"power": 1},
		"Alarm":     {"armed": 0},
	})

	assert.Equal(t, []Capability{CapDimLight, CapMeter, "Alarm", "Zigbee"}, d.Capabilities())
}

func TestDevice_Snapshot(t *testing.T) {
	d := NewDevice("1", "Socket", []string{"Bath"}, Status{CapSocket: {"power": 0}})

	snap := d.Snapshot()
	assert.Equal(t, "1", snap.ID)
	assert.Equal(t, "Socket", snap.Name)
	assert.Equal(t, []string{"Bath"}, snap.Rooms)
	assert.Equal(t, Status{CapSocket: {"power": 0}}, snap.Status)
}
