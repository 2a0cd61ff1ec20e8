package store

import (
	"fmt"
	"slices"
)

// FieldDevices is the Home field holding the device collection.
const FieldDevices = "devices"

// Home is the root store: it owns the device collection and serves the
// read projections used by the panel (rooms, devices in a room, lookup).
type Home struct {
	*Store
}

// NewHome creates a root store over devices.
// Returns ErrDuplicateDevice if two devices share an ID.
func NewHome(devices []*Device) (*Home, error) {
	if err := checkDevices(devices); err != nil {
		return nil, err
	}
	s := New()
	s.fields[FieldDevices] = slices.Clone(devices)
	return &Home{Store: s}, nil
}

func checkDevices(devices []*Device) error {
	seen := make(map[string]struct{}, len(devices))
	for _, d := range devices {
		id := d.ID()
		if id == "" {
			return fmt.Errorf("%w: empty id", ErrInvalidDevice)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateDevice, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// SetLogger sets the logger on the home and on every device it holds.
func (h *Home) SetLogger(logger Logger) {
	h.Store.SetLogger(logger)
	for _, d := range h.Devices() {
		d.SetLogger(logger)
	}
}

// Devices returns the device collection in order.
func (h *Home) Devices() []*Device {
	v, _ := h.Get(FieldDevices)
	devices, _ := v.([]*Device)
	return slices.Clone(devices)
}

// Rooms returns every room, in the order first seen while walking the
// devices and their rooms.
func (h *Home) Rooms() []string {
	var rooms []string
	for _, d := range h.Devices() {
		for _, r := range d.Rooms() {
			if !slices.Contains(rooms, r) {
				rooms = append(rooms, r)
			}
		}
	}
	return rooms
}

// RoomDevices returns the devices that belong to room, in device order.
func (h *Home) RoomDevices(room string) []*Device {
	var out []*Device
	for _, d := range h.Devices() {
		if d.InRoom(room) {
			out = append(out, d)
		}
	}
	return out
}

// Device finds a device by ID.
func (h *Home) Device(id string) (*Device, error) {
	for _, d := range h.Devices() {
		if d.ID() == id {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, id)
}

// Touch re-writes the device collection so root listeners re-render,
// e.g. after a device was renamed.
func (h *Home) Touch() error {
	return h.update(FieldDevices, func(old any) any { return old })
}

// Reset replaces the device collection and notifies root listeners.
func (h *Home) Reset(devices []*Device) error {
	if err := checkDevices(devices); err != nil {
		return err
	}
	h.mu.RLock()
	logger := h.logger
	h.mu.RUnlock()
	for _, d := range devices {
		d.SetLogger(logger)
	}
	return h.Set(FieldDevices, slices.Clone(devices))
}
