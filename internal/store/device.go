package store

import (
	"maps"
	"slices"
)

// Device field keys.
const (
	FieldID     = "id"
	FieldName   = "name"
	FieldRooms  = "rooms"
	FieldStatus = "status"
)

// Capability names a controllable or observable facet of a device.
type Capability string

// Known capabilities.
const (
	CapLight    Capability = "Light"
	CapDimLight Capability = "DimLight"
	CapSocket   Capability = "Socket"
	CapBlind    Capability = "Blind"
	CapMeter    Capability = "Meter"
)

// CapabilityOrder is the order in which a device's capabilities are presented.
var CapabilityOrder = []Capability{CapLight, CapDimLight, CapSocket, CapBlind, CapMeter}

// CapabilityState holds the numeric fields of one capability (power, open, angle, max, ...).
type CapabilityState map[string]float64

// Status maps each capability of a device to its state.
type Status map[Capability]CapabilityState

// Clone returns a deep copy of the status.
func (s Status) Clone() Status {
	out := make(Status, len(s))
	for c, st := range s {
		out[c] = maps.Clone(st)
	}
	return out
}

// Device is a Store holding one home-automation device.
type Device struct {
	*Store
}

// NewDevice creates a device. Duplicate rooms are dropped, keeping first-seen order.
func NewDevice(id, name string, rooms []string, status Status) *Device {
	s := New()
	s.fields[FieldID] = id
	s.fields[FieldName] = name
	s.fields[FieldRooms] = dedupe(rooms)
	if status == nil {
		status = Status{}
	}
	s.fields[FieldStatus] = status.Clone()
	return &Device{Store: s}
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

func (d *Device) str(key string) string {
	v, _ := d.Get(key)
	s, _ := v.(string)
	return s
}

// ID returns the device identifier.
func (d *Device) ID() string { return d.str(FieldID) }

// Name returns the display name.
func (d *Device) Name() string { return d.str(FieldName) }

// Rooms returns a copy of the rooms the device belongs to.
func (d *Device) Rooms() []string {
	v, _ := d.Get(FieldRooms)
	rooms, _ := v.([]string)
	return slices.Clone(rooms)
}

// InRoom reports whether the device belongs to room.
func (d *Device) InRoom(room string) bool {
	v, _ := d.Get(FieldRooms)
	rooms, _ := v.([]string)
	return slices.Contains(rooms, room)
}

// Status returns a deep copy of the device status.
func (d *Device) Status() Status {
	d.mu.RLock()
	defer d.mu.RUnlock()
	st, _ := d.fields[FieldStatus].(Status)
	return st.Clone()
}

// Capability returns a copy of one capability's state.
func (d *Device) Capability(c Capability) (CapabilityState, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	st, _ := d.fields[FieldStatus].(Status)
	cs, ok := st[c]
	if !ok {
		return nil, false
	}
	return maps.Clone(cs), true
}

// Capabilities lists the device's capabilities: known ones in CapabilityOrder,
// then any others sorted by name.
func (d *Device) Capabilities() []Capability {
	st := d.Status()
	out := make([]Capability, 0, len(st))
	for _, c := range CapabilityOrder {
		if _, ok := st[c]; ok {
			out = append(out, c)
		}
	}
	var extra []Capability
	for c := range st {
		if !slices.Contains(CapabilityOrder, c) {
			extra = append(extra, c)
		}
	}
	slices.Sort(extra)
	return append(out, extra...)
}

// UpdateStatus merges partial into the state of capability c, creating it if
// absent, and writes status once. Fields not in partial keep their value.
func (d *Device) UpdateStatus(c Capability, partial CapabilityState) error {
	return d.update(FieldStatus, func(old any) any {
		st, _ := old.(Status)
		next := st.Clone()
		cs := next[c]
		if cs == nil {
			cs = make(CapabilityState, len(partial))
			next[c] = cs
		}
		maps.Copy(cs, partial)
		return next
	})
}

// Rename changes the display name.
func (d *Device) Rename(name string) error {
	return d.Set(FieldName, name)
}

// Snapshot is a JSON-ready copy of a device.
type Snapshot struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Rooms  []string `json:"rooms"`
	Status Status   `json:"status"`
}

// Snapshot returns a point-in-time copy of the device.
func (d *Device) Snapshot() Snapshot {
	return Snapshot{
		ID:     d.ID(),
		Name:   d.Name(),
		Rooms:  d.Rooms(),
		Status: d.Status(),
	}
}
