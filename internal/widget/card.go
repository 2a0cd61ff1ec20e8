package widget

import "github.com/nerrad567/heima-panel/internal/store"

// DeviceView is a device card as the panel renders it.
type DeviceView struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Rooms  []string `json:"rooms"`
	Slides []View   `json:"slides"`
}

// Slides returns the capabilities of d that get a card slide, in display order.
func Slides(d *store.Device) []store.Capability {
	var out []store.Capability
	for _, c := range d.Capabilities() {
		if Supported(c) {
			out = append(out, c)
		}
	}
	return out
}

// RenderDevice renders the card for d.
func RenderDevice(d *store.Device) DeviceView {
	snap := d.Snapshot()
	view := DeviceView{
		ID:     snap.ID,
		Name:   snap.Name,
		Rooms:  snap.Rooms,
		Slides: []View{},
	}
	for _, c := range store.CapabilityOrder {
		state, ok := snap.Status[c]
		if !ok {
			continue
		}
		kind, _ := Lookup(c)
		view.Slides = append(view.Slides, kind.View(state))
	}
	return view
}
