package widget

import (
	"math"

	"github.com/nerrad567/heima-panel/internal/store"
)

// moveScale converts a vertical drag in pixels into a 0..1 level change.
const moveScale = 5000

// View is the rendered state of one capability widget.
type View struct {
	Capability store.Capability   `json:"capability"`
	Icon       string             `json:"icon"`
	Attrs      map[string]float64 `json:"attrs"`
}

// Kind describes how one capability is rendered and operated.
type Kind struct {
	Capability store.Capability
	Icon       string

	// Render converts capability state into icon attributes.
	Render func(state store.CapabilityState) map[string]float64

	// Gesture reducers return the partial update to apply, or nil for none.
	ShortClick  func(state store.CapabilityState) store.CapabilityState
	MediumClick func(state store.CapabilityState) store.CapabilityState
	LongClick   func(state store.CapabilityState) store.CapabilityState
	Move        func(state store.CapabilityState, delta float64) store.CapabilityState

	// Changed reports whether next must be pushed given prev was last shown.
	// Nil means every update is pushed.
	Changed func(prev, next View) bool
}

// Interactive reports whether the widget reacts to gestures at all.
func (k Kind) Interactive() bool {
	return k.ShortClick != nil || k.MediumClick != nil || k.LongClick != nil || k.Move != nil
}

// View renders state.
func (k Kind) View(state store.CapabilityState) View {
	return View{Capability: k.Capability, Icon: k.Icon, Attrs: k.Render(state)}
}

// NeedsPush reports whether next differs from prev in a way the client must see.
func (k Kind) NeedsPush(prev, next View) bool {
	if k.Changed == nil {
		return true
	}
	return k.Changed(prev, next)
}

var kinds = map[store.Capability]Kind{
	store.CapLight: {
		Capability:  store.CapLight,
		Icon:        "light",
		Render:      renderFields("power"),
		ShortClick:  togglePower,
		MediumClick: togglePower,
		LongClick:   togglePower,
	},
	store.CapDimLight: {
		Capability:  store.CapDimLight,
		Icon:        "light",
		Render:      renderFields("power"),
		ShortClick:  togglePower,
		MediumClick: togglePower,
		LongClick:   togglePower,
		Move:        dim,
	},
	store.CapSocket: {
		Capability:  store.CapSocket,
		Icon:        "socket",
		Render:      renderFields("power"),
		ShortClick:  togglePower,
		MediumClick: togglePower,
		LongClick:   togglePower,
		// the socket icon animates while on; only push real power changes
		Changed: func(prev, next View) bool {
			return prev.Attrs["power"] != next.Attrs["power"]
		},
	},
	store.CapBlind: {
		Capability:  store.CapBlind,
		Icon:        "blind",
		Render:      renderFields("open", "angle"),
		ShortClick:  toggleOpen,
		MediumClick: tilt,
		LongClick:   flatten,
		Move:        slide,
	},
	store.CapMeter: {
		Capability: store.CapMeter,
		Icon:       "meter",
		Render: func(state store.CapabilityState) map[string]float64 {
			return map[string]float64{"value": state["power"], "max": state["max"]}
		},
	},
}

// Lookup returns the Kind for capability c.
func Lookup(c store.Capability) (Kind, bool) {
	k, ok := kinds[c]
	return k, ok
}

// Supported reports whether c has a widget.
func Supported(c store.Capability) bool {
	_, ok := kinds[c]
	return ok
}

func renderFields(fields ...string) func(store.CapabilityState) map[string]float64 {
	return func(state store.CapabilityState) map[string]float64 {
		attrs := make(map[string]float64, len(fields))
		for _, f := range fields {
			attrs[f] = state[f]
		}
		return attrs
	}
}

func toggle(field string, state store.CapabilityState) store.CapabilityState {
	if state[field] == 0 {
		return store.CapabilityState{field: 1}
	}
	return store.CapabilityState{field: 0}
}

func togglePower(state store.CapabilityState) store.CapabilityState {
	return toggle("power", state)
}

func toggleOpen(state store.CapabilityState) store.CapabilityState {
	return toggle("open", state)
}

func dim(state store.CapabilityState, delta float64) store.CapabilityState {
	return store.CapabilityState{"power": clamp01(state["power"] + delta/moveScale)}
}

func slide(state store.CapabilityState, delta float64) store.CapabilityState {
	return store.CapabilityState{"open": clamp01(state["open"] - delta/moveScale)}
}

func tilt(state store.CapabilityState) store.CapabilityState {
	return store.CapabilityState{"angle": math.Min(state["angle"]+0.25, 1)}
}

func flatten(store.CapabilityState) store.CapabilityState {
	return store.CapabilityState{"angle": 0}
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
