// Package widget maps device capabilities to interactive panel widgets.
//
// Each supported capability has a Kind in a dispatch table: the icon it
// renders with, how its state becomes a View, and what its gestures do to
// the device. A Controller binds one Kind to one device and exposes the
// gesture handlers a recognizer fires.
//
//	Capability  Icon    Gestures
//	Light       light   any click toggles power
//	DimLight    light   any click toggles power, vertical move dims
//	Socket      socket  any click toggles power
//	Blind       blind   short click toggles open, medium click tilts,
//	                    long click flattens, vertical move opens/closes
//	Meter       meter   display only
//
// A device card holds one slide per supported capability, ordered by
// store.CapabilityOrder.
package widget
