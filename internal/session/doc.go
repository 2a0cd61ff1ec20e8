// Package session holds the interaction state of one connected panel.
//
// A panel mounts device cards with Attach. Each card gets a carousel over
// the device's capability slides, one gesture recognizer per slide widget,
// and a listener on the device store. Raw pointer events are routed by
// surface name:
//
//	device/{id}/{Capability}  gestures on one widget
//	carousel/{id}             drags on the card's slide track
//
// Widget gestures become store updates through the widget controllers; the
// store listener then pushes a fresh device view back to the panel. Every
// panel looking at the same device sees the change.
//
// Carousel transitions settle when the panel reports the end of its slide
// animation, or after Options.SettleTimeout if it never does.
//
// Input methods (Attach, Detach, HandlePointer, Advance, Select, Settle) are
// meant to be called from the single goroutine reading the panel's
// connection, which keeps events for a surface in arrival order. Store
// callbacks and settle timers may run on other goroutines.
package session
