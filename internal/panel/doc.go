// Package panel serves the browser demo panel.
//
// The panel is a thin client: it renders the views the server pushes over
// the WebSocket and forwards raw pointer events and carousel transition ends.
// Gesture recognition, carousel state and device state all live server-side.
// The assets are embedded with go:embed so the binary has no runtime file
// dependencies.
package panel
