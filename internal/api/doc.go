// Package api implements the HTTP REST API and WebSocket server for the Heima panel.
//
// This package provides:
//   - REST endpoints for rooms, devices, renames and capability updates
//   - WebSocket hub with per-panel interaction sessions
//   - Middleware stack (request ID, logging, recovery, CORS, body limit)
//   - The embedded demo panel under /panel/
//
// # Architecture
//
// Panels connect to /api/v1/ws and mount device cards with "attach". Raw
// pointer events and carousel commands from the panel are fed into that
// connection's session, which recognises gestures, updates the device stores
// and pushes fresh views back. Changes made through REST land in the same
// stores, so every mounted card sees them.
//
// Hub channels carry broadcasts that are not tied to a card. A panel that
// subscribes to "home.changed" is told when the device collection is reloaded
// or a device is renamed, and should re-read rooms and re-attach its cards.
package api
