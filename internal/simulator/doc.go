// Package simulator feeds demo readings into meter capabilities.
//
// With no real bus attached the panel would show frozen meters, so on every
// tick each device with a Meter capability gets its power moved by a random
// step in [-jitter, +jitter]. Readings are kept within [0, max] when the
// meter declares a max. Updates go through Device.UpdateStatus and reach
// panels like any other change.
package simulator
