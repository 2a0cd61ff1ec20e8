// Package store provides the reactive state stores behind every panel widget.
//
// A Store is a keyed set of fields plus an ordered list of listeners. Every
// write goes through Set (or a typed mutator built on it) and synchronously
// notifies the listeners whose watch-set contains the written key. A nil or
// empty watch-set watches every key.
//
// Device is a Store with the fields id, name, rooms and status. Status holds
// one CapabilityState per capability (Light, DimLight, Socket, Blind, Meter);
// UpdateStatus merges a partial update into one capability and counts as a
// single write to "status".
//
// Home is the root store. It owns the device collection and offers the
// read projections the panel needs: rooms in first-seen order, the devices of
// a room, and lookup by ID.
//
// # Listener semantics
//
//   - At most one listener per identity; re-adding an identity replaces the
//     callback and watch-set in place.
//   - Callbacks run in registration order, outside the store lock, so they may
//     read from or write to the store.
//   - A callback that returns an error or panics does not stop the remaining
//     callbacks. Failures are logged and returned joined from Set.
//
// # Usage
//
//	devices, _ := store.LoadDevices("configs/devices.yaml")
//	home, _ := store.NewHome(devices)
//
//	dev, _ := home.Device("0")
//	dev.AddListener("panel-1/0", []string{store.FieldStatus}, func(*store.Store) error {
//	    return push(dev.Snapshot())
//	})
//	dev.UpdateStatus(store.CapDimLight, store.CapabilityState{"power": 0.4})
package store
