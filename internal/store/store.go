package store

import (
	"errors"
	"fmt"
	"sync"
)

// Logger defines the logging interface used by stores.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// ListenerID identifies a listener. Adding a listener with an identity that is
// already registered replaces the earlier registration.
type ListenerID string

// Callback is invoked with the store that changed.
type Callback func(s *Store) error

type listener struct {
	id   ListenerID
	keys map[string]struct{} // nil watches every key
	fn   Callback
}

func (l listener) watches(key string) bool {
	if l.keys == nil {
		return true
	}
	_, ok := l.keys[key]
	return ok
}

// Store is a keyed field set that notifies listeners on every write.
//
// Fields can only be changed through Set and the typed mutators built on it,
// so every write is observable. All methods are safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	fields    map[string]any
	listeners []listener
	logger    Logger
}

// New creates an empty store.
func New() *Store {
	return &Store{
		fields: make(map[string]any),
		logger: noopLogger{},
	}
}

// SetLogger sets the logger used to report listener failures.
func (s *Store) SetLogger(logger Logger) {
	s.mu.Lock()
	s.logger = logger
	s.mu.Unlock()
}

// Get returns the value of a field.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.fields[key]
	return v, ok
}

// Set replaces a field and notifies the listeners watching it.
// The returned error only reports listener failures; the write itself always succeeds.
func (s *Store) Set(key string, value any) error {
	s.mu.Lock()
	s.fields[key] = value
	s.mu.Unlock()

	return s.Notify(key)
}

// update replaces a field with fn(old) under the lock, then notifies.
func (s *Store) update(key string, fn func(old any) any) error {
	s.mu.Lock()
	s.fields[key] = fn(s.fields[key])
	s.mu.Unlock()

	return s.Notify(key)
}

// Notify invokes, in registration order, every listener whose watch-set
// contains key. Each callback receives the store itself.
func (s *Store) Notify(key string) error {
	s.mu.RLock()
	matched := make([]listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		if l.watches(key) {
			matched = append(matched, l)
		}
	}
	logger := s.logger
	s.mu.RUnlock()

	var errs []error
	for _, l := range matched {
		if err := s.invoke(l); err != nil {
			logger.Warn("store listener failed", "listener", string(l.id), "key", key, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// invoke runs one callback, converting a panic into an error so it cannot
// abort the rest of the fan-out.
func (s *Store) invoke(l listener) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: panic: %v", ErrListenerFailed, l.id, r)
		}
	}()

	if cbErr := l.fn(s); cbErr != nil {
		return fmt.Errorf("%w: %s: %w", ErrListenerFailed, l.id, cbErr)
	}
	return nil
}

// AddListener registers fn for writes to any of keys. A nil or empty keys
// slice watches every key. Re-registering an identity replaces the previous
// entry and keeps its position in the notification order.
func (s *Store) AddListener(id ListenerID, keys []string, fn Callback) {
	l := listener{id: id, fn: fn}
	if len(keys) > 0 {
		l.keys = make(map[string]struct{}, len(keys))
		for _, k := range keys {
			l.keys[k] = struct{}{}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.listeners {
		if s.listeners[i].id == id {
			s.listeners[i] = l
			return
		}
	}
	s.listeners = append(s.listeners, l)
}

// RemoveListener removes the listener with the given identity.
// Removing an unknown identity is a no-op.
func (s *Store) RemoveListener(id ListenerID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.listeners {
		if s.listeners[i].id == id {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return
		}
	}
}

// ListenerCount returns the number of registered listeners.
func (s *Store) ListenerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listeners)
}
