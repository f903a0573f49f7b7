// Package counter provides the call-scoped store behind increment rules
// such as "id|+1".
//
// A Store lives for exactly one generation call: Open it at call entry and
// Close it on every exit path. Keys are the template path of the ruled key
// with array indices erased, so elements produced from the same array
// template advance one shared counter while unrelated keys and unrelated
// calls never share state.
package counter

import "sync"

// Store maps instance keys to the last value handed out.
// It is safe for concurrent use.
type Store struct {
	values map[string]int64
	closed bool
	mu     sync.RWMutex
}

// Open creates a new empty store.
func Open() *Store {
	return &Store{
		values: make(map[string]int64),
	}
}

// Next returns initial on the first call for key and advances by step on
// every later call, returning the new value. Calling Next on a closed store
// panics.
func (s *Store) Next(key string, initial, step int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		panic("counter: Next called on closed store")
	}

	val, exists := s.values[key]
	if !exists {
		val = initial
	} else {
		val += step
	}
	s.values[key] = val
	return val
}

// Current returns the last value handed out for key.
func (s *Store) Current(key string) (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.values[key]
	return val, ok
}

// Len returns the number of live counters.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// Close discards every counter. Close is idempotent.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = nil
	s.closed = true
}

// Closed reports whether Close has been called.
func (s *Store) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}
