// Package store implements the Persistence Store (C7): an in-memory,
// process-local key/value map exposed both to MCP-routed commands and,
// via Facade, to code executing in the embedded interpreter.
//
// Grounded on the teacher's internal/domain/profile.Store load/save
// discipline, generalized from a YAML-file-backed store to the
// in-memory-only store spec.md §6.4 requires ("None on disk"), and on
// the mutex-guarded-map idiom the teacher uses for DiscoveryEngine's
// shared maps (internal/domain/discovery/discovery.go).
package store

import (
	"encoding/json"
	"sync"
)

// Store is a JSON-value key/value map guarded by a single mutex,
// since it is read and written both from inline I/O-worker handlers
// and from user code running on the main loop (spec.md §3, §5).
type Store struct {
	mu   sync.Mutex
	data map[string]interface{}
}

// New creates an empty Store.
func New() *Store {
	return &Store{data: make(map[string]interface{})}
}

// Put overwrites key with value. value must already be a
// JSON-representable Go value (map[string]interface{}, []interface{},
// string, float64/int, bool, nil) — callers that accept values from
// the wire should have already run them through json.Unmarshal.
func (s *Store) Put(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

// Get returns the stored value for key, or def and found=false when
// key is absent.
func (s *Store) Get(key string, def interface{}) (value interface{}, found bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return def, false
	}
	return v, true
}

// Remove deletes key, reporting whether it was present.
func (s *Store) Remove(key string) (removed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	delete(s.data, key)
	return ok
}

// Keys returns all currently-stored keys in no particular order.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}

// roundTrip forces a value through a JSON encode/decode cycle so
// callers that hand Put a non-JSON-native Go type (e.g. a goja-exported
// map with non-string keys) get back something that compares
// structurally equal the way a wire round trip would (spec.md §8
// invariant 5).
func roundTrip(value interface{}) (interface{}, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PutJSON is Put, but first forces value through a JSON round trip so
// it is always stored in its canonical JSON-decoded shape.
func (s *Store) PutJSON(key string, value interface{}) error {
	v, err := roundTrip(value)
	if err != nil {
		return err
	}
	s.Put(key, v)
	return nil
}
