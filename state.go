package redux

import (
	"maps"
	"sort"
)

// State is the whole-store value: one entry per configured slice key.
type State map[string]any

// Clone returns a shallow copy of s. Slice values are shared, the map is not.
func (s State) Clone() State {
	if s == nil {
		return nil
	}
	return maps.Clone(s)
}

// Get returns the value stored for key.
func (s State) Get(key string) (any, bool) {
	value, ok := s[key]
	return value, ok
}

// Keys returns the slice keys sorted alphabetically.
func (s State) Keys() []string {
	keys := make([]string, 0, len(s))
	for key := range s {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
