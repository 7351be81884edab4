package redux

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Function represents a callable exposed to rule expressions.
type Function func(args ...any) (any, error)

// FunctionRegistry stores custom functions keyed by case-insensitive name.
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]Function
}

// NewFunctionRegistry constructs an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{
		functions: make(map[string]Function),
	}
}

// Register stores fn under name, rejecting duplicates.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	if fn == nil {
		return fmt.Errorf("redux: function %q is nil", name)
	}
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return fmt.Errorf("redux: function name must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = make(map[string]Function)
	}
	if _, exists := r.functions[key]; exists {
		return fmt.Errorf("redux: function %q already registered", name)
	}
	r.functions[key] = fn
	return nil
}

// MustRegister is Register for package-level setup; it panics on error.
func (r *FunctionRegistry) MustRegister(name string, fn Function) *FunctionRegistry {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
	return r
}

// Clone returns a shallow copy of the registry.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := &FunctionRegistry{
		functions: make(map[string]Function, len(r.functions)),
	}
	for name, fn := range r.functions {
		clone.functions[name] = fn
	}
	return clone
}

// Has reports whether name is registered.
func (r *FunctionRegistry) Has(name string) bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.functions[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Call executes the function registered for name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	if r == nil {
		return nil, fmt.Errorf("redux: function registry is nil")
	}
	r.mu.RLock()
	fn := r.functions[strings.ToLower(strings.TrimSpace(name))]
	r.mu.RUnlock()
	if fn == nil {
		return nil, fmt.Errorf("redux: function %q not registered", name)
	}
	return fn(args...)
}

// Names returns registered function names sorted alphabetically.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
