package redux

import (
	"fmt"
	"reflect"
)

// Reducer computes the next value of one state slice. Implementations must be
// pure: same inputs, same outputs, no mutation of state in place.
//
// Reduce reports changed=false when it hands back the value it received;
// Combine relies on that flag instead of reference identity to decide whether
// subscribers are notified.
type Reducer interface {
	// Default is the slice value used when the slot is absent.
	Default() any
	Reduce(state any, action Action) (next any, changed bool, err error)
}

// ReducerFunc adapts a plain function to Reducer. Its default is nil.
type ReducerFunc func(state any, action Action) (any, bool, error)

// Default implements Reducer.
func (f ReducerFunc) Default() any {
	return nil
}

// Reduce implements Reducer.
func (f ReducerFunc) Reduce(state any, action Action) (any, bool, error) {
	if f == nil {
		return state, false, ErrInvalidReducer
	}
	return f(state, action)
}

// Comparable builds a typed reducer whose change detection is next != prev.
// Suits slices holding scalars, strings or comparable structs. When T is an
// interface type holding a map, slice or func value the comparison fails with
// ErrSliceType; use Func for those slices.
func Comparable[T comparable](def T, fn func(state T, action Action) T) Reducer {
	if fn == nil {
		return nil
	}
	return comparableReducer[T]{def: def, fn: fn}
}

type comparableReducer[T comparable] struct {
	def T
	fn  func(T, Action) T
}

func (r comparableReducer[T]) Default() any {
	return r.def
}

func (r comparableReducer[T]) Reduce(state any, action Action) (any, bool, error) {
	current, substituted, err := sliceValue(state, r.def)
	if err != nil {
		return state, false, err
	}
	next := r.fn(current, action)
	changed, err := differs(next, current)
	if err != nil {
		return state, false, err
	}
	return next, substituted || changed, nil
}

func differs[T comparable](next, current T) (changed bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %T is not comparable, use Func: %v", ErrSliceType, next, r)
		}
	}()
	return next != current, nil
}

// Func builds a typed reducer that reports change explicitly. Use it for
// slices holding maps, slices or other non-comparable values: return the
// received value with false when nothing changed, and a fresh value with
// true otherwise.
func Func[T any](def T, fn func(state T, action Action) (T, bool)) Reducer {
	if fn == nil {
		return nil
	}
	return FuncE(def, func(state T, action Action) (T, bool, error) {
		next, changed := fn(state, action)
		return next, changed, nil
	})
}

// FuncE is Func for reducers that can fail. A returned error aborts the
// dispatch and leaves the store state untouched.
func FuncE[T any](def T, fn func(state T, action Action) (T, bool, error)) Reducer {
	if fn == nil {
		return nil
	}
	return funcReducer[T]{def: def, fn: fn}
}

type funcReducer[T any] struct {
	def T
	fn  func(T, Action) (T, bool, error)
}

func (r funcReducer[T]) Default() any {
	return r.def
}

func (r funcReducer[T]) Reduce(state any, action Action) (any, bool, error) {
	current, substituted, err := sliceValue(state, r.def)
	if err != nil {
		return state, false, err
	}
	next, changed, err := r.fn(current, action)
	if err != nil {
		return state, false, err
	}
	return next, substituted || changed, nil
}

// sliceValue narrows a slot to T, substituting def when the slot is empty.
// The second result reports whether that substitution produced a value.
func sliceValue[T any](state any, def T) (T, bool, error) {
	if state == nil {
		return def, any(def) != nil, nil
	}
	typed, ok := state.(T)
	if !ok {
		var zero T
		return zero, false, fmt.Errorf("%w: want %s, got %T", ErrSliceType, reflect.TypeFor[T](), state)
	}
	return typed, false, nil
}
