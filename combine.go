package redux

import (
	"fmt"
	"reflect"
	"sort"
)

// Subscriber receives the new state after a dispatch changed it. Each
// subscriber gets its own shallow copy.
type Subscriber func(next State)

// RootReducer reduces the whole State. It is responsible for notifying
// subscribers when, and only when, at least one slice changed.
//
// A nil prev asks for default synthesis: every configured slice starts from
// its reducer default and the returned State is always complete.
type RootReducer func(prev State, action Action, subscribers []Subscriber) (State, error)

// Combine merges slice reducers keyed by state key into a single RootReducer.
// The configuration is copied; later changes to the map are not observed.
// Slices are reduced in sorted key order.
func Combine(reducers map[string]Reducer) (RootReducer, error) {
	if len(reducers) == 0 {
		return nil, ErrEmptyReducers
	}

	keys := make([]string, 0, len(reducers))
	copied := make(map[string]Reducer, len(reducers))
	for key, reducer := range reducers {
		if key == "" {
			return nil, fmt.Errorf("%w: key must not be empty", ErrInvalidReducer)
		}
		if !callable(reducer) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidReducer, key)
		}
		copied[key] = reducer
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return func(prev State, action Action, subscribers []Subscriber) (State, error) {
		next := make(State, len(keys))
		changed := prev == nil || len(prev) != len(keys)
		for _, key := range keys {
			reducer := copied[key]
			previous, ok := prev[key]
			if !ok {
				previous = reducer.Default()
				changed = true
			}
			value, sliceChanged, err := reducer.Reduce(previous, action)
			if err != nil {
				return prev, wrapReducerError(key, action, err)
			}
			if !sliceChanged {
				next[key] = previous
				continue
			}
			next[key] = value
			changed = true
		}
		if !changed {
			return prev, nil
		}
		notify(subscribers, next)
		return next, nil
	}, nil
}

func notify(subscribers []Subscriber, next State) {
	for _, subscriber := range subscribers {
		if subscriber == nil {
			continue
		}
		subscriber(next.Clone())
	}
}

func callable(reducer Reducer) bool {
	if reducer == nil {
		return false
	}
	rv := reflect.ValueOf(reducer)
	switch rv.Kind() {
	case reflect.Func, reflect.Pointer, reflect.Map, reflect.Interface:
		return !rv.IsNil()
	default:
		return true
	}
}
