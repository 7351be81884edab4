package redux

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCombineSynthesizesDefaultsForEveryKey(t *testing.T) {
	root := mustCombine(t, map[string]Reducer{
		"number": numberReducer(),
		"todos":  Func([]string{}, func(items []string, _ Action) ([]string, bool) { return items, false }),
		"raw":    ReducerFunc(func(state any, _ Action) (any, bool, error) { return state, false, nil }),
	})

	state, err := root(nil, InitAction(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := State{"number": 0, "todos": []string{}, "raw": nil}
	if diff := cmp.Diff(want, state); diff != "" {
		t.Fatalf("default state mismatch (-want +got):\n%s", diff)
	}
}

func TestCombineKeepsPreviousStateWhenNothingChanged(t *testing.T) {
	root := mustCombine(t, map[string]Reducer{"number": numberReducer()})
	prev := State{"number": 3}

	calls := 0
	subscribers := []Subscriber{func(State) { calls++ }}

	for _, action := range []Action{NewAction("no change", nil), add(0)} {
		next, err := root(prev, action, subscribers)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		next["inspect"] = true
		if _, ok := prev["inspect"]; !ok {
			t.Fatalf("%s: expected the previous state itself to be returned", action.Type)
		}
		delete(prev, "inspect")
	}
	if calls != 0 {
		t.Fatalf("expected no notifications, got %d", calls)
	}
}

func TestCombineNotifiesSubscribersInOrderWithOwnCopies(t *testing.T) {
	root := mustCombine(t, map[string]Reducer{"number": numberReducer()})

	var order []string
	subscribers := []Subscriber{
		func(next State) {
			order = append(order, "A")
			next["number"] = -1
		},
		nil,
		func(next State) {
			order = append(order, "B")
			if next["number"] != 5 {
				t.Errorf("B saw state mutated by A: %v", next)
			}
		},
	}

	next, err := root(State{"number": 0}, add(5), subscribers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"A", "B"}, order); diff != "" {
		t.Fatalf("notification order mismatch (-want +got):\n%s", diff)
	}
	if next["number"] != 5 {
		t.Fatalf("subscriber mutation leaked into the returned state: %v", next)
	}
}

func TestCombineReducerErrorLeavesPreviousState(t *testing.T) {
	errBoom := errors.New("boom")
	root := mustCombine(t, map[string]Reducer{
		"number": numberReducer(),
		"broken": FuncE(0, func(n int, action Action) (int, bool, error) {
			if action.Type == "add" {
				return n, false, errBoom
			}
			return n, false, nil
		}),
	})
	prev := State{"number": 1, "broken": 0}

	calls := 0
	next, err := root(prev, add(2), []Subscriber{func(State) { calls++ }})
	var reducerErr *ReducerError
	if !errors.As(err, &reducerErr) {
		t.Fatalf("expected ReducerError, got %v", err)
	}
	if reducerErr.Key != "broken" || reducerErr.ActionType != "add" || !errors.Is(err, errBoom) {
		t.Fatalf("unexpected reducer error %+v", reducerErr)
	}
	if calls != 0 {
		t.Fatalf("failed reduce must not notify")
	}
	if diff := cmp.Diff(State{"number": 1, "broken": 0}, next); diff != "" {
		t.Fatalf("previous state expected (-want +got):\n%s", diff)
	}
}

func TestCombineCopiesConfiguration(t *testing.T) {
	config := map[string]Reducer{"number": numberReducer()}
	root := mustCombine(t, config)
	config["late"] = numberReducer()

	state, err := root(nil, InitAction(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := state["late"]; ok {
		t.Fatalf("Combine should not observe later configuration changes")
	}
}

func TestCombineRejectsInvalidConfiguration(t *testing.T) {
	if _, err := Combine(nil); !errors.Is(err, ErrEmptyReducers) {
		t.Fatalf("expected ErrEmptyReducers, got %v", err)
	}

	var nilFunc ReducerFunc
	cases := map[string]map[string]Reducer{
		"nil reducer":      {"number": nil},
		"nil func reducer": {"number": nilFunc},
		"empty key":        {"": numberReducer()},
		"nil constructor":  {"number": Comparable[int](0, nil)},
	}
	for name, config := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Combine(config); !errors.Is(err, ErrInvalidReducer) {
				t.Fatalf("expected ErrInvalidReducer, got %v", err)
			}
		})
	}
}
