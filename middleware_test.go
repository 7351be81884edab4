package redux

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func namedMiddleware(name string, log *[]string) Middleware {
	return MiddlewareFunc(func(api API, next DispatchFunc, action Action) (State, error) {
		*log = append(*log, name)
		return next(action)
	})
}

func TestApplyMiddlewareRunsInDeclaredOrder(t *testing.T) {
	var log []string
	root := mustCombine(t, map[string]Reducer{
		"number": FuncE(0, func(n int, action Action) (int, bool, error) {
			if action.Type == "add" {
				log = append(log, "reducer")
			}
			return n, false, nil
		}),
	})
	store := mustStore(t, root, WithMiddleware(ApplyMiddleware(
		namedMiddleware("m1", &log),
		nil,
		namedMiddleware("m2", &log),
	)))

	if _, err := store.Dispatch(add(1)); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if diff := cmp.Diff([]string{"m1", "m2", "reducer"}, log); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestMiddlewareShortCircuitSkipsReducerAndSubscribers(t *testing.T) {
	reduced := 0
	root := mustCombine(t, map[string]Reducer{
		"number": Comparable(0, func(n int, action Action) int {
			reduced++
			if action.Type == "inc" || action.Type == "drop" {
				return n + 1
			}
			return n
		}),
	})
	drop := MiddlewareFunc(func(api API, next DispatchFunc, action Action) (State, error) {
		if action.Type == "drop" {
			return api.GetState(), nil
		}
		return next(action)
	})
	store := mustStore(t, root, WithMiddleware(ApplyMiddleware(drop)))
	reduced = 0

	notified := 0
	store.Subscribe(func(State) { notified++ })

	state, err := store.Dispatch(NewAction("drop", nil))
	if err != nil {
		t.Fatalf("short-circuit is not an error: %v", err)
	}
	if reduced != 0 || notified != 0 {
		t.Fatalf("expected reducer and subscribers to be skipped, reduced=%d notified=%d", reduced, notified)
	}
	if state["number"] != 0 {
		t.Fatalf("unexpected state %v", state)
	}
}

func TestApplyMiddlewareReturnsInnermostValue(t *testing.T) {
	chain := ApplyMiddleware(
		MiddlewareFunc(func(api API, next DispatchFunc, action Action) (State, error) {
			return next(action)
		}),
		MiddlewareFunc(func(api API, next DispatchFunc, action Action) (State, error) {
			state, err := next(action)
			if err != nil {
				return nil, err
			}
			state["seen"] = action.Type
			return state, nil
		}),
	)
	terminal := func(action Action) (State, error) {
		return State{"terminal": true}, nil
	}

	dispatch := chain(nil, terminal)
	got, err := dispatch(NewAction("inspect", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(State{"terminal": true, "seen": "inspect"}, got); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyMiddlewareInvocationsDoNotShareQueue(t *testing.T) {
	var log []string
	var dispatch DispatchFunc
	nested := false
	reenter := MiddlewareFunc(func(api API, next DispatchFunc, action Action) (State, error) {
		log = append(log, "outer:"+action.Type)
		if !nested {
			nested = true
			if _, err := dispatch(NewAction("inner", nil)); err != nil {
				return nil, err
			}
		}
		return next(action)
	})
	chain := ApplyMiddleware(reenter, namedMiddleware("second", &log))
	dispatch = chain(nil, func(action Action) (State, error) {
		log = append(log, "terminal:"+action.Type)
		return State{}, nil
	})

	if _, err := dispatch(NewAction("first", nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"outer:first",
		"outer:inner", "second", "terminal:inner",
		"second", "terminal:first",
	}
	if diff := cmp.Diff(want, log); diff != "" {
		t.Fatalf("each invocation should walk the full chain (-want +got):\n%s", diff)
	}
}

func TestMiddlewareErrorsPropagate(t *testing.T) {
	errBoom := errors.New("boom")
	root := mustCombine(t, map[string]Reducer{"number": numberReducer()})
	failing := MiddlewareFunc(func(API, DispatchFunc, Action) (State, error) {
		return nil, errBoom
	})
	store := mustStore(t, root, WithMiddleware(ApplyMiddleware(failing)))

	if _, err := store.Dispatch(add(1)); !errors.Is(err, errBoom) {
		t.Fatalf("expected errBoom, got %v", err)
	}
	if store.GetState()["number"] != 0 {
		t.Fatalf("failed dispatch must leave state untouched")
	}
}

func TestNilMiddlewareFuncForwards(t *testing.T) {
	var mw MiddlewareFunc
	got, err := mw.Invoke(nil, func(Action) (State, error) { return State{"ok": true}, nil }, NewAction("x", nil))
	if err != nil || got["ok"] != true {
		t.Fatalf("nil MiddlewareFunc should call next, got %v %v", got, err)
	}
}
