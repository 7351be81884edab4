package redux

import (
	"errors"
	"testing"
)

func TestComparableReportsChangeByValue(t *testing.T) {
	reducer := Comparable(0, func(n int, action Action) int {
		value, _ := action.Value("value")
		amount, _ := value.(int)
		if action.Type == "add" {
			return n + amount
		}
		return n
	})

	next, changed, err := reducer.Reduce(3, NewAction("add", map[string]any{"value": 0}))
	if err != nil || changed || next != 3 {
		t.Fatalf("add(0) should be unchanged, got next=%v changed=%v err=%v", next, changed, err)
	}

	next, changed, err = reducer.Reduce(3, NewAction("add", map[string]any{"value": 2}))
	if err != nil || !changed || next != 5 {
		t.Fatalf("add(2) should change to 5, got next=%v changed=%v err=%v", next, changed, err)
	}
}

func TestTypedReducersSubstituteDefaultForEmptySlot(t *testing.T) {
	reducer := Comparable("idle", func(s string, _ Action) string { return s })
	next, changed, err := reducer.Reduce(nil, NewAction("noop", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != "idle" || !changed {
		t.Fatalf("expected default to be produced as a change, got %v changed=%v", next, changed)
	}
	if reducer.Default() != "idle" {
		t.Fatalf("unexpected default %v", reducer.Default())
	}
}

func TestTypedReducersRejectForeignSliceType(t *testing.T) {
	reducer := Func([]string{}, func(items []string, _ Action) ([]string, bool) { return items, false })
	_, _, err := reducer.Reduce(42, NewAction("noop", nil))
	if !errors.Is(err, ErrSliceType) {
		t.Fatalf("expected ErrSliceType, got %v", err)
	}
}

func TestComparableRejectsUncomparableDynamicValue(t *testing.T) {
	reducer := Comparable[any](map[string]int{}, func(v any, _ Action) any { return v })
	if _, _, err := reducer.Reduce(map[string]int{"a": 1}, NewAction("noop", nil)); !errors.Is(err, ErrSliceType) {
		t.Fatalf("expected ErrSliceType for a map slot, got %v", err)
	}

	root, err := Combine(map[string]Reducer{"counts": reducer})
	if err != nil {
		t.Fatalf("combine: %v", err)
	}
	if _, err := New(root); !errors.Is(err, ErrSliceType) {
		t.Fatalf("expected New to report ErrSliceType, got %v", err)
	}
}

func TestFuncReportsExplicitChange(t *testing.T) {
	reducer := Func([]string(nil), func(items []string, action Action) ([]string, bool) {
		if action.Type != "push" {
			return items, false
		}
		value, _ := action.Value("item")
		item, _ := value.(string)
		return append(append([]string{}, items...), item), true
	})

	state := []string{"a"}
	next, changed, err := reducer.Reduce(state, NewAction("push", map[string]any{"item": "b"}))
	if err != nil || !changed {
		t.Fatalf("expected change, got changed=%v err=%v", changed, err)
	}
	if got := next.([]string); len(got) != 2 || got[1] != "b" || len(state) != 1 {
		t.Fatalf("unexpected next %v, previous %v", got, state)
	}

	if _, changed, _ := reducer.Reduce(state, NewAction("other", nil)); changed {
		t.Fatalf("unrelated action should not change the slice")
	}
}

func TestFuncEPropagatesErrors(t *testing.T) {
	errBoom := errors.New("boom")
	reducer := FuncE(1, func(n int, _ Action) (int, bool, error) { return n + 1, true, errBoom })
	next, changed, err := reducer.Reduce(1, NewAction("x", nil))
	if !errors.Is(err, errBoom) || changed || next != 1 {
		t.Fatalf("expected error with untouched state, got next=%v changed=%v err=%v", next, changed, err)
	}
}

func TestReducerConstructorsRejectNilFunctions(t *testing.T) {
	if Comparable[int](0, nil) != nil {
		t.Fatalf("Comparable with nil fn should be nil")
	}
	if Func[int](0, nil) != nil {
		t.Fatalf("Func with nil fn should be nil")
	}
	if FuncE[int](0, nil) != nil {
		t.Fatalf("FuncE with nil fn should be nil")
	}
	var raw ReducerFunc
	if _, _, err := raw.Reduce(nil, NewAction("x", nil)); !errors.Is(err, ErrInvalidReducer) {
		t.Fatalf("nil ReducerFunc should report ErrInvalidReducer, got %v", err)
	}
}
