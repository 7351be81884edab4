package redux

import "testing"

// numberReducer adds or subtracts the action's value; anything else leaves
// the number untouched.
func numberReducer() Reducer {
	return Comparable(0, func(n int, action Action) int {
		value, _ := action.Value("value")
		amount, _ := value.(int)
		switch action.Type {
		case "add":
			return n + amount
		case "subtract":
			return n - amount
		}
		return n
	})
}

func add(n int) Action {
	return NewAction("add", map[string]any{"value": n})
}

func subtract(n int) Action {
	return NewAction("subtract", map[string]any{"value": n})
}

func mustCombine(t *testing.T, reducers map[string]Reducer) RootReducer {
	t.Helper()
	root, err := Combine(reducers)
	if err != nil {
		t.Fatalf("combine: %v", err)
	}
	return root
}

func mustStore(t *testing.T, root RootReducer, opts ...Option) *Store {
	t.Helper()
	store, err := New(root, opts...)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}
