package redux

import (
	"fmt"
	"reflect"
	"sort"
)

// Rules maps an action type to the expression computing the next slice value.
type Rules map[string]string

// RuleReducer builds a slice reducer from expressions. The expression for an
// action's type is evaluated with state bound to the current slice value;
// actions without a rule leave the slice untouched. A result deeply equal to
// the current value counts as unchanged.
//
//	counter, err := redux.RuleReducer(0, redux.Rules{
//		"counter/add":      "state + action.value",
//		"counter/subtract": "state - action.value",
//	})
func RuleReducer(def any, rules Rules, opts ...EvalOption) (Reducer, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("%w: rule set must not be empty", ErrInvalidReducer)
	}
	types := make([]string, 0, len(rules))
	for actionType := range rules {
		types = append(types, actionType)
	}
	sort.Strings(types)

	compiled := make(map[string]*Rule, len(rules))
	for _, actionType := range types {
		if actionType == "" {
			return nil, fmt.Errorf("%w: rule action type must not be empty", ErrInvalidReducer)
		}
		rule, err := CompileRule(rules[actionType], opts...)
		if err != nil {
			return nil, fmt.Errorf("redux: compile rule for %q: %w", actionType, err)
		}
		compiled[actionType] = rule
	}
	return &ruleReducer{def: def, rules: compiled}, nil
}

type ruleReducer struct {
	def   any
	rules map[string]*Rule
}

func (r *ruleReducer) Default() any {
	return r.def
}

func (r *ruleReducer) Reduce(state any, action Action) (any, bool, error) {
	rule, ok := r.rules[action.Type]
	if !ok {
		return state, false, nil
	}
	current := state
	if current == nil {
		current = r.def
	}
	next, err := rule.Eval(current, action)
	if err != nil {
		return state, false, err
	}
	if reflect.DeepEqual(current, next) {
		return state, false, nil
	}
	return next, true, nil
}
