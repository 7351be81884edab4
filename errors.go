package redux

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidReducer indicates a reducer configuration entry (or a root
	// reducer) that cannot be called.
	ErrInvalidReducer = errors.New("redux: invalid reducer")
	// ErrEmptyReducers indicates Combine received no reducers.
	ErrEmptyReducers = errors.New("redux: reducer configuration must not be empty")
	// ErrInvalidAction indicates an action without a type discriminator.
	ErrInvalidAction = errors.New("redux: action type must be provided")
	// ErrSliceType indicates a typed reducer received a slot holding a value
	// of a different Go type.
	ErrSliceType = errors.New("redux: unexpected slice type")
	// ErrEmptyExpression indicates a rule without an expression.
	ErrEmptyExpression = errors.New("redux: expression must not be empty")
	// ErrRuleFailed matches every EvaluationError.
	ErrRuleFailed = errors.New("redux: rule failed")
)

// InvalidActionError reports the rejected action.
type InvalidActionError struct {
	Action Action
}

func (e *InvalidActionError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%v: payload keys=%d", ErrInvalidAction, len(e.Action.Payload))
}

func (e *InvalidActionError) Is(target error) bool {
	return target == ErrInvalidAction
}

// ReducerError captures which slice reducer failed and for which action.
type ReducerError struct {
	Key        string
	ActionType string
	Err        error
}

func (e *ReducerError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("redux: reducer %q failed on action %q: %v", e.Key, e.ActionType, e.Err)
}

func (e *ReducerError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func wrapReducerError(key string, action Action, err error) error {
	if err == nil {
		return nil
	}
	var reducerErr *ReducerError
	if errors.As(err, &reducerErr) && reducerErr.Key == key {
		return err
	}
	return &ReducerError{
		Key:        key,
		ActionType: action.Type,
		Err:        err,
	}
}

// RulePhase names the step of a rule that failed.
type RulePhase string

const (
	PhaseCompile  RulePhase = "compile"
	PhaseEvaluate RulePhase = "evaluate"
)

// EvaluationError reports a rule expression that failed to compile or to
// run. Rule reducers surface it wrapped in a ReducerError naming the slice.
type EvaluationError struct {
	Phase      RulePhase
	Engine     string
	Expr       string
	ActionType string
	Err        error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Phase == PhaseCompile {
		return fmt.Sprintf("redux: %s rule %q does not compile: %v", e.Engine, e.Expr, e.Err)
	}
	return fmt.Sprintf("redux: %s rule %q failed on action %q: %v", e.Engine, e.Expr, e.ActionType, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *EvaluationError) Is(target error) bool {
	return target == ErrRuleFailed
}

func compileFailure(engine, expr string, err error) error {
	return ruleFailure(PhaseCompile, engine, expr, "", err)
}

func evaluationFailure(engine, expr, actionType string, err error) error {
	return ruleFailure(PhaseEvaluate, engine, expr, actionType, err)
}

// ruleFailure passes through errors that already carry rule context.
func ruleFailure(phase RulePhase, engine, expr, actionType string, err error) error {
	if err == nil || errors.Is(err, ErrRuleFailed) {
		return err
	}
	return &EvaluationError{
		Phase:      phase,
		Engine:     engine,
		Expr:       expr,
		ActionType: actionType,
		Err:        err,
	}
}
