package redux

import (
	celgo "github.com/google/cel-go/cel"
	functions "github.com/google/cel-go/common/functions"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/common/types/traits"
)

// CELEvaluatorOption configures the CEL evaluator.
type CELEvaluatorOption func(*celEvaluator)

// CELWithProgramCache wires a ProgramCache into the CEL evaluator.
func CELWithProgramCache(cache ProgramCache) CELEvaluatorOption {
	return func(e *celEvaluator) {
		e.cache = cache
	}
}

// CELWithFunctionRegistry wires a FunctionRegistry into the CEL evaluator.
func CELWithFunctionRegistry(registry *FunctionRegistry) CELEvaluatorOption {
	return func(e *celEvaluator) {
		if registry == nil {
			return
		}
		e.registry = registry.Clone()
	}
}

type celEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewCELEvaluator constructs an Evaluator backed by cel-go. Expressions see
// state, action, payload, args and metadata as dyn values and now as a
// timestamp.
func NewCELEvaluator(opts ...CELEvaluatorOption) Evaluator {
	e := &celEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *celEvaluator) Engine() string {
	return "cel"
}

func (e *celEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	if expression == "" {
		return nil, compileFailure("cel", expression, ErrEmptyExpression)
	}
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}
	return e.run(program, expression, ctx.withDefaults())
}

func (e *celEvaluator) Compile(expression string) (CompiledRule, error) {
	if expression == "" {
		return nil, compileFailure("cel", expression, ErrEmptyExpression)
	}
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}
	return &celCompiledRule{
		evaluator:  e,
		program:    program,
		expression: expression,
	}, nil
}

func (e *celEvaluator) loadOrCompile(expression string) (celgo.Program, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(cacheKey("cel", expression)); ok {
			if program, ok := cached.(celgo.Program); ok {
				return program, nil
			}
		}
	}

	env, err := e.buildEnv()
	if err != nil {
		return nil, compileFailure("cel", expression, err)
	}
	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, compileFailure("cel", expression, issues.Err())
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, compileFailure("cel", expression, err)
	}

	if e.cache != nil {
		e.cache.Set(cacheKey("cel", expression), program)
	}
	return program, nil
}

func (e *celEvaluator) buildEnv() (*celgo.Env, error) {
	opts := []celgo.EnvOption{
		celgo.Variable("state", celgo.DynType),
		celgo.Variable("action", celgo.DynType),
		celgo.Variable("payload", celgo.DynType),
		celgo.Variable("now", celgo.TimestampType),
		celgo.Variable("args", celgo.DynType),
		celgo.Variable("metadata", celgo.DynType),
	}
	if e.registry != nil {
		opts = append(opts, celgo.Function("call",
			celgo.Overload("call_string_list_dyn",
				[]*celgo.Type{celgo.StringType, celgo.ListType(celgo.DynType)},
				celgo.DynType,
				celgo.BinaryBinding(e.callBinding()),
			),
		))
	}
	return celgo.NewEnv(opts...)
}

func (e *celEvaluator) run(program celgo.Program, expression string, ctx RuleContext) (any, error) {
	out, _, err := program.Eval(ctx.bindings())
	if err != nil {
		return nil, evaluationFailure("cel", expression, ctx.actionLabel(), err)
	}
	return out.Value(), nil
}

type celCompiledRule struct {
	evaluator  *celEvaluator
	program    celgo.Program
	expression string
}

func (r *celCompiledRule) Evaluate(ctx RuleContext) (any, error) {
	if r.evaluator == nil {
		return nil, evaluationFailure("cel", r.expression, ctx.actionLabel(), ErrNoEvaluator)
	}
	return r.evaluator.run(r.program, r.expression, ctx.withDefaults())
}

// callBinding exposes the function registry as call(name, [args...]).
func (e *celEvaluator) callBinding() functions.BinaryOp {
	return func(nameVal, argsVal ref.Val) ref.Val {
		name, ok := nameVal.Value().(string)
		if !ok {
			return types.NewErr("redux: call name must be string")
		}
		var args []any
		if list, ok := argsVal.(traits.Lister); ok {
			size, _ := list.Size().(types.Int)
			for i := types.Int(0); i < size; i++ {
				args = append(args, list.Get(i).Value())
			}
		}
		result, err := e.registry.Call(name, args...)
		if err != nil {
			return types.NewErr("%s", err.Error())
		}
		if result == nil {
			return types.NullValue
		}
		return types.DefaultTypeAdapter.NativeToValue(result)
	}
}
