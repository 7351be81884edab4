package redux

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoEvaluator indicates a rule was compiled without a usable evaluator.
var ErrNoEvaluator = errors.New("redux: evaluator not configured")

// EvalOption configures how rule expressions are compiled and evaluated.
type EvalOption func(*evalConfig)

type evalConfig struct {
	evaluator    Evaluator
	evaluatorSet bool
	cache        ProgramCache
	functions    *FunctionRegistry
	logger       EvaluatorLogger
	args         map[string]any
	metadata     map[string]any
}

func applyEvalOptions(opts []EvalOption) evalConfig {
	cfg := evalConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithEvaluator selects the engine. Defaults to expr. A nil evaluator, such
// as NewJSEvaluator without the js_eval tag, makes compilation fail with
// ErrNoEvaluator.
func WithEvaluator(e Evaluator) EvalOption {
	return func(cfg *evalConfig) {
		cfg.evaluator = e
		cfg.evaluatorSet = true
	}
}

// WithProgramCache shares compiled programs across rules using the default
// evaluator.
func WithProgramCache(cache ProgramCache) EvalOption {
	return func(cfg *evalConfig) {
		cfg.cache = cache
	}
}

// WithFunctionRegistry exposes registry functions to the default evaluator.
func WithFunctionRegistry(registry *FunctionRegistry) EvalOption {
	return func(cfg *evalConfig) {
		if registry == nil {
			return
		}
		cfg.functions = registry.Clone()
	}
}

// WithCustomFunction registers fn under name for the default evaluator.
func WithCustomFunction(name string, fn Function) EvalOption {
	return func(cfg *evalConfig) {
		if cfg.functions == nil {
			cfg.functions = NewFunctionRegistry()
		}
		_ = cfg.functions.Register(name, fn)
	}
}

// WithEvaluatorLogger attaches an evaluator logger.
func WithEvaluatorLogger(logger EvaluatorLogger) EvalOption {
	return func(cfg *evalConfig) {
		cfg.logger = logger
	}
}

// WithRuleArgs binds static values reachable as args in expressions.
func WithRuleArgs(args map[string]any) EvalOption {
	return func(cfg *evalConfig) {
		cfg.args = copyMap(args)
	}
}

// WithRuleMetadata binds static values reachable as metadata in expressions.
func WithRuleMetadata(metadata map[string]any) EvalOption {
	return func(cfg *evalConfig) {
		cfg.metadata = copyMap(metadata)
	}
}

func (cfg evalConfig) resolveEvaluator() (Evaluator, error) {
	if cfg.evaluatorSet {
		if cfg.evaluator == nil {
			return nil, ErrNoEvaluator
		}
		return cfg.evaluator, nil
	}
	var exprOpts []ExprEvaluatorOption
	if cfg.cache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(cfg.cache))
	}
	if cfg.functions != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(cfg.functions))
	}
	evaluator := NewExprEvaluator(exprOpts...)
	if evaluator == nil {
		return nil, ErrNoEvaluator
	}
	return evaluator, nil
}

func (cfg evalConfig) evaluatorLogger() EvaluatorLogger {
	if cfg.logger != nil {
		return cfg.logger
	}
	return noopEvaluatorLogger{}
}

// Rule is a compiled expression bound to its engine and logger.
type Rule struct {
	expr     string
	engine   string
	compiled CompiledRule
	logger   EvaluatorLogger
	args     map[string]any
	metadata map[string]any
}

// CompileRule compiles expression once so it can be evaluated per action.
func CompileRule(expression string, opts ...EvalOption) (*Rule, error) {
	if expression == "" {
		return nil, fmt.Errorf("redux: expression must not be empty")
	}
	cfg := applyEvalOptions(opts)
	evaluator, err := cfg.resolveEvaluator()
	if err != nil {
		return nil, err
	}
	engine := evaluatorEngineName(evaluator)
	compiled, err := evaluator.Compile(expression)
	if err != nil {
		return nil, compileFailure(engine, expression, err)
	}
	if compiled == nil {
		return nil, fmt.Errorf("redux: %s evaluator returned no program for %q", engine, expression)
	}
	return &Rule{
		expr:     expression,
		engine:   engine,
		compiled: compiled,
		logger:   cfg.evaluatorLogger(),
		args:     cfg.args,
		metadata: cfg.metadata,
	}, nil
}

// Expression returns the source expression.
func (r *Rule) Expression() string {
	if r == nil {
		return ""
	}
	return r.expr
}

// Engine names the evaluator backing the rule.
func (r *Rule) Engine() string {
	if r == nil {
		return ""
	}
	return r.engine
}

// Eval runs the rule with state and action bound.
func (r *Rule) Eval(state any, action Action) (any, error) {
	if r == nil || r.compiled == nil {
		return nil, ErrNoEvaluator
	}
	ctx := RuleContext{
		State:    state,
		Action:   action,
		Args:     r.args,
		Metadata: r.metadata,
	}.withDefaults()

	start := time.Now()
	value, err := r.compiled.Evaluate(ctx)
	duration := time.Since(start)
	err = evaluationFailure(r.engine, r.expr, ctx.actionLabel(), err)
	r.logger.LogEvaluation(EvaluatorLogEvent{
		Engine:     r.engine,
		Expr:       r.expr,
		ActionType: action.Type,
		Duration:   duration,
		Err:        err,
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Test runs the rule and requires a boolean result.
func (r *Rule) Test(state any, action Action) (bool, error) {
	value, err := r.Eval(state, action)
	if err != nil {
		return false, err
	}
	result, ok := value.(bool)
	if !ok {
		return false, evaluationFailure(r.engine, r.expr, action.Type, fmt.Errorf("expected bool result, got %T", value))
	}
	return result, nil
}

func copyMap(origin map[string]any) map[string]any {
	if len(origin) == 0 {
		return nil
	}
	out := make(map[string]any, len(origin))
	for key, value := range origin {
		out[key] = value
	}
	return out
}
