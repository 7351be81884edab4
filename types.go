package redux

import "time"

// RuleContext carries inputs needed when evaluating a rule expression.
//
// State is the slice value for rule reducers and the whole State for guards.
type RuleContext struct {
	State    any
	Action   Action
	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any
}

func (ctx RuleContext) withDefaultNow() RuleContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx RuleContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx RuleContext) withDefaultMaps() RuleContext {
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx RuleContext) withDefaults() RuleContext {
	return ctx.withDefaultNow().withDefaultMaps()
}

func (ctx RuleContext) actionLabel() string {
	if ctx.Action.Type != "" {
		return ctx.Action.Type
	}
	return "unknown"
}

// bindings is the variable set every engine exposes to expressions.
func (ctx RuleContext) bindings() map[string]any {
	return map[string]any{
		"state":    ctx.State,
		"action":   ctx.Action.binding(),
		"payload":  ctx.Action.payload(),
		"now":      ctx.timestamp(),
		"args":     ctx.Args,
		"metadata": ctx.Metadata,
	}
}

// Evaluator executes expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

type engineNamer interface {
	Engine() string
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	if named, ok := e.(engineNamer); ok {
		return named.Engine()
	}
	return "custom"
}
