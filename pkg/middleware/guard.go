package middleware

import (
	"context"
	"fmt"
	"time"

	redux "github.com/goliatone/go-redux"
	"github.com/goliatone/go-redux/pkg/activity"
	"go.uber.org/zap"
)

// GuardOption configures Guard.
type GuardOption func(*guardConfig)

type guardConfig struct {
	evalOpts []redux.EvalOption
	actions  map[string]struct{}
	hooks    activity.Hooks
	channel  string
	logger   *zap.Logger
}

// GuardEvalOptions forwards evaluator options (engine, functions, cache,
// logger) to the guard expression.
func GuardEvalOptions(opts ...redux.EvalOption) GuardOption {
	return func(cfg *guardConfig) {
		cfg.evalOpts = append(cfg.evalOpts, opts...)
	}
}

// GuardActions limits the guard to the listed action types. Other actions
// pass through unchecked.
func GuardActions(actionTypes ...string) GuardOption {
	return func(cfg *guardConfig) {
		if cfg.actions == nil {
			cfg.actions = map[string]struct{}{}
		}
		for _, actionType := range actionTypes {
			cfg.actions[actionType] = struct{}{}
		}
	}
}

// GuardActivity emits a store.action.rejected event for every dropped action.
func GuardActivity(hooks activity.Hooks, channel string) GuardOption {
	return func(cfg *guardConfig) {
		cfg.hooks = hooks.Clone()
		cfg.channel = channel
	}
}

// GuardLogger logs dropped actions at debug level.
func GuardLogger(logger *zap.Logger) GuardOption {
	return func(cfg *guardConfig) {
		cfg.logger = logger
	}
}

// Guard drops actions for which expression evaluates to false. The
// expression sees the whole store state as state and the action as action.
// A dropped action never reaches the reducer and notifies no subscriber.
//
//	guard, err := middleware.Guard(`action.value > 0`, middleware.GuardActions("counter/add"))
func Guard(expression string, opts ...GuardOption) (redux.Middleware, error) {
	cfg := guardConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	rule, err := redux.CompileRule(expression, cfg.evalOpts...)
	if err != nil {
		return nil, fmt.Errorf("redux: compile guard: %w", err)
	}
	emitter := activity.NewEmitter(cfg.hooks, activity.Config{
		Enabled: cfg.hooks.Enabled(),
		Channel: cfg.channel,
	})

	return redux.MiddlewareFunc(func(api redux.API, next redux.DispatchFunc, action redux.Action) (redux.State, error) {
		if cfg.actions != nil {
			if _, ok := cfg.actions[action.Type]; !ok {
				return next(action)
			}
		}

		state := api.GetState()
		allowed, err := rule.Test(map[string]any(state), action)
		if err != nil {
			return state, err
		}
		if allowed {
			return next(action)
		}

		cfg.logger.Debug("redux: action rejected by guard",
			zap.String("action_type", action.Type),
			zap.String("expression", rule.Expression()),
		)
		if emitter.Enabled() {
			event := activity.BuildActionRejectedEvent(activity.StoreEventInput{
				StoreID:    storeID(api),
				ActionType: action.Type,
				Reason:     rule.Expression(),
				OccurredAt: time.Now(),
			})
			if err := emitter.Emit(context.Background(), event); err != nil {
				cfg.logger.Warn("redux: guard activity hook failed", zap.Error(err))
			}
		}
		return state, nil
	}), nil
}

type identified interface {
	ID() string
}

func storeID(api redux.API) string {
	if store, ok := api.(identified); ok {
		return store.ID()
	}
	return ""
}
