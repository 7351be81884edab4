package middleware

import (
	"context"
	"sort"
	"time"

	redux "github.com/goliatone/go-redux"
	"github.com/goliatone/go-redux/pkg/activity"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ActivityOption configures Activity.
type ActivityOption func(*activityConfig)

type activityConfig struct {
	channel string
	actorID string
	logger  *zap.Logger
}

func ActivityChannel(channel string) ActivityOption {
	return func(cfg *activityConfig) {
		cfg.channel = channel
	}
}

func ActivityActor(actorID string) ActivityOption {
	return func(cfg *activityConfig) {
		cfg.actorID = actorID
	}
}

// ActivityLogger logs hook failures. Hook failures never fail the dispatch.
func ActivityLogger(logger *zap.Logger) ActivityOption {
	return func(cfg *activityConfig) {
		cfg.logger = logger
	}
}

// Activity emits a store.action.dispatched event for every action that
// reaches it, before forwarding the action. Each event carries a fresh
// action id.
func Activity(hooks activity.Hooks, opts ...ActivityOption) redux.Middleware {
	cfg := activityConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	emitter := activity.NewEmitter(hooks, activity.Config{
		Enabled: hooks.Enabled(),
		Channel: cfg.channel,
	})

	return redux.MiddlewareFunc(func(api redux.API, next redux.DispatchFunc, action redux.Action) (redux.State, error) {
		if emitter.Enabled() {
			event := activity.BuildActionDispatchedEvent(activity.StoreEventInput{
				StoreID:    storeID(api),
				ActionID:   uuid.NewString(),
				ActionType: action.Type,
				ActorID:    cfg.actorID,
				Metadata:   payloadKeys(action),
				OccurredAt: time.Now(),
			})
			if err := emitter.Emit(context.Background(), event); err != nil {
				cfg.logger.Warn("redux: activity hook failed",
					zap.String("action_type", action.Type),
					zap.Error(err),
				)
			}
		}
		return next(action)
	})
}

func payloadKeys(action redux.Action) map[string]any {
	if len(action.Payload) == 0 {
		return nil
	}
	keys := make([]string, 0, len(action.Payload))
	for key := range action.Payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return map[string]any{"payload_keys": keys}
}
