package redux

import (
	"strings"

	"github.com/goliatone/go-redux/pkg/activity"
	"go.uber.org/zap"
)

// Option configures a Store.
type Option func(*storeConfig)

type storeConfig struct {
	chain         ChainBuilder
	preloaded     State
	logger        *zap.Logger
	storeID       string
	activityHooks activity.Hooks
	activityCfg   activity.Config
	activityActor string
}

func applyOptions(opts []Option) storeConfig {
	cfg := storeConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	return cfg
}

// WithMiddleware installs a chain built with ApplyMiddleware. Without it,
// Dispatch calls the root reducer directly.
func WithMiddleware(chain ChainBuilder) Option {
	return func(cfg *storeConfig) {
		cfg.chain = chain
	}
}

// WithPreloadedState seeds the store. Keys that no reducer owns are dropped;
// the rest are deep-merged over the reducer defaults.
func WithPreloadedState(state State) Option {
	return func(cfg *storeConfig) {
		cfg.preloaded = state.Clone()
	}
}

// WithLogger sets the logger used for store diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *storeConfig) {
		cfg.logger = logger
	}
}

// WithStoreID overrides the generated store id.
func WithStoreID(id string) Option {
	return func(cfg *storeConfig) {
		cfg.storeID = strings.TrimSpace(id)
	}
}

// WithActivityHooks emits a store.state.changed event to hooks after every
// state change.
func WithActivityHooks(hooks activity.Hooks) Option {
	return func(cfg *storeConfig) {
		cfg.activityHooks = hooks.Clone()
		cfg.activityCfg.Enabled = cfg.activityHooks.Enabled()
	}
}

// WithActivityChannel overrides activity.DefaultChannel for store events.
func WithActivityChannel(channel string) Option {
	return func(cfg *storeConfig) {
		cfg.activityCfg.Channel = channel
	}
}

// WithActivityActor stamps store events with actorID.
func WithActivityActor(actorID string) Option {
	return func(cfg *storeConfig) {
		cfg.activityActor = strings.TrimSpace(actorID)
	}
}
