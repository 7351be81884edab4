package middleware

import (
	"reflect"
	"sort"
	"time"

	redux "github.com/goliatone/go-redux"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerOption configures Logger.
type LoggerOption func(*loggerConfig)

type loggerConfig struct {
	level   zapcore.Level
	message string
}

// WithLogLevel sets the level used for successful dispatches. Failures are
// always logged at error level.
func WithLogLevel(level zapcore.Level) LoggerOption {
	return func(cfg *loggerConfig) {
		cfg.level = level
	}
}

// WithLogMessage replaces the default entry message.
func WithLogMessage(message string) LoggerOption {
	return func(cfg *loggerConfig) {
		if message != "" {
			cfg.message = message
		}
	}
}

// Logger writes one entry per action with its type, duration and the slice
// keys it changed.
func Logger(logger *zap.Logger, opts ...LoggerOption) redux.Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := loggerConfig{level: zapcore.InfoLevel, message: "redux: action dispatched"}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return redux.MiddlewareFunc(func(api redux.API, next redux.DispatchFunc, action redux.Action) (redux.State, error) {
		prev := api.GetState()
		start := time.Now()
		state, err := next(action)

		fields := []zap.Field{
			zap.String("action_type", action.Type),
			zap.Duration("duration", time.Since(start)),
		}
		if err != nil {
			logger.Error("redux: action failed", append(fields, zap.Error(err))...)
			return state, err
		}

		changed := changedKeys(prev, state)
		if ce := logger.Check(cfg.level, cfg.message); ce != nil {
			ce.Write(append(fields,
				zap.Bool("changed", len(changed) > 0),
				zap.Strings("changed_keys", changed),
			)...)
		}
		return state, nil
	})
}

func changedKeys(prev, next redux.State) []string {
	keys := []string{}
	for key, value := range next {
		old, ok := prev[key]
		if !ok || !reflect.DeepEqual(old, value) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
