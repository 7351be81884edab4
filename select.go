package redux

import (
	"fmt"

	"github.com/goliatone/go-redux/internal/hydrate"
)

// SelectOption configures Select and SelectState.
type SelectOption func(*selectConfig)

type selectConfig struct {
	strict    bool
	useNumber bool
}

// SelectStrict rejects object fields with no matching field in the target.
func SelectStrict() SelectOption {
	return func(cfg *selectConfig) {
		cfg.strict = true
	}
}

// SelectUseNumber decodes numbers held in interface values as json.Number.
func SelectUseNumber() SelectOption {
	return func(cfg *selectConfig) {
		cfg.useNumber = true
	}
}

func decoderFor[T any](opts []SelectOption) *hydrate.Decoder[T] {
	cfg := selectConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	var decoderOpts []hydrate.DecoderOption[T]
	if cfg.strict {
		decoderOpts = append(decoderOpts, hydrate.WithDisallowUnknownFields[T]())
	}
	if cfg.useNumber {
		decoderOpts = append(decoderOpts, hydrate.WithUseNumber[T]())
	}
	return hydrate.NewDecoder(decoderOpts...)
}

// Select reads the slice stored under key as T. Values already of type T are
// returned directly; anything else goes through a JSON round trip.
func Select[T any](s *Store, key string, opts ...SelectOption) (T, error) {
	var zero T
	if s == nil {
		return zero, fmt.Errorf("redux: select %q: store is nil", key)
	}
	value, ok := s.GetState().Get(key)
	if !ok {
		return zero, fmt.Errorf("redux: select %q: no such slice", key)
	}
	return decoderFor[T](opts).Decode(hydrate.Context{StoreID: s.id, Key: key}, value)
}

// SelectState decodes the whole state into T, typically a struct with one
// field per slice.
func SelectState[T any](s *Store, opts ...SelectOption) (T, error) {
	var zero T
	if s == nil {
		return zero, fmt.Errorf("redux: select state: store is nil")
	}
	return decoderFor[T](opts).Decode(hydrate.Context{StoreID: s.id}, map[string]any(s.GetState()))
}
