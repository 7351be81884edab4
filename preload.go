package redux

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-redux/layering"
	"go.uber.org/zap"
)

// initialState runs the default-synthesis pass, then seeds it with preloaded
// values and runs the root reducer once more over the merged state.
func (s *Store) initialState(preloaded State) (State, error) {
	defaults, err := s.root(nil, InitAction(), nil)
	if err != nil {
		return nil, fmt.Errorf("redux: initialise state: %w", err)
	}
	if defaults == nil {
		return nil, fmt.Errorf("%w: root reducer produced no initial state", ErrInvalidReducer)
	}
	if len(preloaded) == 0 {
		return defaults, nil
	}

	seeded := make(State, len(defaults))
	var dropped []string
	for key, value := range preloaded {
		if _, ok := defaults[key]; !ok {
			dropped = append(dropped, key)
			continue
		}
		seeded[key] = value
	}
	if len(dropped) > 0 {
		sort.Strings(dropped)
		s.logger.Debug("redux: preloaded keys without reducer dropped",
			zap.String("store_id", s.id),
			zap.Strings("keys", dropped),
		)
	}

	merged := layering.MergeLayers(seeded, defaults)
	next, err := s.root(merged, InitAction(), nil)
	if err != nil {
		return nil, fmt.Errorf("redux: initialise preloaded state: %w", err)
	}
	return next, nil
}
