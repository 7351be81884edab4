package redux

import (
	"context"
	"reflect"
	"sort"
	"time"

	"github.com/goliatone/go-redux/pkg/activity"
	"go.uber.org/zap"
)

func (s *Store) activitySubscriber(prev State, action Action) Subscriber {
	return func(next State) {
		event := activity.BuildStateChangedEvent(activity.StoreEventInput{
			StoreID:     s.id,
			ActionType:  action.Type,
			ChangedKeys: changedKeys(prev, next),
			ActorID:     s.actorID,
			Channel:     s.emitter.Channel(),
			OccurredAt:  time.Now(),
		})
		if err := s.emitter.Emit(context.Background(), event); err != nil {
			s.logger.Warn("redux: activity hook failed",
				zap.String("store_id", s.id),
				zap.String("action_type", action.Type),
				zap.Error(err),
			)
		}
	}
}

// changedKeys lists, sorted, the keys whose values differ between prev and
// next.
func changedKeys(prev, next State) []string {
	var keys []string
	for key, value := range next {
		old, ok := prev[key]
		if !ok || !reflect.DeepEqual(old, value) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
