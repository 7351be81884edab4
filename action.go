package redux

import (
	"maps"
	"strings"

	"github.com/google/uuid"
)

// ActionTypeInitPrefix prefixes the action used to synthesize default state.
// A random suffix is appended so no reducer can match it by accident.
const ActionTypeInitPrefix = "@@redux/INIT"

// Action describes an event. Type is the discriminator reducers switch on;
// Payload carries any additional fields.
type Action struct {
	Type    string
	Payload map[string]any
}

// NewAction builds an Action, copying payload so later caller mutations do
// not leak into the dispatch.
func NewAction(actionType string, payload map[string]any) Action {
	return Action{
		Type:    actionType,
		Payload: maps.Clone(payload),
	}
}

// InitAction returns a fresh initialization action.
func InitAction() Action {
	return Action{Type: ActionTypeInitPrefix + "." + uuid.NewString()}
}

// IsInit reports whether a is an initialization action.
func (a Action) IsInit() bool {
	return strings.HasPrefix(a.Type, ActionTypeInitPrefix)
}

// Value returns the payload field stored under key.
func (a Action) Value(key string) (any, bool) {
	if a.Payload == nil {
		return nil, false
	}
	value, ok := a.Payload[key]
	return value, ok
}

// Valid reports whether the action carries a discriminator.
func (a Action) Valid() bool {
	return strings.TrimSpace(a.Type) != ""
}

// binding flattens the action for expression environments: payload fields are
// promoted next to "type", and the raw payload stays reachable as "payload".
func (a Action) binding() map[string]any {
	binding := make(map[string]any, len(a.Payload)+2)
	for key, value := range a.Payload {
		binding[key] = value
	}
	binding["type"] = a.Type
	binding["payload"] = a.payload()
	return binding
}

func (a Action) payload() map[string]any {
	if a.Payload == nil {
		return map[string]any{}
	}
	return a.Payload
}
