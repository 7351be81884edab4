package activity

import (
	"strings"
	"time"
)

const (
	// VerbStateChanged is emitted after a dispatch replaced the store state.
	VerbStateChanged = "store.state.changed"
	// VerbActionDispatched is emitted when an action enters the middleware chain.
	VerbActionDispatched = "store.action.dispatched"
	// VerbActionRejected is emitted when a middleware drops an action.
	VerbActionRejected = "store.action.rejected"

	ObjectTypeState  = "store.state"
	ObjectTypeAction = "store.action"
)

// StoreEventInput describes the common fields for store lifecycle events.
type StoreEventInput struct {
	StoreID     string
	ActionID    string
	ActionType  string
	ChangedKeys []string
	Reason      string
	ActorID     string
	UserID      string
	TenantID    string
	Channel     string
	Metadata    map[string]any
	OccurredAt  time.Time
}

// BuildStateChangedEvent describes a state replacement. The object id is the
// store id.
func BuildStateChangedEvent(input StoreEventInput) Event {
	return buildStoreEvent(VerbStateChanged, ObjectTypeState, input.StoreID, input)
}

// BuildActionDispatchedEvent describes an action entering the chain. The
// object id is the action id, falling back to the action type.
func BuildActionDispatchedEvent(input StoreEventInput) Event {
	return buildStoreEvent(VerbActionDispatched, ObjectTypeAction, input.ActionID, input)
}

// BuildActionRejectedEvent describes an action dropped by a middleware.
func BuildActionRejectedEvent(input StoreEventInput) Event {
	return buildStoreEvent(VerbActionRejected, ObjectTypeAction, input.ActionID, input)
}

func buildStoreEvent(verb, objectType, objectID string, input StoreEventInput) Event {
	metadata := cloneMap(input.Metadata)
	set := func(key string, value any) {
		if metadata == nil {
			metadata = map[string]any{}
		}
		metadata[key] = value
	}
	if input.StoreID != "" {
		set("store_id", input.StoreID)
	}
	if input.ActionType != "" {
		set("action_type", input.ActionType)
	}
	if len(input.ChangedKeys) > 0 {
		set("changed_keys", append([]string{}, input.ChangedKeys...))
	}
	if input.Reason != "" {
		set("reason", input.Reason)
	}

	objectID = strings.TrimSpace(objectID)
	if objectID == "" {
		objectID = strings.TrimSpace(input.ActionType)
	}
	if objectID == "" {
		objectID = strings.TrimSpace(input.StoreID)
	}
	if objectID == "" {
		objectID = objectType
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		UserID:     strings.TrimSpace(input.UserID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: objectType,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}
