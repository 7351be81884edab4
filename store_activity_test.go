package redux

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-redux/pkg/activity"
)

func TestStoreEmitsStateChangedActivity(t *testing.T) {
	capture := &activity.CaptureHook{}
	store := mustStore(t, mustCombine(t, map[string]Reducer{
		"number": numberReducer(),
		"other":  numberReducer(),
	}),
		WithStoreID("store-a"),
		WithActivityHooks(activity.Hooks{nil, capture}),
		WithActivityChannel("audit"),
		WithActivityActor("actor-9"),
	)

	for _, action := range []Action{add(1), NewAction("noop", nil), add(0)} {
		if _, err := store.Dispatch(action); err != nil {
			t.Fatalf("dispatch: %v", err)
		}
	}

	events := capture.Snapshot()
	if len(events) != 1 {
		t.Fatalf("expected one event for one state change, got %d", len(events))
	}
	event := events[0]
	if event.Verb != activity.VerbStateChanged || event.ObjectType != activity.ObjectTypeState || event.ObjectID != "store-a" {
		t.Fatalf("unexpected event identity %+v", event)
	}
	if event.Channel != "audit" || event.ActorID != "actor-9" {
		t.Fatalf("expected channel and actor, got %+v", event)
	}
	if diff := cmp.Diff([]string{"number"}, event.Metadata["changed_keys"]); diff != "" {
		t.Fatalf("changed keys mismatch (-want +got):\n%s", diff)
	}
	if event.Metadata["action_type"] != "add" {
		t.Fatalf("expected action type in metadata, got %v", event.Metadata)
	}
}

func TestStoreActivityHookErrorsAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	capture := &activity.CaptureHook{Err: errors.New("sink down")}
	store := mustStore(t, mustCombine(t, map[string]Reducer{"number": numberReducer()}),
		WithActivityHooks(activity.Hooks{capture}),
		WithLogger(zap.New(core)),
	)

	if _, err := store.Dispatch(add(1)); err != nil {
		t.Fatalf("hook failures must not fail dispatch: %v", err)
	}
	if logs.FilterMessage("redux: activity hook failed").Len() != 1 {
		t.Fatalf("expected hook failure to be logged")
	}
}

func TestStoreWithoutHooksDoesNotAddSubscribers(t *testing.T) {
	store := mustStore(t, mustCombine(t, map[string]Reducer{"number": numberReducer()}),
		WithActivityHooks(nil),
	)
	if store.Subscribers() != 0 {
		t.Fatalf("activity must not count as a user subscription")
	}
	if store.emitter.Enabled() {
		t.Fatalf("emitter should be disabled without hooks")
	}
}

func TestChangedKeys(t *testing.T) {
	prev := State{"a": 1, "b": []int{1}, "c": "x"}
	next := State{"a": 1, "b": []int{1, 2}, "c": "y", "d": true}
	if diff := cmp.Diff([]string{"b", "c", "d"}, changedKeys(prev, next)); diff != "" {
		t.Fatalf("changed keys mismatch (-want +got):\n%s", diff)
	}
}
