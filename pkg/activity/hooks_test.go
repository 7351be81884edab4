package activity

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNormalizeEventTrimsClonesAndDefaults(t *testing.T) {
	meta := map[string]any{"k": "v"}
	evt := Event{
		Verb:       " store.state.changed ",
		ActorID:    " actor ",
		UserID:     " user ",
		TenantID:   " tenant ",
		ObjectType: " store.state ",
		ObjectID:   " 42 ",
		Channel:    " store ",
		Metadata:   meta,
	}

	got := NormalizeEvent(evt)

	if got.Verb != "store.state.changed" || got.ObjectType != "store.state" || got.ObjectID != "42" {
		t.Fatalf("unexpected normalized fields: %+v", got)
	}
	if got.ActorID != "actor" || got.UserID != "user" || got.TenantID != "tenant" || got.Channel != "store" {
		t.Fatalf("unexpected trimming: %+v", got)
	}
	if got.OccurredAt.IsZero() {
		t.Fatalf("expected OccurredAt to be set")
	}
	got.Metadata["k"] = "changed"
	if evt.Metadata["k"] != "v" {
		t.Fatalf("expected original metadata untouched: %+v", evt.Metadata)
	}
}

func TestHooksNotifyShortCircuitsMissingRequired(t *testing.T) {
	capture := &CaptureHook{}
	hooks := Hooks{capture}
	if err := hooks.Notify(context.Background(), Event{Verb: "x"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(capture.Events) != 0 {
		t.Fatalf("expected no events captured, got %d", len(capture.Events))
	}
}

func TestHooksNotifyFanOutAndJoinErrors(t *testing.T) {
	capture := &CaptureHook{}
	boom1 := errors.New("boom1")
	boom2 := errors.New("boom2")
	var ctxSeen bool
	hooks := Hooks{
		HookFunc(func(ctx context.Context, event Event) error {
			ctxSeen = ctx != nil
			return nil
		}),
		capture,
		HookFunc(func(_ context.Context, _ Event) error { return boom1 }),
		nil,
		HookFunc(func(_ context.Context, _ Event) error { return boom2 }),
	}

	err := hooks.Notify(nil, Event{Verb: "store.state.changed", ObjectType: "store.state", ObjectID: "1"})
	if !errors.Is(err, boom1) || !errors.Is(err, boom2) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if !ctxSeen {
		t.Fatalf("expected context fallback to be non-nil")
	}
	if len(capture.Events) != 1 {
		t.Fatalf("expected event to be captured once, got %d", len(capture.Events))
	}
}

func TestHooksCloneDropsNil(t *testing.T) {
	hook := HookFunc(func(context.Context, Event) error { return nil })
	cloned := Hooks{nil, hook, nil}.Clone()
	if len(cloned) != 1 {
		t.Fatalf("expected one hook, got %d", len(cloned))
	}
	if (Hooks{nil}).Clone() != nil {
		t.Fatalf("expected nil when only nil hooks remain")
	}
}

func TestEmitterDisabledAndEnabled(t *testing.T) {
	capture := &CaptureHook{}
	event := Event{Verb: "store.state.changed", ObjectType: "store.state", ObjectID: "1"}

	disabled := NewEmitter(Hooks{capture}, Config{Enabled: false})
	if disabled.Enabled() {
		t.Fatalf("expected emitter to be disabled")
	}
	if err := disabled.Emit(context.Background(), event); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(capture.Events) != 0 {
		t.Fatalf("expected no events captured when disabled")
	}

	enabled := NewEmitter(Hooks{capture}, Config{Enabled: true})
	if !enabled.Enabled() {
		t.Fatalf("expected emitter to be enabled")
	}
	if err := enabled.Emit(context.Background(), event); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(capture.Events) != 1 {
		t.Fatalf("expected one event captured, got %d", len(capture.Events))
	}
	if capture.Events[0].Channel != DefaultChannel {
		t.Fatalf("expected default channel applied, got %q", capture.Events[0].Channel)
	}
}

func TestEmitterPreservesExplicitChannel(t *testing.T) {
	capture := &CaptureHook{}
	emitter := NewEmitter(Hooks{capture}, Config{Enabled: true, Channel: "default"})
	occurred := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	err := emitter.Emit(context.Background(), Event{
		Verb:       "store.state.changed",
		ObjectType: "store.state",
		ObjectID:   "1",
		Channel:    "custom",
		OccurredAt: occurred,
	})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if capture.Events[0].Channel != "custom" {
		t.Fatalf("expected explicit channel preserved, got %q", capture.Events[0].Channel)
	}
	if !capture.Events[0].OccurredAt.Equal(occurred) {
		t.Fatalf("expected occurred_at preserved, got %v", capture.Events[0].OccurredAt)
	}
}
