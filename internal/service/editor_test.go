package service

import (
	"context"
	"errors"
	"testing"

	"pacemaker_dcm/internal/editor"
	"pacemaker_dcm/internal/models"
	"pacemaker_dcm/internal/param"
)

func TestEditorService_OperationsRequireSession(t *testing.T) {
	t.Parallel()

	svc := NewEditorService(newFakeParamStore(), &fakeEventRepo{})
	ctx := context.Background()

	if _, err := svc.View("alice"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("View error = %v, want ErrNoSession", err)
	}
	if _, err := svc.UpdateParams(ctx, "alice", param.FlatMap{}); !errors.Is(err, ErrNoSession) {
		t.Fatalf("UpdateParams error = %v, want ErrNoSession", err)
	}
	if _, err := svc.Save(ctx, "alice"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("Save error = %v, want ErrNoSession", err)
	}
	if _, err := svc.Revert(ctx, "alice"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("Revert error = %v, want ErrNoSession", err)
	}
}

func TestEditorService_EnterModeReturnsViewAndLogsEvent(t *testing.T) {
	t.Parallel()

	events := &fakeEventRepo{}
	svc := NewEditorService(newFakeParamStore(), events)

	view, err := svc.EnterMode(context.Background(), "alice", models.VVI)
	if err != nil {
		t.Fatalf("EnterMode returned error: %v", err)
	}
	if view.Mode != "VVI" {
		t.Fatalf("view mode = %q, want VVI", view.Mode)
	}
	want := editor.Enablement{Ventricular: true, Inhibiting: true}
	if view.Enablement != want {
		t.Fatalf("enablement = %+v, want %+v", view.Enablement, want)
	}
	if view.Params[param.KeyVentAmp] != 3.5 {
		t.Fatalf("ventricular amplitude = %v, want default 3.5", view.Params[param.KeyVentAmp])
	}
	if got := events.typesAppended(); len(got) != 1 || got[0] != models.EventModeChange {
		t.Fatalf("expected one MODE_CHANGE event, got %v", got)
	}
}

func TestEditorService_SessionsAreIsolatedPerOperator(t *testing.T) {
	t.Parallel()

	svc := NewEditorService(newFakeParamStore(), &fakeEventRepo{})
	ctx := context.Background()

	if _, err := svc.EnterMode(ctx, "alice", models.AOO); err != nil {
		t.Fatalf("EnterMode(alice) returned error: %v", err)
	}
	if _, err := svc.EnterMode(ctx, "bob", models.VVI); err != nil {
		t.Fatalf("EnterMode(bob) returned error: %v", err)
	}
	if _, err := svc.UpdateParams(ctx, "alice", param.FlatMap{param.KeyLRL: 90}); err != nil {
		t.Fatalf("UpdateParams returned error: %v", err)
	}

	aliceView, err := svc.View("alice")
	if err != nil {
		t.Fatalf("View(alice) returned error: %v", err)
	}
	bobView, err := svc.View("bob")
	if err != nil {
		t.Fatalf("View(bob) returned error: %v", err)
	}
	if aliceView.Params[param.KeyLRL] != 90 {
		t.Fatalf("alice LRL = %v, want 90", aliceView.Params[param.KeyLRL])
	}
	if bobView.Params[param.KeyLRL] != 60 {
		t.Fatalf("bob LRL = %v, want untouched default 60", bobView.Params[param.KeyLRL])
	}
}

func TestEditorService_StepField(t *testing.T) {
	t.Parallel()

	svc := NewEditorService(newFakeParamStore(), &fakeEventRepo{})
	ctx := context.Background()

	if _, err := svc.EnterMode(ctx, "alice", models.VVI); err != nil {
		t.Fatalf("EnterMode returned error: %v", err)
	}
	view, err := svc.StepField(ctx, "alice", param.KeyURL, 1)
	if err != nil {
		t.Fatalf("StepField returned error: %v", err)
	}
	if view.Params[param.KeyURL] != 125 {
		t.Fatalf("URL after step = %v, want 125", view.Params[param.KeyURL])
	}

	if _, err := svc.StepField(ctx, "alice", "NotAField", 1); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("StepField error = %v, want ErrUnknownField", err)
	}
	// Amplitudes are two-state fields, not steppable.
	if _, err := svc.StepField(ctx, "alice", param.KeyVentAmp, 1); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("StepField on amplitude error = %v, want ErrUnknownField", err)
	}
}

func TestEditorService_ClassifyField(t *testing.T) {
	t.Parallel()

	svc := NewEditorService(newFakeParamStore(), &fakeEventRepo{})
	ctx := context.Background()

	if _, err := svc.EnterMode(ctx, "alice", models.AOO); err != nil {
		t.Fatalf("EnterMode returned error: %v", err)
	}

	tests := []struct {
		text string
		want string
	}{
		{"", "Intermediate"},
		{"4", "Intermediate"},
		{"60", "Acceptable"},
		{"61.5", "Invalid"},
		{"900", "Invalid"},
	}
	for _, tc := range tests {
		got, err := svc.ClassifyField("alice", param.KeyLRL, tc.text)
		if err != nil {
			t.Fatalf("ClassifyField(%q) returned error: %v", tc.text, err)
		}
		if got != tc.want {
			t.Errorf("ClassifyField(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestEditorService_SavePersistsAndLogs(t *testing.T) {
	t.Parallel()

	store := newFakeParamStore()
	events := &fakeEventRepo{}
	svc := NewEditorService(store, events)
	ctx := context.Background()

	if _, err := svc.EnterMode(ctx, "alice", models.VVI); err != nil {
		t.Fatalf("EnterMode returned error: %v", err)
	}
	if _, err := svc.UpdateParams(ctx, "alice", param.FlatMap{param.KeyLRL: 50}); err != nil {
		t.Fatalf("UpdateParams returned error: %v", err)
	}

	saved, err := svc.Save(ctx, "alice")
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if saved[param.KeyLRL] != 50 {
		t.Fatalf("saved LRL = %v, want 50", saved[param.KeyLRL])
	}
	if store.data[paramKey("alice", models.VVI)] == nil {
		t.Fatal("store has no record for (alice, VVI)")
	}
	got := events.typesAppended()
	if len(got) != 2 || got[1] != models.EventSaveParams {
		t.Fatalf("expected MODE_CHANGE then SAVE_PARAMS events, got %v", got)
	}
}

func TestEditorService_SaveValidationFailureWritesNothing(t *testing.T) {
	t.Parallel()

	store := newFakeParamStore()
	svc := NewEditorService(store, &fakeEventRepo{})
	ctx := context.Background()

	if _, err := svc.EnterMode(ctx, "alice", models.VVI); err != nil {
		t.Fatalf("EnterMode returned error: %v", err)
	}
	if _, err := svc.UpdateParams(ctx, "alice", param.FlatMap{param.KeyLRL: 130, param.KeyURL: 120}); err != nil {
		t.Fatalf("UpdateParams returned error: %v", err)
	}

	if _, err := svc.Save(ctx, "alice"); !errors.Is(err, editor.ErrRateLimitsInverted) {
		t.Fatalf("Save error = %v, want ErrRateLimitsInverted", err)
	}
	if len(store.data) != 0 {
		t.Fatal("rejected save must not write to the store")
	}
}

func TestEditorService_RevertRestoresSaved(t *testing.T) {
	t.Parallel()

	store := newFakeParamStore()
	svc := NewEditorService(store, &fakeEventRepo{})
	ctx := context.Background()

	if _, err := svc.EnterMode(ctx, "alice", models.AAI); err != nil {
		t.Fatalf("EnterMode returned error: %v", err)
	}
	if _, err := svc.UpdateParams(ctx, "alice", param.FlatMap{param.KeyLRL: 75}); err != nil {
		t.Fatalf("UpdateParams returned error: %v", err)
	}
	if _, err := svc.Save(ctx, "alice"); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if _, err := svc.UpdateParams(ctx, "alice", param.FlatMap{param.KeyLRL: 100}); err != nil {
		t.Fatalf("UpdateParams returned error: %v", err)
	}

	view, err := svc.Revert(ctx, "alice")
	if err != nil {
		t.Fatalf("Revert returned error: %v", err)
	}
	if view.Params[param.KeyLRL] != 75 {
		t.Fatalf("LRL after revert = %v, want saved 75", view.Params[param.KeyLRL])
	}
}
