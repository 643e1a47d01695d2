package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"pacemaker_dcm/internal/models"
)

func rowLabels(r Report) []string {
	out := make([]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		out = append(out, row.Label)
	}
	return out
}

func hasLabel(r Report, label string) bool {
	for _, row := range r.Rows {
		if row.Label == label {
			return true
		}
	}
	return false
}

func TestReportService_Parameters_VVI(t *testing.T) {
	t.Parallel()

	editorSvc := NewEditorService(newFakeParamStore(), &fakeEventRepo{})
	svc := NewReportService(editorSvc, &fakeStatusRepo{})
	ctx := context.Background()

	if _, err := editorSvc.EnterMode(ctx, "alice", models.VVI); err != nil {
		t.Fatalf("EnterMode returned error: %v", err)
	}

	r, err := svc.Parameters(ctx, "alice", ReportBradycardia)
	if err != nil {
		t.Fatalf("Parameters returned error: %v", err)
	}
	if r.Kind != ReportBradycardia || r.Mode != "VVI" || r.Operator != "alice" {
		t.Fatalf("report header wrong: %+v", r)
	}
	if r.Institution == "" || r.Model == "" || r.Serial == "" {
		t.Fatal("report identity fields must be populated")
	}

	// Ventricular and inhibiting rows present, atrial rows absent.
	if !hasLabel(r, "Ventricular Amplitude") || !hasLabel(r, "VRP") {
		t.Fatalf("missing ventricular rows: %v", rowLabels(r))
	}
	if !hasLabel(r, "Hysteresis") || !hasLabel(r, "Rate Smoothing Up") {
		t.Fatalf("missing inhibiting rows: %v", rowLabels(r))
	}
	if hasLabel(r, "Atrial Amplitude") || hasLabel(r, "ARP") {
		t.Fatalf("atrial rows must be absent in VVI: %v", rowLabels(r))
	}
}

func TestReportService_Parameters_AOOHasNoInhibitingRows(t *testing.T) {
	t.Parallel()

	editorSvc := NewEditorService(newFakeParamStore(), &fakeEventRepo{})
	svc := NewReportService(editorSvc, &fakeStatusRepo{})
	ctx := context.Background()

	if _, err := editorSvc.EnterMode(ctx, "alice", models.AOO); err != nil {
		t.Fatalf("EnterMode returned error: %v", err)
	}

	r, err := svc.Parameters(ctx, "alice", ReportTemporary)
	if err != nil {
		t.Fatalf("Parameters returned error: %v", err)
	}
	if !hasLabel(r, "Atrial Amplitude") || !hasLabel(r, "ARP") {
		t.Fatalf("missing atrial rows: %v", rowLabels(r))
	}
	if hasLabel(r, "Hysteresis") || hasLabel(r, "Rate Smoothing Down") {
		t.Fatalf("inhibiting rows must be absent in AOO: %v", rowLabels(r))
	}
}

func TestReportService_Parameters_UsesDeviceClock(t *testing.T) {
	t.Parallel()

	editorSvc := NewEditorService(newFakeParamStore(), &fakeEventRepo{})
	clock := time.Date(2026, time.July, 4, 10, 30, 0, 0, time.UTC)
	status := &fakeStatusRepo{stored: models.DeviceStatus{ID: 1, Clock: clock}}
	svc := NewReportService(editorSvc, status)
	ctx := context.Background()

	if _, err := editorSvc.EnterMode(ctx, "alice", models.VVI); err != nil {
		t.Fatalf("EnterMode returned error: %v", err)
	}

	r, err := svc.Parameters(ctx, "alice", ReportBradycardia)
	if err != nil {
		t.Fatalf("Parameters returned error: %v", err)
	}
	if !r.DeviceClock.Equal(clock) {
		t.Fatalf("device clock = %v, want %v", r.DeviceClock, clock)
	}
}

func TestReportService_Parameters_Rejections(t *testing.T) {
	t.Parallel()

	editorSvc := NewEditorService(newFakeParamStore(), &fakeEventRepo{})
	svc := NewReportService(editorSvc, &fakeStatusRepo{})
	ctx := context.Background()

	if _, err := svc.Parameters(ctx, "alice", "annual"); !errors.Is(err, ErrBadReportKind) {
		t.Fatalf("unknown kind error = %v, want ErrBadReportKind", err)
	}
	// No session yet for this operator.
	if _, err := svc.Parameters(ctx, "alice", ReportBradycardia); !errors.Is(err, ErrNoSession) {
		t.Fatalf("no-session error = %v, want ErrNoSession", err)
	}
}
