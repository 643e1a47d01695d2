package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pacemaker_dcm/internal/param"
	"pacemaker_dcm/internal/repository"
)

// Report kinds.
const (
	ReportBradycardia = "bradycardia"
	ReportTemporary   = "temporary"
)

// Fixed report header identity.
const (
	reportInstitution = "McMaster University"
	reportModel       = "DCM-1"
	reportRevision    = "1.0.0"
	reportSerial      = "SN-0001"
)

var ErrBadReportKind = errors.New("unknown report kind")

// Report is a printable summary of the operator's current parameter set.
type Report struct {
	Kind        string      `json:"kind"`
	Institution string      `json:"institution"`
	GeneratedAt time.Time   `json:"generated_at"`
	DeviceClock time.Time   `json:"device_clock"`
	Model       string      `json:"model"`
	Revision    string      `json:"revision"`
	Serial      string      `json:"serial"`
	Operator    string      `json:"operator"`
	Mode        string      `json:"mode"`
	Rows        []ReportRow `json:"rows"`
}

type ReportRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ReportService renders parameter reports from the live editor session plus
// the device clock.
type ReportService struct {
	editor *EditorService
	status repository.StatusRepo
}

func NewReportService(editor *EditorService, status repository.StatusRepo) *ReportService {
	return &ReportService{editor: editor, status: status}
}

// Parameters builds a report of the given kind for the operator's current
// session. Temporary reports carry the unsaved working values, which for
// this build is the same live set bradycardia reports use.
func (s *ReportService) Parameters(ctx context.Context, operator, kind string) (Report, error) {
	if kind != ReportBradycardia && kind != ReportTemporary {
		return Report{}, fmt.Errorf("%w: %q", ErrBadReportKind, kind)
	}
	view, err := s.editor.View(operator)
	if err != nil {
		return Report{}, err
	}

	clock := time.Now().UTC()
	if st, err := s.status.Load(ctx); err == nil && st.ID != 0 && !st.Clock.IsZero() {
		clock = st.Clock.UTC()
	}

	return Report{
		Kind:        kind,
		Institution: reportInstitution,
		GeneratedAt: time.Now().UTC(),
		DeviceClock: clock,
		Model:       reportModel,
		Revision:    reportRevision,
		Serial:      reportSerial,
		Operator:    operator,
		Mode:        view.Mode,
		Rows:        paramRows(view),
	}, nil
}

// paramRows lays out the parameters in clinical reading order, skipping
// chamber blocks the mode disables.
func paramRows(view EditorView) []ReportRow {
	p := view.Params
	rows := []ReportRow{
		{Label: "Lower Rate Limit", Value: fmt.Sprintf("%v ppm", p[param.KeyLRL])},
		{Label: "Upper Rate Limit", Value: fmt.Sprintf("%v ppm", p[param.KeyURL])},
	}
	if view.Enablement.Atrial {
		rows = append(rows,
			ReportRow{Label: "Atrial Amplitude", Value: amplitudeText(p[param.KeyAtrialAmp])},
			ReportRow{Label: "Atrial Pulse Width", Value: fmt.Sprintf("%v ms", p[param.KeyAtrialPW])},
			ReportRow{Label: "ARP", Value: fmt.Sprintf("%v ms", p[param.KeyARP])},
		)
	}
	if view.Enablement.Ventricular {
		rows = append(rows,
			ReportRow{Label: "Ventricular Amplitude", Value: amplitudeText(p[param.KeyVentAmp])},
			ReportRow{Label: "Ventricular Pulse Width", Value: fmt.Sprintf("%v ms", p[param.KeyVentPW])},
			ReportRow{Label: "VRP", Value: fmt.Sprintf("%v ms", p[param.KeyVRP])},
		)
	}
	if view.Enablement.Inhibiting {
		rows = append(rows,
			ReportRow{Label: "Hysteresis", Value: fmt.Sprintf("%v", p[param.KeyHysteresis])},
			ReportRow{Label: "Hysteresis Rate Limit", Value: fmt.Sprintf("%v ppm", p[param.KeyHRL])},
			ReportRow{Label: "Rate Smoothing Up", Value: smoothingText(p[param.KeySmoothUp])},
			ReportRow{Label: "Rate Smoothing Down", Value: smoothingText(p[param.KeySmoothDown])},
		)
	}
	return rows
}

func amplitudeText(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v V", v)
}

func smoothingText(v any) string {
	if n, ok := v.(int); ok {
		return param.SmoothingLabel(n)
	}
	return fmt.Sprintf("%v", v)
}
