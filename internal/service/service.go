package service

import (
	"context"
	"time"

	"pacemaker_dcm/internal/editor"
	"pacemaker_dcm/internal/models"
	"pacemaker_dcm/internal/param"
	"pacemaker_dcm/internal/repository"
)

// Authorization handles operator registration and token-based sessions.
type Authorization interface {
	Register(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (string, error)
}

// Editor exposes the per-operator mode editor: enter a mode, edit fields,
// save, revert, export.
type Editor interface {
	EnterMode(ctx context.Context, operator string, mode models.Mode) (EditorView, error)
	View(operator string) (EditorView, error)
	UpdateParams(ctx context.Context, operator string, patch param.FlatMap) (EditorView, error)
	StepField(ctx context.Context, operator, key string, byCount int) (EditorView, error)
	ClassifyField(operator, key, text string) (string, error)
	Save(ctx context.Context, operator string) (param.FlatMap, error)
	Revert(ctx context.Context, operator string) (EditorView, error)
	CollectCurrent(operator string) (param.FlatMap, error)
}

// Device exposes the simulated device link: status flags, identity, clock.
type Device interface {
	Get(ctx context.Context) (models.DeviceStatus, error)
	SetComms(ctx context.Context, connected bool) (models.DeviceStatus, error)
	SetDeviceID(ctx context.Context, deviceID string) (models.DeviceStatus, error)
	SetChanged(ctx context.Context, changed bool) (models.DeviceStatus, error)
	SetTelemetry(ctx context.Context, state models.TelemetryState) (models.DeviceStatus, error)
	SetClock(ctx context.Context, clock time.Time) (models.DeviceStatus, error)
}

// AuditLog exposes append-only audit events with filtering access.
type AuditLog interface {
	List(ctx context.Context, f LogFilter) ([]models.AuditEvent, error)
}

// Reports assembles parameter reports from the export flat map.
type Reports interface {
	Parameters(ctx context.Context, operator, kind string) (Report, error)
}

// Egram runs the background waveform sampler and serves its ring buffer.
// Stop via context cancellation in main() for graceful shutdown.
type Egram interface {
	Run(ctx context.Context, tick time.Duration)
	Latest() (models.EgramSample, bool)
	Snapshot() []models.EgramSample
}

// LogFilter supports audit history filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "REGISTER", "LOGIN", "MODE_CHANGE", "SAVE_PARAMS", "DEVICE_CHANGE"
}

// EditorView is the editor state returned to callers after each operation.
type EditorView struct {
	Mode       string            `json:"mode"`
	Enablement editor.Enablement `json:"enablement"`
	Params     param.FlatMap     `json:"params"`
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Authorization
	Editor
	Device
	AuditLog
	Reports
	Egram
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository) *Service {
	editorSvc := NewEditorService(repos.Params, repos.Events)
	return &Service{
		Authorization: NewAuthService(repos.Operators, repos.Events),
		Editor:        editorSvc,
		Device:        NewDeviceService(repos.Status, repos.Events),
		AuditLog:      NewAuditService(repos.Events),
		Reports:       NewReportService(editorSvc, repos.Status),
		Egram:         NewEgramService(),
	}
}
