package handlers

import (
	"context"
	"net/http"
	"time"

	"pacemaker_dcm/internal/models"
	"pacemaker_dcm/internal/param"
	"pacemaker_dcm/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	registerID    int
	registerErr   error
	genTokenToken string
	genTokenErr   error
	parseOperator string
	parseErr      error

	lastRegisterUsername string
	lastGenUsername      string
	lastParseToken       string
}

func (m *mockAuth) Register(ctx context.Context, username, password string) (int, error) {
	m.lastRegisterUsername = username
	return m.registerID, m.registerErr
}
func (m *mockAuth) GenerateToken(ctx context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (string, error) {
	m.lastParseToken = token
	return m.parseOperator, m.parseErr
}

type mockEditor struct {
	view    service.EditorView
	saved   param.FlatMap
	err     error
	saveErr error

	lastOperator string
	lastMode     models.Mode
	lastPatch    param.FlatMap
	lastKey      string
	lastBy       int
	lastText     string
	verdict      string
}

func (m *mockEditor) EnterMode(ctx context.Context, operator string, mode models.Mode) (service.EditorView, error) {
	m.lastOperator = operator
	m.lastMode = mode
	return m.view, m.err
}
func (m *mockEditor) View(operator string) (service.EditorView, error) {
	m.lastOperator = operator
	return m.view, m.err
}
func (m *mockEditor) UpdateParams(ctx context.Context, operator string, patch param.FlatMap) (service.EditorView, error) {
	m.lastOperator = operator
	m.lastPatch = patch
	return m.view, m.err
}
func (m *mockEditor) StepField(ctx context.Context, operator, key string, byCount int) (service.EditorView, error) {
	m.lastOperator = operator
	m.lastKey = key
	m.lastBy = byCount
	return m.view, m.err
}
func (m *mockEditor) ClassifyField(operator, key, text string) (string, error) {
	m.lastOperator = operator
	m.lastKey = key
	m.lastText = text
	return m.verdict, m.err
}
func (m *mockEditor) Save(ctx context.Context, operator string) (param.FlatMap, error) {
	m.lastOperator = operator
	return m.saved, m.saveErr
}
func (m *mockEditor) Revert(ctx context.Context, operator string) (service.EditorView, error) {
	m.lastOperator = operator
	return m.view, m.err
}
func (m *mockEditor) CollectCurrent(operator string) (param.FlatMap, error) {
	m.lastOperator = operator
	return m.saved, m.err
}

type mockDevice struct {
	status models.DeviceStatus
	err    error

	lastComms     bool
	lastDeviceID  string
	lastChanged   bool
	lastTelemetry models.TelemetryState
	lastClock     time.Time
}

func (m *mockDevice) Get(ctx context.Context) (models.DeviceStatus, error) {
	return m.status, m.err
}
func (m *mockDevice) SetComms(ctx context.Context, connected bool) (models.DeviceStatus, error) {
	m.lastComms = connected
	return m.status, m.err
}
func (m *mockDevice) SetDeviceID(ctx context.Context, deviceID string) (models.DeviceStatus, error) {
	m.lastDeviceID = deviceID
	return m.status, m.err
}
func (m *mockDevice) SetChanged(ctx context.Context, changed bool) (models.DeviceStatus, error) {
	m.lastChanged = changed
	return m.status, m.err
}
func (m *mockDevice) SetTelemetry(ctx context.Context, state models.TelemetryState) (models.DeviceStatus, error) {
	m.lastTelemetry = state
	return m.status, m.err
}
func (m *mockDevice) SetClock(ctx context.Context, clock time.Time) (models.DeviceStatus, error) {
	m.lastClock = clock
	return m.status, m.err
}

type mockAuditLog struct {
	resp     []models.AuditEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockAuditLog) List(ctx context.Context, f service.LogFilter) ([]models.AuditEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

type mockReports struct {
	report   service.Report
	err      error
	lastKind string
}

func (m *mockReports) Parameters(ctx context.Context, operator, kind string) (service.Report, error) {
	m.lastKind = kind
	return m.report, m.err
}

type mockEgram struct {
	latest    models.EgramSample
	hasLatest bool
	window    []models.EgramSample
}

func (m *mockEgram) Run(ctx context.Context, tick time.Duration) {}
func (m *mockEgram) Latest() (models.EgramSample, bool) {
	return m.latest, m.hasLatest
}
func (m *mockEgram) Snapshot() []models.EgramSample {
	return m.window
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
