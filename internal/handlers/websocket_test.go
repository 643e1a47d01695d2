package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"pacemaker_dcm/internal/models"
	"pacemaker_dcm/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// --- parseInterval unit tests ---

func TestParseInterval(t *testing.T) {
	h := NewHandler(&service.Service{}, nil)

	cases := []struct {
		name string
		u    string
		want time.Duration
	}{
		{"default_when_missing", "/ws/egram", 200 * time.Millisecond},
		{"interval_string_valid", "/ws/egram?interval=50ms", 50 * time.Millisecond},
		{"interval_ms_valid", "/ws/egram?interval_ms=150", 150 * time.Millisecond},
		{"interval_too_large", "/ws/egram?interval=20s", 200 * time.Millisecond},
		{"interval_ms_too_large", "/ws/egram?interval_ms=20000", 200 * time.Millisecond},
		{"interval_invalid_string", "/ws/egram?interval=bogus", 200 * time.Millisecond},
		{"interval_ms_invalid", "/ws/egram?interval_ms=NaN", 200 * time.Millisecond},
		{"both_present_interval_wins", "/ws/egram?interval=2s&interval_ms=150", 2 * time.Second},
		{"both_present_invalid_interval_ms_used", "/ws/egram?interval=bogus&interval_ms=250", 250 * time.Millisecond},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.u, nil)
			c, _ := gin.CreateTestContext(w)
			c.Request = req
			got := h.parseInterval(c)
			if got != tc.want {
				t.Fatalf("got %v, want %v for %s", got, tc.want, tc.u)
			}
		})
	}
}

// --- websocket integration tests ---

func TestWebSocket_EgramStream_SnapshotThenSamples(t *testing.T) {
	eg := &mockEgram{
		window: []models.EgramSample{
			{TimeS: 0, AtrialMV: 0.1},
			{TimeS: 0.02, AtrialMV: 0.2},
		},
		latest:    models.EgramSample{TimeS: 0.02, AtrialMV: 0.2},
		hasLatest: true,
	}
	s := &service.Service{Egram: eg}

	r := gin.New()
	h := NewHandler(s, nil)
	r.GET("/ws/egram", h.wsEgram)

	srv := httptest.NewServer(r)
	defer srv.Close()

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws/egram"
	q := u.Query()
	q.Set("interval_ms", "20") // fast ticks for the test
	u.RawQuery = q.Encode()

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	defer conn.Close()

	type envelope struct {
		Type  string          `json:"type"`
		Data  json.RawMessage `json:"data"`
		Error string          `json:"error"`
	}

	// The first frame carries the retained window.
	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if env.Type != "snapshot" || len(env.Data) == 0 {
		t.Fatalf("bad envelope: %+v", env)
	}
	var window []models.EgramSample
	if err := json.Unmarshal(env.Data, &window); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	if len(window) != 2 || window[1].AtrialMV != 0.2 {
		t.Fatalf("unexpected window: %+v", window)
	}

	// Subsequent frames carry single samples.
	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	env = envelope{}
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if env.Type != "sample" {
		t.Fatalf("expected type=sample, got %+v", env)
	}
	var sample models.EgramSample
	if err := json.Unmarshal(env.Data, &sample); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if sample.TimeS != 0.02 {
		t.Fatalf("unexpected sample: %+v", sample)
	}
}

func TestWebSocket_EmptySamplerSendsOnlySnapshot(t *testing.T) {
	// A sampler that has not ticked yet still sends its (empty) snapshot, then
	// holds the connection without sample frames.
	eg := &mockEgram{}
	s := &service.Service{Egram: eg}

	r := gin.New()
	h := NewHandler(s, nil)
	r.GET("/ws/egram", h.wsEgram)

	srv := httptest.NewServer(r)
	defer srv.Close()

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws/egram"
	q := u.Query()
	q.Set("interval_ms", "20")
	u.RawQuery = q.Encode()

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	var env struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if env.Type != "snapshot" {
		t.Fatalf("expected snapshot, got %+v", env)
	}

	// No samples are available, so nothing else arrives before the deadline.
	_ = conn.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
	if err := conn.ReadJSON(&env); err == nil {
		t.Fatalf("expected read timeout, got frame: %+v", env)
	}
}
