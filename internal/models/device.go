package models

import "time"

// TelemetryState is the simulated telemetry link condition.
type TelemetryState string

const (
	TelemetryOK         TelemetryState = "ok"
	TelemetryOutOfRange TelemetryState = "out_of_range"
	TelemetryNoise      TelemetryState = "noise"
)

// ValidTelemetry reports whether s is a known telemetry state.
func ValidTelemetry(s TelemetryState) bool {
	switch s {
	case TelemetryOK, TelemetryOutOfRange, TelemetryNoise:
		return true
	}
	return false
}

// DeviceStatus is the current snapshot of the simulated device link:
// comms/telemetry flags, the connected device identity, and the device clock.
type DeviceStatus struct {
	ID             int            `json:"id"`
	CommsConnected bool           `json:"comms_connected"`
	DeviceID       string         `json:"device_id,omitempty"`
	DeviceChanged  bool           `json:"device_changed"`
	Telemetry      TelemetryState `json:"telemetry"`
	Clock          time.Time      `json:"clock"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
