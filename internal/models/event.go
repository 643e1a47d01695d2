package models

import "time"

// Audit event types.
const (
	EventRegister     = "REGISTER"
	EventLogin        = "LOGIN"
	EventModeChange   = "MODE_CHANGE"
	EventSaveParams   = "SAVE_PARAMS"
	EventDeviceChange = "DEVICE_CHANGE"
)

// AuditEvent is a single append-only log entry.
type AuditEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // REGISTER | LOGIN | MODE_CHANGE | SAVE_PARAMS | DEVICE_CHANGE
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
