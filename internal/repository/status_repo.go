package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"pacemaker_dcm/internal/models"
)

type StatusSQLite struct {
	db *sql.DB
}

func NewStatusSQLite(db *sql.DB) *StatusSQLite {
	return &StatusSQLite{db: db}
}

var _ StatusRepo = (*StatusSQLite)(nil)

// constants and helpers for clarity and reuse
const (
	deviceStatusRowID = 1

	upsertStatusSQL = `
		INSERT INTO device_status (id, comms_connected, device_id, device_changed, telemetry, clock, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			comms_connected=excluded.comms_connected,
			device_id=excluded.device_id,
			device_changed=excluded.device_changed,
			telemetry=excluded.telemetry,
			clock=excluded.clock,
			updated_at=excluded.updated_at
	`

	selectStatusSQL = `
		SELECT id, comms_connected, device_id, device_changed, telemetry, clock, updated_at
		FROM device_status WHERE id=?
	`
)

// Save updates or inserts the device_status row (id always 1).
func (r *StatusSQLite) Save(ctx context.Context, status models.DeviceStatus) error {
	// ensure UpdatedAt is always persisted as UTC; set if zero
	tsUTC := status.UpdatedAt
	if tsUTC.IsZero() {
		tsUTC = time.Now().UTC()
	} else {
		tsUTC = tsUTC.UTC()
	}

	_, err := r.db.ExecContext(ctx, upsertStatusSQL,
		deviceStatusRowID,
		status.CommsConnected,
		status.DeviceID,
		status.DeviceChanged,
		string(status.Telemetry),
		status.Clock.UTC(),
		tsUTC,
	)
	return err
}

// Load fetches the single device_status row (id=1).
func (r *StatusSQLite) Load(ctx context.Context) (models.DeviceStatus, error) {
	row := r.db.QueryRowContext(ctx, selectStatusSQL, deviceStatusRowID)

	var s models.DeviceStatus
	var telemetry string
	if err := row.Scan(
		&s.ID,
		&s.CommsConnected,
		&s.DeviceID,
		&s.DeviceChanged,
		&telemetry,
		&s.Clock,
		&s.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.DeviceStatus{}, nil // no status yet
		}
		return models.DeviceStatus{}, err
	}

	s.Telemetry = models.TelemetryState(telemetry)
	s.Clock = s.Clock.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()

	return s, nil
}
