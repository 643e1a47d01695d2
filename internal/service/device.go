package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pacemaker_dcm/internal/models"
	"pacemaker_dcm/internal/repository"
)

var ErrBadTelemetry = errors.New("unknown telemetry state")

// DeviceService tracks the single connected-device record: comms link,
// device identity, telemetry health and the device clock.
type DeviceService struct {
	status repository.StatusRepo
	events repository.EventRepo
}

func NewDeviceService(status repository.StatusRepo, events repository.EventRepo) *DeviceService {
	return &DeviceService{status: status, events: events}
}

func (s *DeviceService) Get(ctx context.Context) (models.DeviceStatus, error) {
	st, err := s.status.Load(ctx)
	if err != nil {
		return models.DeviceStatus{}, err
	}
	if st.ID == 0 {
		st = baselineStatus()
	}
	return st, nil
}

func (s *DeviceService) SetComms(ctx context.Context, connected bool) (models.DeviceStatus, error) {
	return s.mutate(ctx, func(st *models.DeviceStatus) error {
		st.CommsConnected = connected
		return nil
	})
}

// SetDeviceID records the interrogated device serial. A serial different
// from the last one seen flips the device-changed flag and is audited.
func (s *DeviceService) SetDeviceID(ctx context.Context, deviceID string) (models.DeviceStatus, error) {
	return s.mutate(ctx, func(st *models.DeviceStatus) error {
		if st.DeviceID != "" && st.DeviceID != deviceID {
			st.DeviceChanged = true
			_ = s.events.Append(ctx, models.AuditEvent{
				Type:        models.EventDeviceChange,
				Description: fmt.Sprintf("device changed from %s to %s", st.DeviceID, deviceID),
				Metadata:    map[string]any{"previous": st.DeviceID, "current": deviceID},
			})
		}
		st.DeviceID = deviceID
		return nil
	})
}

func (s *DeviceService) SetChanged(ctx context.Context, changed bool) (models.DeviceStatus, error) {
	return s.mutate(ctx, func(st *models.DeviceStatus) error {
		st.DeviceChanged = changed
		return nil
	})
}

func (s *DeviceService) SetTelemetry(ctx context.Context, state models.TelemetryState) (models.DeviceStatus, error) {
	return s.mutate(ctx, func(st *models.DeviceStatus) error {
		if !models.ValidTelemetry(state) {
			return fmt.Errorf("%w: %q", ErrBadTelemetry, state)
		}
		st.Telemetry = state
		return nil
	})
}

func (s *DeviceService) SetClock(ctx context.Context, clock time.Time) (models.DeviceStatus, error) {
	return s.mutate(ctx, func(st *models.DeviceStatus) error {
		st.Clock = clock.UTC()
		return nil
	})
}

func (s *DeviceService) mutate(ctx context.Context, fn func(*models.DeviceStatus) error) (models.DeviceStatus, error) {
	st, err := s.status.Load(ctx)
	if err != nil {
		return models.DeviceStatus{}, err
	}
	if st.ID == 0 {
		st = baselineStatus()
	}
	if err := fn(&st); err != nil {
		return models.DeviceStatus{}, err
	}
	st.UpdatedAt = time.Now().UTC()
	if err := s.status.Save(ctx, st); err != nil {
		return models.DeviceStatus{}, err
	}
	return st, nil
}

func baselineStatus() models.DeviceStatus {
	return models.DeviceStatus{
		ID:        1,
		Telemetry: models.TelemetryOK,
		Clock:     time.Now().UTC(),
	}
}
