package repository

import (
	"context"
	"database/sql"
	"time"

	"pacemaker_dcm/internal/models"
	"pacemaker_dcm/internal/param"
)

// Operators is registration/lookup for DCM users.
type Operators interface {
	Create(ctx context.Context, username, hash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.Operator, error)
	Count(ctx context.Context) (int, error)
}

// ParamStore persists parameter flat maps keyed by (operator, mode).
// Load returns nil when nothing is saved for the key.
type ParamStore interface {
	Load(ctx context.Context, operator string, mode models.Mode) (param.FlatMap, error)
	Save(ctx context.Context, operator string, mode models.Mode, set param.FlatMap) error
}

// StatusRepo holds the single device status row.
type StatusRepo interface {
	Save(ctx context.Context, s models.DeviceStatus) error
	Load(ctx context.Context) (models.DeviceStatus, error)
}

// EventRepo is the append-only audit trail with filtered access.
type EventRepo interface {
	Append(ctx context.Context, e models.AuditEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.AuditEvent, error)
}

type Repository struct {
	Operators Operators
	Params    ParamStore
	Status    StatusRepo
	Events    EventRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Operators: NewOperatorSQLite(db),
		Params:    NewParamSQLite(db),
		Status:    NewStatusSQLite(db),
		Events:    NewEventSQLite(db),
	}
}
