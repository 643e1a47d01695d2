package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pacemaker_dcm/internal/models"
	"pacemaker_dcm/internal/param"
)

type ParamSQLite struct {
	db *sql.DB
}

func NewParamSQLite(db *sql.DB) *ParamSQLite {
	return &ParamSQLite{db: db}
}

var _ ParamStore = (*ParamSQLite)(nil)

const (
	upsertParamsSQL = `
		INSERT INTO parameter_sets (operator, mode, payload, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(operator, mode) DO UPDATE SET
			payload=excluded.payload,
			updated_at=excluded.updated_at
	`

	selectParamsSQL = `
		SELECT payload FROM parameter_sets WHERE operator=? AND mode=?
	`
)

// Save upserts the flat map for (operator, mode), stored as JSON text.
func (r *ParamSQLite) Save(ctx context.Context, operator string, mode models.Mode, set param.FlatMap) error {
	payload, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("marshal parameter set for %s/%s: %w", operator, mode, err)
	}
	_, err = r.db.ExecContext(ctx, upsertParamsSQL,
		operator,
		mode.String(),
		string(payload),
		time.Now().UTC(),
	)
	return err
}

// Load fetches the flat map for (operator, mode). A missing key is not an
// error; it returns nil so callers fall back to mode defaults.
func (r *ParamSQLite) Load(ctx context.Context, operator string, mode models.Mode) (param.FlatMap, error) {
	var payload string
	err := r.db.QueryRowContext(ctx, selectParamsSQL, operator, mode.String()).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // nothing saved yet
		}
		return nil, err
	}

	var set param.FlatMap
	if err := json.Unmarshal([]byte(payload), &set); err != nil {
		return nil, fmt.Errorf("unmarshal parameter set for %s/%s: %w", operator, mode, err)
	}
	return set, nil
}
