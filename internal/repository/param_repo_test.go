package repository

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"

	"pacemaker_dcm/internal/models"
	"pacemaker_dcm/internal/param"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockParamRepo(t *testing.T) (*ParamSQLite, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	repo := NewParamSQLite(db)
	cleanup := func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet sqlmock expectations: %v", err)
		}
		_ = db.Close()
	}
	return repo, mock, cleanup
}

func TestParamSQLite_SaveMarshalsJSONPayload(t *testing.T) {
	repo, mock, cleanup := newMockParamRepo(t)
	defer cleanup()

	set := param.FlatMap{param.KeyLRL: 60, param.KeyVentAmp: "Off"}
	payload, _ := json.Marshal(set)

	mock.ExpectExec(regexp.QuoteMeta(upsertParamsSQL)).
		WithArgs("alice", "VVI", string(payload), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Save(context.Background(), "alice", models.VVI, set); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
}

func TestParamSQLite_LoadUnmarshalsPayload(t *testing.T) {
	repo, mock, cleanup := newMockParamRepo(t)
	defer cleanup()

	payload := `{"LRL_ppm":75,"VentricularAmplitude_V":3.5,"mode":"VVI"}`
	mock.ExpectQuery(regexp.QuoteMeta(selectParamsSQL)).
		WithArgs("alice", "VVI").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(payload))

	set, err := repo.Load(context.Background(), "alice", models.VVI)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	// encoding/json decodes numbers into float64.
	if set[param.KeyLRL] != 75.0 {
		t.Fatalf("LRL = %v, want 75", set[param.KeyLRL])
	}
	if set[param.KeyVentAmp] != 3.5 {
		t.Fatalf("ventricular amplitude = %v, want 3.5", set[param.KeyVentAmp])
	}
}

func TestParamSQLite_LoadMissingKeyReturnsNil(t *testing.T) {
	repo, mock, cleanup := newMockParamRepo(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectParamsSQL)).
		WithArgs("alice", "AOO").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}))

	set, err := repo.Load(context.Background(), "alice", models.AOO)
	if err != nil {
		t.Fatalf("missing record must not be an error, got: %v", err)
	}
	if set != nil {
		t.Fatalf("expected nil set, got %v", set)
	}
}

func TestParamSQLite_LoadCorruptPayload(t *testing.T) {
	repo, mock, cleanup := newMockParamRepo(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectParamsSQL)).
		WithArgs("alice", "AAI").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow("{not json"))

	if _, err := repo.Load(context.Background(), "alice", models.AAI); err == nil {
		t.Fatal("expected unmarshal error for corrupt payload")
	}
}
