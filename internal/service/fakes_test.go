package service

import (
	"context"
	"strings"
	"time"

	"pacemaker_dcm/internal/models"
	"pacemaker_dcm/internal/param"
)

// In-memory fakes for the repository interfaces, shared across the service
// tests in this package.

type fakeOperators struct {
	byName    map[string]*models.Operator
	nextID    int
	createErr error
	getErr    error
	countErr  error
}

func newFakeOperators() *fakeOperators {
	return &fakeOperators{byName: map[string]*models.Operator{}, nextID: 1}
}

func (f *fakeOperators) Create(ctx context.Context, username, hash string) (int, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	id := f.nextID
	f.nextID++
	f.byName[strings.ToLower(username)] = &models.Operator{ID: id, Username: username, PasswordHash: hash}
	return id, nil
}

func (f *fakeOperators) GetByUsername(ctx context.Context, username string) (*models.Operator, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.byName[strings.ToLower(username)], nil
}

func (f *fakeOperators) Count(ctx context.Context) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return len(f.byName), nil
}

type fakeEventRepo struct {
	appended []models.AuditEvent
	listed   []models.AuditEvent

	gotFrom time.Time
	gotTo   time.Time
	gotType string

	appendErr error
	listErr   error
}

func (f *fakeEventRepo) Append(ctx context.Context, e models.AuditEvent) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, e)
	return nil
}

func (f *fakeEventRepo) List(ctx context.Context, from, to time.Time, typ string) ([]models.AuditEvent, error) {
	f.gotFrom = from
	f.gotTo = to
	f.gotType = typ
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listed, nil
}

func (f *fakeEventRepo) typesAppended() []string {
	out := make([]string, 0, len(f.appended))
	for _, e := range f.appended {
		out = append(out, e.Type)
	}
	return out
}

type fakeParamStore struct {
	data    map[string]param.FlatMap
	loadErr error
	saveErr error
}

func newFakeParamStore() *fakeParamStore {
	return &fakeParamStore{data: map[string]param.FlatMap{}}
}

func paramKey(operator string, mode models.Mode) string {
	return operator + "/" + mode.String()
}

func (f *fakeParamStore) Load(ctx context.Context, operator string, mode models.Mode) (param.FlatMap, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.data[paramKey(operator, mode)], nil
}

func (f *fakeParamStore) Save(ctx context.Context, operator string, mode models.Mode, set param.FlatMap) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.data[paramKey(operator, mode)] = set
	return nil
}

type fakeStatusRepo struct {
	stored  models.DeviceStatus
	loadErr error
	saveErr error
}

func (f *fakeStatusRepo) Load(ctx context.Context) (models.DeviceStatus, error) {
	if f.loadErr != nil {
		return models.DeviceStatus{}, f.loadErr
	}
	return f.stored, nil
}

func (f *fakeStatusRepo) Save(ctx context.Context, s models.DeviceStatus) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.stored = s
	return nil
}
