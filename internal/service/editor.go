package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"pacemaker_dcm/internal/editor"
	"pacemaker_dcm/internal/models"
	"pacemaker_dcm/internal/param"
	"pacemaker_dcm/internal/repository"
)

// Editor flow errors.
var (
	ErrNoSession    = errors.New("no editor session: enter a pacing mode first")
	ErrUnknownField = errors.New("unknown parameter field")
)

// EditorService owns one ModeEditor per operator. Operations on a session
// are serialized under the service mutex; the core editor itself is
// single-threaded by contract.
type EditorService struct {
	store  repository.ParamStore
	events repository.EventRepo

	mu       sync.Mutex
	sessions map[string]*editor.ModeEditor
}

func NewEditorService(store repository.ParamStore, events repository.EventRepo) *EditorService {
	return &EditorService{
		store:    store,
		events:   events,
		sessions: make(map[string]*editor.ModeEditor),
	}
}

// fixedIdentity pins the editor's identity collaborator to the operator
// resolved from the request token.
type fixedIdentity string

func (f fixedIdentity) ActiveOperator() (string, bool) {
	return string(f), f != ""
}

// EnterMode creates the operator's session if needed and switches it to the
// mode, resolving saved-or-default content.
func (s *EditorService) EnterMode(ctx context.Context, operator string, mode models.Mode) (EditorView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[operator]
	if !ok {
		sess = editor.New(s.store, fixedIdentity(operator))
		s.sessions[operator] = sess
	}
	if err := sess.SelectMode(ctx, mode); err != nil {
		return EditorView{}, err
	}
	_ = s.events.Append(ctx, models.AuditEvent{
		Type:        models.EventModeChange,
		Description: fmt.Sprintf("%s entered mode %s", operator, mode),
		Metadata:    map[string]any{"operator": operator, "mode": mode.String()},
	})
	return viewOf(sess), nil
}

// View returns the current editor state without touching persistence.
func (s *EditorService) View(operator string) (EditorView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(operator)
	if err != nil {
		return EditorView{}, err
	}
	return viewOf(sess), nil
}

// UpdateParams applies a flat-map fragment to the live set. Values land
// verbatim and snap on read, so an off-grid number is corrected rather than
// rejected; type and enumeration violations are rejected.
func (s *EditorService) UpdateParams(ctx context.Context, operator string, patch param.FlatMap) (EditorView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(operator)
	if err != nil {
		return EditorView{}, err
	}
	if err := sess.Set().Apply(patch); err != nil {
		return EditorView{}, err
	}
	return viewOf(sess), nil
}

// StepField moves one grid-backed field by byCount grid positions.
func (s *EditorService) StepField(ctx context.Context, operator, key string, byCount int) (EditorView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(operator)
	if err != nil {
		return EditorView{}, err
	}
	f, err := gridFieldByKey(sess.Set(), key)
	if err != nil {
		return EditorView{}, err
	}
	f.Step(byCount)
	return viewOf(sess), nil
}

// ClassifyField runs the three-state input classifier for a grid-backed
// field against raw text, returning the verdict name.
func (s *EditorService) ClassifyField(operator, key, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(operator)
	if err != nil {
		return "", err
	}
	f, err := gridFieldByKey(sess.Set(), key)
	if err != nil {
		return "", err
	}
	return f.Classify(text).String(), nil
}

// Save persists the current set under (operator, mode) and appends an audit
// event. Validation failures surface as the editor package's sentinel errors
// and write nothing.
func (s *EditorService) Save(ctx context.Context, operator string) (param.FlatMap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(operator)
	if err != nil {
		return nil, err
	}
	collected, err := sess.Save(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.events.Append(ctx, models.AuditEvent{
		Type:        models.EventSaveParams,
		Description: fmt.Sprintf("%s saved parameters for %s", operator, sess.Mode()),
		Metadata:    map[string]any{"operator": operator, "mode": sess.Mode().String()},
	})
	return collected, nil
}

// Revert discards unsaved edits, re-resolving from persistence-or-defaults.
func (s *EditorService) Revert(ctx context.Context, operator string) (EditorView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(operator)
	if err != nil {
		return EditorView{}, err
	}
	if err := sess.Revert(ctx); err != nil {
		return EditorView{}, err
	}
	return viewOf(sess), nil
}

// CollectCurrent exports the current set for reporting.
func (s *EditorService) CollectCurrent(operator string) (param.FlatMap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(operator)
	if err != nil {
		return nil, err
	}
	return sess.Collect(), nil
}

// session must be called with s.mu held.
func (s *EditorService) session(operator string) (*editor.ModeEditor, error) {
	sess, ok := s.sessions[operator]
	if !ok {
		return nil, ErrNoSession
	}
	return sess, nil
}

func viewOf(sess *editor.ModeEditor) EditorView {
	return EditorView{
		Mode:       sess.Mode().String(),
		Enablement: sess.Enablement(),
		Params:     sess.Collect(),
	}
}

// gridFieldByKey maps flat-map keys to their grid-backed fields. Amplitudes
// are two-state fields with their own contract and are not steppable here.
func gridFieldByKey(p *param.ParameterSet, key string) (*param.GridField, error) {
	switch key {
	case param.KeyLRL:
		return p.LRL, nil
	case param.KeyURL:
		return p.URL, nil
	case param.KeyAtrialPW:
		return p.AtrialPW, nil
	case param.KeyVentPW:
		return p.VentPW, nil
	case param.KeyARP:
		return p.ARP, nil
	case param.KeyVRP:
		return p.VRP, nil
	case param.KeyHRL:
		return p.HRL, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, key)
	}
}
