// Package editor holds the mode-scoped configuration state machine: which
// parameters are active for a pacing mode, and the enter/save/revert protocol
// against the persistence and identity collaborators.
package editor

import (
	"context"
	"errors"

	"pacemaker_dcm/internal/models"
	"pacemaker_dcm/internal/param"
)

// Recoverable outcomes surfaced to the caller as values. A failed save never
// writes, and never corrupts the in-memory set.
var (
	ErrRateLimitsInverted = errors.New("editor: lower rate limit exceeds upper rate limit")
	ErrNoOperator         = errors.New("editor: no active operator")
)

// Store is the persistence collaborator: parameter flat maps keyed by
// (operator, mode). Load returns an empty map when nothing is saved.
type Store interface {
	Load(ctx context.Context, operator string, mode models.Mode) (param.FlatMap, error)
	Save(ctx context.Context, operator string, mode models.Mode, set param.FlatMap) error
}

// Identity is the operator-identity collaborator. The second return is false
// when nobody is logged in, which blocks Save and degrades Revert to
// defaults.
type Identity interface {
	ActiveOperator() (string, bool)
}

// Enablement says which parameter groups a mode makes meaningful. Disabled
// fields keep their values and are excluded from cross-field validation; they
// are not deleted.
type Enablement struct {
	Atrial      bool `json:"atrial"`
	Ventricular bool `json:"ventricular"`
	Inhibiting  bool `json:"inhibiting"`
}

// EnablementFor is the fixed per-mode table: atrial fields for AOO/AAI,
// ventricular for VOO/VVI, hysteresis and rate smoothing only for the two
// inhibiting modes.
func EnablementFor(mode models.Mode) Enablement {
	return Enablement{
		Atrial:      mode == models.AOO || mode == models.AAI,
		Ventricular: mode == models.VOO || mode == models.VVI,
		Inhibiting:  mode == models.AAI || mode == models.VVI,
	}
}

// ModeEditor owns one live ParameterSet and the currently selected mode.
// There is no state beyond those two between mode switches. All operations
// are synchronous; callers serialize access to one editor instance.
type ModeEditor struct {
	store    Store
	identity Identity
	mode     models.Mode
	set      *param.ParameterSet
}

// New returns an editor positioned on AOO with nominal values. Callers
// normally SelectMode immediately to resolve saved content.
func New(store Store, identity Identity) *ModeEditor {
	return &ModeEditor{
		store:    store,
		identity: identity,
		mode:     models.AOO,
		set:      param.NewParameterSet(models.AOO),
	}
}

// Mode returns the currently selected pacing mode.
func (e *ModeEditor) Mode() models.Mode { return e.mode }

// Set returns the live parameter set for field edits.
func (e *ModeEditor) Set() *param.ParameterSet { return e.set }

// Enablement returns the field enablement for the current mode.
func (e *ModeEditor) Enablement() Enablement { return EnablementFor(e.mode) }

// Collect exports the current set as a flat map tagged with the mode.
func (e *ModeEditor) Collect() param.FlatMap { return e.set.Collect(e.mode) }

// SelectMode switches the editor to a mode, recomputes enablement, and
// resolves content from persistence or the mode's defaults.
func (e *ModeEditor) SelectMode(ctx context.Context, mode models.Mode) error {
	e.mode = mode
	return e.resolve(ctx)
}

// Revert discards unsaved edits by re-resolving the current mode from
// persistence-or-defaults. Without an operator there is no persistence key,
// so revert degrades to defaults.
func (e *ModeEditor) Revert(ctx context.Context) error {
	return e.resolve(ctx)
}

// Save validates the cross-field invariant, collects the set, and stores it
// under (operator, mode). It returns the stored flat map on success.
func (e *ModeEditor) Save(ctx context.Context) (param.FlatMap, error) {
	operator, ok := e.identity.ActiveOperator()
	if !ok {
		return nil, ErrNoOperator
	}
	if e.set.LRL.Read() > e.set.URL.Read() {
		return nil, ErrRateLimitsInverted
	}
	collected := e.Collect()
	if err := e.store.Save(ctx, operator, e.mode, collected); err != nil {
		return nil, err
	}
	return collected, nil
}

func (e *ModeEditor) resolve(ctx context.Context) error {
	if operator, ok := e.identity.ActiveOperator(); ok {
		saved, err := e.store.Load(ctx, operator, e.mode)
		if err != nil {
			return err
		}
		if len(saved) > 0 {
			return e.set.Apply(saved)
		}
	}
	return e.set.Apply(param.Defaults(e.mode))
}
