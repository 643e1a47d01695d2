package param

import (
	"fmt"
	"math"

	"pacemaker_dcm/internal/models"
)

// Flat map keys. These names and units are the fixed export contract shared
// by persistence and reporting.
const (
	KeyMode       = "mode"
	KeyLRL        = "LRL_ppm"
	KeyURL        = "URL_ppm"
	KeyAtrialAmp  = "AtrialAmplitude_V"
	KeyAtrialPW   = "AtrialPulseWidth_ms"
	KeyVentAmp    = "VentricularAmplitude_V"
	KeyVentPW     = "VentricularPulseWidth_ms"
	KeyARP        = "ARP_ms"
	KeyVRP        = "VRP_ms"
	KeyHysteresis = "Hysteresis"
	KeyHRL        = "HRL_ppm"
	KeySmoothUp   = "RateSmoothingUp_percent"
	KeySmoothDown = "RateSmoothingDown_percent"
)

// Hysteresis states.
const (
	HysteresisOff = "Off"
	HysteresisOn  = "On"
)

// FlatMap is the name/value serialization of a ParameterSet used for
// persistence and export. Amplitudes are "Off" or a number; everything else
// is numeric or a fixed enumeration.
type FlatMap = map[string]any

// ParameterSet bundles every programmable parameter for one pacing mode.
// Fields disabled by the current mode keep their values; enablement is the
// editor's concern, not the set's.
type ParameterSet struct {
	LRL        *GridField
	URL        *GridField
	AtrialAmp  *AmplitudeField
	AtrialPW   *GridField
	VentAmp    *AmplitudeField
	VentPW     *GridField
	ARP        *GridField
	VRP        *GridField
	Hysteresis string
	HRL        *GridField
	SmoothUp   int
	SmoothDown int
}

// NewParameterSet returns a set initialized to the mode's defaults.
func NewParameterSet(mode models.Mode) *ParameterSet {
	p := &ParameterSet{
		LRL:        NewGridField(GridRateLimit, 60),
		URL:        NewGridField(GridUpperRate, 120),
		AtrialAmp:  NewAmplitudeField(GridAtrialAmplitude, 3.0),
		AtrialPW:   NewGridField(GridPulseWidth, 0.4),
		VentAmp:    NewAmplitudeField(GridVentricularAmplitude, 3.5),
		VentPW:     NewGridField(GridPulseWidth, 0.4),
		ARP:        NewGridField(GridRefractory, 250),
		VRP:        NewGridField(GridRefractory, 320),
		Hysteresis: HysteresisOff,
		HRL:        NewGridField(GridRateLimit, 60),
	}
	// Only the amplitudes depend on the mode.
	_ = p.Apply(Defaults(mode))
	return p
}

// Defaults returns the nominal flat map for a mode. The paced chamber gets a
// nominal voltage; the other chamber's amplitude defaults to "Off".
func Defaults(mode models.Mode) FlatMap {
	d := FlatMap{
		KeyLRL:        60,
		KeyURL:        120,
		KeyAtrialAmp:  AmplitudeOff,
		KeyAtrialPW:   0.40,
		KeyVentAmp:    AmplitudeOff,
		KeyVentPW:     0.40,
		KeyARP:        250,
		KeyVRP:        320,
		KeyHysteresis: HysteresisOff,
		KeyHRL:        60,
		KeySmoothUp:   0,
		KeySmoothDown: 0,
	}
	switch mode {
	case models.AOO, models.AAI:
		d[KeyAtrialAmp] = 3.0
	case models.VOO, models.VVI:
		d[KeyVentAmp] = 3.5
	}
	return d
}

// Collect reads every field through its snap contract and tags the result
// with the mode name. Every numeric value in the output is an exact grid
// member.
func (p *ParameterSet) Collect(mode models.Mode) FlatMap {
	return FlatMap{
		KeyMode:       mode.String(),
		KeyLRL:        intMember(p.LRL.Read()),
		KeyURL:        intMember(p.URL.Read()),
		KeyAtrialAmp:  p.AtrialAmp.Value(),
		KeyAtrialPW:   p.AtrialPW.Read(),
		KeyVentAmp:    p.VentAmp.Value(),
		KeyVentPW:     p.VentPW.Read(),
		KeyARP:        intMember(p.ARP.Read()),
		KeyVRP:        intMember(p.VRP.Read()),
		KeyHysteresis: p.Hysteresis,
		KeyHRL:        intMember(p.HRL.Read()),
		KeySmoothUp:   p.SmoothUp,
		KeySmoothDown: p.SmoothDown,
	}
}

// Apply writes each present key into its field. Missing keys leave the field
// unchanged, so older persisted records lacking newer fields still load.
// The mode tag, if present, is ignored: the editor owns the mode.
func (p *ParameterSet) Apply(m FlatMap) error {
	if v, ok, err := numberAt(m, KeyLRL); err != nil {
		return err
	} else if ok {
		p.LRL.Set(v)
	}
	if v, ok, err := numberAt(m, KeyURL); err != nil {
		return err
	} else if ok {
		p.URL.Set(v)
	}
	if raw, ok := m[KeyAtrialAmp]; ok {
		if err := p.AtrialAmp.Set(raw); err != nil {
			return err
		}
	}
	if v, ok, err := numberAt(m, KeyAtrialPW); err != nil {
		return err
	} else if ok {
		p.AtrialPW.Set(v)
	}
	if raw, ok := m[KeyVentAmp]; ok {
		if err := p.VentAmp.Set(raw); err != nil {
			return err
		}
	}
	if v, ok, err := numberAt(m, KeyVentPW); err != nil {
		return err
	} else if ok {
		p.VentPW.Set(v)
	}
	if v, ok, err := numberAt(m, KeyARP); err != nil {
		return err
	} else if ok {
		p.ARP.Set(v)
	}
	if v, ok, err := numberAt(m, KeyVRP); err != nil {
		return err
	} else if ok {
		p.VRP.Set(v)
	}
	if raw, ok := m[KeyHysteresis]; ok {
		s, isStr := raw.(string)
		if !isStr || (s != HysteresisOff && s != HysteresisOn) {
			return fmt.Errorf("param: hysteresis must be %q or %q, got %v", HysteresisOff, HysteresisOn, raw)
		}
		p.Hysteresis = s
	}
	if v, ok, err := numberAt(m, KeyHRL); err != nil {
		return err
	} else if ok {
		p.HRL.Set(v)
	}
	if v, ok, err := numberAt(m, KeySmoothUp); err != nil {
		return err
	} else if ok {
		pct := int(math.Round(v))
		if !ValidSmoothing(pct) {
			return fmt.Errorf("%w: %v", ErrBadSmoothing, v)
		}
		p.SmoothUp = pct
	}
	if v, ok, err := numberAt(m, KeySmoothDown); err != nil {
		return err
	} else if ok {
		pct := int(math.Round(v))
		if !ValidSmoothing(pct) {
			return fmt.Errorf("%w: %v", ErrBadSmoothing, v)
		}
		p.SmoothDown = pct
	}
	return nil
}

// numberAt coerces the numeric forms a flat map picks up from JSON decoding
// or in-process construction.
func numberAt(m FlatMap, key string) (float64, bool, error) {
	raw, ok := m[key]
	if !ok {
		return 0, false, nil
	}
	switch t := raw.(type) {
	case float64:
		return t, true, nil
	case float32:
		return float64(t), true, nil
	case int:
		return float64(t), true, nil
	case int64:
		return float64(t), true, nil
	default:
		return 0, false, fmt.Errorf("param: %s must be numeric, got %T", key, raw)
	}
}

// intMember converts a snapped integer-grid value to int for export.
func intMember(v float64) int {
	return int(math.Round(v))
}
