package param

import (
	"errors"
	"fmt"
	"strconv"
)

// AmplitudeOff is the exported logical value of a disabled amplitude field.
const AmplitudeOff = "Off"

// ErrBadAmplitude rejects values that are neither "Off" nor a number.
var ErrBadAmplitude = errors.New("param: amplitude must be \"Off\" or a voltage")

// AmplitudeField is a two-state pacing amplitude: off, or a voltage snapped
// to its chamber grid. The raw voltage is retained while the field is off.
type AmplitudeField struct {
	grid    *ValueGrid
	enabled bool
	raw     float64
}

// NewAmplitudeField returns a field over the given chamber grid holding
// voltage, initially enabled.
func NewAmplitudeField(grid *ValueGrid, voltage float64) *AmplitudeField {
	return &AmplitudeField{grid: grid, enabled: true, raw: voltage}
}

// Grid returns the backing chamber grid.
func (f *AmplitudeField) Grid() *ValueGrid { return f.grid }

// Enabled reports whether the field is on.
func (f *AmplitudeField) Enabled() bool { return f.enabled }

// Value returns "Off" when disabled, else the voltage snapped to the nearest
// grid member (which also clamps it into the grid's range).
func (f *AmplitudeField) Value() any {
	if !f.enabled {
		return AmplitudeOff
	}
	return f.grid.Snap(f.raw)
}

// Set accepts "Off" to disable the field, or any number to enable it and
// store the raw voltage, snapped on the next Value.
func (f *AmplitudeField) Set(v any) error {
	switch t := v.(type) {
	case string:
		if t == AmplitudeOff {
			f.enabled = false
			return nil
		}
		volts, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrBadAmplitude, t)
		}
		f.enabled = true
		f.raw = volts
	case float64:
		f.enabled = true
		f.raw = t
	case int:
		f.enabled = true
		f.raw = float64(t)
	case int64:
		f.enabled = true
		f.raw = float64(t)
	default:
		return fmt.Errorf("%w: %T", ErrBadAmplitude, v)
	}
	return nil
}
