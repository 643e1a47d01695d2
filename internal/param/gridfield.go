package param

import (
	"fmt"
	"strconv"
	"strings"
)

// Verdict classifies raw text typed into a grid-backed field.
type Verdict int

const (
	// Intermediate means the user may still be mid-typing toward a legal
	// value: empty text, an unfinished number, or a value below the grid
	// minimum.
	Intermediate Verdict = iota
	// Invalid means the text can never become legal by typing more digits:
	// above the grid maximum, or in range but not a grid member.
	Invalid
	// Acceptable means the text is an exact grid member.
	Acceptable
)

var verdictNames = [...]string{Intermediate: "Intermediate", Invalid: "Invalid", Acceptable: "Acceptable"}

func (v Verdict) String() string {
	if v >= Intermediate && v <= Acceptable {
		return verdictNames[v]
	}
	return fmt.Sprintf("Verdict(%d)", int(v))
}

// GridField is one numeric parameter constrained to a ValueGrid. The raw
// value may sit off-grid while an edit is in flight; Read always snaps, so
// anything collected for persistence or export is an exact grid member.
type GridField struct {
	grid *ValueGrid
	raw  float64
}

// NewGridField returns a field over grid holding initial.
func NewGridField(grid *ValueGrid, initial float64) *GridField {
	return &GridField{grid: grid, raw: initial}
}

// Grid returns the backing grid.
func (f *GridField) Grid() *ValueGrid { return f.grid }

// Set stores v verbatim, without forcing it onto the grid. Used for
// programmatic restore; an off-grid value self-corrects on the next Read.
func (f *GridField) Set(v float64) { f.raw = v }

// Raw returns the stored value as-is, possibly off-grid mid-edit.
func (f *GridField) Raw() float64 { return f.raw }

// Read returns the grid member nearest the stored value, ties resolving to
// the lower member.
func (f *GridField) Read() float64 {
	return f.grid.Snap(f.raw)
}

// Step moves the value by byCount grid positions, clamped to the grid ends.
// An off-grid value is first located at its nearest index, so stepping never
// degenerates to a fixed arithmetic increment.
func (f *GridField) Step(byCount int) {
	idx := f.grid.NearestIndex(f.raw) + byCount
	if idx < 0 {
		idx = 0
	}
	if idx > f.grid.Len()-1 {
		idx = f.grid.Len() - 1
	}
	f.raw = f.grid.At(idx)
}

// Classify applies the three-state input contract to raw text.
func (f *GridField) Classify(text string) Verdict {
	s := strings.TrimSpace(text)
	if s == "" {
		return Intermediate
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Not a number yet ("-", "1e"); let the user keep typing.
		return Intermediate
	}
	if v < f.grid.Min()-memberTolerance {
		return Intermediate
	}
	if v > f.grid.Max()+memberTolerance {
		return Invalid
	}
	if f.grid.Contains(v) {
		return Acceptable
	}
	return Invalid
}
