package param

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Tolerance for float membership checks. Grid values themselves are generated
// by integer step multiplication and rounded to 2 decimals, so this only has
// to absorb error in caller-supplied values.
const memberTolerance = 1e-9

// Domain errors for grid construction.
var (
	ErrNoSegments = errors.New("param: grid built from empty segment list")
	ErrBadSegment = errors.New("param: malformed grid segment")
)

// Segment describes one contiguous run of legal values: Low, Low+Step, ...
// up to and including High. Segments are authored so High always lands on a
// step boundary.
type Segment struct {
	Low  float64
	High float64
	Step float64
}

// ValueGrid is the ordered, duplicate-free set of legal discrete values for
// one parameter kind. Immutable after construction.
type ValueGrid struct {
	values []float64
}

// NewValueGrid unions the given segments into a sorted grid.
// An empty or malformed segment list is a programming error and returns an
// error rather than a degenerate grid.
func NewValueGrid(segments ...Segment) (*ValueGrid, error) {
	if len(segments) == 0 {
		return nil, ErrNoSegments
	}

	seen := make(map[float64]struct{})
	var values []float64
	for _, seg := range segments {
		if seg.Step <= 0 || seg.High < seg.Low {
			return nil, fmt.Errorf("%w: low=%v high=%v step=%v", ErrBadSegment, seg.Low, seg.High, seg.Step)
		}
		// Integer step-count generation avoids repeated-addition drift.
		n := int(math.Floor((seg.High-seg.Low)/seg.Step + 1e-6))
		for i := 0; i <= n; i++ {
			v := round2(seg.Low + float64(i)*seg.Step)
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			values = append(values, v)
		}
	}
	sort.Float64s(values)
	return &ValueGrid{values: values}, nil
}

// MustGrid is for the package-level clinical grids built at process start;
// a failure there is unrecoverable.
func MustGrid(segments ...Segment) *ValueGrid {
	g, err := NewValueGrid(segments...)
	if err != nil {
		panic(err)
	}
	return g
}

// Len returns the number of grid members.
func (g *ValueGrid) Len() int { return len(g.values) }

// At returns the member at index i.
func (g *ValueGrid) At(i int) float64 { return g.values[i] }

// Min returns the smallest member.
func (g *ValueGrid) Min() float64 { return g.values[0] }

// Max returns the largest member.
func (g *ValueGrid) Max() float64 { return g.values[len(g.values)-1] }

// Values returns a copy of all members in increasing order.
func (g *ValueGrid) Values() []float64 {
	out := make([]float64, len(g.values))
	copy(out, g.values)
	return out
}

// NearestIndex returns the index of the member closest to v by absolute
// distance. A value exactly between two members resolves to the lower one.
// Out-of-range values clamp to the first/last index.
func (g *ValueGrid) NearestIndex(v float64) int {
	best := 0
	bestDist := math.Abs(g.values[0] - v)
	for i := 1; i < len(g.values); i++ {
		d := math.Abs(g.values[i] - v)
		if d < bestDist-memberTolerance {
			best, bestDist = i, d
		}
	}
	return best
}

// Snap maps an arbitrary value to its nearest grid member.
func (g *ValueGrid) Snap(v float64) float64 {
	return g.values[g.NearestIndex(v)]
}

// Contains reports whether v is a grid member within tolerance.
func (g *ValueGrid) Contains(v float64) bool {
	return math.Abs(g.Snap(v)-v) <= memberTolerance
}

// round2 keeps fractional grids exact at 2-decimal precision.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
