package param

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Rate smoothing is an enumerated percentage, not a grid: Off plus eight
// fixed steps. 0 encodes Off.
var smoothingChoices = []int{0, 3, 6, 9, 12, 15, 18, 21, 25}

// ErrBadSmoothing rejects percentages outside the enumerated choices.
var ErrBadSmoothing = errors.New("param: rate smoothing percentage not in choices")

// SmoothingChoices returns the legal percentages in increasing order.
func SmoothingChoices() []int {
	out := make([]int, len(smoothingChoices))
	copy(out, smoothingChoices)
	return out
}

// ValidSmoothing reports whether v is one of the enumerated percentages.
func ValidSmoothing(v int) bool {
	for _, c := range smoothingChoices {
		if c == v {
			return true
		}
	}
	return false
}

// SmoothingLabel renders the internal percentage as its display label:
// 0 -> "Off", 12 -> "12%".
func SmoothingLabel(v int) string {
	if v == 0 {
		return "Off"
	}
	return fmt.Sprintf("%d%%", v)
}

// ParseSmoothing inverts SmoothingLabel and validates the result.
func ParseSmoothing(label string) (int, error) {
	s := strings.TrimSpace(label)
	if s == "Off" {
		return 0, nil
	}
	v, err := strconv.Atoi(strings.TrimSuffix(s, "%"))
	if err != nil || !ValidSmoothing(v) || v == 0 {
		return 0, fmt.Errorf("%w: %q", ErrBadSmoothing, label)
	}
	return v, nil
}
