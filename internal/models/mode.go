package models

import (
	"encoding"
	"fmt"
)

// Mode is a pacing mode: which chamber is paced and whether pacing is
// inhibited by sensed activity. A total, closed enumeration.
type Mode int

const (
	AOO Mode = iota + 1 // atrial pacing, asynchronous
	VOO                 // ventricular pacing, asynchronous
	AAI                 // atrial pacing, inhibited
	VVI                 // ventricular pacing, inhibited
)

var (
	modeNames  = [...]string{AOO: "AOO", VOO: "VOO", AAI: "AAI", VVI: "VVI"}
	modeByName = map[string]Mode{
		"AOO": AOO,
		"VOO": VOO,
		"AAI": AAI,
		"VVI": VVI,
	}
)

var (
	_ fmt.Stringer             = Mode(0)
	_ encoding.TextMarshaler   = Mode(0)
	_ encoding.TextUnmarshaler = (*Mode)(nil)
)

// Modes returns all pacing modes in declaration order.
func Modes() []Mode {
	return []Mode{AOO, VOO, AAI, VVI}
}

// IsValid reports whether m is one of the four pacing modes.
func (m Mode) IsValid() bool {
	return m >= AOO && m <= VVI
}

// String returns the mode tag ("AOO", "VOO", "AAI", "VVI").
// For invalid values it returns "Mode(n)".
func (m Mode) String() string {
	if m.IsValid() {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode maps a mode tag to its Mode value.
func ParseMode(s string) (Mode, error) {
	if m, ok := modeByName[s]; ok {
		return m, nil
	}
	return 0, fmt.Errorf("models: invalid pacing mode %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.IsValid() {
		return nil, fmt.Errorf("models: invalid pacing mode: %d", int(m))
	}
	return []byte(modeNames[m]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	v, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
