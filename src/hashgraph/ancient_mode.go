package hashgraph

import "fmt"

// AncientMode selects the event field used to decide whether an event is
// ancient.
type AncientMode int

const (
	// GenerationThreshold compares event generations.
	GenerationThreshold AncientMode = iota
	// BirthRoundThreshold compares event birth rounds.
	BirthRoundThreshold
)

var ancientModes = []string{"generation", "birth-round"}

// String returns the configuration name of the mode.
func (m AncientMode) String() string {
	if m < 0 || int(m) >= len(ancientModes) {
		return fmt.Sprintf("AncientMode(%d)", int(m))
	}
	return ancientModes[m]
}

// ParseAncientMode is the inverse of String.
func ParseAncientMode(s string) (AncientMode, error) {
	for i, name := range ancientModes {
		if name == s {
			return AncientMode(i), nil
		}
	}
	return GenerationThreshold, fmt.Errorf("unknown ancient mode %q", s)
}

// SelectIndicator returns the ancient indicator of an event: its generation or
// its birth round.
func (m AncientMode) SelectIndicator(e *Event) int64 {
	if m == BirthRoundThreshold {
		return e.BirthRound()
	}
	return e.Generation()
}

// Selector returns SelectIndicator as a function value.
func (m AncientMode) Selector() func(*Event) int64 {
	return m.SelectIndicator
}

// GenesisIndicator is the lowest indicator an event can have.
func (m AncientMode) GenesisIndicator() int64 {
	if m == BirthRoundThreshold {
		return RoundFirst
	}
	return FirstGeneration
}
