package models

import "fmt"

// Stat is the fixed set of per-player counters. The JSON field names are the
// de facto schema shared with already-stored game documents and must not change.
type Stat struct {
	FreeThrowAttempt int `json:"freeThrowAttempt"`
	FreeThrowMade    int `json:"freeThrowMade"`
	TwoPtAttempt     int `json:"twoPtAttempt"`
	TwoPtMade        int `json:"twoPtMade"`
	ThreePtAttempt   int `json:"threePtAttempt"`
	ThreePtMade      int `json:"threePtMade"`
	Rebounds         int `json:"rebounds"`
	Steals           int `json:"steals"`
	Assists          int `json:"assists"`
	Blocks           int `json:"blocks"`
}

// StatKey identifies a single counter within a Stat. It is a closed
// enumeration: anything not listed below is rejected at the boundary so a
// typo can never silently create new state.
type StatKey string

const (
	StatFreeThrowAttempt StatKey = "freeThrowAttempt"
	StatFreeThrowMade    StatKey = "freeThrowMade"
	StatTwoPtAttempt     StatKey = "twoPtAttempt"
	StatTwoPtMade        StatKey = "twoPtMade"
	StatThreePtAttempt   StatKey = "threePtAttempt"
	StatThreePtMade      StatKey = "threePtMade"
	StatRebounds         StatKey = "rebounds"
	StatSteals           StatKey = "steals"
	StatAssists          StatKey = "assists"
	StatBlocks           StatKey = "blocks"
)

// StatKeys lists every counter in schema order.
var StatKeys = []StatKey{
	StatFreeThrowAttempt,
	StatFreeThrowMade,
	StatTwoPtAttempt,
	StatTwoPtMade,
	StatThreePtAttempt,
	StatThreePtMade,
	StatRebounds,
	StatSteals,
	StatAssists,
	StatBlocks,
}

// pairedAttempt maps a "made" counter to the attempt counter that must move
// with it. A made shot is always also an attempt.
var pairedAttempt = map[StatKey]StatKey{
	StatFreeThrowMade: StatFreeThrowAttempt,
	StatTwoPtMade:     StatTwoPtAttempt,
	StatThreePtMade:   StatThreePtAttempt,
}

// ParseStatKey validates a raw counter name from the API boundary.
func ParseStatKey(raw string) (StatKey, error) {
	key := StatKey(raw)
	for _, k := range StatKeys {
		if k == key {
			return key, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStat, raw)
}

// PairedAttempt returns the attempt counter paired with a made counter,
// or false if the key has no pair.
func (k StatKey) PairedAttempt() (StatKey, bool) {
	attempt, ok := pairedAttempt[k]
	return attempt, ok
}

// Counter returns a pointer to the field addressed by key, or nil for an
// unknown key.
func (s *Stat) Counter(key StatKey) *int {
	switch key {
	case StatFreeThrowAttempt:
		return &s.FreeThrowAttempt
	case StatFreeThrowMade:
		return &s.FreeThrowMade
	case StatTwoPtAttempt:
		return &s.TwoPtAttempt
	case StatTwoPtMade:
		return &s.TwoPtMade
	case StatThreePtAttempt:
		return &s.ThreePtAttempt
	case StatThreePtMade:
		return &s.ThreePtMade
	case StatRebounds:
		return &s.Rebounds
	case StatSteals:
		return &s.Steals
	case StatAssists:
		return &s.Assists
	case StatBlocks:
		return &s.Blocks
	}
	return nil
}

// Get returns the value of a single counter (0 for an unknown key).
func (s Stat) Get(key StatKey) int {
	if c := s.Counter(key); c != nil {
		return *c
	}
	return 0
}

// Points computes points scored: free throws are worth 1, two-pointers 2,
// three-pointers 3. Derived on read, never stored.
func (s Stat) Points() int {
	return s.FreeThrowMade + s.TwoPtMade*2 + s.ThreePtMade*3
}

// Impact is the composite score used by the report view: points plus two per
// assist, block, and steal.
func (s Stat) Impact() int {
	return s.Points() + 2*(s.Assists+s.Blocks+s.Steals)
}

// FreeThrowPct returns the free-throw shooting percentage.
func (s Stat) FreeThrowPct() float64 {
	return pct(s.FreeThrowMade, s.FreeThrowAttempt)
}

// TwoPtPct returns the two-point shooting percentage.
func (s Stat) TwoPtPct() float64 {
	return pct(s.TwoPtMade, s.TwoPtAttempt)
}

// ThreePtPct returns the three-point shooting percentage.
func (s Stat) ThreePtPct() float64 {
	return pct(s.ThreePtMade, s.ThreePtAttempt)
}

// FieldGoalPct returns the overall field-goal percentage across two- and
// three-point shots. Free throws are excluded.
func (s Stat) FieldGoalPct() float64 {
	return pct(s.TwoPtMade+s.ThreePtMade, s.TwoPtAttempt+s.ThreePtAttempt)
}

// pct never divides by zero: 0 attempts reads as 0%.
func pct(made, attempted int) float64 {
	if attempted <= 0 {
		return 0
	}
	return float64(made) / float64(attempted) * 100
}
