package models

import "testing"

func TestParseStatKey_Valid(t *testing.T) {
	for _, key := range StatKeys {
		parsed, err := ParseStatKey(string(key))
		if err != nil {
			t.Errorf("ParseStatKey(%q) returned error: %v", key, err)
		}
		if parsed != key {
			t.Errorf("ParseStatKey(%q) = %q", key, parsed)
		}
	}
}

func TestParseStatKey_Invalid(t *testing.T) {
	for _, raw := range []string{"", "points", "freethrowmade", "FreeThrowMade"} {
		if _, err := ParseStatKey(raw); err == nil {
			t.Errorf("ParseStatKey(%q) accepted an unknown counter", raw)
		}
	}
}

func TestPairedAttempt(t *testing.T) {
	pairs := map[StatKey]StatKey{
		StatFreeThrowMade: StatFreeThrowAttempt,
		StatTwoPtMade:     StatTwoPtAttempt,
		StatThreePtMade:   StatThreePtAttempt,
	}
	for made, want := range pairs {
		got, ok := made.PairedAttempt()
		if !ok || got != want {
			t.Errorf("PairedAttempt(%q) = %q, %v; want %q", made, got, ok, want)
		}
	}
	if _, ok := StatRebounds.PairedAttempt(); ok {
		t.Error("rebounds should not have a paired attempt counter")
	}
}

func TestPoints(t *testing.T) {
	s := Stat{FreeThrowMade: 3, TwoPtMade: 4, ThreePtMade: 2}
	if got := s.Points(); got != 3+8+6 {
		t.Errorf("Points() = %d, want 17", got)
	}
}

func TestImpact(t *testing.T) {
	s := Stat{TwoPtMade: 1, Assists: 2, Blocks: 1, Steals: 3}
	if got := s.Impact(); got != 2+2*(2+1+3) {
		t.Errorf("Impact() = %d, want 14", got)
	}
}

func TestPercentages_ZeroAttempts(t *testing.T) {
	var s Stat
	if s.FreeThrowPct() != 0 || s.TwoPtPct() != 0 || s.ThreePtPct() != 0 || s.FieldGoalPct() != 0 {
		t.Error("percentages with zero attempts should be 0, not NaN")
	}
}

func TestFieldGoalPct(t *testing.T) {
	s := Stat{TwoPtMade: 2, TwoPtAttempt: 4, ThreePtMade: 1, ThreePtAttempt: 2}
	if got := s.FieldGoalPct(); got != 50 {
		t.Errorf("FieldGoalPct() = %v, want 50", got)
	}
}

func TestCounter_Unknown(t *testing.T) {
	var s Stat
	if s.Counter(StatKey("bogus")) != nil {
		t.Error("Counter should return nil for an unknown key")
	}
}
