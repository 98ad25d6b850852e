package entropy

import "testing"

func TestSeedKeepsConfigured(t *testing.T) {
	for _, s := range []int64{1, 42, -7} {
		if got := Seed(s); got != s {
			t.Errorf("Seed(%d) = %d", s, got)
		}
	}
}

func TestSeedDrawsWhenZero(t *testing.T) {
	seen := map[int64]bool{}
	for i := 0; i < 8; i++ {
		s := Seed(0)
		if s <= 0 {
			t.Fatalf("drawn seed %d should be positive", s)
		}
		seen[s] = true
	}
	if len(seen) < 2 {
		t.Error("expected random seeds to differ")
	}
}
