package exposure

import (
	"errors"
	"math"
	"testing"
)

const eps = 1e-12

func TestCombine(t *testing.T) {
	tests := []struct {
		name string
		ps   []float64
		want float64
	}{
		{"single value unchanged", []float64{0.37}, 0.37},
		{"two values", []float64{0.5, 0.2}, 0.6},
		{"three values", []float64{0.5, 0.2, 0.3}, 0.72},
		{"two halves", []float64{0.5, 0.5}, 0.75},
		{"zeros", []float64{0, 0, 0}, 0},
		{"certain event", []float64{1, 0.3, 0.2}, 1},
		{"occupation classes", []float64{0.02, 0.04, 0.08, 0.16}, 1 - 0.98*0.96*0.92*0.84},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Combine(tt.ps)
			if err != nil {
				t.Fatalf("Combine(%v) error: %v", tt.ps, err)
			}
			if math.Abs(got-tt.want) > eps {
				t.Errorf("Combine(%v) = %v, want %v", tt.ps, got, tt.want)
			}
		})
	}
}

func TestCombineSingleIsExact(t *testing.T) {
	got, err := Combine([]float64{0.37})
	if err != nil {
		t.Fatal(err)
	}
	if got != 0.37 {
		t.Errorf("expected 0.37 unchanged, got %v", got)
	}
}

func TestCombineLargeGroupMatchesComplement(t *testing.T) {
	ps := make([]float64, 25)
	for i := range ps {
		ps[i] = 0.01 * float64(i%7+1)
	}
	got, err := Combine(ps)
	if err != nil {
		t.Fatal(err)
	}
	none := 1.0
	for _, p := range ps {
		none *= 1 - p
	}
	if math.Abs(got-(1-none)) > eps {
		t.Errorf("Combine large group = %v, want %v", got, 1-none)
	}
}

func TestCombineEnumerationMatchesComplement(t *testing.T) {
	ps := []float64{0.02, 0.16, 0.08, 0.04, 0.16, 0.02}
	got, err := Combine(ps)
	if err != nil {
		t.Fatal(err)
	}
	if want := complement(ps); math.Abs(got-want) > 1e-9 {
		t.Errorf("inclusion-exclusion %v disagrees with complement %v", got, want)
	}
}

func TestMean(t *testing.T) {
	got, err := Mean([]float64{0.5, 0.2, 0.3})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-1.0/3.0) > eps {
		t.Errorf("Mean = %v, want %v", got, 1.0/3.0)
	}
}

func TestInvalidInput(t *testing.T) {
	bad := [][]float64{
		nil,
		{},
		{-0.1},
		{0.5, 1.2},
		{math.NaN()},
	}
	for _, ps := range bad {
		if _, err := Combine(ps); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Combine(%v) error = %v, want ErrInvalidInput", ps, err)
		}
		if _, err := Mean(ps); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Mean(%v) error = %v, want ErrInvalidInput", ps, err)
		}
	}
}

func TestPolicy(t *testing.T) {
	for _, name := range []string{"exact", "mean"} {
		p, err := ParsePolicy(name)
		if err != nil {
			t.Fatalf("ParsePolicy(%q): %v", name, err)
		}
		if p.String() != name {
			t.Errorf("round trip %q -> %q", name, p.String())
		}
	}
	if p, err := ParsePolicy(""); err != nil || p != PolicyExact {
		t.Errorf("empty policy should default to exact, got %v, %v", p, err)
	}
	if _, err := ParsePolicy("median"); err == nil {
		t.Error("expected error for unknown policy")
	}

	ps := []float64{0.5, 0.5}
	exact, _ := PolicyExact.Apply(ps)
	mean, _ := PolicyMean.Apply(ps)
	if math.Abs(exact-0.75) > eps || math.Abs(mean-0.5) > eps {
		t.Errorf("Apply exact=%v mean=%v, want 0.75 and 0.5", exact, mean)
	}
}
