package synth

import (
	"math"
	"testing"
)

func TestRoundFrac(t *testing.T) {
	t.Parallel()
	tests := []struct {
		x    float64
		mod  int
		want int
	}{
		{0, 2, 0},
		{0.49, 10, 0},
		{0.5, 10, 1},
		{3.2, 10, 3},
		{3.5, 10, 4},
		{9.7, 10, 9},
		{12, 10, 9},
		{-1e-9, 10, 0},
		{-0.7, 10, 0},
	}
	for _, tt := range tests {
		if got := roundFrac(tt.x, tt.mod); got != tt.want {
			t.Errorf("roundFrac(%v, %d) = %d, want %d", tt.x, tt.mod, got, tt.want)
		}
	}
}

func TestSolveFractionalOffset(t *testing.T) {
	t.Parallel()
	limits := ADF4351()
	band, _ := Normalize(2400000013, limits)

	res, ok := SolveFractional(25e6, band, limits)
	if !ok {
		t.Fatal("expected a fractional solution")
	}
	// 13 Hz is far below the finest step, so the first candidate is kept.
	if res.R != 1 || res.Int != 96 || res.Mod != 2 || res.Frac != 0 {
		t.Errorf("got R=%d Int=%d Mod=%d Frac=%d, want 1/96/2/0", res.R, res.Int, res.Mod, res.Frac)
	}
	if res.FrequencyErrorHz != -13 {
		t.Errorf("FrequencyErrorHz = %v, want -13", res.FrequencyErrorHz)
	}
	if res.AchievedHz() != 2.4e9 {
		t.Errorf("AchievedHz = %v, want 2.4e9", res.AchievedHz())
	}
}

func TestSolveFractionalExactStopsEarly(t *testing.T) {
	t.Parallel()
	limits := ADF4351()
	band, _ := Normalize(1575.42e6, limits)

	res, ok := SolveFractional(19.2e6, band, limits)
	if !ok {
		t.Fatal("expected a fractional solution")
	}
	if !res.Exact() {
		t.Fatalf("expected an exact solution, got error %v", res.FrequencyErrorHz)
	}
	if math.Signbit(res.FrequencyErrorHz) {
		t.Error("zero error must not carry a negative sign")
	}
	if res.R != 1 || res.Int != 164 || res.Mod != 160 || res.Frac != 17 {
		t.Errorf("got R=%d Int=%d Mod=%d Frac=%d, want 1/164/160/17", res.R, res.Int, res.Mod, res.Frac)
	}
}

func TestSolveFractionalNoValidR(t *testing.T) {
	t.Parallel()
	limits := ADF4351()
	limits.MaxR = 2
	band, _ := Normalize(2.4e9, limits)

	// 250 MHz / 2 is still above the fractional PFD maximum.
	if res, ok := SolveFractional(250e6, band, limits); ok {
		t.Errorf("expected no fractional solution, got %+v", res)
	}
}
