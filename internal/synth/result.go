package synth

import (
	"fmt"
	"math"
)

// Mode identifies which PLL operating mode a Result uses.
type Mode int

const (
	// ModeNoSolution means no divider combination satisfies the limits.
	ModeNoSolution Mode = iota
	// ModeInteger means FRAC is zero and the output is exact.
	ModeInteger
	// ModeFractional means the output uses the FRAC/MOD fractional divider.
	ModeFractional
)

var modeNames = [...]string{"none", "integer", "fractional"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// MarshalText encodes the mode as its lower-case name.
func (m Mode) MarshalText() ([]byte, error) {
	if m < 0 || int(m) >= len(modeNames) {
		return nil, fmt.Errorf("invalid mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText decodes a mode name produced by MarshalText.
func (m *Mode) UnmarshalText(text []byte) error {
	for i, name := range modeNames {
		if string(text) == name {
			*m = Mode(i)
			return nil
		}
	}
	return fmt.Errorf("unknown mode %q", text)
}

// Result is one complete register solution. It is a plain value and is
// never modified after it is returned.
type Result struct {
	Mode         Mode
	R            int
	Int          int
	Mod          int
	Frac         int
	DividerPower int
	Prescaler    bool
	// FrequencyErrorHz is achieved minus desired output frequency. It is
	// always zero in integer mode.
	FrequencyErrorHz float64

	ReferenceHz float64
	OutputHz    float64
	// VCOHz is the desired VCO frequency, OutputHz * Divider().
	VCOHz float64
}

// Found reports whether the result carries a usable solution.
func (r Result) Found() bool { return r.Mode != ModeNoSolution }

// Exact reports whether the solution reproduces the output with no error.
func (r Result) Exact() bool { return r.Found() && r.FrequencyErrorHz == 0 }

// Divider returns the RF output divider ratio.
func (r Result) Divider() int { return 1 << r.DividerPower }

// PFDHz returns the phase-frequency detector frequency.
func (r Result) PFDHz() float64 {
	if r.R == 0 {
		return 0
	}
	return r.ReferenceHz / float64(r.R)
}

// AchievedVCOHz evaluates PFD * (INT + FRAC/MOD).
func (r Result) AchievedVCOHz() float64 {
	if !r.Found() || r.Mod == 0 {
		return 0
	}
	return r.PFDHz() * (float64(r.Int) + float64(r.Frac)/float64(r.Mod))
}

// AchievedHz is the frequency the chip will actually generate.
func (r Result) AchievedHz() float64 {
	if !r.Found() {
		return 0
	}
	return r.OutputHz + r.FrequencyErrorHz
}

// accumulator keeps the best result seen so far. It is a local value owned
// by a single solve or worker.
type accumulator struct {
	best   Result
	absErr float64
	found  bool
}

func newAccumulator() accumulator {
	return accumulator{absErr: math.Inf(1)}
}

// beats reports whether an absolute error strictly improves on the best.
func (a *accumulator) beats(absErr float64) bool {
	return absErr < a.absErr
}

// offer replaces the best when r has a strictly smaller absolute error.
func (a *accumulator) offer(r Result) bool {
	e := math.Abs(r.FrequencyErrorHz)
	if !a.beats(e) {
		return false
	}
	a.best, a.absErr, a.found = r, e, true
	return true
}

// merge orders by absolute error and then by reference frequency, which is
// what a strictly-improving ascending scan would keep.
func (a *accumulator) merge(r Result) bool {
	if !r.Found() {
		return false
	}
	e := math.Abs(r.FrequencyErrorHz)
	if a.found && (e > a.absErr || e == a.absErr && r.ReferenceHz >= a.best.ReferenceHz) {
		return false
	}
	a.best, a.absErr, a.found = r, e, true
	return true
}

func (a *accumulator) result() (Result, bool) {
	return a.best, a.found
}
