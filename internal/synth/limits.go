package synth

import "math"

// Limits holds the datasheet constants that bound the register search.
// ADF4351 returns the values of the real part; tests narrow them to force
// edge cases such as an empty solution space.
type Limits struct {
	MaxR            int
	MinInt          int
	MinIntPrescaler int
	MaxInt          int
	MinMod          int
	MaxMod          int

	MinPFDHz           float64
	MaxPFDIntegerHz    float64
	MaxPFDFractionalHz float64

	MinOutputHz    float64
	MaxOutputHz    float64
	MinReferenceHz float64
	MaxReferenceHz float64

	// PrescalerThresholdHz is the output frequency above which the 8/9
	// prescaler must be selected.
	PrescalerThresholdHz float64
}

// ADF4351 returns the limits of the Analog Devices ADF4351.
func ADF4351() Limits {
	return Limits{
		MaxR:                 1023,
		MinInt:               23,
		MinIntPrescaler:      75,
		MaxInt:               65535,
		MinMod:               2,
		MaxMod:               4095,
		MinPFDHz:             125e3,
		MaxPFDIntegerHz:      90e6,
		MaxPFDFractionalHz:   32e6,
		MinOutputHz:          34.375e6,
		MaxOutputHz:          4.4e9,
		MinReferenceHz:       10e6,
		MaxReferenceHz:       250e6,
		PrescalerThresholdHz: 3.6e9,
	}
}

// MinVCOHz is the bottom of the fundamental VCO band.
func (l Limits) MinVCOHz() float64 { return l.MaxOutputHz / 2 }

// MinIntFor returns the smallest INT value allowed for the prescaler setting.
func (l Limits) MinIntFor(prescaler bool) int {
	if prescaler {
		return l.MinIntPrescaler
	}
	return l.MinInt
}

// ValidateReference reports a *RangeError when hz is not a usable reference
// frequency. NaN is always rejected.
func (l Limits) ValidateReference(hz float64) error {
	return checkRange("reference", hz, l.MinReferenceHz, l.MaxReferenceHz)
}

// ValidateOutput reports a *RangeError when hz cannot be produced at the
// RF output.
func (l Limits) ValidateOutput(hz float64) error {
	return checkRange("output", hz, l.MinOutputHz, l.MaxOutputHz)
}

// referenceWindow returns the integer Hz bounds usable by a sweep.
func (l Limits) referenceWindow() (lo, hi int64) {
	return int64(math.Ceil(l.MinReferenceHz)), int64(math.Floor(l.MaxReferenceHz))
}

func checkRange(quantity string, hz, lo, hi float64) error {
	if hz >= lo && hz <= hi {
		return nil
	}
	return &RangeError{Quantity: quantity, Value: hz, Min: lo, Max: hi}
}
