package synth

// Band is the result of folding an output frequency into the fundamental
// VCO range.
type Band struct {
	OutputHz float64
	// VCOHz is OutputHz * 2^DividerPower, inside [MaxOutput/2, MaxOutput].
	VCOHz        float64
	DividerPower int
	Prescaler    bool
	// MinInt is the lowest INT value the solvers may use for this band.
	MinInt int
}

// Divider returns the RF output divider ratio 2^DividerPower.
func (b Band) Divider() int { return 1 << b.DividerPower }

// Normalize selects the prescaler and doubles the output frequency until it
// reaches the VCO band, counting the doublings as the RF divider power.
//
// Parameters:
//   - outputHz: The desired RF output frequency in Hz.
//   - limits: The chip limits.
//
// Returns:
//   - Band: The normalized band.
//   - error: A *RangeError if outputHz is outside [MinOutput, MaxOutput].
func Normalize(outputHz float64, limits Limits) (Band, error) {
	if err := limits.ValidateOutput(outputHz); err != nil {
		return Band{}, err
	}

	b := Band{
		OutputHz:  outputHz,
		VCOHz:     outputHz,
		Prescaler: outputHz > limits.PrescalerThresholdHz,
	}
	b.MinInt = limits.MinIntFor(b.Prescaler)

	minVCO := limits.MinVCOHz()
	for b.VCOHz < minVCO {
		b.VCOHz *= 2
		b.DividerPower++
	}
	return b, nil
}
