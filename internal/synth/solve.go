package synth

import "time"

// Solve finds the register values for one reference frequency.
//
// Both frequencies are validated before any search. Integer mode is tried
// first; fractional mode runs only when no exact integer divider exists. A
// Result with ModeNoSolution is returned, without error, when neither mode
// fits the limits.
//
// Parameters:
//   - refHz: The reference frequency in Hz.
//   - outputHz: The desired RF output frequency in Hz.
//   - limits: The chip limits, usually ADF4351().
//
// Returns:
//   - Result: The best solution found.
//   - error: A *RangeError if either frequency is out of range.
func Solve(refHz, outputHz float64, limits Limits) (Result, error) {
	start := time.Now()
	if err := limits.ValidateReference(refHz); err != nil {
		return Result{}, err
	}
	band, err := Normalize(outputHz, limits)
	if err != nil {
		return Result{}, err
	}

	res := solveReference(refHz, band, limits)
	recordSolve("single", res, time.Since(start))
	return res, nil
}

// solveReference runs integer mode then fractional mode for one reference.
func solveReference(refHz float64, band Band, limits Limits) Result {
	if res, ok := SolveInteger(refHz, band, limits); ok {
		return res
	}
	if res, ok := SolveFractional(refHz, band, limits); ok {
		return res
	}
	return Result{
		Mode:         ModeNoSolution,
		DividerPower: band.DividerPower,
		Prescaler:    band.Prescaler,
		ReferenceHz:  refHz,
		OutputHz:     band.OutputHz,
		VCOHz:        band.VCOHz,
	}
}
