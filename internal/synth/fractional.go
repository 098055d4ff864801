package synth

import "math"

// SolveFractional searches every valid (R, MOD) pair for the FRAC value that
// minimizes the residual VCO error.
//
// R follows the same skip/stop rules as SolveInteger with the fractional-mode
// PFD maximum. For each R, INT is the floor of VCO/PFD and the remainder is
// spread over MOD steps; FRAC is the remainder in steps rounded half up and
// clamped to [0, MOD-1]. A candidate replaces the best only when its absolute
// error is strictly smaller, so the first of equal candidates wins. A zero
// residual ends the search.
//
// Products are converted explicitly before each subtraction so they are
// rounded to float64 and never fused, which keeps results identical across
// architectures.
func SolveFractional(refHz float64, band Band, limits Limits) (Result, bool) {
	acc := newAccumulator()
	divider := float64(band.Divider())

	for r := 1; r <= limits.MaxR; r++ {
		pfd := refHz / float64(r)
		if pfd > limits.MaxPFDFractionalHz {
			continue
		}
		if pfd < limits.MinPFDHz {
			break
		}

		n := math.Floor(band.VCOHz / pfd)
		if n < float64(band.MinInt) {
			continue
		}
		if n > float64(limits.MaxInt) {
			break
		}

		remainder := band.VCOHz - float64(n*pfd)
		for mod := limits.MinMod; mod <= limits.MaxMod; mod++ {
			step := pfd / float64(mod)
			frac := roundFrac(remainder/step, mod)
			raw := remainder - float64(step*float64(frac))

			errHz := -raw / divider
			if errHz == 0 {
				errHz = 0 // drop the sign of -0
			}
			if !acc.beats(math.Abs(errHz)) {
				continue
			}
			acc.offer(Result{
				Mode:             ModeFractional,
				R:                r,
				Int:              int(n),
				Mod:              mod,
				Frac:             frac,
				DividerPower:     band.DividerPower,
				Prescaler:        band.Prescaler,
				FrequencyErrorHz: errHz,
				ReferenceHz:      refHz,
				OutputHz:         band.OutputHz,
				VCOHz:            band.VCOHz,
			})
			if raw == 0 {
				return acc.result()
			}
		}
	}
	return acc.result()
}

// roundFrac rounds x half up on its fractional part and clamps the result
// into [0, mod-1].
func roundFrac(x float64, mod int) int {
	f := math.Floor(x)
	if x-math.Trunc(x) >= 0.5 {
		f = math.Ceil(x)
	}
	switch {
	case f < 0:
		return 0
	case f > float64(mod-1):
		return mod - 1
	}
	return int(f)
}
