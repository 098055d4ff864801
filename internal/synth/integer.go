package synth

import (
	"math"
	"math/big"
)

// maxExactHz bounds the frequencies handled with uint64 arithmetic; every
// integer below it is representable in a float64.
const maxExactHz = 1 << 53

// SolveInteger looks for the smallest R giving an exact integer divider.
//
// R ascends from 1. The PFD falls as R grows, so a PFD above the integer-mode
// maximum skips to the next R while one below the minimum ends the search.
// INT grows with R for the same reason: too small skips, too large stops.
// The first R for which VCO*R/ref is an exact integer is returned.
func SolveInteger(refHz float64, band Band, limits Limits) (Result, bool) {
	for r := 1; r <= limits.MaxR; r++ {
		pfd := refHz / float64(r)
		if pfd > limits.MaxPFDIntegerHz {
			continue
		}
		if pfd < limits.MinPFDHz {
			break
		}

		n := band.VCOHz / pfd
		if n < float64(band.MinInt) {
			continue
		}
		if n > float64(limits.MaxInt) {
			break
		}

		q, ok := exactQuotient(band.VCOHz, refHz, r)
		if !ok || q < band.MinInt || q > limits.MaxInt {
			continue
		}
		return Result{
			Mode:         ModeInteger,
			R:            r,
			Int:          q,
			Mod:          limits.MinMod,
			Frac:         0,
			DividerPower: band.DividerPower,
			Prescaler:    band.Prescaler,
			ReferenceHz:  refHz,
			OutputHz:     band.OutputHz,
			VCOHz:        band.VCOHz,
		}, true
	}
	return Result{}, false
}

// exactQuotient returns vco*r/ref when it is an exact integer. Integral
// frequencies use modular arithmetic on uint64; anything else falls back to
// exact rationals. No tolerance is involved in either path.
func exactQuotient(vcoHz, refHz float64, r int) (int, bool) {
	if isWholeHz(vcoHz) && isWholeHz(refHz) && refHz > 0 {
		vco, ref, ru := uint64(vcoHz), uint64(refHz), uint64(r)
		if vco <= math.MaxUint64/ru {
			num := vco * ru
			if num%ref != 0 {
				return 0, false
			}
			q := num / ref
			if q > math.MaxInt32 {
				return 0, false
			}
			return int(q), true
		}
	}

	num := new(big.Rat).SetFloat64(vcoHz)
	den := new(big.Rat).SetFloat64(refHz)
	if num == nil || den == nil || den.Sign() == 0 {
		return 0, false
	}
	num.Mul(num, new(big.Rat).SetInt64(int64(r)))
	num.Quo(num, den)
	if !num.IsInt() || !num.Num().IsInt64() {
		return 0, false
	}
	q := num.Num().Int64()
	if q > math.MaxInt32 {
		return 0, false
	}
	return int(q), true
}

func isWholeHz(v float64) bool {
	return v >= 0 && v < maxExactHz && v == math.Trunc(v)
}
