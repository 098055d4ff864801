// Package synth computes ADF4351 fractional-N synthesizer register values.
//
// Given a reference frequency and a desired output frequency, the package
// finds the reference divider R, the integer divider INT, the modulus MOD,
// the numerator FRAC, the RF output divider power and the prescaler select
// that reproduce the output within the chip's datasheet limits:
//
//	f_PFD = f_REF / R
//	f_VCO = f_PFD * (INT + FRAC/MOD)
//	f_OUT = f_VCO / 2^P
//
// Integer mode (FRAC = 0) is always tried first and is only accepted when it
// is exact. Fractional mode searches every valid R and MOD for the smallest
// residual error. Sweep extends the search across a window of integer
// reference frequencies using a bounded pool of workers.
package synth
