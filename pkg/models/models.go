/*
Package models defines the wire representation of register solutions.

The same structures are used for:
- **JSON output** of the command line tool (`--json`).
- **HTTP responses** of the server mode.
- **Batch summaries**, one report per job.
*/
package models

import (
	"time"

	"github.com/agbru/adfcalc/internal/synth"
)

// Registers holds the divider values to program into the chip.
type Registers struct {
	R            int  `json:"r"`
	Int          int  `json:"int"`
	Mod          int  `json:"mod"`
	Frac         int  `json:"frac"`
	DividerPower int  `json:"divider_power"`
	Divider      int  `json:"divider"`
	Prescaler    bool `json:"prescaler"`
}

// SweepWindow describes the reference range a sweep actually searched.
type SweepWindow struct {
	RequestedStartHz int64 `json:"requested_start_hz"`
	StartHz          int64 `json:"start_hz"`
	EndHz            int64 `json:"end_hz"`
	Steps            int64 `json:"steps"`
	Shifted          bool  `json:"shifted"`
	Evaluated        int64 `json:"evaluated"`
}

// SolveReport is the outcome of one solve or sweep.
type SolveReport struct {
	Name             string       `json:"name,omitempty"`
	Mode             string       `json:"mode"`
	ReferenceHz      float64      `json:"reference_hz"`
	OutputHz         float64      `json:"output_hz"`
	AchievedHz       float64      `json:"achieved_hz,omitempty"`
	FrequencyErrorHz float64      `json:"frequency_error_hz"`
	PFDHz            float64      `json:"pfd_hz,omitempty"`
	VCOHz            float64      `json:"vco_hz,omitempty"`
	Registers        *Registers   `json:"registers,omitempty"`
	Window           *SweepWindow `json:"window,omitempty"`
	Duration         string       `json:"duration,omitempty"`
	Error            string       `json:"error,omitempty"`
}

// LimitsReport exposes the datasheet limits used by the solver.
type LimitsReport struct {
	MaxR                 int     `json:"max_r"`
	MinInt               int     `json:"min_int"`
	MinIntPrescaler      int     `json:"min_int_prescaler"`
	MaxInt               int     `json:"max_int"`
	MinMod               int     `json:"min_mod"`
	MaxMod               int     `json:"max_mod"`
	MinPFDHz             float64 `json:"min_pfd_hz"`
	MaxPFDIntegerHz      float64 `json:"max_pfd_integer_hz"`
	MaxPFDFractionalHz   float64 `json:"max_pfd_fractional_hz"`
	MinOutputHz          float64 `json:"min_output_hz"`
	MaxOutputHz          float64 `json:"max_output_hz"`
	MinReferenceHz       float64 `json:"min_reference_hz"`
	MaxReferenceHz       float64 `json:"max_reference_hz"`
	PrescalerThresholdHz float64 `json:"prescaler_threshold_hz"`
}

// FromResult converts a solver result. Registers and derived frequencies
// are omitted when no solution was found.
func FromResult(res synth.Result, d time.Duration) SolveReport {
	report := SolveReport{
		Mode:             res.Mode.String(),
		ReferenceHz:      res.ReferenceHz,
		OutputHz:         res.OutputHz,
		FrequencyErrorHz: res.FrequencyErrorHz,
	}
	if d > 0 {
		report.Duration = d.String()
	}
	if !res.Found() {
		return report
	}
	report.AchievedHz = res.AchievedHz()
	report.PFDHz = res.PFDHz()
	report.VCOHz = res.AchievedVCOHz()
	report.Registers = &Registers{
		R:            res.R,
		Int:          res.Int,
		Mod:          res.Mod,
		Frac:         res.Frac,
		DividerPower: res.DividerPower,
		Divider:      res.Divider(),
		Prescaler:    res.Prescaler,
	}
	return report
}

// FromSweep converts a sweep result, including its search window.
func FromSweep(res synth.SweepResult, d time.Duration) SolveReport {
	report := FromResult(res.Result, d)
	report.Window = &SweepWindow{
		RequestedStartHz: res.Window.RequestedStartHz,
		StartHz:          res.Window.StartHz,
		EndHz:            res.Window.EndHz,
		Steps:            res.Window.Steps,
		Shifted:          res.Window.Shifted(),
		Evaluated:        res.Evaluated,
	}
	return report
}

// FromLimits converts a limit set.
func FromLimits(l synth.Limits) LimitsReport {
	return LimitsReport{
		MaxR:                 l.MaxR,
		MinInt:               l.MinInt,
		MinIntPrescaler:      l.MinIntPrescaler,
		MaxInt:               l.MaxInt,
		MinMod:               l.MinMod,
		MaxMod:               l.MaxMod,
		MinPFDHz:             l.MinPFDHz,
		MaxPFDIntegerHz:      l.MaxPFDIntegerHz,
		MaxPFDFractionalHz:   l.MaxPFDFractionalHz,
		MinOutputHz:          l.MinOutputHz,
		MaxOutputHz:          l.MaxOutputHz,
		MinReferenceHz:       l.MinReferenceHz,
		MaxReferenceHz:       l.MaxReferenceHz,
		PrescalerThresholdHz: l.PrescalerThresholdHz,
	}
}
