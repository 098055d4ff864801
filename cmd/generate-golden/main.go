// Command generate-golden regenerates internal/synth/testdata/solve_golden.json
// from the current solver. Review the diff before committing: the golden
// file is the regression oracle for register values.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agbru/adfcalc/internal/synth"
)

// GoldenData represents a single test case in the golden file.
type GoldenData struct {
	Name         string     `json:"name"`
	ReferenceHz  float64    `json:"reference_hz"`
	OutputHz     float64    `json:"output_hz"`
	Mode         synth.Mode `json:"mode"`
	R            int        `json:"r"`
	Int          int        `json:"int"`
	Mod          int        `json:"mod"`
	Frac         int        `json:"frac"`
	DividerPower int        `json:"divider_power"`
	Prescaler    bool       `json:"prescaler"`
	ErrorHz      float64    `json:"error_hz"`
}

type target struct {
	name     string
	refHz    float64
	outputHz float64
}

// Integer hits, fractional offsets, divider bands, the prescaler switch and
// both ends of the output range.
var targets = []target{
	{"integer-25M-2G4", 25e6, 2400e6},
	{"fractional-offset-13Hz", 25e6, 2400000013},
	{"integer-divided-100M", 10e6, 100e6},
	{"integer-r25-145M5", 25e6, 145.5e6},
	{"integer-ism-433M92", 100e6, 433.92e6},
	{"prescaler-3G9", 26e6, 3900e6},
	{"gps-l1-19M2", 19.2e6, 1575.42e6},
	{"wifi-2G45-122M88", 122.88e6, 2450e6},
	{"band-edge-low", 10e6, 34.375e6},
	{"band-edge-high", 250e6, 4400e6},
	{"fractional-27M", 27e6, 1296123456},
	{"integer-915M", 50e6, 915e6},
	{"fractional-odd-10M", 10e6, 1234567891},
	{"fractional-38M4", 38.4e6, 2100000007},
}

func main() {
	outputDir := flag.String("out", "internal/synth/testdata", "Output directory for the golden file")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	limits := synth.ADF4351()
	data := make([]GoldenData, 0, len(targets))

	fmt.Println("Generating golden data...")
	for _, tc := range targets {
		res, err := synth.Solve(tc.refHz, tc.outputHz, limits)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error solving %s: %v\n", tc.name, err)
			os.Exit(1)
		}
		data = append(data, GoldenData{
			Name:         tc.name,
			ReferenceHz:  tc.refHz,
			OutputHz:     tc.outputHz,
			Mode:         res.Mode,
			R:            res.R,
			Int:          res.Int,
			Mod:          res.Mod,
			Frac:         res.Frac,
			DividerPower: res.DividerPower,
			Prescaler:    res.Prescaler,
			ErrorHz:      res.FrequencyErrorHz,
		})
		fmt.Printf("Generated %s: %s R=%d INT=%d MOD=%d FRAC=%d\n",
			tc.name, res.Mode, res.R, res.Int, res.Mod, res.Frac)
	}

	filename := filepath.Join(*outputDir, "solve_golden.json")
	file, err := os.Create(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully generated golden file at %s\n", filename)
}
