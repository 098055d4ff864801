// Package cli provides output utilities for register reports.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/agbru/adfcalc/pkg/models"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path to save the report (empty for no file output).
	OutputFile string
	// Quiet prints a single line per report.
	Quiet bool
	// Details adds PFD, VCO and timing lines to the text report.
	Details bool
	// JSON prints the report as indented JSON.
	JSON bool
}

// noSolutionMessage is printed when the search space holds no valid divider set.
const noSolutionMessage = "R and/or Int values within datasheet limits are not possible with the specified reference and RF frequencies"

// palette holds the color codes used by the text report. The zero value
// produces plain output for files.
type palette struct {
	bold, value, warn, reset string
}

func themePalette() palette {
	return palette{bold: ColorBold(), value: ColorCyan(), warn: ColorYellow(), reset: ColorReset()}
}

// modeLabel returns the human-readable heading for a report mode.
func modeLabel(mode string) string {
	switch mode {
	case "integer":
		return "Integer mode - exact frequency"
	case "fractional":
		return "Fractional mode"
	default:
		return "No solution"
	}
}

// DisplayWindowNotice reports a sweep start that was moved to keep the whole
// window inside the reference range. It prints nothing for unshifted windows.
func DisplayWindowNotice(out io.Writer, window *models.SweepWindow) {
	if window == nil || !window.Shifted {
		return
	}
	fmt.Fprintf(out, "%sChanging start reference frequency to %d Hz%s\n",
		ColorYellow(), window.StartHz, ColorReset())
}

// DisplayResult prints the text report of a solve or sweep.
func DisplayResult(out io.Writer, report models.SolveReport, details bool) {
	writeTextReport(out, report, details, themePalette())
}

func writeTextReport(out io.Writer, report models.SolveReport, details bool, p palette) {
	if report.Name != "" {
		fmt.Fprintf(out, "%s[%s]%s\n", p.bold, report.Name, p.reset)
	}
	reg := report.Registers
	switch {
	case reg == nil && report.Error != "":
		fmt.Fprintf(out, "%sError: %s%s\n", p.warn, report.Error, p.reset)
		return
	case reg == nil:
		fmt.Fprintf(out, "%s%s%s\n", p.warn, noSolutionMessage, p.reset)
		return
	case report.Error != "":
		defer fmt.Fprintf(out, "%sStopped early: %s%s\n", p.warn, report.Error, p.reset)
	}

	line := func(label, value string) {
		fmt.Fprintf(out, "%s: %s%s%s\n", label, p.value, value, p.reset)
	}

	fmt.Fprintf(out, "%s%s%s\n", p.bold, modeLabel(report.Mode), p.reset)
	if report.Mode == "fractional" {
		line("Frequency error (Hz)", formatHz(report.FrequencyErrorHz))
	}
	line("Actual frequency (Hz)", formatHz(report.AchievedHz))
	line("R", strconv.Itoa(reg.R))
	line("Int", strconv.Itoa(reg.Int))
	line("Mod", strconv.Itoa(reg.Mod))
	line("Frac", strconv.Itoa(reg.Frac))
	line("RF divider ratio", strconv.Itoa(reg.Divider))
	line("RF divider (power of 2)", strconv.Itoa(reg.DividerPower))
	line("Prescaler", strconv.FormatBool(reg.Prescaler))
	if report.Window != nil {
		line("Reference frequency (Hz)", formatHz(report.ReferenceHz))
	}

	if !details {
		return
	}
	fmt.Fprintf(out, "\n%s--- Details ---%s\n", p.bold, p.reset)
	line("PFD frequency (Hz)", formatHz(report.PFDHz))
	line("VCO frequency (Hz)", formatHz(report.VCOHz))
	if w := report.Window; w != nil {
		line("References evaluated", fmt.Sprintf("%d of %d", w.Evaluated, w.Steps+1))
	}
	if report.Duration != "" {
		line("Solve time", report.Duration)
	}
}

// FormatQuietResult returns a single-line, script-friendly summary.
func FormatQuietResult(report models.SolveReport) string {
	prefix := ""
	if report.Name != "" {
		prefix = report.Name + " "
	}
	if report.Error != "" {
		return prefix + "error " + strconv.Quote(report.Error)
	}
	reg := report.Registers
	if reg == nil {
		return prefix + "none"
	}
	s := fmt.Sprintf("%s%s R=%d INT=%d MOD=%d FRAC=%d DIV=%d PRESCALER=%t ERR=%s",
		prefix, report.Mode, reg.R, reg.Int, reg.Mod, reg.Frac, reg.Divider, reg.Prescaler,
		strconv.FormatFloat(report.FrequencyErrorHz, 'g', -1, 64))
	if report.Window != nil {
		s += " REF=" + strconv.FormatFloat(report.ReferenceHz, 'f', -1, 64)
	}
	return s
}

// DisplayQuietResult outputs a report in quiet mode.
func DisplayQuietResult(out io.Writer, report models.SolveReport) {
	fmt.Fprintln(out, FormatQuietResult(report))
}

// DisplayJSON writes v as indented JSON.
func DisplayJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	return nil
}

// WriteResultToFile writes a plain-text report to config.OutputFile, creating
// missing directories. It does nothing when no file is configured.
func WriteResultToFile(report models.SolveReport, config OutputConfig) error {
	return WriteReportsToFile([]models.SolveReport{report}, config)
}

// WriteReportsToFile writes several reports to config.OutputFile, each
// preceded by a commented header. With config.JSON the file holds the JSON
// report, or an array when there is more than one.
func WriteReportsToFile(reports []models.SolveReport, config OutputConfig) error {
	if config.OutputFile == "" {
		return nil
	}

	if dir := filepath.Dir(config.OutputFile); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(config.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	fmt.Fprintf(file, "# ADF4351 Register Solution\n")
	fmt.Fprintf(file, "# Generated: %s\n", time.Now().Format(time.RFC3339))

	if config.JSON {
		fmt.Fprintf(file, "\n")
		if len(reports) == 1 {
			return DisplayJSON(file, reports[0])
		}
		return DisplayJSON(file, reports)
	}

	for _, report := range reports {
		fmt.Fprintf(file, "\n# Reference (Hz): %s\n", strconv.FormatFloat(report.ReferenceHz, 'f', -1, 64))
		fmt.Fprintf(file, "# Output (Hz): %s\n", strconv.FormatFloat(report.OutputHz, 'f', -1, 64))
		if report.Duration != "" {
			fmt.Fprintf(file, "# Duration: %s\n", report.Duration)
		}
		writeTextReport(file, report, true, palette{})
	}
	return nil
}

// DisplayResultWithConfig prints a report in the configured format and
// optionally saves it to a file.
func DisplayResultWithConfig(out io.Writer, report models.SolveReport, config OutputConfig) error {
	switch {
	case config.JSON:
		if err := DisplayJSON(out, report); err != nil {
			return err
		}
	case config.Quiet:
		DisplayQuietResult(out, report)
	default:
		DisplayResult(out, report, config.Details)
	}

	if config.OutputFile != "" {
		if err := WriteResultToFile(report, config); err != nil {
			return err
		}
		if !config.Quiet && !config.JSON {
			fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n",
				ColorGreen(), ColorCyan(), config.OutputFile, ColorReset())
		}
	}
	return nil
}
