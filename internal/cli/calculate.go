package cli

import (
	"fmt"
	"io"
	"runtime"

	"golang.org/x/sys/cpu"

	"github.com/agbru/adfcalc/internal/config"
)

// fmaLabel reports whether the CPU offers fused multiply-add. Solver
// products are rounded separately either way.
func fmaLabel() string {
	if cpu.X86.HasFMA || runtime.GOARCH == "arm64" || runtime.GOARCH == "ppc64le" || runtime.GOARCH == "s390x" {
		return "FMA available"
	}
	return "no FMA"
}

// PrintExecutionConfig displays the run configuration: the requested
// frequencies, the timeout, and the host environment.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	writeOut(out, "--- Execution Configuration ---\n")
	switch cfg.Mode() {
	case config.ModeSweep:
		writeOut(out, "Sweeping references %s%s Hz%s + %s%d%s steps for %s%s Hz%s with a timeout of %s%s%s.\n",
			ColorMagenta(), formatNumberString(fmt.Sprint(cfg.RefStartHz)), ColorReset(),
			ColorMagenta(), cfg.Steps, ColorReset(),
			ColorMagenta(), formatHz(cfg.OutputHz), ColorReset(),
			ColorYellow(), cfg.Timeout, ColorReset())
	case config.ModeBatch:
		writeOut(out, "Solving jobs from %s%s%s with a timeout of %s%s%s.\n",
			ColorMagenta(), cfg.BatchFile, ColorReset(), ColorYellow(), cfg.Timeout, ColorReset())
	default:
		writeOut(out, "Solving %s%s Hz%s from a %s%s Hz%s reference with a timeout of %s%s%s.\n",
			ColorMagenta(), formatHz(cfg.OutputHz), ColorReset(),
			ColorMagenta(), formatHz(cfg.ReferenceHz), ColorReset(),
			ColorYellow(), cfg.Timeout, ColorReset())
	}
	writeOut(out, "Environment: %s%d%s logical processors, %s%d%s workers, Go %s%s%s, %s.\n",
		ColorCyan(), runtime.NumCPU(), ColorReset(),
		ColorCyan(), cfg.Workers, ColorReset(),
		ColorCyan(), runtime.Version(), ColorReset(), fmaLabel())
}

// PrintExecutionMode announces the run mode and starts the execution section.
func PrintExecutionMode(cfg config.AppConfig, out io.Writer) {
	var modeDesc string
	switch cfg.Mode() {
	case config.ModeSweep:
		modeDesc = fmt.Sprintf("Reference sweep over %s%d%s candidates", ColorGreen(), cfg.Steps+1, ColorReset())
	case config.ModeBatch:
		modeDesc = "Concurrent batch of jobs"
	default:
		modeDesc = "Single reference solve"
	}
	writeOut(out, "Execution mode: %s.\n", modeDesc)
	writeOut(out, "\n--- Starting Execution ---\n")
}

// writeOut writes a formatted string to the output writer.
func writeOut(out io.Writer, format string, a ...any) {
	fmt.Fprintf(out, format, a...)
}
