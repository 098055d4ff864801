// Package cli provides the REPL (Read-Eval-Print Loop) for interactive
// register solving.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/shlex"

	"github.com/agbru/adfcalc/internal/synth"
	"github.com/agbru/adfcalc/pkg/models"
)

// REPLConfig holds configuration for the REPL session.
type REPLConfig struct {
	// Timeout is the maximum duration for each solve or sweep.
	Timeout time.Duration
	// Workers bounds the concurrency of sweeps.
	Workers int
	// JSONOutput prints reports as JSON.
	JSONOutput bool
	// Details adds PFD and VCO lines to text reports.
	Details bool
	// Limits overrides the chip limits. The zero value selects the ADF4351.
	Limits synth.Limits
}

// REPL represents an interactive register calculator session.
type REPL struct {
	config REPLConfig
	limits synth.Limits
	in     io.Reader
	out    io.Writer
}

// NewREPL creates a new REPL instance reading from stdin and writing to stdout.
func NewREPL(config REPLConfig) *REPL {
	limits := config.Limits
	if limits == (synth.Limits{}) {
		limits = synth.ADF4351()
	}
	if config.Timeout <= 0 {
		config.Timeout = time.Minute
	}
	return &REPL{
		config: config,
		limits: limits,
		in:     os.Stdin,
		out:    os.Stdout,
	}
}

// SetInput sets a custom input reader (useful for testing).
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput sets a custom output writer (useful for testing).
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
}

// Start runs the session until "exit" or end of input.
func (r *REPL) Start() {
	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	reader := bufio.NewReader(r.in)

	for {
		fmt.Fprint(r.out, ColorGreen()+"adf> "+ColorReset())

		input, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintf(r.out, "%sRead error: %v%s\n", ColorRed(), err, ColorReset())
			return
		}
		if line := strings.TrimSpace(input); line != "" {
			if !r.processCommand(line) {
				return
			}
		}
		if err != nil {
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		}
	}
}

const bannerWidth = 58

// replCommand is one entry of the session's command table.
type replCommand struct {
	names []string
	usage string
	about string
	run   func(args []string) bool
}

func (r *REPL) commands() []replCommand {
	keep := func(f func(args []string)) func([]string) bool {
		return func(args []string) bool {
			f(args)
			return true
		}
	}
	return []replCommand{
		{[]string{"solve", "s"}, "solve <ref> <rf>", "Solve for one reference frequency (Hz)", keep(r.cmdSolve)},
		{[]string{"sweep", "sw"}, "sweep <refstart> <steps> <rf>", "Search references refstart..refstart+steps", keep(r.cmdSweep)},
		{[]string{"limits", "l"}, "limits", "Display the chip limits", keep(func([]string) { r.cmdLimits() })},
		{[]string{"json"}, "json", "Toggle JSON output", keep(func([]string) {
			r.config.JSONOutput = !r.config.JSONOutput
			r.printToggle("JSON output", r.config.JSONOutput)
		})},
		{[]string{"details", "d"}, "details", "Toggle PFD/VCO details", keep(func([]string) {
			r.config.Details = !r.config.Details
			r.printToggle("Details", r.config.Details)
		})},
		{[]string{"status", "st"}, "status", "Display current configuration", keep(func([]string) { r.cmdStatus() })},
		{[]string{"help", "h", "?"}, "help", "Display this help", keep(func([]string) { r.printHelp() })},
		{[]string{"exit", "quit", "q"}, "exit / quit", "Exit interactive mode", func([]string) bool {
			fmt.Fprintf(r.out, "%sGoodbye!%s\n", ColorGreen(), ColorReset())
			return false
		}},
	}
}

func (r *REPL) printBanner() {
	title := "ADF4351 Register Calculator - Interactive Mode"
	pad := bannerWidth - len(title)
	rule := strings.Repeat("═", bannerWidth)
	fmt.Fprintf(r.out, "\n%s╔%s╗%s\n", ColorCyan(), rule, ColorReset())
	fmt.Fprintf(r.out, "%s║%s%s%s%s%s%s%s║%s\n", ColorCyan(), ColorReset(),
		strings.Repeat(" ", pad/2), ColorBold(), title, ColorReset(), strings.Repeat(" ", pad-pad/2),
		ColorCyan(), ColorReset())
	fmt.Fprintf(r.out, "%s╚%s╝%s\n\n", ColorCyan(), rule, ColorReset())
}

func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ColorBold(), ColorReset())
	for _, c := range r.commands() {
		fmt.Fprintf(r.out, "  %s%-30s%s - %s\n", ColorYellow(), c.usage, ColorReset(), c.about)
	}
}

// processCommand parses and executes one line. It returns false when the
// session should end.
func (r *REPL) processCommand(input string) bool {
	parts, err := shlex.Split(input)
	if err != nil {
		fmt.Fprintf(r.out, "%sCannot parse command: %v%s\n", ColorRed(), err, ColorReset())
		return true
	}
	if len(parts) == 0 {
		return true
	}

	name := strings.ToLower(parts[0])
	for _, c := range r.commands() {
		if slices.Contains(c.names, name) {
			return c.run(parts[1:])
		}
	}
	fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", ColorRed(), name, ColorReset())
	fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ColorYellow(), ColorReset())
	return true
}

// parseHz accepts plain or scientific notation, e.g. "25000000" or "2.4e9".
func parseHz(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, "_", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid frequency %q", s)
	}
	return v, nil
}

func (r *REPL) cmdSolve(args []string) {
	if len(args) != 2 {
		fmt.Fprintf(r.out, "%sUsage: solve <ref> <rf>%s\n", ColorRed(), ColorReset())
		return
	}
	ref, err := parseHz(args[0])
	if err != nil {
		r.printError(err)
		return
	}
	rf, err := parseHz(args[1])
	if err != nil {
		r.printError(err)
		return
	}

	start := time.Now()
	res, err := synth.Solve(ref, rf, r.limits)
	if err != nil {
		r.printError(err)
		return
	}
	r.display(models.FromResult(res, time.Since(start)))
}

func (r *REPL) printError(err error) {
	fmt.Fprintf(r.out, "%sError: %v%s\n", ColorRed(), err, ColorReset())
}

func (r *REPL) cmdSweep(args []string) {
	if len(args) != 3 {
		fmt.Fprintf(r.out, "%sUsage: sweep <refstart> <steps> <rf>%s\n", ColorRed(), ColorReset())
		return
	}
	startHz, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(r.out, "%sInvalid reference start: %s%s\n", ColorRed(), args[0], ColorReset())
		return
	}
	steps, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || steps < 0 {
		fmt.Fprintf(r.out, "%sInvalid step count: %s%s\n", ColorRed(), args[1], ColorReset())
		return
	}
	rf, err := parseHz(args[2])
	if err != nil {
		r.printError(err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
	defer cancel()

	progressChan := make(chan synth.ProgressUpdate, 16)
	var wg sync.WaitGroup
	wg.Add(1)
	go DisplayProgress(&wg, progressChan, 1, r.out)

	start := time.Now()
	res, err := synth.Sweep(ctx, synth.SweepRequest{StartHz: startHz, Steps: steps, OutputHz: rf}, r.limits,
		synth.SweepOptions{Workers: r.config.Workers, Observer: synth.NewChannelObserver(progressChan)})
	duration := time.Since(start)
	close(progressChan)
	wg.Wait()

	if err != nil {
		r.printError(err)
		if !res.Found() {
			return
		}
		fmt.Fprintf(r.out, "%sBest result before interruption:%s\n", ColorYellow(), ColorReset())
	}
	report := models.FromSweep(res, duration)
	DisplayWindowNotice(r.out, report.Window)
	r.display(report)
}

func (r *REPL) display(report models.SolveReport) {
	if r.config.JSONOutput {
		if err := DisplayJSON(r.out, report); err != nil {
			r.printError(err)
		}
		return
	}
	fmt.Fprintln(r.out)
	DisplayResult(r.out, report, r.config.Details)
	if report.Duration != "" {
		fmt.Fprintf(r.out, "Time: %s%s%s\n", ColorGreen(), report.Duration, ColorReset())
	}
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdLimits() {
	if r.config.JSONOutput {
		_ = DisplayJSON(r.out, models.FromLimits(r.limits))
		return
	}
	l := r.limits
	fmt.Fprintf(r.out, "\n%sChip limits:%s\n", ColorBold(), ColorReset())
	fmt.Fprintf(r.out, "  Reference:  %s%s - %s Hz%s\n", ColorCyan(), formatHz(l.MinReferenceHz), formatHz(l.MaxReferenceHz), ColorReset())
	fmt.Fprintf(r.out, "  Output:     %s%s - %s Hz%s\n", ColorCyan(), formatHz(l.MinOutputHz), formatHz(l.MaxOutputHz), ColorReset())
	fmt.Fprintf(r.out, "  PFD:        %s%s - %s Hz (fractional %s Hz)%s\n", ColorCyan(),
		formatHz(l.MinPFDHz), formatHz(l.MaxPFDIntegerHz), formatHz(l.MaxPFDFractionalHz), ColorReset())
	fmt.Fprintf(r.out, "  R:          %s1 - %d%s\n", ColorCyan(), l.MaxR, ColorReset())
	fmt.Fprintf(r.out, "  INT:        %s%d (%d with prescaler) - %d%s\n", ColorCyan(), l.MinInt, l.MinIntPrescaler, l.MaxInt, ColorReset())
	fmt.Fprintf(r.out, "  MOD:        %s%d - %d%s\n", ColorCyan(), l.MinMod, l.MaxMod, ColorReset())
	fmt.Fprintf(r.out, "  Prescaler:  %sabove %s Hz%s\n", ColorCyan(), formatHz(l.PrescalerThresholdHz), ColorReset())
	fmt.Fprintln(r.out)
}

func (r *REPL) printToggle(name string, on bool) {
	status := "disabled"
	if on {
		status = "enabled"
	}
	fmt.Fprintf(r.out, "%s: %s%s%s\n", name, ColorGreen(), status, ColorReset())
}

func (r *REPL) cmdStatus() {
	fmt.Fprintf(r.out, "\n%sCurrent configuration:%s\n", ColorBold(), ColorReset())
	fmt.Fprintf(r.out, "  Timeout:  %s%s%s\n", ColorCyan(), r.config.Timeout, ColorReset())
	fmt.Fprintf(r.out, "  Workers:  %s%d%s\n", ColorCyan(), r.config.Workers, ColorReset())
	fmt.Fprintf(r.out, "  JSON:     %s%t%s\n", ColorCyan(), r.config.JSONOutput, ColorReset())
	fmt.Fprintf(r.out, "  Details:  %s%t%s\n", ColorCyan(), r.config.Details, ColorReset())
	fmt.Fprintln(r.out)
}
