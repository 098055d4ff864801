// Package orchestration runs solves, sweeps and batches for the command
// line front end. It wires progress reporting, collects outcomes, and maps
// them to exit codes.
package orchestration

import (
	"context"
	"fmt"
	"io"
	"sync"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/adfcalc/internal/batch"
	"github.com/agbru/adfcalc/internal/cli"
	"github.com/agbru/adfcalc/internal/config"
	apperrors "github.com/agbru/adfcalc/internal/errors"
	"github.com/agbru/adfcalc/internal/logging"
	"github.com/agbru/adfcalc/internal/parallel"
	"github.com/agbru/adfcalc/internal/service"
	"github.com/agbru/adfcalc/internal/synth"
	"github.com/agbru/adfcalc/internal/ui"
	"github.com/agbru/adfcalc/pkg/models"
)

// Outcome is the result of one solve, sweep or batch job.
type Outcome struct {
	// Name identifies a batch job. It is empty for single runs.
	Name string
	// Report is the wire form of the result. It is also set when a sweep
	// was interrupted after finding a partial best.
	Report models.SolveReport
	// Found reports whether Report carries a register solution.
	Found bool
	// Duration is the time taken by the search.
	Duration time.Duration
	// Err contains any error that stopped the search.
	Err error
}

// ProgressBufferMultiplier sizes the progress channel per sweep so that
// workers rarely drop updates while the display catches up.
const ProgressBufferMultiplier = 8

// indexedObserver rewrites the sweep index of updates so that several
// sweeps can share one progress display.
type indexedObserver struct {
	index int
	next  synth.ProgressObserver
}

func (o indexedObserver) Update(_ int, progress float64) {
	o.next.Update(o.index, progress)
}

// showProgress reports whether a live progress bar fits the output mode.
func showProgress(cfg config.AppConfig) bool {
	return !cfg.Quiet && !cfg.JSONOutput
}

// ExecuteSolve solves for a single reference frequency.
func ExecuteSolve(ctx context.Context, svc service.Service, cfg config.AppConfig) Outcome {
	start := time.Now()
	res, err := svc.Solve(ctx, cfg.ReferenceHz, cfg.OutputHz)
	return newOutcome("", res, nil, time.Since(start), err)
}

// ExecuteSweep runs a reference sweep, rendering progress to out unless the
// output mode is quiet or JSON.
func ExecuteSweep(ctx context.Context, svc service.Service, cfg config.AppConfig, out io.Writer) Outcome {
	req := synth.SweepRequest{StartHz: cfg.RefStartHz, Steps: cfg.Steps, OutputHz: cfg.OutputHz}

	subject := synth.NewProgressSubject()
	subject.Register(synth.NewMetricsObserver())

	var displayWg sync.WaitGroup
	var progressChan chan synth.ProgressUpdate
	if showProgress(cfg) {
		if win, err := synth.ClampWindow(req.StartHz, req.Steps, svc.Limits()); err == nil {
			cli.DisplayWindowNotice(out, &models.SweepWindow{StartHz: win.StartHz, Shifted: win.Shifted()})
		}
		progressChan = make(chan synth.ProgressUpdate, ProgressBufferMultiplier)
		subject.Register(synth.NewChannelObserver(progressChan))
		displayWg.Add(1)
		go cli.DisplayProgress(&displayWg, progressChan, 1, out)
	}

	start := time.Now()
	res, err := svc.Sweep(ctx, req, subject)
	duration := time.Since(start)
	if progressChan != nil {
		close(progressChan)
		displayWg.Wait()
	}

	return newOutcome("", res.Result, &res, duration, err)
}

// ExecuteBatch runs every job concurrently, at most cfg.Workers at a time.
// Sweeps share one progress display. Job failures are recorded in their
// outcome and do not stop the other jobs.
func ExecuteBatch(ctx context.Context, svc service.Service, jobs []batch.Job, cfg config.AppConfig, logger logging.Logger, out io.Writer) ([]Outcome, error) {
	outcomes := make([]Outcome, len(jobs))

	sweepIndex := make(map[int]int)
	for i, job := range jobs {
		if job.IsSweep() {
			sweepIndex[i] = len(sweepIndex)
		}
	}

	var displayWg sync.WaitGroup
	var progress synth.ProgressObserver = synth.NewNoOpObserver()
	var progressChan chan synth.ProgressUpdate
	if showProgress(cfg) && len(sweepIndex) > 0 {
		progressChan = make(chan synth.ProgressUpdate, len(sweepIndex)*ProgressBufferMultiplier)
		progress = synth.NewChannelObserver(progressChan)
		displayWg.Add(1)
		go cli.DisplayProgress(&displayWg, progressChan, len(sweepIndex), out)
	}

	var interrupted parallel.ErrorCollector
	g := new(errgroup.Group)
	g.SetLimit(max(cfg.Workers, 1))
	for i, job := range jobs {
		g.Go(func() error {
			start := time.Now()
			var o Outcome
			if job.IsSweep() {
				res, err := svc.Sweep(ctx, synth.SweepRequest{StartHz: job.RefStartHz, Steps: job.Steps, OutputHz: job.OutputHz},
					indexedObserver{index: sweepIndex[i], next: progress})
				o = newOutcome(job.Name, res.Result, &res, time.Since(start), err)
			} else {
				res, err := svc.Solve(ctx, job.ReferenceHz, job.OutputHz)
				o = newOutcome(job.Name, res, nil, time.Since(start), err)
			}
			outcomes[i] = o

			if o.Err != nil {
				logger.Error("batch job failed", o.Err, logging.String("job", job.Name))
				if apperrors.IsContextError(o.Err) {
					interrupted.SetError(fmt.Errorf("job %s: %w", job.Name, o.Err))
				}
			} else {
				logger.Debug("batch job done", logging.String("job", job.Name),
					logging.String("mode", o.Report.Mode), logging.Hz("error", o.Report.FrequencyErrorHz))
			}
			return nil
		})
	}
	_ = g.Wait()

	if progressChan != nil {
		close(progressChan)
		displayWg.Wait()
	}
	logger.Info("batch finished", logging.Int("jobs", len(jobs)), logging.Int("interrupted", interrupted.Count()))
	return outcomes, interrupted.Err()
}

func newOutcome(name string, res synth.Result, sweep *synth.SweepResult, d time.Duration, err error) Outcome {
	o := Outcome{Name: name, Duration: d, Err: err, Found: res.Found()}
	if sweep != nil {
		o.Report = models.FromSweep(*sweep, d)
	} else {
		o.Report = models.FromResult(res, d)
	}
	o.Report.Name = name
	if err != nil {
		o.Report.Error = err.Error()
		if !o.Found {
			o.Report.Window = nil
		}
	}
	return o
}

// exitCodeFor returns the exit code of one outcome without printing.
func exitCodeFor(o Outcome) int {
	if o.Err != nil {
		return apperrors.ExitCodeFor(o.Err)
	}
	if !o.Found {
		return apperrors.ExitErrorNoSolution
	}
	return apperrors.ExitSuccess
}

// AnalyzeOutcome prints a single outcome in the configured output mode and
// returns its exit code. An interrupted sweep prints the best result it
// found before the error status.
func AnalyzeOutcome(o Outcome, cfg config.AppConfig, out io.Writer) int {
	outCfg := outputConfig(cfg)
	if o.Err != nil && !o.Found {
		if cfg.JSONOutput {
			_ = cli.DisplayJSON(out, o.Report)
			return exitCodeFor(o)
		}
		return apperrors.HandleSolveError(o.Err, o.Duration, out, cli.CLIColorProvider{})
	}

	if err := cli.DisplayResultWithConfig(out, o.Report, outCfg); err != nil {
		fmt.Fprintf(out, "%sWarning: %v%s\n", ui.ColorYellow(), err, ui.ColorReset())
	}
	if o.Err != nil && !cfg.JSONOutput {
		return apperrors.HandleSolveError(o.Err, o.Duration, out, cli.CLIColorProvider{})
	}
	if !cfg.Quiet && !cfg.JSONOutput && o.Found {
		fmt.Fprintf(out, "\nSolved in %s%s%s.\n", ui.ColorGreen(), formatDuration(o.Duration), ui.ColorReset())
	}
	return exitCodeFor(o)
}

// exitSeverity orders exit codes from most to least severe.
var exitSeverity = []int{
	apperrors.ExitErrorCanceled,
	apperrors.ExitErrorTimeout,
	apperrors.ExitErrorGeneric,
	apperrors.ExitErrorOutOfRange,
	apperrors.ExitErrorNoSolution,
}

// worstExitCode returns the most severe of codes, or ExitSuccess.
func worstExitCode(codes []int) int {
	for _, severe := range exitSeverity {
		for _, c := range codes {
			if c == severe {
				return c
			}
		}
	}
	return apperrors.ExitSuccess
}

// AnalyzeBatchResults prints a summary table of the batch (or a JSON array
// of reports) and returns the exit code of the worst job.
func AnalyzeBatchResults(outcomes []Outcome, cfg config.AppConfig, out io.Writer) int {
	codes := make([]int, len(outcomes))
	for i, o := range outcomes {
		codes[i] = exitCodeFor(o)
	}

	switch {
	case cfg.JSONOutput:
		reports := make([]models.SolveReport, len(outcomes))
		for i, o := range outcomes {
			reports[i] = o.Report
		}
		if err := cli.DisplayJSON(out, reports); err != nil {
			fmt.Fprintf(out, "Warning: %v\n", err)
		}
	case cfg.Quiet:
		for _, o := range outcomes {
			cli.DisplayQuietResult(out, o.Report)
		}
	default:
		printBatchSummary(outcomes, codes, out)
	}

	if cfg.OutputFile != "" {
		if err := writeBatchFile(outcomes, cfg); err != nil {
			fmt.Fprintf(out, "%sWarning: %v%s\n", ui.ColorYellow(), err, ui.ColorReset())
		}
	}
	return worstExitCode(codes)
}

func printBatchSummary(outcomes []Outcome, codes []int, out io.Writer) {
	fmt.Fprintf(out, "\n--- Batch Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	u, r := ui.ColorUnderline(), ui.ColorReset()
	fmt.Fprintf(tw, "%sJob%s\t%sMode%s\t%sReference (Hz)%s\t%sR/INT/MOD/FRAC%s\t%sError (Hz)%s\t%sDuration%s\t%sStatus%s\n",
		u, r, u, r, u, r, u, r, u, r, u, r, u, r)

	successCount := 0
	for i, o := range outcomes {
		regs, errHz := "-", "-"
		if reg := o.Report.Registers; reg != nil {
			regs = fmt.Sprintf("%d/%d/%d/%d", reg.R, reg.Int, reg.Mod, reg.Frac)
			errHz = fmt.Sprintf("%g", o.Report.FrequencyErrorHz)
		}
		var status string
		switch code := codes[i]; code {
		case apperrors.ExitSuccess:
			successCount++
			status = fmt.Sprintf("%s✅ Success%s", ui.ColorGreen(), ui.ColorReset())
		case apperrors.ExitErrorNoSolution:
			status = fmt.Sprintf("%s⚠ No solution%s", ui.ColorYellow(), ui.ColorReset())
		default:
			status = fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorRed(), o.Err, ui.ColorReset())
		}
		fmt.Fprintf(tw, "%s%s%s\t%s\t%s\t%s\t%s\t%s%s%s\t%s\n",
			ui.ColorBlue(), o.Name, ui.ColorReset(),
			o.Report.Mode, referenceColumn(o.Report), regs, errHz,
			ui.ColorYellow(), formatDuration(o.Duration), ui.ColorReset(),
			status)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(out, "Warning: failed to flush tabwriter: %v\n", err)
	}

	switch {
	case len(outcomes) == 0:
		fmt.Fprintf(out, "\nGlobal Status: Nothing to do.\n")
	case successCount == len(outcomes):
		fmt.Fprintf(out, "\nGlobal Status: Success. %d of %d jobs solved.\n", successCount, len(outcomes))
	default:
		fmt.Fprintf(out, "\nGlobal Status: Failure. %d of %d jobs solved.\n", successCount, len(outcomes))
	}
}

func referenceColumn(report models.SolveReport) string {
	switch {
	case report.Registers != nil || (report.Window == nil && report.ReferenceHz > 0):
		return fmt.Sprintf("%g", report.ReferenceHz)
	case report.Window != nil:
		return fmt.Sprintf("%d..%d", report.Window.StartHz, report.Window.EndHz)
	default:
		return "-"
	}
}

// writeBatchFile saves every job report, one after another, to cfg.OutputFile.
func writeBatchFile(outcomes []Outcome, cfg config.AppConfig) error {
	reports := make([]models.SolveReport, len(outcomes))
	for i, o := range outcomes {
		reports[i] = o.Report
	}
	return cli.WriteReportsToFile(reports, outputConfig(cfg))
}

func outputConfig(cfg config.AppConfig) cli.OutputConfig {
	return cli.OutputConfig{
		OutputFile: cfg.OutputFile,
		Quiet:      cfg.Quiet,
		Details:    cfg.Details,
		JSON:       cfg.JSONOutput,
	}
}

func formatDuration(d time.Duration) string {
	if d == 0 {
		return "< 1µs"
	}
	return cli.FormatExecutionDuration(d)
}
