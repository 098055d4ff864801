package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/agbru/adfcalc/internal/batch"
	"github.com/agbru/adfcalc/internal/cli"
	"github.com/agbru/adfcalc/internal/config"
	apperrors "github.com/agbru/adfcalc/internal/errors"
	"github.com/agbru/adfcalc/internal/logging"
	"github.com/agbru/adfcalc/internal/orchestration"
	"github.com/agbru/adfcalc/internal/server"
	"github.com/agbru/adfcalc/internal/service"
	"github.com/agbru/adfcalc/internal/synth"
	"github.com/agbru/adfcalc/internal/ui"
)

// Application is one invocation of adfcalc: the parsed configuration plus
// the solver every front end shares.
type Application struct {
	Config config.AppConfig
	// Service defaults to a SolverService with the ADF4351 limits.
	Service   service.Service
	ErrWriter io.Writer

	in io.Reader // REPL input, stdin when nil
}

// New parses args (args[0] is the program name) with environment and file
// fallbacks. A flag.ErrHelp error means usage was printed; see IsHelpError.
func New(args []string, errWriter io.Writer) (*Application, error) {
	name, rest := "adfcalc", []string(nil)
	if len(args) > 0 {
		name, rest = args[0], args[1:]
	}
	cfg, err := config.ParseConfig(name, rest, errWriter)
	if err != nil {
		return nil, err
	}
	return &Application{Config: cfg, ErrWriter: errWriter}, nil
}

// Run executes the configured mode and returns the process exit code.
// Completion scripts are written before any theme or service setup.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		if err := cli.GenerateCompletion(out, a.Config.Completion); err != nil {
			fmt.Fprintf(a.ErrWriter, "Completion: %v\n", err)
			return apperrors.ExitErrorConfig
		}
		return apperrors.ExitSuccess
	}

	ui.InitTheme(a.Config.NoColor || !ui.IsTerminal(out))
	if a.Service == nil {
		a.Service = service.NewSolverService(synth.ADF4351(), a.Config.Workers, 0)
	}

	switch {
	case a.Config.ServerMode:
		return a.runServer(ctx)
	case a.Config.Interactive:
		return a.runREPL(out)
	default:
		return a.runSolve(ctx, out)
	}
}

// runServer blocks until ctx ends or a signal arrives. The server builds
// its own service so that the sweep step cap applies.
func (a *Application) runServer(ctx context.Context) int {
	if err := server.NewServer(a.Service.Limits(), a.Config).Start(ctx); err != nil {
		fmt.Fprintf(a.ErrWriter, "Server error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

func (a *Application) runREPL(out io.Writer) int {
	repl := cli.NewREPL(cli.REPLConfig{
		Timeout:    a.Config.Timeout,
		Workers:    a.Config.Workers,
		JSONOutput: a.Config.JSONOutput,
		Details:    a.Config.Details,
		Limits:     a.Service.Limits(),
	})
	if a.in != nil {
		repl.SetInput(a.in)
	}
	repl.SetOutput(out)
	repl.Start()
	return apperrors.ExitSuccess
}

// runSolve runs a single solve, a sweep or a batch under the configured
// timeout and returns its exit code.
func (a *Application) runSolve(ctx context.Context, out io.Writer) int {
	ctx, stop := boundedRun(ctx, a.Config.Timeout)
	defer stop()

	if !a.Config.JSONOutput && !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintExecutionMode(a.Config, out)
	}

	switch a.Config.Mode() {
	case config.ModeBatch:
		return a.runBatch(ctx, out)
	case config.ModeSweep:
		o := orchestration.ExecuteSweep(ctx, a.Service, a.Config, out)
		return orchestration.AnalyzeOutcome(o, a.Config, out)
	default:
		o := orchestration.ExecuteSolve(ctx, a.Service, a.Config)
		return orchestration.AnalyzeOutcome(o, a.Config, out)
	}
}

// runBatch loads the job file and solves every job concurrently.
func (a *Application) runBatch(ctx context.Context, out io.Writer) int {
	jobs, err := batch.Load(a.Config.BatchFile)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Configuration error: %v\n", err)
		return apperrors.ExitErrorConfig
	}

	outcomes, err := orchestration.ExecuteBatch(ctx, a.Service, jobs, a.Config, a.batchLogger(), out)
	if err != nil && !a.Config.JSONOutput && !a.Config.Quiet {
		fmt.Fprintf(out, "%sBatch interrupted: %v%s\n", ui.ColorYellow(), err, ui.ColorReset())
	}
	return orchestration.AnalyzeBatchResults(outcomes, a.Config, out)
}

// batchLogger logs failed jobs to the error writer. Informational events
// are dropped since the summary table already reports them.
func (a *Application) batchLogger() logging.Logger {
	return logging.NewZerologAdapter(zerolog.New(a.ErrWriter).Level(zerolog.WarnLevel).
		With().Str("component", "batch").Timestamp().Logger())
}

// IsHelpError reports whether New stopped after printing usage.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
