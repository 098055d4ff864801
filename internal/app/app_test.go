package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agbru/adfcalc/internal/config"
	apperrors "github.com/agbru/adfcalc/internal/errors"
	"github.com/agbru/adfcalc/internal/service"
	"github.com/agbru/adfcalc/internal/synth"
	"github.com/agbru/adfcalc/internal/testutil"
	"github.com/agbru/adfcalc/pkg/models"
)

// blockingService waits for its context before answering, so that timeout
// and cancellation paths can be tested without slow searches.
type blockingService struct {
	service.Service
}

func newBlockingService() *blockingService {
	return &blockingService{Service: service.NewSolverService(synth.ADF4351(), 1, 0)}
}

func (b *blockingService) Solve(ctx context.Context, _, _ float64) (synth.Result, error) {
	<-ctx.Done()
	return synth.Result{}, ctx.Err()
}

func (b *blockingService) Sweep(ctx context.Context, _ synth.SweepRequest, _ synth.ProgressObserver) (synth.SweepResult, error) {
	<-ctx.Done()
	return synth.SweepResult{}, ctx.Err()
}

// emptyService finds nothing for every request.
type emptyService struct {
	service.Service
}

func (emptyService) Solve(_ context.Context, ref, rf float64) (synth.Result, error) {
	return synth.Result{ReferenceHz: ref, OutputHz: rf}, nil
}

func singleConfig() config.AppConfig {
	return config.AppConfig{ReferenceHz: 25e6, OutputHz: 2.4e9, Workers: 2, Timeout: time.Minute}
}

// TestNew tests the New function for creating Application instances.
func TestNew(t *testing.T) {
	t.Parallel()
	t.Run("Valid args create application", func(t *testing.T) {
		t.Parallel()
		var errBuf bytes.Buffer
		app, err := New([]string{"adfcalc", "--ref", "25000000", "--rf", "2400000000"}, &errBuf)
		if err != nil {
			t.Fatalf("New() returned unexpected error: %v", err)
		}
		if app.Config.ReferenceHz != 25e6 || app.Config.OutputHz != 2.4e9 {
			t.Errorf("Unexpected config %+v", app.Config)
		}
		if app.Config.Mode() != config.ModeSingle {
			t.Errorf("Expected single mode, got %q", app.Config.Mode())
		}
	})

	t.Run("Invalid args return error", func(t *testing.T) {
		t.Parallel()
		app, err := New([]string{"adfcalc", "-invalid-flag"}, &bytes.Buffer{})
		if err == nil {
			t.Error("New() should return error for invalid args")
		}
		if app != nil {
			t.Error("New() should return nil application on error")
		}
	})

	t.Run("Missing rf is a config error", func(t *testing.T) {
		t.Parallel()
		_, err := New([]string{"adfcalc", "--ref", "25000000"}, &bytes.Buffer{})
		if apperrors.ExitCodeFor(err) != apperrors.ExitErrorConfig {
			t.Errorf("Expected a config error, got %v", err)
		}
	})

	t.Run("Help flag returns help error", func(t *testing.T) {
		t.Parallel()
		_, err := New([]string{"adfcalc", "-h"}, &bytes.Buffer{})
		if !IsHelpError(err) {
			t.Errorf("Expected help error, got %v", err)
		}
	})
}

// TestApplicationRun tests Application.Run in each solve mode.
func TestApplicationRun(t *testing.T) {
	t.Parallel()

	t.Run("Single reference", func(t *testing.T) {
		t.Parallel()
		var outBuf bytes.Buffer
		app := &Application{Config: singleConfig(), ErrWriter: &bytes.Buffer{}}

		exitCode := app.Run(context.Background(), &outBuf)

		if exitCode != apperrors.ExitSuccess {
			t.Errorf("Expected exit code %d, got %d", apperrors.ExitSuccess, exitCode)
		}
		output := testutil.StripAnsiCodes(outBuf.String())
		for _, want := range []string{"Execution Configuration", "Integer mode - exact frequency", "Int: 96", "Solved in"} {
			if !strings.Contains(output, want) {
				t.Errorf("Output should contain %q. Output:\n%s", want, output)
			}
		}
	})

	t.Run("Sweep", func(t *testing.T) {
		t.Parallel()
		var outBuf bytes.Buffer
		app := &Application{
			Config: config.AppConfig{
				RefStartHz: 24999990, Steps: 20, OutputHz: 2400000013,
				Workers: 4, Timeout: time.Minute, Quiet: true,
			},
			ErrWriter: &bytes.Buffer{},
		}

		exitCode := app.Run(context.Background(), &outBuf)

		if exitCode != apperrors.ExitSuccess {
			t.Errorf("Expected exit code %d, got %d", apperrors.ExitSuccess, exitCode)
		}
		want := "fractional R=183 INT=17568 MOD=3332 FRAC=5"
		if !strings.Contains(outBuf.String(), want) || !strings.Contains(outBuf.String(), "REF=24999998") {
			t.Errorf("Quiet output should contain %q and REF=24999998. Output:\n%s", want, outBuf.String())
		}
	})

	t.Run("Quiet mode", func(t *testing.T) {
		t.Parallel()
		var outBuf bytes.Buffer
		cfg := singleConfig()
		cfg.Quiet = true
		app := &Application{Config: cfg, ErrWriter: &bytes.Buffer{}}

		if code := app.Run(context.Background(), &outBuf); code != apperrors.ExitSuccess {
			t.Errorf("Expected exit code %d, got %d", apperrors.ExitSuccess, code)
		}
		want := "integer R=1 INT=96 MOD=2 FRAC=0 DIV=1 PRESCALER=false ERR=0\n"
		if outBuf.String() != want {
			t.Errorf("Quiet output = %q, want %q", outBuf.String(), want)
		}
	})

	t.Run("JSON output mode", func(t *testing.T) {
		t.Parallel()
		var outBuf bytes.Buffer
		cfg := singleConfig()
		cfg.JSONOutput = true
		app := &Application{Config: cfg, ErrWriter: &bytes.Buffer{}}

		if code := app.Run(context.Background(), &outBuf); code != apperrors.ExitSuccess {
			t.Errorf("Expected exit code %d, got %d", apperrors.ExitSuccess, code)
		}
		var report models.SolveReport
		if err := json.Unmarshal(outBuf.Bytes(), &report); err != nil {
			t.Fatalf("Output is not a JSON report: %v\n%s", err, outBuf.String())
		}
		if report.Mode != "integer" || report.Registers == nil || report.Registers.Int != 96 {
			t.Errorf("Unexpected report %+v", report)
		}
	})

	t.Run("Out of range", func(t *testing.T) {
		t.Parallel()
		var outBuf bytes.Buffer
		cfg := singleConfig()
		cfg.ReferenceHz = 100
		app := &Application{Config: cfg, ErrWriter: &bytes.Buffer{}}

		if code := app.Run(context.Background(), &outBuf); code != apperrors.ExitErrorOutOfRange {
			t.Errorf("Expected exit code %d, got %d", apperrors.ExitErrorOutOfRange, code)
		}
	})

	t.Run("No solution", func(t *testing.T) {
		t.Parallel()
		var outBuf bytes.Buffer
		app := &Application{
			Config:    singleConfig(),
			Service:   emptyService{Service: service.NewSolverService(synth.ADF4351(), 1, 0)},
			ErrWriter: &bytes.Buffer{},
		}

		if code := app.Run(context.Background(), &outBuf); code != apperrors.ExitErrorNoSolution {
			t.Errorf("Expected exit code %d, got %d", apperrors.ExitErrorNoSolution, code)
		}
		if !strings.Contains(outBuf.String(), "within datasheet limits are not possible") {
			t.Errorf("Output should explain the missing solution. Output:\n%s", outBuf.String())
		}
	})

	t.Run("Timeout failure", func(t *testing.T) {
		t.Parallel()
		var outBuf bytes.Buffer
		cfg := singleConfig()
		cfg.Timeout = 10 * time.Millisecond
		app := &Application{Config: cfg, Service: newBlockingService(), ErrWriter: &bytes.Buffer{}}

		exitCode := app.Run(context.Background(), &outBuf)

		if exitCode != apperrors.ExitErrorTimeout {
			t.Errorf("Expected exit code %d (timeout), got %d", apperrors.ExitErrorTimeout, exitCode)
		}
		if !strings.Contains(testutil.StripAnsiCodes(outBuf.String()), "Timeout") {
			t.Errorf("Output should mention timeout. Output:\n%s", outBuf.String())
		}
	})

	t.Run("Context cancellation", func(t *testing.T) {
		t.Parallel()
		cfg := config.AppConfig{RefStartHz: 25e6, Steps: 10, OutputHz: 2.4e9, Workers: 1, Timeout: time.Minute, Quiet: true}
		app := &Application{Config: cfg, Service: newBlockingService(), ErrWriter: &bytes.Buffer{}}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if code := app.Run(ctx, &bytes.Buffer{}); code != apperrors.ExitErrorCanceled {
			t.Errorf("Expected exit code %d (canceled), got %d", apperrors.ExitErrorCanceled, code)
		}
	})
}

// TestRunBatch tests batch mode end to end from a job file.
func TestRunBatch(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	jobsPath := filepath.Join(dir, "jobs.yaml")
	jobs := `
jobs:
  - name: lo-25m
    ref: 25000000
    rf: 2.4e9
  - name: sweep
    refstart: 24999990
    steps: 20
    rf: 2400000013
  - name: too-low
    ref: 100
    rf: 2.4e9
`
	if err := os.WriteFile(jobsPath, []byte(jobs), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Run("Summary and worst exit code", func(t *testing.T) {
		t.Parallel()
		var outBuf, errBuf bytes.Buffer
		app := &Application{
			Config:    config.AppConfig{BatchFile: jobsPath, Workers: 2, Timeout: time.Minute},
			ErrWriter: &errBuf,
		}

		exitCode := app.Run(context.Background(), &outBuf)

		if exitCode != apperrors.ExitErrorOutOfRange {
			t.Errorf("Expected exit code %d, got %d", apperrors.ExitErrorOutOfRange, exitCode)
		}
		output := testutil.StripAnsiCodes(outBuf.String())
		for _, want := range []string{"Batch Summary", "lo-25m", "sweep", "too-low", "2 of 3 jobs solved"} {
			if !strings.Contains(output, want) {
				t.Errorf("Output should contain %q. Output:\n%s", want, output)
			}
		}
		if !strings.Contains(errBuf.String(), "batch job failed") {
			t.Errorf("Expected the failed job to be logged, got %q", errBuf.String())
		}
	})

	t.Run("Missing job file", func(t *testing.T) {
		t.Parallel()
		var errBuf bytes.Buffer
		app := &Application{
			Config:    config.AppConfig{BatchFile: filepath.Join(dir, "missing.yaml"), Workers: 1, Timeout: time.Minute},
			ErrWriter: &errBuf,
		}

		if code := app.Run(context.Background(), &bytes.Buffer{}); code != apperrors.ExitErrorConfig {
			t.Errorf("Expected exit code %d, got %d", apperrors.ExitErrorConfig, code)
		}
		if !strings.Contains(errBuf.String(), "Configuration error") {
			t.Errorf("Expected a configuration error, got %q", errBuf.String())
		}
	})
}

// TestIsHelpError tests the IsHelpError function.
func TestIsHelpError(t *testing.T) {
	t.Parallel()
	if IsHelpError(nil) {
		t.Error("nil is not a help error")
	}
	if IsHelpError(apperrors.NewConfigError("bad")) {
		t.Error("a config error is not a help error")
	}
}

// TestRunCompletion tests completion script generation.
func TestRunCompletion(t *testing.T) {
	t.Parallel()
	for _, shell := range []string{"bash", "zsh", "fish"} {
		t.Run(shell, func(t *testing.T) {
			t.Parallel()
			var outBuf bytes.Buffer
			app := &Application{Config: config.AppConfig{Completion: shell}, ErrWriter: &bytes.Buffer{}}

			if code := app.Run(context.Background(), &outBuf); code != apperrors.ExitSuccess {
				t.Errorf("Expected exit code %d, got %d", apperrors.ExitSuccess, code)
			}
			if !strings.Contains(outBuf.String(), "adfcalc") {
				t.Errorf("Completion script should mention adfcalc")
			}
		})
	}
}

// TestRunCompletionInvalid tests an unsupported shell.
func TestRunCompletionInvalid(t *testing.T) {
	t.Parallel()
	var errBuf bytes.Buffer
	app := &Application{Config: config.AppConfig{Completion: "powershell"}, ErrWriter: &errBuf}

	if code := app.Run(context.Background(), &bytes.Buffer{}); code != apperrors.ExitErrorConfig {
		t.Errorf("Expected exit code %d, got %d", apperrors.ExitErrorConfig, code)
	}
	if !strings.Contains(errBuf.String(), "unsupported shell") {
		t.Errorf("Expected an unsupported shell error, got %q", errBuf.String())
	}
}

// TestRunREPL tests the REPL mode with scripted input.
func TestRunREPL(t *testing.T) {
	t.Parallel()
	var outBuf bytes.Buffer
	app := &Application{
		Config:    config.AppConfig{Interactive: true, Workers: 1, Timeout: time.Minute},
		ErrWriter: &bytes.Buffer{},
		in:        strings.NewReader("solve 25000000 2400000000\nexit\n"),
	}

	if code := app.Run(context.Background(), &outBuf); code != apperrors.ExitSuccess {
		t.Errorf("Expected exit code %d, got %d", apperrors.ExitSuccess, code)
	}
	output := testutil.StripAnsiCodes(outBuf.String())
	for _, want := range []string{"Interactive Mode", "Int: 96", "Goodbye!"} {
		if !strings.Contains(output, want) {
			t.Errorf("Output should contain %q. Output:\n%s", want, output)
		}
	}
}

// TestRunServer tests that server mode stops when its context is canceled.
func TestRunServer(t *testing.T) {
	t.Parallel()
	var errBuf bytes.Buffer
	app := &Application{
		Config:    config.AppConfig{ServerMode: true, Port: "0", Workers: 1, Timeout: time.Minute},
		ErrWriter: &errBuf,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan int, 1)
	go func() { done <- app.Run(ctx, &bytes.Buffer{}) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case code := <-done:
		if code != apperrors.ExitSuccess {
			t.Errorf("Expected exit code %d, got %d (%s)", apperrors.ExitSuccess, code, errBuf.String())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancellation")
	}
}

func TestBoundedRunDeadline(t *testing.T) {
	t.Parallel()

	ctx, stop := boundedRun(context.Background(), 10*time.Millisecond)
	defer stop()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not canceled by the timeout")
	}
	if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
		t.Errorf("ctx.Err() = %v, want DeadlineExceeded", ctx.Err())
	}
}

func TestBoundedRunStop(t *testing.T) {
	t.Parallel()

	ctx, stop := boundedRun(context.Background(), time.Hour)
	stop()
	stop()
	if !errors.Is(ctx.Err(), context.Canceled) {
		t.Errorf("ctx.Err() = %v, want Canceled after stop", ctx.Err())
	}
}
