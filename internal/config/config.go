// Package config provides the configuration management for the adfcalc
// application. It defines the configuration structure, parses command-line
// arguments (including @file argument lists), layers a YAML defaults file
// and environment variables underneath, and validates the result.
package config

import (
	"flag"
	"fmt"
	"io"
	"runtime"
	"time"

	apperrors "github.com/agbru/adfcalc/internal/errors"
)

const (
	// EnvPrefix is the prefix for all environment variables used by adfcalc.
	EnvPrefix = "ADFCALC_"
)

// Default configuration values.
const (
	// DefaultTimeout is the default limit for a solve, sweep or batch.
	DefaultTimeout = 5 * time.Minute
	// DefaultPort is the default server port.
	DefaultPort = "8080"
	// DefaultSteps is the default sweep width.
	DefaultSteps = 0
)

// Run modes reported by AppConfig.Mode.
const (
	ModeSingle = "single"
	ModeSweep  = "sweep"
	ModeBatch  = "batch"
)

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// ReferenceHz selects single-reference mode when positive.
	ReferenceHz float64
	// OutputHz is the desired RF output frequency.
	OutputHz float64
	// RefStartHz selects sweep mode when positive.
	RefStartHz int64
	// Steps is the number of 1 Hz increments swept after RefStartHz.
	Steps int64
	// Workers bounds the concurrency of sweeps and batches.
	Workers int
	// Timeout sets the maximum duration of the whole run.
	Timeout time.Duration

	// BatchFile is a YAML job list solved concurrently.
	BatchFile string
	// ConfigFile is a YAML file providing defaults for the flags.
	ConfigFile string

	// JSONOutput, if true, prints the report as JSON.
	JSONOutput bool
	// Quiet prints a single line per result, with no banner or progress.
	Quiet bool
	// Details adds PFD, VCO and achieved frequency lines to the report.
	Details bool
	// NoColor disables color output. NO_COLOR and non-terminal outputs
	// disable it too.
	NoColor bool
	// OutputFile, if set, also writes the report to this path.
	OutputFile string

	// ServerMode starts the HTTP API instead of solving once.
	ServerMode bool
	// Port specifies the port to listen on in server mode.
	Port string
	// Interactive starts the REPL.
	Interactive bool
	// Completion prints a shell completion script ("bash", "zsh", "fish").
	Completion string
}

// Mode reports which solve path the configuration selects.
func (c AppConfig) Mode() string {
	switch {
	case c.BatchFile != "":
		return ModeBatch
	case c.RefStartHz > 0:
		return ModeSweep
	case c.ReferenceHz > 0:
		return ModeSingle
	}
	return ""
}

// Validate checks the semantic consistency of the configuration. Frequency
// ranges are not checked here: the solver reports them as range errors.
//
// Returns:
//   - error: A ConfigError if the configuration is invalid, nil otherwise.
func (c AppConfig) Validate() error {
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout value must be strictly positive")
	}
	if c.Workers < 1 {
		return apperrors.NewConfigError("worker count must be at least 1: %d", c.Workers)
	}
	if c.Steps < 0 {
		return apperrors.NewConfigError("step count cannot be negative: %d", c.Steps)
	}
	if c.Completion != "" || c.ServerMode || c.Interactive {
		return nil
	}

	if c.BatchFile != "" {
		if c.ReferenceHz > 0 || c.RefStartHz > 0 {
			return apperrors.NewConfigError("--batch cannot be combined with --ref or --refstart")
		}
		return nil
	}
	if c.ReferenceHz > 0 && c.RefStartHz > 0 {
		return apperrors.NewConfigError("--ref and --refstart are mutually exclusive")
	}
	if c.ReferenceHz <= 0 && c.RefStartHz <= 0 {
		return apperrors.NewConfigError("either --ref (single reference) or --refstart (sweep) is required")
	}
	if c.Steps > 0 && c.RefStartHz <= 0 {
		return apperrors.NewConfigError("--steps requires --refstart")
	}
	if c.OutputHz <= 0 {
		return apperrors.NewConfigError("--rf is required")
	}
	return nil
}

// ParseConfig parses the command-line arguments and populates an AppConfig.
// Arguments of the form @path are first replaced by the lines of that file.
//
// Priority: CLI flags > environment variables > config file > defaults.
//
// Parameters:
//   - programName: The name of the program, used in the usage message.
//   - args: The command-line arguments (typically os.Args[1:]).
//   - errorWriter: Where parsing errors and usage information are printed.
//
// Returns:
//   - AppConfig: The populated configuration struct.
//   - error: flag.ErrHelp, a parsing error, or a ConfigError.
func ParseConfig(programName string, args []string, errorWriter io.Writer) (AppConfig, error) {
	expanded, err := ExpandArgFiles(args)
	if err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		return AppConfig{}, apperrors.NewConfigError("%v", err)
	}

	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)

	config := AppConfig{}
	fs.Float64Var(&config.ReferenceHz, "ref", 0, "Reference frequency in Hz (single-reference mode).")
	fs.Float64Var(&config.OutputHz, "rf", 0, "Desired RF output frequency in Hz.")
	fs.Int64Var(&config.RefStartHz, "refstart", 0, "First reference frequency in whole Hz (sweep mode).")
	fs.Int64Var(&config.Steps, "steps", DefaultSteps, "Number of 1 Hz steps to sweep after --refstart.")
	fs.IntVar(&config.Workers, "workers", runtime.NumCPU(), "Number of references solved concurrently.")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum execution time.")
	fs.StringVar(&config.BatchFile, "batch", "", "YAML file listing jobs to solve concurrently.")
	fs.StringVar(&config.ConfigFile, "config", "", "YAML file with default flag values.")
	fs.BoolVar(&config.JSONOutput, "json", false, "Output results in JSON format.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Quiet mode - one line per result for scripts.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.BoolVar(&config.Details, "details", false, "Show PFD, VCO and achieved frequencies.")
	fs.BoolVar(&config.Details, "d", false, "Show details (shorthand).")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also respects NO_COLOR env var).")
	fs.StringVar(&config.OutputFile, "output", "", "Also write the report to this file.")
	fs.StringVar(&config.OutputFile, "o", "", "Output file path (shorthand).")
	fs.BoolVar(&config.ServerMode, "server", false, "Start in HTTP server mode.")
	fs.StringVar(&config.Port, "port", DefaultPort, "Port to listen on in server mode.")
	fs.BoolVar(&config.Interactive, "interactive", false, "Start in interactive REPL mode.")
	fs.StringVar(&config.Completion, "completion", "", "Generate shell completion script (bash, zsh, fish).")

	setCustomUsage(fs)

	if err := fs.Parse(expanded); err != nil {
		return AppConfig{}, err
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(errorWriter, "Configuration error: unexpected argument %q\n", fs.Arg(0))
		fs.Usage()
		return AppConfig{}, apperrors.NewConfigError("unexpected argument %q", fs.Arg(0))
	}

	if path, ok := lookupEnv("CONFIG"); ok && !isFlagSet(fs, "config") {
		config.ConfigFile = path
	}
	if config.ConfigFile != "" {
		fileCfg, err := LoadFile(config.ConfigFile)
		if err != nil {
			fmt.Fprintln(errorWriter, "Configuration error:", err)
			return AppConfig{}, apperrors.NewConfigError("%v", err)
		}
		fileCfg.apply(&config, fs)
	}

	applyEnvOverrides(fs)

	if err := config.Validate(); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, err
	}
	return config, nil
}
