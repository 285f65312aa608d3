package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/vk/flowbench/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Defaults are the flag defaults, overridable from the environment.
type Defaults struct {
	LogFormat   string `env:"FLOWBENCH_LOG_FORMAT" envDefault:"text"`
	LogLevel    string `env:"FLOWBENCH_LOG_LEVEL"  envDefault:"info"`
	WorkerCount int    `env:"FLOWBENCH_WORKERS"    envDefault:"4"`
}

// Parse processes command-line arguments with defaults taken from the process
// environment. It returns a populated Config, a boolean indicating if the
// program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	return ParseWithEnv(args, nil, output)
}

// ParseWithEnv is Parse with an explicit environment. A nil environ means the
// process environment.
func ParseWithEnv(args []string, environ map[string]string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	var defaults Defaults
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&defaults, opts); err != nil {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("invalid environment: %v", err)}
	}

	flagSet := flag.NewFlagSet("flowbench", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
flowbench - runs declarative integration flows and checks their result counts.

Usage:
  flowbench [options] PATH...

Arguments:
  PATH
    A configuration resource (.hcl, .yaml, .yml) or a directory of them.
    Every scenario block found is run.

Options:
`)
		flagSet.PrintDefaults()
	}

	flowFlag := flagSet.String("flow", "", "Run this flow of a single resource instead of its scenarios.")
	expectFlag := flagSet.Int("expect", 0, "Expected result count for -flow.")
	logFormatFlag := flagSet.String("log-format", defaults.LogFormat, "Log output format. Options: 'text' or 'json'. Env: FLOWBENCH_LOG_FORMAT.")
	logLevelFlag := flagSet.String("log-level", defaults.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'. Env: FLOWBENCH_LOG_LEVEL.")
	workersFlag := flagSet.Int("workers", defaults.WorkerCount, "Number of scenarios run concurrently. Env: FLOWBENCH_WORKERS.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() == 0 {
		slog.Debug("No resource path provided, printing usage.")
		flagSet.Usage()
		return nil, false, &ExitError{Code: 2, Message: "at least one PATH is required"}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	if _, ok := app.LogLevels[logLevel]; !ok {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		Paths:       flagSet.Args(),
		Flow:        *flowFlag,
		Expect:      *expectFlag,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
		WorkerCount: *workersFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
