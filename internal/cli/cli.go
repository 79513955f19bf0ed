package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/DataDeltas/autoCMSCheck/internal/app"
	"github.com/DataDeltas/autoCMSCheck/internal/session"
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

// Parse processes command-line arguments. It returns a populated app
// Config, a boolean indicating if the program should exit cleanly, or an
// ExitError. Budget flags matter only when this invocation creates a
// session; chained activations invoke the binary without them.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("autocmscheck", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
autoCMSCheck - a self-continuing session controller for quantum-sliced work.

Each invocation runs one quantum: it processes one CMS post, advances the
durable session record, and either activates the next quantum or ends the
session when a budget is exhausted.

Usage:
  autocmscheck [options]

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "controller.hcl", "Path to the HCL configuration file.")
	cFlag := flagSet.String("c", "", "Path to the HCL configuration file (shorthand).")
	durationFlag := flagSet.Int("duration-hours", int(session.DefaultDuration.Hours()), "Session time budget in hours. Honored on session creation only.")
	maxRunsFlag := flagSet.Int("max-runs", session.DefaultMaxRuns, "Session run-count budget. Honored on session creation only.")
	sleepFlag := flagSet.Int("sleep-seconds", int(session.DefaultSleep.Seconds()), "Delay before activating the next quantum.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	configPath := *configFlag
	if *cFlag != "" {
		configPath = *cFlag
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ConfigPath:    configPath,
		DurationHours: *durationFlag,
		MaxRuns:       *maxRunsFlag,
		SleepSeconds:  *sleepFlag,
		LogFormat:     logFormat,
		LogLevel:      logLevel,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
