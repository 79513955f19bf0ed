package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/DataDeltas/autoCMSCheck/internal/app"
	"github.com/DataDeltas/autoCMSCheck/internal/cli"
)

// main is the entrypoint for one quantum of the autoCMSCheck controller.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes. Every fatal
	// condition surfaces as a non-zero exit with a descriptive message.
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW io.Writer, args []string) (err error) {
	appConfig, shouldExit, parseErr := cli.Parse(args, outW)
	if parseErr != nil {
		return parseErr
	}
	if shouldExit {
		return nil
	}

	// The app panics on critical startup errors (unreadable config,
	// missing secrets); recover them into a clean error for the user.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked: %v", r)
		}
	}()

	quantumApp := app.NewApp(outW, appConfig)

	return quantumApp.Run(context.Background())
}
