package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/DataDeltas/autoCMSCheck/internal/config"
	"github.com/DataDeltas/autoCMSCheck/internal/ctxlog"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle for a single quantum.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	appConfig *Config
	model     *config.Model
	secrets   *config.Secrets
}

// NewApp is the constructor for the main application. It builds an
// isolated logger, loads the HCL configuration, and reads the secrets
// from the environment. A failure in any of these is a critical startup
// error and panics; the entrypoint recovers it into a clean exit.
func NewApp(outW io.Writer, appConfig *Config) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := config.Load(ctx, appConfig.ConfigPath)
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}

	secrets, err := config.ParseSecrets()
	if err != nil {
		panic(fmt.Errorf("failed to read environment: %w", err))
	}

	// The platform injects the repository slug on every run; the config
	// file only needs it when running outside the platform.
	if model.Platform.Repository == "" {
		model.Platform.Repository = secrets.Repository
	}
	if model.Platform.Repository == "" {
		panic(fmt.Errorf("repository is not set in %s and GITHUB_REPOSITORY is empty", appConfig.ConfigPath))
	}
	logger.Debug("Configuration loaded.", "repository", model.Platform.Repository)

	return &App{
		outW:      outW,
		logger:    logger,
		appConfig: appConfig,
		model:     model,
		secrets:   secrets,
	}
}
