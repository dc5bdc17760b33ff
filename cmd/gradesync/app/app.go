// Package app wires configuration, logging and reconciler construction for
// the gradesync CLI.
package app

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/gradesync"
	"github.com/agentstation/gradesync/internal/appcontext"
	"github.com/agentstation/gradesync/internal/cmd/output"
	"github.com/agentstation/gradesync/internal/config"
	"github.com/agentstation/gradesync/pkg/errors"
)

var _ appcontext.Interface = (*App)(nil)

// App holds everything a command run needs.
type App struct {
	build  appcontext.BuildInfo
	config *Config
	logger *zerolog.Logger
}

// New loads configuration from the default locations and builds the logger.
// A --config flag reloads the configuration before the command runs.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	cfg, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	logger := NewLogger(cfg)

	app := &App{
		build:  appcontext.BuildInfo{Version: version, Commit: commit, Date: date, BuiltBy: builtBy},
		config: cfg,
		logger: &logger,
	}
	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// Build identifies the binary.
func (a *App) Build() appcontext.BuildInfo {
	return a.build
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Settings returns a copy of the reconciliation settings.
func (a *App) Settings() config.Settings {
	return *a.config.Settings
}

// OutputFormat returns the --format value, or table on a terminal and json
// otherwise.
func (a *App) OutputFormat() string {
	return string(output.DetectFormat(a.config.Format))
}

// Gradesync builds a reconciler from the settings, with opts applied last.
func (a *App) Gradesync(opts ...gradesync.Option) (gradesync.Gradesync, error) {
	base := []gradesync.Option{
		gradesync.WithEngineOptions(a.config.Settings.EngineOptions()...),
		gradesync.WithLogger(a.logger),
	}
	gs, err := gradesync.New(append(base, opts...)...)
	if err != nil {
		return nil, errors.WrapResource("create", "reconciler", "", err)
	}
	return gs, nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(cfg *Config) Option {
	return func(a *App) error {
		a.config = cfg
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}
