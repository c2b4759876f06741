// Package app provides the application context and dependency management
// for the dashsync CLI. It centralizes configuration, logging and the
// construction of Grafana clients.
package app

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/dashsync"
	"github.com/agentstation/dashsync/internal/cmd/application"
	"github.com/agentstation/dashsync/pkg/errors"
)

var _ application.Application = (*App)(nil)

// App represents the dashsync application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// clientOptions are applied to every client after the configuration.
	clientOptions []dashsync.Option
}

// New creates a new App instance with the given version information.
// The app is initialized with the loaded configuration, which can be
// replaced using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Client creates a client from the configuration. The given options are
// applied last, so command flags override configured values.
func (a *App) Client(opts ...dashsync.Option) (dashsync.Syncer, error) {
	var all []dashsync.Option
	if a.config.URL != "" {
		all = append(all, dashsync.WithURL(a.config.URL))
	}
	if a.config.Token != "" {
		all = append(all, dashsync.WithToken(a.config.Token))
	}
	if a.config.Cookie != "" {
		all = append(all, dashsync.WithCookie(a.config.Cookie))
	}
	if a.config.Timeout > 0 {
		all = append(all, dashsync.WithHTTPTimeout(a.config.Timeout))
	}
	if a.config.SaveDiff {
		all = append(all, dashsync.WithDiffOutput(a.config.DiffDir))
	}
	all = append(all, a.clientOptions...)
	all = append(all, opts...)

	client, err := dashsync.New(all...)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
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

// WithClientOptions adds options to every client the app creates (useful
// for testing).
func WithClientOptions(opts ...dashsync.Option) Option {
	return func(a *App) error {
		a.clientOptions = append(a.clientOptions, opts...)
		return nil
	}
}
