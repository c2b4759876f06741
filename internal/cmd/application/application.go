// Package application defines what commands need from the CLI application.
// Commands accept this interface rather than the concrete App so they can
// be tested with Mock.
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/dashsync"
)

// Application is the dependency set shared by all commands.
type Application interface {
	// Client returns a client for the configured Grafana instance. The
	// options override the configuration, so command flags win.
	Client(opts ...dashsync.Option) (dashsync.Syncer, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table).
	OutputFormat() string

	// Version returns the application version string.
	Version() string
}
