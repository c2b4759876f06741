package app

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/agentstation/dashsync/pkg/logging"
)

// NewLogger creates a configured logger based on the application configuration.
// Log level precedence (highest to lowest):
//  1. --log-level flag (explicit always wins)
//  2. -v/--verbose flag (shortcut for debug)
//  3. -q/--quiet flag (shortcut for warn)
//  4. LOG_LEVEL environment variable
//  5. Default (info)
func NewLogger(config *Config) zerolog.Logger {
	return logging.NewLoggerFromConfig(loggerConfig(config))
}

// loggerConfig layers the application configuration over the logging defaults.
func loggerConfig(config *Config) *logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = determineLogLevel(config)
	cfg.AddCaller = cfg.Level == "trace"
	cfg.NoColor = cfg.NoColor || config.NoColor
	if config.LogFormat != "" {
		cfg.Format = config.LogFormat
	}
	if config.LogOutput != "" {
		cfg.Output = config.LogOutput
	}
	return cfg
}

func determineLogLevel(config *Config) string {
	if config.LogLevel != "" {
		return validateLogLevel(config.LogLevel)
	}

	if config.Verbose && config.Quiet {
		fmt.Fprintf(os.Stderr, "Warning: both --verbose and --quiet specified, using --quiet\n")
		return "warn"
	}
	if config.Verbose {
		return "debug"
	}
	if config.Quiet {
		return "warn"
	}

	if config.EnvLogLevel != "" {
		return validateLogLevel(config.EnvLogLevel)
	}
	return "info"
}

// validateLogLevel returns level if it is known, or "info" with a warning.
func validateLogLevel(level string) string {
	switch level {
	case "trace", "debug", "info", "warn", "error":
		return level
	}
	fmt.Fprintf(os.Stderr, "Warning: invalid log level %q, using %q\n", level, "info")
	return "info"
}
