package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/dashsync/internal/config"
	"github.com/agentstation/dashsync/pkg/errors"
)

// Environment variables read by the CLI. The same names, lower-cased, are
// accepted as keys in the config file.
const (
	EnvURL      = "GRAFANA_URL"
	EnvToken    = "GRAFANA_TOKEN"
	EnvCookie   = "GRAFANA_COOKIE"
	EnvSaveDiff = "GRAFANA_SAVE_DIFF"
	EnvDiffDir  = "GRAFANA_DIFF_DIR"
	EnvTimeout  = "GRAFANA_TIMEOUT"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Grafana connection
	URL     string
	Token   string
	Cookie  string
	Timeout time.Duration

	// Normalized dashboard dumps
	SaveDiff bool
	DiffDir  string

	// Logging configuration. LogLevel is the --log-level flag, EnvLogLevel
	// the LOG_LEVEL variable.
	LogLevel    string
	EnvLogLevel string
	LogFormat   string
	LogOutput   string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.dashsync.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	bindGrafanaEnv()

	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else if home := config.HomeDir(); home != "" {
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".dashsync")
	}

	// a missing config file is fine
	_ = viper.ReadInConfig()

	timeout, err := config.GetDuration(EnvTimeout)
	if err != nil {
		return nil, err
	}
	diffDir, err := config.ExpandPath(config.GetString(EnvDiffDir))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),
		NoColor: viper.GetBool("no-color"),
		Format:  viper.GetString("format"),

		ConfigFile: viper.ConfigFileUsed(),

		URL:     config.GetString(EnvURL),
		Token:   config.GetString(EnvToken),
		Cookie:  config.GetString(EnvCookie),
		Timeout: timeout,

		SaveDiff: config.IsSet(EnvSaveDiff),
		DiffDir:  diffDir,

		EnvLogLevel: os.Getenv("LOG_LEVEL"),
		LogFormat:   getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput:   getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	return cfg, nil
}

// Reload reads an explicit config file given with --config and takes the
// Grafana settings from it. Unlike the default file, it must exist.
func (c *Config) Reload(file string) error {
	viper.Set("config", file)
	viper.SetConfigFile(file)
	if err := viper.ReadInConfig(); err != nil {
		return errors.NewConfigError("config", "cannot read "+file, err)
	}

	loaded, err := LoadConfig()
	if err != nil {
		return err
	}
	c.ConfigFile = loaded.ConfigFile
	c.URL = loaded.URL
	c.Token = loaded.Token
	c.Cookie = loaded.Cookie
	c.Timeout = loaded.Timeout
	c.SaveDiff = loaded.SaveDiff
	c.DiffDir = loaded.DiffDir
	return nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

func bindGrafanaEnv() {
	for _, key := range []string{EnvURL, EnvToken, EnvCookie, EnvSaveDiff, EnvDiffDir, EnvTimeout} {
		// BindEnv only fails without a key
		_ = viper.BindEnv(key)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
