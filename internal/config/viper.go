// Package config holds small helpers shared by the CLI configuration layer.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/agentstation/dashsync/pkg/errors"
)

// GetString is a helper to get string values from Viper.
// It checks both OS environment variables and Viper configuration.
func GetString(key string) string {
	osValue := os.Getenv(key)
	viperValue := viper.GetString(key)

	if viperValue == "" && osValue != "" {
		return osValue
	}
	return viperValue
}

// IsSet reports whether key has a non-empty value in Viper or the
// environment. GRAFANA_SAVE_DIFF is switched on this way: any value turns
// it on.
func IsSet(key string) bool {
	return strings.TrimSpace(GetString(key)) != ""
}

// GetDuration reads a duration. Plain integers are taken as seconds.
func GetDuration(key string) (time.Duration, error) {
	raw := strings.TrimSpace(GetString(key))
	if raw == "" {
		return 0, nil
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d, nil
	}
	if d, err := time.ParseDuration(raw + "s"); err == nil {
		return d, nil
	}
	return 0, errors.NewConfigError(key, "invalid duration "+raw, nil)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", errors.NewConfigError("path", "cannot expand "+path, err)
	}
	return expanded, nil
}

// HomeDir returns the user's home directory, or "" if it cannot be found.
func HomeDir() string {
	home, err := homedir.Dir()
	if err != nil {
		return ""
	}
	return home
}
