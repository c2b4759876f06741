// Package constants provides shared constants used throughout the dashsync codebase.
// This includes timeouts, file permissions, and the file names and API paths
// that must stay consistent between export and import.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to the Grafana API
	DefaultHTTPTimeout = 30 * time.Second

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute

	// ShutdownTimeout bounds cleanup after a failed command
	ShutdownTimeout = 5 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Definition file constants
const (
	// DefinitionExt is the extension of exported folder and dashboard files
	DefinitionExt = ".json"

	// LocalDiffFile receives the normalized local dashboard when diff dumps are enabled
	LocalDiffFile = "dashboard1.json"

	// RemoteDiffFile receives the normalized remote dashboard when diff dumps are enabled
	RemoteDiffFile = "dashboard2.json"

	// ErrorSnippetLength is how much of an unparseable response body is kept in errors
	ErrorSnippetLength = 40

	// ErrorBodyFile receives the raw body of a response that was not valid JSON
	ErrorBodyFile = "error.html"
)

// Grafana API paths, relative to the instance base address
const (
	SearchPath          = "api/search"
	FoldersPath         = "api/folders"
	DashboardsDBPath    = "api/dashboards/db"
	DashboardsByUIDPath = "api/dashboards/uid"
)
