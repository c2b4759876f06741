// Package sync provides the options and result types of an import run.
package sync

import (
	"time"

	"github.com/agentstation/dashsync/pkg/dashboards"
	"github.com/agentstation/dashsync/pkg/errors"
)

// Options controls one reconciliation pass.
type Options struct {
	DryRun  bool          // Plan and log every write without sending it
	Force   bool          // Write every entity even when the remote copy is unchanged
	Remove  bool          // Delete remote entities that have no local definition
	Timeout time.Duration // Timeout for the entire run, 0 for none

	// FolderUID, when set, places every dashboard in this folder instead
	// of the folder its export recorded.
	FolderUID dashboards.UID
}

// Apply applies the given options to the sync options.
func (s *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Defaults returns the default sync options.
func Defaults() *Options {
	return &Options{}
}

// Option is a function that configures sync Options.
type Option func(*Options)

// Validate checks if the sync options are valid.
func (s *Options) Validate() error {
	if s.Timeout < 0 {
		return &errors.ValidationError{
			Field:   "Timeout",
			Value:   s.Timeout,
			Message: "timeout must be non-negative",
		}
	}
	return nil
}

// WithDryRun configures dry run mode.
func WithDryRun(dryRun bool) Option {
	return func(opts *Options) {
		opts.DryRun = dryRun
	}
}

// WithForce configures whether unchanged entities are written anyway.
func WithForce(force bool) Option {
	return func(opts *Options) {
		opts.Force = force
	}
}

// WithRemove configures deletion of remote entities missing locally.
func WithRemove(remove bool) Option {
	return func(opts *Options) {
		opts.Remove = remove
	}
}

// WithFolderUID imports every dashboard into the folder with the given uid.
func WithFolderUID(uid string) Option {
	return func(opts *Options) {
		opts.FolderUID = dashboards.UID(uid)
	}
}

// WithTimeout configures the run timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(opts *Options) {
		opts.Timeout = timeout
	}
}
