package push

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/dashsync"
	"github.com/agentstation/dashsync/internal/cmd/cmdutil"
	"github.com/agentstation/dashsync/pkg/sync"
)

// Flags holds the push command flags.
type Flags struct {
	*cmdutil.ConnectionFlags

	DryRun    bool
	Force     bool
	Remove    bool
	FolderUID string
	Timeout   time.Duration
	SaveDiff  bool
	DiffDir   string
}

func addFlags(cmd *cobra.Command) *Flags {
	flags := &Flags{ConnectionFlags: cmdutil.AddConnectionFlags(cmd)}

	cmd.Flags().BoolVarP(&flags.DryRun, "dry-run", "d", false,
		"Log every change without sending it")
	cmd.Flags().BoolVarP(&flags.Force, "force", "f", false,
		"Write every dashboard, even unchanged ones")
	cmd.Flags().BoolVarP(&flags.Remove, "remove", "r", false,
		"Delete remote folders and dashboards that have no local file")
	cmd.Flags().StringVarP(&flags.FolderUID, "folder-uid", "u", "",
		"Import every dashboard into the folder with this uid")
	cmd.Flags().DurationVar(&flags.Timeout, "run-timeout", 0,
		"Give up on the whole run after this long, 0 for no limit (each request is bounded separately by GRAFANA_TIMEOUT)")
	cmd.Flags().BoolVar(&flags.SaveDiff, "save-diff", false,
		"Write the compared forms to dashboard1.json and dashboard2.json (env GRAFANA_SAVE_DIFF)")
	cmd.Flags().StringVar(&flags.DiffDir, "diff-dir", "",
		"Directory for --save-diff output (env GRAFANA_DIFF_DIR)")

	return flags
}

// SyncOptions builds the reconciliation options from the flags.
func (f *Flags) SyncOptions() []sync.Option {
	opts := []sync.Option{
		sync.WithDryRun(f.DryRun),
		sync.WithForce(f.Force),
		sync.WithRemove(f.Remove),
	}
	if f.FolderUID != "" {
		opts = append(opts, sync.WithFolderUID(f.FolderUID))
	}
	if f.Timeout > 0 {
		opts = append(opts, sync.WithTimeout(f.Timeout))
	}
	return opts
}

// ClientOptions builds the client options the flags override.
func (f *Flags) ClientOptions() []dashsync.Option {
	opts := f.ConnectionFlags.Options()
	if f.SaveDiff || f.DiffDir != "" {
		opts = append(opts, dashsync.WithDiffOutput(f.DiffDir))
	}
	return opts
}
