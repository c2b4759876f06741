// Package push provides the push command, which reconciles a directory of
// exported definitions into a Grafana instance.
package push

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/dashsync/internal/cmd/application"
)

// NewCommand creates the push command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var flags *Flags

	cmd := &cobra.Command{
		Use:     "push <dir> [url] [token]",
		Aliases: []string{"import"},
		Short:   "Import a directory of dashboards into Grafana",
		Args:    cobra.RangeArgs(1, 3),
		Long: `Push reconciles the *.json definitions in <dir> into a Grafana instance.

The command will:
• Create or rename every folder, matched by uid
• Place each dashboard in its folder's id on the target instance
• Compare each dashboard with the remote copy, ignoring id and version
• Write only what changed (all of it with --force)
• Delete remote entities without a local file (with --remove)

Problems with one file or entity are reported and the run continues.`,
		Example: `  dashsync push ./export https://grafana.example.com $TOKEN
  dashsync push ./export --dry-run             # Preview changes
  dashsync push ./export --force               # Write everything
  dashsync push ./export --remove              # Also delete what is not in ./export
  dashsync push ./export -u team-a             # Put every dashboard in folder team-a`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Execute(cmd.Context(), app, cmd.OutOrStdout(), cmd.ErrOrStderr(), flags, args)
		},
	}

	flags = addFlags(cmd)

	return cmd
}
