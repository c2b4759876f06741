// Package pull provides the pull command, which exports every folder and
// dashboard of a Grafana instance to a directory.
package pull

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/dashsync/internal/cmd/application"
	"github.com/agentstation/dashsync/internal/cmd/cmdutil"
	"github.com/agentstation/dashsync/internal/cmd/emoji"
	"github.com/agentstation/dashsync/internal/cmd/output"
	"github.com/agentstation/dashsync/pkg/logging"
)

// NewCommand creates the pull command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var flags *cmdutil.ConnectionFlags

	cmd := &cobra.Command{
		Use:     "pull <dir> [url] [token]",
		Aliases: []string{"export"},
		Short:   "Export Grafana folders and dashboards to a directory",
		Args:    cobra.RangeArgs(1, 3),
		Long: `Pull writes every folder and dashboard of a Grafana instance to <dir>,
one <uid>.json file each, in the form push reads back. The directory is
created if needed and existing files with the same uid are replaced.`,
		Example: `  dashsync pull ./export https://grafana.example.com $TOKEN
  GRAFANA_URL=https://grafana.example.com dashsync pull ./export`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Execute(cmd.Context(), app, cmd.OutOrStdout(), cmd.ErrOrStderr(), flags, args)
		},
	}

	flags = cmdutil.AddConnectionFlags(cmd)

	return cmd
}

// Execute runs one export.
func Execute(ctx context.Context, app application.Application, stdout, stderr io.Writer, flags *cmdutil.ConnectionFlags, args []string) error {
	dir, err := cmdutil.DirArg(args)
	if err != nil {
		return err
	}
	flags.FromArgs(args)

	client, err := app.Client(flags.Options()...)
	if err != nil {
		return err
	}

	ctx = logging.WithLogger(ctx, app.Logger())
	result, err := client.Export(ctx, dir)
	if result == nil {
		return err
	}

	if printErr := output.WriteEntries(stdout, output.DetectFormat(app.OutputFormat()), result.Entries, result); printErr != nil && err == nil {
		err = printErr
	}

	symbol := emoji.Success
	if result.HasErrors() {
		symbol = emoji.Warning
	}
	fmt.Fprintf(stderr, "%s %s\n", symbol, result.Summary())
	return err
}
