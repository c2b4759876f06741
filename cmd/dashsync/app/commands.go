package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/dashsync/cmd/dashsync/cmd/pull"
	"github.com/agentstation/dashsync/cmd/dashsync/cmd/push"
)

// CreatePushCommand creates the push (import) command with app dependencies.
func (a *App) CreatePushCommand() *cobra.Command {
	return push.NewCommand(a)
}

// CreatePullCommand creates the pull (export) command with app dependencies.
func (a *App) CreatePullCommand() *cobra.Command {
	return pull.NewCommand(a)
}

// CreateVersionCommand creates the version command.
func (a *App) CreateVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("dashsync %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}
