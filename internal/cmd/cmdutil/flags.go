// Package cmdutil provides flags shared by the dashsync commands.
package cmdutil

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/dashsync"
	"github.com/agentstation/dashsync/internal/config"
)

// ConnectionFlags select and authenticate the Grafana instance.
type ConnectionFlags struct {
	URL    string
	Token  string
	Cookie string
}

// AddConnectionFlags adds the connection flags to a command.
func AddConnectionFlags(cmd *cobra.Command) *ConnectionFlags {
	flags := &ConnectionFlags{}

	cmd.Flags().StringVar(&flags.URL, "url", "",
		"Grafana URL; any path is ignored (env GRAFANA_URL)")
	cmd.Flags().StringVar(&flags.Token, "token", "",
		"Service account or API token (env GRAFANA_TOKEN)")
	cmd.Flags().StringVarP(&flags.Cookie, "cookie", "c", "",
		"Cookie header sent with every request (env GRAFANA_COOKIE)")

	return flags
}

// FromArgs fills URL and token from the positional arguments that follow
// the directory, unless the matching flag was given.
func (f *ConnectionFlags) FromArgs(args []string) {
	if len(args) > 1 && f.URL == "" {
		f.URL = args[1]
	}
	if len(args) > 2 && f.Token == "" {
		f.Token = args[2]
	}
}

// Options turns the flags that were set into client options.
func (f *ConnectionFlags) Options() []dashsync.Option {
	var opts []dashsync.Option
	if f.URL != "" {
		opts = append(opts, dashsync.WithURL(f.URL))
	}
	if f.Token != "" {
		opts = append(opts, dashsync.WithToken(f.Token))
	}
	if f.Cookie != "" {
		opts = append(opts, dashsync.WithCookie(f.Cookie))
	}
	return opts
}

// DirArg returns the directory argument with ~ expanded.
func DirArg(args []string) (string, error) {
	if len(args) == 0 {
		return "", nil
	}
	return config.ExpandPath(args[0])
}
