package push

import (
	"context"
	"io"

	"github.com/agentstation/dashsync/internal/cmd/application"
	"github.com/agentstation/dashsync/internal/cmd/cmdutil"
	"github.com/agentstation/dashsync/internal/cmd/output"
	"github.com/agentstation/dashsync/pkg/logging"
)

// Execute runs one import. Only a run-level failure is returned as an
// error; per-entity failures are part of the printed result.
func Execute(ctx context.Context, app application.Application, stdout, stderr io.Writer, flags *Flags, args []string) error {
	dir, err := cmdutil.DirArg(args)
	if err != nil {
		return err
	}
	flags.FromArgs(args)

	client, err := app.Client(flags.ClientOptions()...)
	if err != nil {
		return err
	}

	ctx = logging.WithLogger(ctx, app.Logger())
	result, err := client.Import(ctx, dir, flags.SyncOptions()...)
	if result != nil {
		if printErr := printResult(stdout, stderr, output.DetectFormat(app.OutputFormat()), result); printErr != nil && err == nil {
			err = printErr
		}
	}
	return err
}
