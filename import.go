package dashsync

import (
	"context"

	"github.com/google/uuid"

	"github.com/agentstation/dashsync/pkg/logging"
	"github.com/agentstation/dashsync/pkg/reconcile"
	"github.com/agentstation/dashsync/pkg/sync"
)

// Import reconciles the definitions in dir into the Grafana instance.
//
// The directory is read before anything is sent. A missing directory, one
// without definitions, a failed remote listing or cancellation end the run
// with an error. Problems with a single file or entity are recorded in the
// result instead.
func (c *Client) Import(ctx context.Context, dir string, opts ...sync.Option) (*sync.Result, error) {
	options := sync.Defaults().Apply(opts...)
	if err := options.Validate(); err != nil {
		return nil, err
	}

	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	ctx = logging.WithRunID(ctx, uuid.NewString())
	ctx = logging.WithOperation(ctx, "import")
	logger := logging.FromContext(ctx)

	set, err := c.store(dir).LoadSet(ctx)
	if err != nil {
		return nil, err
	}

	remote, err := c.remote(options.DryRun)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("dir", dir).
		Str("url", c.URL()).
		Bool("force", options.Force).
		Bool("remove", options.Remove).
		Msg("Importing dashboards")

	return reconcile.New(remote, c.differ(), options).Run(ctx, set)
}
