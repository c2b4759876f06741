// Package dashsync exports Grafana folders and dashboards to a directory of
// JSON definitions, and reconciles such a directory back into a Grafana
// instance.
//
// Example usage:
//
//	client, err := dashsync.New(
//	    dashsync.WithURL("https://grafana.example.com"),
//	    dashsync.WithToken(os.Getenv("GRAFANA_TOKEN")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Copy every folder and dashboard to ./export
//	if _, err := client.Export(ctx, "./export"); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Preview what an import would change
//	result, err := client.Import(ctx, "./export", sync.WithDryRun(true))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Summary())
package dashsync

import (
	"context"

	"github.com/agentstation/dashsync/internal/grafana"
	"github.com/agentstation/dashsync/internal/local"
	"github.com/agentstation/dashsync/internal/transport"
	"github.com/agentstation/dashsync/pkg/differ"
	"github.com/agentstation/dashsync/pkg/sync"
)

// Compile-time interface checks.
var _ Syncer = (*Client)(nil)

// Importer reconciles a local directory into a Grafana instance.
type Importer interface {
	Import(ctx context.Context, dir string, opts ...sync.Option) (*sync.Result, error)
}

// Exporter copies a Grafana instance into a local directory.
type Exporter interface {
	Export(ctx context.Context, dir string) (*ExportResult, error)
}

// Syncer moves definitions in both directions.
type Syncer interface {
	Importer
	Exporter
}

// Client is bound to one Grafana instance. It holds no connection state, so
// it can be reused across runs.
type Client struct {
	config *config
}

// New creates a client. WithURL is required.
func New(opts ...Option) (*Client, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Client{config: cfg}, nil
}

// URL returns the instance address requests are sent to.
func (c *Client) URL() string {
	return c.config.baseURL.String()
}

// remote builds the Grafana API client for one run.
func (c *Client) remote(dryRun bool) (*grafana.Client, error) {
	cfg := c.config
	opts := []transport.Option{
		transport.WithToken(cfg.token),
		transport.WithCookie(cfg.cookie),
		transport.WithErrorBodyFile(cfg.fs, cfg.errorBodyFile),
		transport.WithDryRun(dryRun),
	}
	if cfg.httpClient != nil {
		opts = append(opts, transport.WithHTTPClient(cfg.httpClient))
	} else {
		opts = append(opts, transport.WithTimeout(cfg.httpTimeout))
	}

	tr, err := transport.New(cfg.baseURL.String(), opts...)
	if err != nil {
		return nil, err
	}
	return grafana.New(tr), nil
}

func (c *Client) store(dir string) *local.Store {
	return local.New(dir, local.WithFs(c.config.fs))
}

func (c *Client) differ() differ.Differ {
	if !c.config.saveDiff {
		return differ.New()
	}
	return differ.New(differ.WithDiffOutput(c.config.fs, c.config.diffDir))
}
