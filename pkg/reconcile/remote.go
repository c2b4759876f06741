package reconcile

import (
	"context"

	"github.com/agentstation/dashsync/pkg/dashboards"
)

// Remote is the Grafana instance being reconciled. Every non-success
// response is returned as an error carrying the raw response body.
type Remote interface {
	// Search lists every folder and dashboard.
	Search(ctx context.Context) ([]dashboards.RemoteEntity, error)

	// GetFolder fetches one folder by uid.
	GetFolder(ctx context.Context, uid dashboards.UID) (dashboards.RemoteEntity, error)

	// GetDashboard fetches the full current definition of one dashboard.
	GetDashboard(ctx context.Context, uid dashboards.UID) (*dashboards.Definition, error)

	// SaveFolder creates or updates a folder and returns its id.
	SaveFolder(ctx context.Context, w dashboards.FolderWrite) (dashboards.ID, error)

	// SaveDashboard creates or updates a dashboard and returns its id.
	SaveDashboard(ctx context.Context, w dashboards.DashboardWrite) (dashboards.ID, error)

	// DeleteFolder removes a folder by uid.
	DeleteFolder(ctx context.Context, uid dashboards.UID) error

	// DeleteDashboard removes a dashboard by uid.
	DeleteDashboard(ctx context.Context, uid dashboards.UID) error
}

// Fetcher fetches the current remote copy of a dashboard for comparison.
type Fetcher interface {
	GetDashboard(ctx context.Context, uid dashboards.UID) (*dashboards.Definition, error)
}
