package reconcile

import (
	"context"
	"fmt"

	"github.com/agentstation/dashsync/internal/utils/ptr"
	"github.com/agentstation/dashsync/pkg/dashboards"
	"github.com/agentstation/dashsync/pkg/differ"
	"github.com/agentstation/dashsync/pkg/errors"
	"github.com/agentstation/dashsync/pkg/logging"
)

// Planner decides, one entity at a time, what a pass should do.
type Planner struct {
	// Fetcher supplies the current remote copy of a dashboard that
	// exists on both sides. Required unless Force is set.
	Fetcher Fetcher

	// Differ compares the local and remote dashboard bodies.
	Differ differ.Differ

	// Force writes every entity even when nothing changed.
	Force bool

	// Override, when set, replaces folder remapping for every dashboard.
	Override *FolderOverride
}

// FolderOverride places every dashboard in one folder.
type FolderOverride struct {
	UID dashboards.UID
	ID  dashboards.ID
	Err error // set when the folder could not be found
}

// PlanFolder decides what to do with one local folder. Folders are
// matched to remote ones by uid only.
func (p *Planner) PlanFolder(ctx context.Context, local dashboards.Folder, remote *dashboards.Snapshot) Decision {
	d := Decision{
		Kind:   dashboards.KindFolder,
		UID:    local.UID,
		Title:  local.Title,
		Source: local.Source,
	}

	matches := remote.MatchFolders(local.UID)
	if len(matches) == 0 {
		d.Action = Create
		d.Reason = "not found remotely"
		return d
	}

	match := matches[0]
	d.RemoteID = match.ID

	switch {
	case len(matches) > 1:
		logging.FromContext(ctx).Warn().
			Int("matches", len(matches)).
			Int64("remote_id", int64(match.ID)).
			Msg("Duplicate folder uid on remote, updating the first match")
		d.Action = Overwrite
		d.Reason = "duplicate uid on remote"
	case p.Force:
		d.Action = Overwrite
		d.Reason = "forced"
	case match.Title != local.Title:
		d.Action = Overwrite
		d.Reason = fmt.Sprintf("title changed from %q", match.Title)
	default:
		d.Action = Skip
		d.Reason = "unchanged"
		return d
	}

	d.Overwrite = true
	return d
}

// PlanDashboard decides what to do with one local dashboard. The folder
// reference is resolved first; if that fails the dashboard is abandoned
// and the returned error is a *errors.ResolutionError.
func (p *Planner) PlanDashboard(
	ctx context.Context,
	local dashboards.Dashboard,
	remote *dashboards.Snapshot,
	folders []dashboards.Folder,
	refs ResolvedRefs,
) (Decision, error) {
	logger := logging.FromContext(ctx)

	d := Decision{
		Kind:   dashboards.KindDashboard,
		UID:    local.UID,
		Title:  local.Title,
		Source: local.Source,
		Body:   local.Body,
	}

	folderID, err := p.folderID(local, folders, refs)
	if err != nil {
		d.Reason = err.Error()
		return d, err
	}
	d.FolderID = folderID

	matches := remote.MatchDashboards(local.UID)
	if len(matches) == 0 {
		d.Action = Create
		d.Reason = "not found remotely"
		return d, nil
	}

	if len(matches) > 1 {
		logger.Warn().Int("matches", len(matches)).Msg("Duplicate dashboard uid on remote, replacing the first match")
	}
	match := matches[0]
	d.RemoteID = match.ID
	if match.HasID() {
		d.PriorID = ptr.To(match.ID)
	} else {
		logger.Warn().Msg("Remote dashboard has no id, writing without one")
	}

	d.Action = Overwrite
	d.Overwrite = true
	d.Reason = "forced"

	if p.Force {
		return d, nil
	}

	equal, err := p.compare(ctx, local)
	switch {
	case err != nil:
		logger.Warn().Err(err).Msg("Could not compare with remote dashboard, writing it")
		d.Reason = "comparison failed"
	case equal:
		d.Action = Skip
		d.Overwrite = false
		d.Reason = "unchanged"
	default:
		d.Reason = "content changed"
	}
	return d, nil
}

func (p *Planner) folderID(local dashboards.Dashboard, folders []dashboards.Folder, refs ResolvedRefs) (dashboards.ID, error) {
	if p.Override == nil {
		return Resolve(local.FolderLegacyID, folders, refs)
	}
	if p.Override.Err != nil {
		return 0, &errors.ResolutionError{
			LegacyID:  int64(local.FolderLegacyID),
			FolderUID: string(p.Override.UID),
			Reason:    p.Override.Err.Error(),
		}
	}
	return p.Override.ID, nil
}

func (p *Planner) compare(ctx context.Context, local dashboards.Dashboard) (bool, error) {
	if p.Fetcher == nil {
		return false, errors.New("no fetcher configured")
	}
	current, err := p.Fetcher.GetDashboard(ctx, local.UID)
	if err != nil {
		return false, err
	}
	if current == nil || current.Dashboard == nil {
		return false, &errors.ValidationError{Field: "dashboard", Message: "remote copy has no dashboard"}
	}

	d := p.Differ
	if d == nil {
		d = differ.New()
	}
	return d.Equal(ctx, local.Body, current.Dashboard)
}
