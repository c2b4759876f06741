package reconcile

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/agentstation/dashsync/internal/utils/ptr"
	"github.com/agentstation/dashsync/pkg/dashboards"
	"github.com/agentstation/dashsync/pkg/differ"
	"github.com/agentstation/dashsync/pkg/errors"
	"github.com/agentstation/dashsync/pkg/logging"
	"github.com/agentstation/dashsync/pkg/sync"
)

// Reconciler runs reconciliation passes against one remote instance.
type Reconciler struct {
	remote Remote
	differ differ.Differ
	opts   *sync.Options
}

// New creates a Reconciler. A nil differ uses differ.New(), nil options
// use sync.Defaults().
func New(remote Remote, d differ.Differ, opts *sync.Options) *Reconciler {
	if d == nil {
		d = differ.New()
	}
	if opts == nil {
		opts = sync.Defaults()
	}
	return &Reconciler{remote: remote, differ: d, opts: opts}
}

// Run makes the remote instance match local. Entities are handled one at
// a time: all folders, then all dashboards, then the deletion sweep when
// enabled. A failure on one entity is recorded in the result and the run
// moves on. Only a failed remote listing, or cancellation, stops the run;
// in the latter case the partial result is returned with the error.
func (r *Reconciler) Run(ctx context.Context, local *dashboards.LocalSet) (*sync.Result, error) {
	logger := logging.FromContext(ctx)
	result := &sync.Result{DryRun: r.opts.DryRun}

	for _, defect := range local.Defects {
		logger.Warn().Err(defect).Msg("Invalid definition, ignoring it")
		result.Add(defectEntry(defect))
	}

	entities, err := r.remote.Search(ctx)
	if err != nil {
		return result, errors.WrapResource("list", "remote entities", "", err)
	}
	snapshot := dashboards.NewSnapshot(entities)
	logger.Info().
		Int("remote_folders", len(snapshot.Folders)).
		Int("remote_dashboards", len(snapshot.Dashboards)).
		Int("local_folders", len(local.Folders)).
		Int("local_dashboards", len(local.Dashboards)).
		Bool("dry_run", r.opts.DryRun).
		Msg("Starting reconciliation")

	planner := &Planner{Fetcher: r.remote, Differ: r.differ, Force: r.opts.Force}

	refs, err := r.reconcileFolders(ctx, planner, local, snapshot, result)
	if err != nil {
		return result, err
	}

	if r.opts.FolderUID != "" {
		planner.Override = r.resolveOverride(ctx, r.opts.FolderUID, refs, snapshot)
	}

	if err := r.reconcileDashboards(ctx, planner, local, snapshot, refs, result); err != nil {
		return result, err
	}

	if r.opts.Remove {
		if err := r.sweep(ctx, local, snapshot, result); err != nil {
			return result, err
		}
	}

	logger.Info().Str("summary", result.Summary()).Msg("Reconciliation finished")
	return result, nil
}

// reconcileFolders is phase one. It returns the frozen table of current
// folder ids once every local folder has been handled.
func (r *Reconciler) reconcileFolders(ctx context.Context, planner *Planner, local *dashboards.LocalSet, snapshot *dashboards.Snapshot, result *sync.Result) (ResolvedRefs, error) {
	refs := newRefBuilder()

	for _, folder := range local.Folders {
		if err := checkCanceled(ctx); err != nil {
			return refs.freeze(), err
		}

		fctx := logging.WithSource(logging.WithEntity(ctx, dashboards.KindFolder.String(), folder.UID.String()), folder.Source)
		logger := logging.FromContext(fctx)

		d := planner.PlanFolder(fctx, folder, snapshot)
		entry := decisionEntry(d)

		switch d.Action {
		case Skip:
			logger.Info().Str("title", folder.Title).Msg("No changes, skipping folder")
			entry.Status = sync.StatusNoop
			if d.RemoteID != 0 {
				refs.record(folder.UID, d.RemoteID)
			} else {
				logger.Warn().Msg("Remote folder has no id, dashboards in it cannot be placed")
			}
		default:
			logEvent(logger.Info(), d).Msg(writeMessage(d))
			id, err := r.remote.SaveFolder(fctx, dashboards.FolderWrite{
				UID:       folder.UID,
				Title:     folder.Title,
				Overwrite: d.Overwrite,
			})
			if err == nil && id == 0 && !r.opts.DryRun {
				err = errors.NewResourceError("save", "folder", folder.UID.String(), errors.New("response carried no folder id"))
			}

			switch {
			case err != nil:
				logger.Error().Err(err).Str("title", folder.Title).Msg("Failed to save folder")
				entry.Status = sync.StatusFailed
				entry.Error = err.Error()
				if d.RemoteID != 0 {
					refs.record(folder.UID, d.RemoteID)
				}
			case r.opts.DryRun:
				entry.Status = sync.StatusPlanned
				pending := d.RemoteID
				if pending == 0 {
					pending = PendingID
				}
				refs.record(folder.UID, pending)
			default:
				logger.Info().Int64("folder_id", int64(id)).Msg("Saved folder")
				entry.Status = sync.StatusApplied
				entry.ID = id
				refs.record(folder.UID, id)
			}
		}

		result.Add(entry)
	}

	return refs.freeze(), nil
}

// reconcileDashboards is phase two. refs is read-only here.
func (r *Reconciler) reconcileDashboards(ctx context.Context, planner *Planner, local *dashboards.LocalSet, snapshot *dashboards.Snapshot, refs ResolvedRefs, result *sync.Result) error {
	for _, dash := range local.Dashboards {
		if err := checkCanceled(ctx); err != nil {
			return err
		}

		dctx := logging.WithSource(logging.WithEntity(ctx, dashboards.KindDashboard.String(), dash.UID.String()), dash.Source)
		logger := logging.FromContext(dctx)

		d, err := planner.PlanDashboard(dctx, dash, snapshot, local.Folders, refs)
		entry := decisionEntry(d)
		if err != nil {
			logger.Warn().Err(err).Str("title", dash.Title).Msg("Cannot place dashboard, ignoring it")
			entry.Action = ""
			entry.Status = sync.StatusFailed
			entry.Error = err.Error()
			result.Add(entry)
			continue
		}

		if d.Action == Skip {
			logger.Info().Str("title", dash.Title).Msg("No changes, skipping dashboard")
			entry.Status = sync.StatusNoop
			result.Add(entry)
			continue
		}

		logEvent(logger.Info(), d).Msg(writeMessage(d))
		id, err := r.remote.SaveDashboard(dctx, dashboards.DashboardWrite{
			Body:      d.Body,
			FolderID:  d.FolderID,
			PriorID:   d.PriorID,
			Overwrite: d.Overwrite,
		})

		switch {
		case err != nil:
			logger.Error().Err(err).Str("title", dash.Title).Msg("Failed to save dashboard")
			entry.Status = sync.StatusFailed
			entry.Error = err.Error()
		case r.opts.DryRun:
			entry.Status = sync.StatusPlanned
		default:
			logger.Info().Int64("dashboard_id", int64(id)).Msg("Saved dashboard")
			entry.Status = sync.StatusApplied
			entry.ID = id
		}
		result.Add(entry)
	}
	return nil
}

// sweep deletes remote entities with no local definition. The folder
// dashboards were moved into is kept.
func (r *Reconciler) sweep(ctx context.Context, local *dashboards.LocalSet, snapshot *dashboards.Snapshot, result *sync.Result) error {
	var keep []dashboards.UID
	if r.opts.FolderUID != "" {
		keep = append(keep, r.opts.FolderUID)
	}

	for _, d := range Sweep(snapshot, local, keep...) {
		if err := checkCanceled(ctx); err != nil {
			return err
		}

		sctx := logging.WithEntity(ctx, d.Kind.String(), d.UID.String())
		logger := logging.FromContext(sctx)
		entry := decisionEntry(d)

		if d.UID == "" {
			logger.Warn().Str("title", d.Title).Int64("remote_id", int64(d.RemoteID)).Msg("Remote entity has no uid, not deleting it")
			entry.Status = sync.StatusNoop
			entry.Error = "remote entity has no uid"
			result.Add(entry)
			continue
		}

		logger.Info().Str("title", d.Title).Msgf("Deleting %s", kindName(d.Kind))

		var err error
		if d.Kind == dashboards.KindFolder {
			err = r.remote.DeleteFolder(sctx, d.UID)
		} else {
			err = r.remote.DeleteDashboard(sctx, d.UID)
		}

		switch {
		case err != nil:
			logger.Error().Err(err).Str("title", d.Title).Msg("Failed to delete")
			entry.Status = sync.StatusFailed
			entry.Error = err.Error()
		case r.opts.DryRun:
			entry.Status = sync.StatusPlanned
		default:
			entry.Status = sync.StatusApplied
		}
		result.Add(entry)
	}
	return nil
}

// resolveOverride finds the current id of the folder every dashboard is
// being moved into: from this run's folders, then the listing, then a
// direct lookup.
func (r *Reconciler) resolveOverride(ctx context.Context, uid dashboards.UID, refs ResolvedRefs, snapshot *dashboards.Snapshot) *FolderOverride {
	logger := logging.FromContext(ctx)
	o := &FolderOverride{UID: uid}

	if id, ok := refs.Lookup(uid); ok {
		o.ID = id
		return o
	}
	if m := snapshot.MatchFolders(uid); len(m) > 0 && m[0].HasID() {
		o.ID = m[0].ID
		return o
	}

	folder, err := r.remote.GetFolder(ctx, uid)
	switch {
	case errors.IsNotFound(err):
		o.Err = errors.NewNotFoundError("target folder", uid.String())
	case err != nil:
		o.Err = fmt.Errorf("target folder not found: %w", err)
	case !folder.HasID():
		o.Err = errors.New("target folder has no id")
	default:
		o.ID = folder.ID
	}
	if o.Err != nil {
		logger.Error().Err(o.Err).Str("folder_uid", uid.String()).Msg("Cannot resolve target folder")
	} else {
		logger.Info().Str("folder_uid", uid.String()).Int64("folder_id", int64(o.ID)).Msg("Importing all dashboards into target folder")
	}
	return o
}

func checkCanceled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrCanceled, err)
	}
	return nil
}

func decisionEntry(d Decision) sync.Entry {
	return sync.Entry{
		Kind:     d.Kind,
		UID:      d.UID,
		Title:    d.Title,
		Action:   d.Action.String(),
		ID:       d.RemoteID,
		FolderID: d.FolderID,
		Source:   d.Source,
	}
}

func defectEntry(err error) sync.Entry {
	entry := sync.Entry{Status: sync.StatusInvalid, Error: err.Error()}
	var ve *errors.ValidationError
	if errors.As(err, &ve) {
		entry.Source = ve.Source
	}
	var pe *errors.ParseError
	if errors.As(err, &pe) {
		entry.Source = pe.File
	}
	return entry
}

func logEvent(e *zerolog.Event, d Decision) *zerolog.Event {
	e = e.Str("title", d.Title).Str("reason", d.Reason)
	if d.Kind == dashboards.KindDashboard {
		e = e.Int64("folder_id", int64(d.FolderID)).
			Int64("prior_id", int64(ptr.ValueOr(d.PriorID, 0)))
	}
	return e
}

func writeMessage(d Decision) string {
	verb := "Creating"
	if d.Action == Overwrite {
		verb = "Overwriting"
	}
	return verb + " " + kindName(d.Kind)
}

func kindName(k dashboards.Kind) string {
	if k == dashboards.KindFolder {
		return "folder"
	}
	return "dashboard"
}
