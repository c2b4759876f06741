package dashsync

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/agentstation/dashsync/internal/grafana"
	"github.com/agentstation/dashsync/internal/local"
	"github.com/agentstation/dashsync/pkg/dashboards"
	"github.com/agentstation/dashsync/pkg/errors"
	"github.com/agentstation/dashsync/pkg/logging"
	"github.com/agentstation/dashsync/pkg/sync"
)

// ActionExport is the entry action of an exported entity.
const ActionExport = "export"

// ExportResult reports an export run.
type ExportResult struct {
	Dir     string       `json:"dir" yaml:"dir"`
	Entries []sync.Entry `json:"entries" yaml:"entries"`
	Saved   int          `json:"saved" yaml:"saved"`
	Failed  int          `json:"failed" yaml:"failed"`
}

func (r *ExportResult) add(e sync.Entry) {
	r.Entries = append(r.Entries, e)
	if e.Status == sync.StatusFailed {
		r.Failed++
		return
	}
	r.Saved++
}

// HasErrors reports whether any entity could not be exported.
func (r *ExportResult) HasErrors() bool {
	return r.Failed > 0
}

// Summary returns a one-line description of the run.
func (r *ExportResult) Summary() string {
	if r.Failed == 0 {
		return fmt.Sprintf("%d exported to %s", r.Saved, r.Dir)
	}
	return fmt.Sprintf("%d exported to %s, %d failed", r.Saved, r.Dir, r.Failed)
}

// Export writes every folder and dashboard on the instance to dir as
// <uid>.json. An entity that cannot be fetched or written is logged and
// recorded, and the export moves on.
func (c *Client) Export(ctx context.Context, dir string) (*ExportResult, error) {
	ctx = logging.WithRunID(ctx, uuid.NewString())
	ctx = logging.WithOperation(ctx, "export")
	logger := logging.FromContext(ctx)

	remote, err := c.remote(false)
	if err != nil {
		return nil, err
	}
	store := c.store(dir)

	entities, err := remote.Search(ctx)
	if err != nil {
		return nil, errors.WrapResource("list", "remote entities", "", err)
	}
	logger.Info().Int("entities", len(entities)).Str("dir", dir).Msg("Exporting dashboards")

	result := &ExportResult{Dir: dir}
	for _, entity := range entities {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("%w: %w", errors.ErrCanceled, err)
		}

		entry := sync.Entry{
			Kind:     entity.Type,
			UID:      entity.UID,
			Title:    entity.Title,
			Action:   ActionExport,
			Status:   sync.StatusApplied,
			ID:       entity.ID,
			FolderID: entity.FolderID,
		}
		if entity.UID == "" {
			logger.Warn().Str("title", entity.Title).Msg("Remote entity has no uid, skipping it")
			entry.Status = sync.StatusFailed
			entry.Error = "missing uid"
			result.add(entry)
			continue
		}

		path, err := exportOne(ctx, remote, store, entity.UID)
		if err != nil {
			logging.FromContext(logging.WithEntity(ctx, kindLabel(entity.Type), string(entity.UID))).
				Warn().Err(err).Msg("Failed to export")
			entry.Status = sync.StatusFailed
			entry.Error = err.Error()
			result.add(entry)
			continue
		}

		entry.Source = path
		logger.Debug().Str("uid", string(entity.UID)).Str("path", path).Msg("Exported")
		result.add(entry)
	}

	logger.Info().Str("summary", result.Summary()).Msg("Export finished")
	return result, nil
}

func exportOne(ctx context.Context, remote *grafana.Client, store *local.Store, uid dashboards.UID) (string, error) {
	def, err := remote.GetDashboard(ctx, uid)
	if err != nil {
		return "", err
	}
	return store.Save(def)
}

func kindLabel(k dashboards.Kind) string {
	if k == dashboards.KindFolder {
		return "folder"
	}
	return "dashboard"
}
