// Package differ decides whether a local dashboard body and the copy
// Grafana currently holds are the same for reconciliation purposes.
//
// Grafana rewrites a dashboard's "id" and "version" on every save, so those
// two fields are removed before comparing. Nothing else is ignored: any
// other drift, however small, counts as a change.
package differ

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/afero"

	"github.com/agentstation/dashsync/pkg/constants"
	"github.com/agentstation/dashsync/pkg/dashboards"
	"github.com/agentstation/dashsync/pkg/errors"
	"github.com/agentstation/dashsync/pkg/logging"
)

// IgnoredFields are the top-level fields the remote service injects on save.
var IgnoredFields = []string{"id", "version"}

// Differ compares dashboard bodies.
type Differ interface {
	// Equal reports whether local and remote differ only in ignored fields.
	Equal(ctx context.Context, local, remote dashboards.Body) (bool, error)

	// Normalize returns the canonical form of body used for comparison.
	Normalize(body dashboards.Body) ([]byte, error)
}

// differ is the default implementation of Differ.
type differ struct {
	fs      afero.Fs
	dumpDir string
	dump    bool
}

// New creates a Differ with default settings.
func New(opts ...Option) Differ {
	d := &differ{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Normalize strips the ignored fields from a copy of body and renders it as
// indented JSON with sorted keys. The input is not modified.
func (d *differ) Normalize(body dashboards.Body) ([]byte, error) {
	stripped := body.Clone()
	if stripped == nil {
		stripped = dashboards.Body{}
	}
	for _, field := range IgnoredFields {
		delete(stripped, field)
	}
	out, err := json.MarshalIndent(stripped, "", "  ")
	if err != nil {
		return nil, errors.WrapParse("json", "", err)
	}
	return out, nil
}

// Equal compares the normalized forms of local and remote.
func (d *differ) Equal(ctx context.Context, local, remote dashboards.Body) (bool, error) {
	left, err := d.Normalize(local)
	if err != nil {
		return false, err
	}
	right, err := d.Normalize(remote)
	if err != nil {
		return false, err
	}

	logger := logging.FromContext(ctx)

	if d.dump {
		if err := d.writeDump(left, right); err != nil {
			logger.Warn().Err(err).Msg("Could not save normalized dashboards")
		} else {
			logger.Debug().Str("dir", d.dumpDir).Msg("Saved normalized dashboards")
		}
	}

	equal := string(left) == string(right)
	if !equal {
		if e := logger.Debug(); e.Enabled() {
			added, removed := lineChanges(string(left), string(right))
			e.Int("lines_added", added).Int("lines_removed", removed).Msg("Dashboard differs from remote")
		}
	}
	return equal, nil
}

func (d *differ) writeDump(local, remote []byte) error {
	if err := d.fs.MkdirAll(d.dumpDir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", d.dumpDir, err)
	}
	for name, data := range map[string][]byte{
		constants.LocalDiffFile:  local,
		constants.RemoteDiffFile: remote,
	} {
		path := filepath.Join(d.dumpDir, name)
		if err := afero.WriteFile(d.fs, path, data, constants.FilePermissions); err != nil {
			return errors.WrapIO("write", path, err)
		}
	}
	return nil
}

// lineChanges counts the lines remote adds and removes relative to local.
func lineChanges(local, remote string) (added, removed int) {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(local, remote)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
	for _, diff := range diffs {
		n := strings.Count(diff.Text, "\n")
		switch diff.Type {
		case diffmatchpatch.DiffInsert:
			added += n
		case diffmatchpatch.DiffDelete:
			removed += n
		}
	}
	return added, removed
}
