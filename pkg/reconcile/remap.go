package reconcile

import (
	"github.com/agentstation/dashsync/pkg/dashboards"
	"github.com/agentstation/dashsync/pkg/errors"
)

// PendingID stands in for the id of a folder that a dry run would have
// created. No request is sent in a dry run, so the real id never exists.
const PendingID dashboards.ID = -1

// ResolvedRefs maps folder uids to the ids the remote instance currently
// uses. It is built by the folder phase and cannot be changed afterwards.
type ResolvedRefs struct {
	ids map[dashboards.UID]dashboards.ID
}

// NewResolvedRefs returns a table holding a copy of ids.
func NewResolvedRefs(ids map[dashboards.UID]dashboards.ID) ResolvedRefs {
	cp := make(map[dashboards.UID]dashboards.ID, len(ids))
	for k, v := range ids {
		cp[k] = v
	}
	return ResolvedRefs{ids: cp}
}

// Lookup returns the current id of the folder with the given uid.
func (r ResolvedRefs) Lookup(uid dashboards.UID) (dashboards.ID, bool) {
	id, ok := r.ids[uid]
	return id, ok
}

// Len returns the number of resolved folders.
func (r ResolvedRefs) Len() int {
	return len(r.ids)
}

// refBuilder collects folder ids during the folder phase.
type refBuilder struct {
	ids map[dashboards.UID]dashboards.ID
}

func newRefBuilder() *refBuilder {
	return &refBuilder{ids: make(map[dashboards.UID]dashboards.ID)}
}

func (b *refBuilder) record(uid dashboards.UID, id dashboards.ID) {
	b.ids[uid] = id
}

// freeze ends the folder phase.
func (b *refBuilder) freeze() ResolvedRefs {
	return NewResolvedRefs(b.ids)
}

// Resolve maps the folder id a dashboard recorded at export time to the
// id that folder has now. The general folder resolves to itself without a
// lookup. Any other id must match exactly one local folder, and that
// folder's uid must be in refs.
func Resolve(legacy dashboards.ID, folders []dashboards.Folder, refs ResolvedRefs) (dashboards.ID, error) {
	if legacy == dashboards.GeneralFolderID {
		return dashboards.GeneralFolderID, nil
	}

	var match []dashboards.Folder
	for _, f := range folders {
		if f.LegacyID == legacy {
			match = append(match, f)
		}
	}
	if len(match) != 1 {
		return 0, &errors.ResolutionError{
			LegacyID: int64(legacy),
			Reason:   "ambiguous or missing legacy folder reference",
		}
	}

	uid := match[0].UID
	id, ok := refs.Lookup(uid)
	if !ok {
		return 0, &errors.ResolutionError{
			LegacyID:  int64(legacy),
			FolderUID: string(uid),
			Reason:    "folder not yet resolved",
		}
	}
	return id, nil
}
