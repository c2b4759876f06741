package reconcile

import (
	"slices"

	"github.com/agentstation/dashsync/pkg/dashboards"
)

// Sweep returns a Delete decision for every remote entity whose uid no
// local definition of the same kind declares. Dashboards come before
// folders so no folder is removed while it still holds a dashboard this
// sweep is about to delete.
//
// Folders named in keep are never deleted, even without a local
// definition. Deleting a folder deletes the dashboards inside it.
func Sweep(remote *dashboards.Snapshot, local *dashboards.LocalSet, keep ...dashboards.UID) []Decision {
	var out []Decision
	for _, e := range remote.Dashboards {
		if !local.Declares(dashboards.KindDashboard, e.UID) {
			out = append(out, deletion(e))
		}
	}
	for _, e := range remote.Folders {
		if !local.Declares(dashboards.KindFolder, e.UID) && !slices.Contains(keep, e.UID) {
			out = append(out, deletion(e))
		}
	}
	return out
}

func deletion(e dashboards.RemoteEntity) Decision {
	return Decision{
		Action:   Delete,
		Kind:     e.Type,
		UID:      e.UID,
		Title:    e.Title,
		RemoteID: e.ID,
		Reason:   "no local definition",
	}
}
