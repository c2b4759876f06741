package dashboards

import (
	"github.com/agentstation/dashsync/pkg/errors"
)

// LocalSet is the local side of a reconciliation pass.
type LocalSet struct {
	Folders    []Folder
	Dashboards []Dashboard

	// FolderUIDs and DashboardUIDs hold every uid declared by a definition
	// of that kind, including definitions rejected as defective. The
	// deletion sweep consults these so a broken file never causes its
	// remote counterpart to be removed.
	FolderUIDs    map[UID]bool
	DashboardUIDs map[UID]bool

	// Defects lists the definitions that were skipped and why.
	Defects []error
}

// Partition splits definitions into folders and dashboards by their
// meta.isFolder marker. Definitions of unknown kind or missing required
// fields are recorded as defects and left out.
func Partition(defs []*Definition) *LocalSet {
	set := &LocalSet{
		FolderUIDs:    make(map[UID]bool),
		DashboardUIDs: make(map[UID]bool),
	}

	for _, def := range defs {
		kind, ok := def.Kind()
		if !ok {
			set.Defects = append(set.Defects, &errors.ValidationError{
				Source:  def.Source,
				Field:   "meta.isFolder",
				Value:   def.Meta["isFolder"],
				Message: "cannot tell folder from dashboard",
			})
			continue
		}

		switch kind {
		case KindFolder:
			if uid := def.UID(); uid != "" {
				set.FolderUIDs[uid] = true
			}
			folder, err := def.AsFolder()
			if err != nil {
				set.Defects = append(set.Defects, err)
				continue
			}
			set.Folders = append(set.Folders, folder)
		case KindDashboard:
			if uid := def.UID(); uid != "" {
				set.DashboardUIDs[uid] = true
			}
			dashboard, err := def.AsDashboard()
			if err != nil {
				set.Defects = append(set.Defects, err)
				continue
			}
			set.Dashboards = append(set.Dashboards, dashboard)
		}
	}

	return set
}

// FoldersWithLegacyID returns the local folders whose exported id equals id.
func (s *LocalSet) FoldersWithLegacyID(id ID) []Folder {
	var out []Folder
	for _, f := range s.Folders {
		if f.LegacyID == id {
			out = append(out, f)
		}
	}
	return out
}

// Declares reports whether a local definition of the given kind carries uid.
func (s *LocalSet) Declares(kind Kind, uid UID) bool {
	switch kind {
	case KindFolder:
		return s.FolderUIDs[uid]
	case KindDashboard:
		return s.DashboardUIDs[uid]
	default:
		return false
	}
}
