// Package dashboards holds the in-memory model of Grafana folders and
// dashboards, as read from a local export directory or listed by a
// remote instance.
//
// Entities are plain values joined by UID. Two entities with different
// UIDs are never the same entity, whatever their titles say.
package dashboards

import "strconv"

// Kind is the search type Grafana assigns to an entity.
type Kind string

const (
	// KindFolder marks a folder.
	KindFolder Kind = "dash-folder"
	// KindDashboard marks a dashboard.
	KindDashboard Kind = "dash-db"
)

// String returns the kind as Grafana spells it.
func (k Kind) String() string { return string(k) }

// UID is the stable key of an entity. It is assigned once, survives
// export and import across instances, and is never reused.
type UID string

// String returns the uid as a string.
func (u UID) String() string { return string(u) }

// ID is a numeric identifier assigned by a Grafana instance. It is only
// meaningful on the instance that issued it.
type ID int64

// String returns the decimal form of the id.
func (id ID) String() string { return strconv.FormatInt(int64(id), 10) }

// GeneralFolderID is the folder id Grafana uses for "no folder". It is a
// sentinel, never a real folder.
const GeneralFolderID ID = 0

// Folder is a folder definition read from the local directory.
type Folder struct {
	UID      UID    `json:"uid" yaml:"uid"`
	Title    string `json:"title" yaml:"title"`
	LegacyID ID     `json:"id" yaml:"id"` // id on the instance the export came from
	Source   string `json:"-" yaml:"-"`   // file the definition was read from
}

// Dashboard is a dashboard definition read from the local directory.
type Dashboard struct {
	UID            UID    `json:"uid" yaml:"uid"`
	Title          string `json:"title" yaml:"title"`
	Body           Body   `json:"dashboard" yaml:"dashboard"`
	FolderLegacyID ID     `json:"folderId" yaml:"folderId"` // containing folder's id at export time
	Source         string `json:"-" yaml:"-"`
}

// Label returns a short human description used in log lines and errors.
func (d Dashboard) Label() string {
	return label(d.Title, d.UID, d.Source)
}

// Label returns a short human description used in log lines and errors.
func (f Folder) Label() string {
	return label(f.Title, f.UID, f.Source)
}

func label(title string, uid UID, source string) string {
	s := strconv.Quote(title) + " (uid " + strconv.Quote(string(uid)) + ")"
	if source != "" {
		s += " from " + source
	}
	return s
}
