package dashboards

// RemoteEntity is one hit from Grafana's search listing.
type RemoteEntity struct {
	ID        ID     `json:"id" yaml:"id"`
	UID       UID    `json:"uid" yaml:"uid"`
	Title     string `json:"title" yaml:"title"`
	Type      Kind   `json:"type" yaml:"type"`
	URL       string `json:"url,omitempty" yaml:"url,omitempty"`
	FolderID  ID     `json:"folderId,omitempty" yaml:"folderId,omitempty"`
	FolderUID UID    `json:"folderUid,omitempty" yaml:"folderUid,omitempty"`
}

// HasID reports whether the listing carried an id for the entity. Grafana
// never assigns 0 to a real folder or dashboard.
func (e RemoteEntity) HasID() bool {
	return e.ID != 0
}

// Snapshot is the remote side of a reconciliation pass, split by kind and
// kept in listing order.
type Snapshot struct {
	Folders    []RemoteEntity
	Dashboards []RemoteEntity
}

// NewSnapshot partitions a search listing. Entities of other kinds are
// dropped.
func NewSnapshot(entities []RemoteEntity) *Snapshot {
	s := &Snapshot{}
	for _, e := range entities {
		switch e.Type {
		case KindFolder:
			s.Folders = append(s.Folders, e)
		case KindDashboard:
			s.Dashboards = append(s.Dashboards, e)
		}
	}
	return s
}

// MatchFolders returns every remote folder with the given uid.
func (s *Snapshot) MatchFolders(uid UID) []RemoteEntity {
	return match(s.Folders, uid)
}

// MatchDashboards returns every remote dashboard with the given uid.
func (s *Snapshot) MatchDashboards(uid UID) []RemoteEntity {
	return match(s.Dashboards, uid)
}

// Len returns the number of entities in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.Folders) + len(s.Dashboards)
}

func match(entities []RemoteEntity, uid UID) []RemoteEntity {
	var out []RemoteEntity
	for _, e := range entities {
		if e.UID == uid {
			out = append(out, e)
		}
	}
	return out
}

// FolderWrite is a create or update of a folder.
type FolderWrite struct {
	UID       UID
	Title     string
	Overwrite bool
}

// DashboardWrite is a create or update of a dashboard.
type DashboardWrite struct {
	Body      Body
	FolderID  ID
	PriorID   *ID // id of the remote dashboard being replaced; nil creates
	Overwrite bool
}
