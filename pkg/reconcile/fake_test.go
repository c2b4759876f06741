package reconcile_test

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/agentstation/dashsync/pkg/dashboards"
	"github.com/agentstation/dashsync/pkg/errors"
)

// fakeRemote is an in-memory Grafana. It assigns ids the way Grafana does
// and bumps a dashboard's version on every save.
type fakeRemote struct {
	nextID     dashboards.ID
	folders    []dashboards.RemoteEntity
	dashboards []dashboards.RemoteEntity
	bodies     map[dashboards.UID]dashboards.Body

	// dryRun makes every write return a zero id without storing anything.
	dryRun bool

	searchErr error
	saveErr   map[dashboards.UID]error
	getErr    map[dashboards.UID]error

	calls       []string
	folderSaves []dashboards.FolderWrite
	dashSaves   []dashboards.DashboardWrite
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		nextID:  100,
		bodies:  make(map[dashboards.UID]dashboards.Body),
		saveErr: make(map[dashboards.UID]error),
		getErr:  make(map[dashboards.UID]error),
	}
}

func (f *fakeRemote) addFolder(id dashboards.ID, uid dashboards.UID, title string) {
	f.folders = append(f.folders, dashboards.RemoteEntity{ID: id, UID: uid, Title: title, Type: dashboards.KindFolder})
}

func (f *fakeRemote) addDashboard(id dashboards.ID, uid dashboards.UID, title string, body dashboards.Body) {
	f.dashboards = append(f.dashboards, dashboards.RemoteEntity{ID: id, UID: uid, Title: title, Type: dashboards.KindDashboard})
	if body != nil {
		f.bodies[uid] = body
	}
}

func (f *fakeRemote) writes() []string {
	var out []string
	for _, c := range f.calls {
		if !strings.HasPrefix(c, "get") && c != "search" {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeRemote) Search(_ context.Context) ([]dashboards.RemoteEntity, error) {
	f.calls = append(f.calls, "search")
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	out := append([]dashboards.RemoteEntity{}, f.folders...)
	return append(out, f.dashboards...), nil
}

func (f *fakeRemote) GetFolder(_ context.Context, uid dashboards.UID) (dashboards.RemoteEntity, error) {
	f.calls = append(f.calls, "get-folder:"+string(uid))
	for _, e := range f.folders {
		if e.UID == uid {
			return e, nil
		}
	}
	return dashboards.RemoteEntity{}, errors.NewAPIError("GET", "api/folders/"+string(uid), 404, `{"message":"folder not found"}`)
}

func (f *fakeRemote) GetDashboard(_ context.Context, uid dashboards.UID) (*dashboards.Definition, error) {
	f.calls = append(f.calls, "get-dashboard:"+string(uid))
	if err := f.getErr[uid]; err != nil {
		return nil, err
	}
	body, ok := f.bodies[uid]
	if !ok {
		return nil, errors.NewAPIError("GET", "api/dashboards/uid/"+string(uid), 404, `{"message":"Dashboard not found"}`)
	}
	return &dashboards.Definition{Dashboard: body.Clone(), Meta: dashboards.Body{"isFolder": false}}, nil
}

func (f *fakeRemote) SaveFolder(_ context.Context, w dashboards.FolderWrite) (dashboards.ID, error) {
	f.calls = append(f.calls, "save-folder:"+string(w.UID))
	f.folderSaves = append(f.folderSaves, w)
	if err := f.saveErr[w.UID]; err != nil {
		return 0, err
	}
	if f.dryRun {
		return 0, nil
	}
	for i, e := range f.folders {
		if e.UID == w.UID {
			f.folders[i].Title = w.Title
			return e.ID, nil
		}
	}
	f.nextID++
	f.addFolder(f.nextID, w.UID, w.Title)
	return f.nextID, nil
}

func (f *fakeRemote) SaveDashboard(_ context.Context, w dashboards.DashboardWrite) (dashboards.ID, error) {
	uid := w.Body.UID()
	f.calls = append(f.calls, "save-dashboard:"+string(uid))
	f.dashSaves = append(f.dashSaves, w)
	if err := f.saveErr[uid]; err != nil {
		return 0, err
	}
	if f.dryRun {
		return 0, nil
	}

	stored := w.Body.Clone()
	version := int64(1)
	if old, ok := f.bodies[uid]; ok {
		if n, ok := old["version"].(json.Number); ok {
			if v, err := n.Int64(); err == nil {
				version = v + 1
			}
		}
	}
	stored["version"] = json.Number(dashboards.ID(version).String())

	for _, e := range f.dashboards {
		if e.UID == uid {
			stored["id"] = json.Number(e.ID.String())
			f.bodies[uid] = stored
			return e.ID, nil
		}
	}
	f.nextID++
	stored["id"] = json.Number(f.nextID.String())
	f.addDashboard(f.nextID, uid, w.Body.Title(), stored)
	return f.nextID, nil
}

func (f *fakeRemote) DeleteFolder(_ context.Context, uid dashboards.UID) error {
	f.calls = append(f.calls, "delete-folder:"+string(uid))
	return nil
}

func (f *fakeRemote) DeleteDashboard(_ context.Context, uid dashboards.UID) error {
	f.calls = append(f.calls, "delete-dashboard:"+string(uid))
	return nil
}
