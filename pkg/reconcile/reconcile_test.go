package reconcile_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/dashsync/pkg/dashboards"
	"github.com/agentstation/dashsync/pkg/differ"
	"github.com/agentstation/dashsync/pkg/errors"
	"github.com/agentstation/dashsync/pkg/logging"
	"github.com/agentstation/dashsync/pkg/reconcile"
	"github.com/agentstation/dashsync/pkg/sync"
)

func folderDef(uid string, legacy int, title string) string {
	return fmt.Sprintf(`{"dashboard":{"id":%d,"uid":%q,"title":%q},"meta":{"isFolder":true}}`, legacy, uid, title)
}

func dashboardDef(uid string, folderID int, title string) string {
	return fmt.Sprintf(`{"dashboard":{"id":7,"version":3,"uid":%q,"title":%q,"panels":[{"id":1,"type":"graph"}]},"meta":{"isFolder":false,"folderId":%d}}`, uid, title, folderID)
}

func localSet(t *testing.T, files ...string) *dashboards.LocalSet {
	t.Helper()
	defs := make([]*dashboards.Definition, 0, len(files))
	for i, data := range files {
		def, err := dashboards.ParseDefinition(fmt.Sprintf("file%d.json", i), []byte(data))
		require.NoError(t, err)
		defs = append(defs, def)
	}
	return dashboards.Partition(defs)
}

func quietContext(t *testing.T) context.Context {
	t.Helper()
	return logging.WithLogger(context.Background(), logging.NewNopLogger())
}

func TestResolve(t *testing.T) {
	folders := []dashboards.Folder{
		{UID: "F1", Title: "Ops", LegacyID: 5},
		{UID: "F2", Title: "Dup A", LegacyID: 9},
		{UID: "F3", Title: "Dup B", LegacyID: 9},
		{UID: "F4", Title: "Failed", LegacyID: 11},
	}
	refs := reconcile.NewResolvedRefs(map[dashboards.UID]dashboards.ID{"F1": 42, "F2": 1, "F3": 2})

	t.Run("general folder needs no lookup", func(t *testing.T) {
		id, err := reconcile.Resolve(dashboards.GeneralFolderID, nil, reconcile.ResolvedRefs{})
		require.NoError(t, err)
		assert.Equal(t, dashboards.GeneralFolderID, id)

		id, err = reconcile.Resolve(0, folders, refs)
		require.NoError(t, err)
		assert.Equal(t, dashboards.GeneralFolderID, id)
	})

	t.Run("remaps through uid", func(t *testing.T) {
		id, err := reconcile.Resolve(5, folders, refs)
		require.NoError(t, err)
		assert.Equal(t, dashboards.ID(42), id)
	})

	tests := []struct {
		name   string
		legacy dashboards.ID
		reason string
	}{
		{name: "missing", legacy: 6, reason: "ambiguous or missing"},
		{name: "ambiguous", legacy: 9, reason: "ambiguous or missing"},
		{name: "not resolved", legacy: 11, reason: "not yet resolved"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reconcile.Resolve(tt.legacy, folders, refs)
			require.Error(t, err)
			assert.True(t, errors.IsResolution(err))
			assert.Contains(t, err.Error(), tt.reason)
		})
	}
}

func TestResolvedRefsIsACopy(t *testing.T) {
	ids := map[dashboards.UID]dashboards.ID{"F1": 1}
	refs := reconcile.NewResolvedRefs(ids)
	ids["F1"] = 2
	ids["F2"] = 3

	id, ok := refs.Lookup("F1")
	assert.True(t, ok)
	assert.Equal(t, dashboards.ID(1), id)
	assert.Equal(t, 1, refs.Len())
}

func TestPlanFolder(t *testing.T) {
	local := dashboards.Folder{UID: "F1", Title: "Ops", LegacyID: 5}

	tests := []struct {
		name      string
		remote    []dashboards.RemoteEntity
		force     bool
		action    reconcile.Action
		remoteID  dashboards.ID
		overwrite bool
	}{
		{
			name:   "not present remotely",
			action: reconcile.Create,
		},
		{
			name:     "same title",
			remote:   []dashboards.RemoteEntity{{ID: 31, UID: "F1", Title: "Ops", Type: dashboards.KindFolder}},
			action:   reconcile.Skip,
			remoteID: 31,
		},
		{
			name:      "title changed",
			remote:    []dashboards.RemoteEntity{{ID: 31, UID: "F1", Title: "Old", Type: dashboards.KindFolder}},
			action:    reconcile.Overwrite,
			remoteID:  31,
			overwrite: true,
		},
		{
			name:      "forced",
			remote:    []dashboards.RemoteEntity{{ID: 31, UID: "F1", Title: "Ops", Type: dashboards.KindFolder}},
			force:     true,
			action:    reconcile.Overwrite,
			remoteID:  31,
			overwrite: true,
		},
		{
			name:   "same title on another uid",
			remote: []dashboards.RemoteEntity{{ID: 31, UID: "F2", Title: "Ops", Type: dashboards.KindFolder}},
			action: reconcile.Create,
		},
		{
			name: "duplicate uid",
			remote: []dashboards.RemoteEntity{
				{ID: 31, UID: "F1", Title: "Ops", Type: dashboards.KindFolder},
				{ID: 32, UID: "F1", Title: "Ops", Type: dashboards.KindFolder},
			},
			action:    reconcile.Overwrite,
			remoteID:  31,
			overwrite: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &reconcile.Planner{Force: tt.force}
			d := p.PlanFolder(quietContext(t), local, dashboards.NewSnapshot(tt.remote))
			assert.Equal(t, tt.action, d.Action)
			assert.Equal(t, tt.remoteID, d.RemoteID)
			assert.Equal(t, tt.overwrite, d.Overwrite)
			assert.Equal(t, dashboards.UID("F1"), d.UID)
		})
	}
}

func TestPlanFolderDuplicateWarns(t *testing.T) {
	tl := logging.NewTestLogger(t)
	snapshot := dashboards.NewSnapshot([]dashboards.RemoteEntity{
		{ID: 31, UID: "F1", Title: "Ops", Type: dashboards.KindFolder},
		{ID: 32, UID: "F1", Title: "Ops", Type: dashboards.KindFolder},
	})

	p := &reconcile.Planner{}
	p.PlanFolder(tl.Context(context.Background()), dashboards.Folder{UID: "F1", Title: "Ops"}, snapshot)

	tl.AssertContains(t, "Duplicate folder uid on remote")
}

func TestPlanDashboard(t *testing.T) {
	set := localSet(t, folderDef("F1", 5, "Ops"), dashboardDef("D1", 5, "CPU"))
	refs := reconcile.NewResolvedRefs(map[dashboards.UID]dashboards.ID{"F1": 42})
	local := set.Dashboards[0]

	t.Run("create with remapped folder", func(t *testing.T) {
		remote := newFakeRemote()
		p := &reconcile.Planner{Fetcher: remote, Differ: differ.New()}

		d, err := p.PlanDashboard(quietContext(t), local, dashboards.NewSnapshot(nil), set.Folders, refs)
		require.NoError(t, err)
		assert.Equal(t, reconcile.Create, d.Action)
		assert.Equal(t, dashboards.ID(42), d.FolderID)
		assert.Nil(t, d.PriorID)
		assert.False(t, d.Overwrite)
		assert.Empty(t, remote.calls)
	})

	t.Run("unchanged remote copy is skipped", func(t *testing.T) {
		remote := newFakeRemote()
		stored := local.Body.Clone()
		stored["id"] = 900
		stored["version"] = 12
		remote.addDashboard(900, "D1", "CPU", stored)

		p := &reconcile.Planner{Fetcher: remote, Differ: differ.New()}
		snapshot, _ := remote.Search(context.Background())
		d, err := p.PlanDashboard(quietContext(t), local, dashboards.NewSnapshot(snapshot), set.Folders, refs)
		require.NoError(t, err)
		assert.Equal(t, reconcile.Skip, d.Action)
		assert.Contains(t, remote.calls, "get-dashboard:D1")
	})

	t.Run("changed remote copy is overwritten with prior id", func(t *testing.T) {
		remote := newFakeRemote()
		stored := local.Body.Clone()
		stored["title"] = "CPU (edited)"
		remote.addDashboard(900, "D1", "CPU (edited)", stored)

		p := &reconcile.Planner{Fetcher: remote, Differ: differ.New()}
		snapshot, _ := remote.Search(context.Background())
		d, err := p.PlanDashboard(quietContext(t), local, dashboards.NewSnapshot(snapshot), set.Folders, refs)
		require.NoError(t, err)
		assert.Equal(t, reconcile.Overwrite, d.Action)
		require.NotNil(t, d.PriorID)
		assert.Equal(t, dashboards.ID(900), *d.PriorID)
		assert.True(t, d.Overwrite)
		assert.Equal(t, dashboards.ID(42), d.FolderID)
	})

	t.Run("fetch failure falls through to write", func(t *testing.T) {
		remote := newFakeRemote()
		remote.addDashboard(900, "D1", "CPU", nil)
		remote.getErr["D1"] = errors.NewAPIError("GET", "api/dashboards/uid/D1", 500, "oops")

		p := &reconcile.Planner{Fetcher: remote, Differ: differ.New()}
		snapshot, _ := remote.Search(context.Background())
		d, err := p.PlanDashboard(quietContext(t), local, dashboards.NewSnapshot(snapshot), set.Folders, refs)
		require.NoError(t, err)
		assert.Equal(t, reconcile.Overwrite, d.Action)
		assert.Equal(t, "comparison failed", d.Reason)
	})

	t.Run("forced skips comparison", func(t *testing.T) {
		remote := newFakeRemote()
		remote.addDashboard(900, "D1", "CPU", local.Body.Clone())

		p := &reconcile.Planner{Fetcher: remote, Differ: differ.New(), Force: true}
		snapshot, _ := remote.Search(context.Background())
		d, err := p.PlanDashboard(quietContext(t), local, dashboards.NewSnapshot(snapshot), set.Folders, refs)
		require.NoError(t, err)
		assert.Equal(t, reconcile.Overwrite, d.Action)
		assert.NotContains(t, remote.calls, "get-dashboard:D1")
	})

	t.Run("resolution failure aborts before any remote call", func(t *testing.T) {
		orphan := localSet(t, dashboardDef("D2", 77, "Orphan")).Dashboards[0]
		remote := newFakeRemote()
		remote.addDashboard(901, "D2", "Orphan", nil)

		p := &reconcile.Planner{Fetcher: remote, Differ: differ.New()}
		snapshot, _ := remote.Search(context.Background())
		remote.calls = nil

		_, err := p.PlanDashboard(quietContext(t), orphan, dashboards.NewSnapshot(snapshot), set.Folders, refs)
		require.Error(t, err)
		assert.True(t, errors.IsResolution(err))
		assert.Empty(t, remote.calls)
	})
}

func TestSweep(t *testing.T) {
	set := localSet(t, folderDef("F1", 5, "Ops"), dashboardDef("D1", 5, "CPU"))
	snapshot := dashboards.NewSnapshot([]dashboards.RemoteEntity{
		{ID: 1, UID: "F1", Title: "Ops", Type: dashboards.KindFolder},
		{ID: 2, UID: "F9", Title: "Stale", Type: dashboards.KindFolder},
		{ID: 3, UID: "D1", Title: "CPU", Type: dashboards.KindDashboard},
		{ID: 4, UID: "D2", Title: "Mem", Type: dashboards.KindDashboard},
	})

	decisions := reconcile.Sweep(snapshot, set)
	require.Len(t, decisions, 2)
	assert.Equal(t, reconcile.Delete, decisions[0].Action)
	assert.Equal(t, dashboards.UID("D2"), decisions[0].UID)
	assert.Equal(t, dashboards.KindDashboard, decisions[0].Kind)
	assert.Equal(t, dashboards.UID("F9"), decisions[1].UID)
	assert.Equal(t, dashboards.KindFolder, decisions[1].Kind)
}

func TestSweepOnlyDashboards(t *testing.T) {
	set := localSet(t, dashboardDef("D1", 0, "CPU"))
	snapshot := dashboards.NewSnapshot([]dashboards.RemoteEntity{
		{ID: 3, UID: "D1", Title: "CPU", Type: dashboards.KindDashboard},
		{ID: 4, UID: "D2", Title: "Mem", Type: dashboards.KindDashboard},
	})

	decisions := reconcile.Sweep(snapshot, set)
	require.Len(t, decisions, 1)
	assert.Equal(t, dashboards.UID("D2"), decisions[0].UID)
}

func TestSweepKeepsNamedFolders(t *testing.T) {
	set := localSet(t, dashboardDef("D1", 0, "CPU"))
	snapshot := dashboards.NewSnapshot([]dashboards.RemoteEntity{
		{ID: 77, UID: "target", Title: "Target", Type: dashboards.KindFolder},
		{ID: 78, UID: "F9", Title: "Stale", Type: dashboards.KindFolder},
		{ID: 3, UID: "D1", Title: "CPU", Type: dashboards.KindDashboard},
	})

	decisions := reconcile.Sweep(snapshot, set, "target")
	require.Len(t, decisions, 1)
	assert.Equal(t, dashboards.UID("F9"), decisions[0].UID)
}

func TestRunCreatesFolderAndRemapsDashboards(t *testing.T) {
	remote := newFakeRemote()
	set := localSet(t, folderDef("F1", 5, "Ops"), dashboardDef("D1", 5, "CPU"), dashboardDef("D0", 0, "Home"))

	result, err := reconcile.New(remote, nil, nil).Run(quietContext(t), set)
	require.NoError(t, err)

	require.Len(t, remote.folderSaves, 1)
	assert.Equal(t, dashboards.FolderWrite{UID: "F1", Title: "Ops"}, remote.folderSaves[0])

	folders := result.Filter(dashboards.KindFolder)
	require.Len(t, folders, 1)
	assert.Equal(t, dashboards.ID(101), folders[0].ID)
	assert.Equal(t, sync.StatusApplied, folders[0].Status)

	require.Len(t, remote.dashSaves, 2)
	assert.Equal(t, dashboards.ID(101), remote.dashSaves[0].FolderID)
	assert.Nil(t, remote.dashSaves[0].PriorID)
	assert.False(t, remote.dashSaves[0].Overwrite)
	assert.Equal(t, dashboards.GeneralFolderID, remote.dashSaves[1].FolderID)
	assert.Equal(t, 3, result.Created)
}

func TestRunSkipsExistingFolder(t *testing.T) {
	remote := newFakeRemote()
	remote.addFolder(31, "F1", "Ops")
	set := localSet(t, folderDef("F1", 5, "Ops"), dashboardDef("D1", 5, "CPU"))

	result, err := reconcile.New(remote, nil, nil).Run(quietContext(t), set)
	require.NoError(t, err)

	assert.Empty(t, remote.folderSaves)
	require.Len(t, remote.dashSaves, 1)
	assert.Equal(t, dashboards.ID(31), remote.dashSaves[0].FolderID)
	assert.Equal(t, 1, result.Skipped)
}

func TestRunIsIdempotent(t *testing.T) {
	remote := newFakeRemote()
	remote.addFolder(31, "F1", "Old title")
	set := localSet(t,
		folderDef("F1", 5, "Ops"),
		folderDef("F2", 6, "Dev"),
		dashboardDef("D1", 5, "CPU"),
		dashboardDef("D2", 6, "Mem"),
		dashboardDef("D3", 0, "Home"),
	)

	first, err := reconcile.New(remote, nil, nil).Run(quietContext(t), set)
	require.NoError(t, err)
	assert.True(t, first.HasChanges())

	remote.calls = nil
	second, err := reconcile.New(remote, nil, nil).Run(quietContext(t), set)
	require.NoError(t, err)

	assert.False(t, second.HasChanges())
	assert.Equal(t, 5, second.Skipped)
	for _, e := range second.Entries {
		assert.Equal(t, "skip", e.Action, e.UID)
	}
	assert.Empty(t, remote.writes())
}

func TestRunReconcilesAllFoldersBeforeDashboards(t *testing.T) {
	remote := newFakeRemote()
	remote.addDashboard(500, "D1", "CPU", nil)
	set := localSet(t,
		dashboardDef("D1", 5, "CPU"),
		folderDef("F1", 5, "Ops"),
		dashboardDef("D2", 6, "Mem"),
		folderDef("F2", 6, "Dev"),
	)

	_, err := reconcile.New(remote, nil, nil).Run(quietContext(t), set)
	require.NoError(t, err)

	lastFolder, firstDashboard := -1, len(remote.calls)
	for i, c := range remote.calls {
		if strings.HasSuffix(strings.SplitN(c, ":", 2)[0], "folder") {
			lastFolder = i
		}
		if strings.Contains(c, "dashboard") && i < firstDashboard {
			firstDashboard = i
		}
	}
	assert.Less(t, lastFolder, firstDashboard, "calls: %v", remote.calls)
	assert.Equal(t, []string{
		"save-folder:F1",
		"save-folder:F2",
		"save-dashboard:D1",
		"save-dashboard:D2",
	}, remote.writes())
}

func TestRunContinuesAfterFailures(t *testing.T) {
	remote := newFakeRemote()
	remote.saveErr["F1"] = errors.NewAPIError("POST", "api/folders", 412, `{"message":"precondition failed"}`)
	remote.saveErr["D2"] = errors.NewAPIError("POST", "api/dashboards/db", 400, `{"message":"bad"}`)
	set := localSet(t,
		folderDef("F1", 5, "Ops"),
		folderDef("F2", 6, "Dev"),
		dashboardDef("D1", 5, "CPU"),
		dashboardDef("D2", 6, "Mem"),
		dashboardDef("D3", 6, "Disk"),
		dashboardDef("D4", 99, "Orphan"),
	)

	result, err := reconcile.New(remote, nil, nil).Run(quietContext(t), set)
	require.NoError(t, err)

	// F1 failed to create, so D1 cannot be placed; D4 points at no folder
	assert.Equal(t, []string{
		"save-folder:F1",
		"save-folder:F2",
		"save-dashboard:D2",
		"save-dashboard:D3",
	}, remote.writes())
	assert.Equal(t, 4, result.Failed)
	assert.Equal(t, 2, result.Created)

	var d4 sync.Entry
	for _, e := range result.Entries {
		if e.UID == "D4" {
			d4 = e
		}
	}
	assert.Equal(t, sync.StatusFailed, d4.Status)
	assert.Contains(t, d4.Error, "cannot resolve folder id 99")
	assert.Equal(t, "file5.json", d4.Source)
}

func TestRunSearchFailureIsFatal(t *testing.T) {
	remote := newFakeRemote()
	remote.searchErr = errors.NewAPIError("GET", "api/search", 503, "unavailable")
	set := localSet(t, folderDef("F1", 5, "Ops"))

	_, err := reconcile.New(remote, nil, nil).Run(quietContext(t), set)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrRemoteUnavailable)
	assert.Empty(t, remote.writes())
}

func TestRunDryRun(t *testing.T) {
	remote := newFakeRemote()
	remote.dryRun = true
	remote.addFolder(31, "F1", "Old")
	set := localSet(t,
		folderDef("F1", 5, "Ops"),
		folderDef("F2", 6, "Dev"),
		dashboardDef("D1", 5, "CPU"),
		dashboardDef("D2", 6, "Mem"),
	)

	result, err := reconcile.New(remote, nil, sync.Defaults().Apply(sync.WithDryRun(true))).Run(quietContext(t), set)
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	for _, e := range result.Entries {
		assert.Equal(t, sync.StatusPlanned, e.Status, e.UID)
	}
	require.Len(t, remote.dashSaves, 2)
	assert.Equal(t, dashboards.ID(31), remote.dashSaves[0].FolderID)
	assert.Equal(t, reconcile.PendingID, remote.dashSaves[1].FolderID)
}

func TestRunFolderIDForDependentDashboards(t *testing.T) {
	saveFailed := errors.NewAPIError("PUT", "api/folders/F1", 412, `{"message":"version-mismatch"}`)

	tests := []struct {
		name         string
		remoteFolder bool
		dryRun       bool
		saveErr      error
		folderStatus sync.Status
		wantSaved    bool
		wantFolderID dashboards.ID
	}{
		{
			name:         "dry run overwrite keeps current id",
			remoteFolder: true,
			dryRun:       true,
			folderStatus: sync.StatusPlanned,
			wantSaved:    true,
			wantFolderID: 31,
		},
		{
			name:         "dry run create uses pending id",
			dryRun:       true,
			folderStatus: sync.StatusPlanned,
			wantSaved:    true,
			wantFolderID: reconcile.PendingID,
		},
		{
			name:         "failed overwrite keeps current id",
			remoteFolder: true,
			saveErr:      saveFailed,
			folderStatus: sync.StatusFailed,
			wantSaved:    true,
			wantFolderID: 31,
		},
		{
			name:         "failed create leaves dashboard unplaced",
			saveErr:      saveFailed,
			folderStatus: sync.StatusFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := newFakeRemote()
			remote.dryRun = tt.dryRun
			if tt.remoteFolder {
				remote.addFolder(31, "F1", "Old title")
			}
			if tt.saveErr != nil {
				remote.saveErr["F1"] = tt.saveErr
			}
			set := localSet(t, folderDef("F1", 5, "Ops"), dashboardDef("D1", 5, "CPU"))

			opts := sync.Defaults().Apply(sync.WithDryRun(tt.dryRun))
			result, err := reconcile.New(remote, nil, opts).Run(quietContext(t), set)
			require.NoError(t, err)

			require.NotEmpty(t, result.Entries)
			assert.Equal(t, dashboards.UID("F1"), result.Entries[0].UID)
			assert.Equal(t, tt.folderStatus, result.Entries[0].Status)

			if !tt.wantSaved {
				assert.Empty(t, remote.dashSaves)
				return
			}
			require.Len(t, remote.dashSaves, 1)
			assert.Equal(t, tt.wantFolderID, remote.dashSaves[0].FolderID)
		})
	}
}

func TestRunFolderOverride(t *testing.T) {
	t.Run("known folder", func(t *testing.T) {
		remote := newFakeRemote()
		remote.addFolder(77, "target", "Target")
		set := localSet(t, dashboardDef("D1", 5, "CPU"), dashboardDef("D2", 0, "Home"))

		opts := sync.Defaults().Apply(sync.WithFolderUID("target"))
		result, err := reconcile.New(remote, nil, opts).Run(quietContext(t), set)
		require.NoError(t, err)

		assert.Equal(t, 2, result.Created)
		for _, w := range remote.dashSaves {
			assert.Equal(t, dashboards.ID(77), w.FolderID)
		}
	})

	t.Run("unknown folder", func(t *testing.T) {
		remote := newFakeRemote()
		set := localSet(t, dashboardDef("D1", 0, "CPU"))

		opts := sync.Defaults().Apply(sync.WithFolderUID("missing"))
		result, err := reconcile.New(remote, nil, opts).Run(quietContext(t), set)
		require.NoError(t, err)

		assert.Contains(t, remote.calls, "get-folder:missing")
		assert.Empty(t, remote.dashSaves)
		assert.Equal(t, 1, result.Failed)
		require.Len(t, result.Entries, 1)
		assert.Contains(t, result.Entries[0].Error, "target folder with ID missing not found")
	})

	t.Run("remove keeps target folder", func(t *testing.T) {
		remote := newFakeRemote()
		remote.addFolder(77, "target", "Target")
		remote.addFolder(78, "F9", "Stale")
		set := localSet(t, dashboardDef("D1", 0, "CPU"))

		opts := sync.Defaults().Apply(sync.WithFolderUID("target"), sync.WithRemove(true))
		result, err := reconcile.New(remote, nil, opts).Run(quietContext(t), set)
		require.NoError(t, err)

		assert.Equal(t, []string{"save-dashboard:D1", "delete-folder:F9"}, remote.writes())
		assert.Equal(t, 1, result.Deleted)
		require.Len(t, remote.dashSaves, 1)
		assert.Equal(t, dashboards.ID(77), remote.dashSaves[0].FolderID)
	})
}

func TestRunRemove(t *testing.T) {
	remote := newFakeRemote()
	remote.addFolder(1, "F1", "Ops")
	remote.addFolder(2, "F9", "Stale")
	remote.addFolder(3, "FX", "Broken locally")
	remote.addDashboard(10, "D1", "CPU", nil)
	remote.addDashboard(11, "D2", "Mem", nil)
	remote.addDashboard(12, "", "No uid", nil)

	set := localSet(t,
		folderDef("F1", 5, "Ops"),
		`{"dashboard":{"uid":"FX"},"meta":{"isFolder":true}}`,
		dashboardDef("D1", 5, "CPU"),
	)

	opts := sync.Defaults().Apply(sync.WithRemove(true), sync.WithForce(true))
	result, err := reconcile.New(remote, nil, opts).Run(quietContext(t), set)
	require.NoError(t, err)

	var deletes []string
	for _, c := range remote.calls {
		if strings.HasPrefix(c, "delete") {
			deletes = append(deletes, c)
		}
	}
	assert.Equal(t, []string{"delete-dashboard:D2", "delete-folder:F9"}, deletes)
	assert.Equal(t, 2, result.Deleted)
	assert.Equal(t, 1, result.Invalid)
}

func TestRunWithoutRemoveNeverDeletes(t *testing.T) {
	remote := newFakeRemote()
	remote.addDashboard(10, "D1", "CPU", nil)
	remote.addDashboard(11, "D2", "Mem", nil)
	set := localSet(t, dashboardDef("D1", 0, "CPU"))

	_, err := reconcile.New(remote, nil, nil).Run(quietContext(t), set)
	require.NoError(t, err)

	for _, c := range remote.calls {
		assert.False(t, strings.HasPrefix(c, "delete"), c)
	}
}

func TestRunCanceled(t *testing.T) {
	remote := newFakeRemote()
	set := localSet(t, folderDef("F1", 5, "Ops"), dashboardDef("D1", 5, "CPU"))

	ctx, cancel := context.WithCancel(quietContext(t))
	cancel()

	_, err := reconcile.New(remote, nil, nil).Run(ctx, set)
	require.Error(t, err)
	assert.True(t, errors.IsCanceled(err))
	assert.Empty(t, remote.writes())
}
