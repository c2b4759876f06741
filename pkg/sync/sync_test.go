package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/dashsync/pkg/dashboards"
	"github.com/agentstation/dashsync/pkg/errors"
)

func TestOptions(t *testing.T) {
	opts := Defaults().Apply(
		WithDryRun(true),
		WithForce(true),
		WithRemove(true),
		WithFolderUID("F9"),
		WithTimeout(time.Minute),
	)

	assert.True(t, opts.DryRun)
	assert.True(t, opts.Force)
	assert.True(t, opts.Remove)
	assert.Equal(t, dashboards.UID("F9"), opts.FolderUID)
	assert.NoError(t, opts.Validate())

	err := Defaults().Apply(WithTimeout(-time.Second)).Validate()
	assert.True(t, errors.IsValidationError(err))
}

func TestResultCounts(t *testing.T) {
	r := &Result{}
	r.Add(Entry{Kind: dashboards.KindFolder, UID: "F1", Action: "create", Status: StatusApplied})
	r.Add(Entry{Kind: dashboards.KindDashboard, UID: "D1", Action: "skip", Status: StatusNoop})
	r.Add(Entry{Kind: dashboards.KindDashboard, UID: "D2", Action: "overwrite", Status: StatusFailed, Error: "boom"})
	r.Add(Entry{Kind: dashboards.KindDashboard, UID: "D3", Action: "delete", Status: StatusApplied})
	r.Add(Entry{Source: "x.json", Status: StatusInvalid})

	assert.Equal(t, 1, r.Created)
	assert.Equal(t, 0, r.Overwritten)
	assert.Equal(t, 1, r.Skipped)
	assert.Equal(t, 1, r.Deleted)
	assert.Equal(t, 1, r.Failed)
	assert.Equal(t, 1, r.Invalid)
	assert.True(t, r.HasChanges())
	assert.True(t, r.HasErrors())
	assert.Equal(t, "1 created, 0 overwritten, 1 skipped, 1 deleted, 1 failed, 1 invalid", r.Summary())
	assert.Len(t, r.Filter(dashboards.KindDashboard), 3)
}

func TestResultSummaryNoChanges(t *testing.T) {
	r := &Result{DryRun: true}
	r.Add(Entry{Kind: dashboards.KindFolder, UID: "F1", Action: "skip", Status: StatusNoop})
	assert.False(t, r.HasChanges())
	assert.Equal(t, "No changes detected (Dry run)", r.Summary())
}
