package sync

import (
	"fmt"
	"strings"

	"github.com/agentstation/dashsync/pkg/dashboards"
)

// Status is the outcome of one entity's decision.
type Status string

const (
	StatusApplied Status = "applied" // write or delete sent and accepted
	StatusPlanned Status = "planned" // dry run, nothing sent
	StatusNoop    Status = "noop"    // skip, nothing to send
	StatusFailed  Status = "failed"  // resolution or write failure
	StatusInvalid Status = "invalid" // local definition rejected
)

// Entry is the record of one entity in a run.
type Entry struct {
	Kind     dashboards.Kind `json:"kind" yaml:"kind"`
	UID      dashboards.UID  `json:"uid,omitempty" yaml:"uid,omitempty"`
	Title    string          `json:"title,omitempty" yaml:"title,omitempty"`
	Action   string          `json:"action,omitempty" yaml:"action,omitempty"`
	Status   Status          `json:"status" yaml:"status"`
	ID       dashboards.ID   `json:"id,omitempty" yaml:"id,omitempty"`
	FolderID dashboards.ID   `json:"folderId,omitempty" yaml:"folderId,omitempty"`
	Source   string          `json:"source,omitempty" yaml:"source,omitempty"`
	Error    string          `json:"error,omitempty" yaml:"error,omitempty"`
}

// Result represents the complete result of an import run.
type Result struct {
	Entries []Entry `json:"entries" yaml:"entries"`
	DryRun  bool    `json:"dryRun" yaml:"dryRun"`

	// Summary counts
	Created     int `json:"created" yaml:"created"`
	Overwritten int `json:"overwritten" yaml:"overwritten"`
	Skipped     int `json:"skipped" yaml:"skipped"`
	Deleted     int `json:"deleted" yaml:"deleted"`
	Failed      int `json:"failed" yaml:"failed"`
	Invalid     int `json:"invalid" yaml:"invalid"`
}

// Add records an entry and updates the counts.
func (r *Result) Add(e Entry) {
	r.Entries = append(r.Entries, e)

	switch e.Status {
	case StatusFailed:
		r.Failed++
		return
	case StatusInvalid:
		r.Invalid++
		return
	case StatusNoop:
		r.Skipped++
		return
	}

	switch e.Action {
	case "create":
		r.Created++
	case "overwrite":
		r.Overwritten++
	case "delete":
		r.Deleted++
	}
}

// HasChanges returns true if the run created, updated or deleted anything.
func (r *Result) HasChanges() bool {
	return r.Created+r.Overwritten+r.Deleted > 0
}

// HasErrors returns true if any entity failed or was rejected.
func (r *Result) HasErrors() bool {
	return r.Failed+r.Invalid > 0
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	if !r.HasChanges() && !r.HasErrors() {
		if r.DryRun {
			return "No changes detected (Dry run)"
		}
		return "No changes detected"
	}

	parts := []string{
		fmt.Sprintf("%d created", r.Created),
		fmt.Sprintf("%d overwritten", r.Overwritten),
		fmt.Sprintf("%d skipped", r.Skipped),
		fmt.Sprintf("%d deleted", r.Deleted),
	}
	if r.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", r.Failed))
	}
	if r.Invalid > 0 {
		parts = append(parts, fmt.Sprintf("%d invalid", r.Invalid))
	}

	summary := strings.Join(parts, ", ")
	if r.DryRun {
		summary += " (Dry run)"
	}
	return summary
}

// Filter returns the entries of the given kind, in run order.
func (r *Result) Filter(kind dashboards.Kind) []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}
