// Package reconcile makes a Grafana instance match a local set of folder
// and dashboard definitions.
//
// A pass runs in two phases. Every local folder is planned and written
// first, which yields the table of current folder ids (ResolvedRefs). Only
// then are dashboards planned, each one remapping the folder id recorded
// at export time through the folder's uid to the id the instance uses
// now. An optional sweep finally deletes remote entities that have no
// local definition, dashboards before folders.
package reconcile

import (
	"fmt"

	"github.com/agentstation/dashsync/pkg/dashboards"
)

// Action is what a decision does to the remote instance.
type Action string

const (
	// Create writes an entity the remote does not have.
	Create Action = "create"
	// Overwrite replaces a remote entity in place, keeping its uid.
	Overwrite Action = "overwrite"
	// Skip leaves the remote entity as it is.
	Skip Action = "skip"
	// Delete removes a remote entity with no local definition.
	Delete Action = "delete"
)

// String returns the action name.
func (a Action) String() string { return string(a) }

// Decision is the planned outcome for one entity, with everything needed
// to carry it out.
type Decision struct {
	Action Action
	Kind   dashboards.Kind
	UID    dashboards.UID
	Title  string
	Source string

	// RemoteID is the id of the matching remote entity, 0 if none.
	RemoteID dashboards.ID

	// Dashboard writes only.
	Body      dashboards.Body
	FolderID  dashboards.ID
	PriorID   *dashboards.ID
	Overwrite bool

	Reason string
}

// IsWrite reports whether the decision sends a create or update.
func (d Decision) IsWrite() bool {
	return d.Action == Create || d.Action == Overwrite
}

// String returns a one-line description of the decision.
func (d Decision) String() string {
	return fmt.Sprintf("%s %s %q (uid %q): %s", d.Action, d.Kind, d.Title, d.UID, d.Reason)
}
