package dashboards

import (
	"bytes"
	"encoding/json"

	"github.com/agentstation/dashsync/pkg/errors"
)

// Definition is one exported file: the {"dashboard": ..., "meta": ...}
// envelope Grafana returns from api/dashboards/uid/{uid}.
type Definition struct {
	Source    string
	Dashboard Body
	Meta      Body
}

// ParseDefinition decodes an exported file. The source names the file in
// errors.
func ParseDefinition(source string, data []byte) (*Definition, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &errors.ValidationError{Source: source, Message: "empty file"}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var envelope Body
	if err := dec.Decode(&envelope); err != nil {
		return nil, errors.WrapParse("json", source, err)
	}
	if envelope == nil {
		return nil, &errors.ValidationError{Source: source, Message: "not a JSON object"}
	}

	def := &Definition{Source: source}
	def.Dashboard, _ = envelope.Object("dashboard")
	def.Meta, _ = envelope.Object("meta")
	return def, nil
}

// Kind reports whether the definition is a folder or a dashboard, based on
// meta.isFolder. A missing or non-boolean marker leaves the kind unknown.
func (d *Definition) Kind() (Kind, bool) {
	isFolder, ok := d.Meta["isFolder"].(bool)
	if !ok {
		return "", false
	}
	if isFolder {
		return KindFolder, true
	}
	return KindDashboard, true
}

// UID returns the uid declared by the definition, if any.
func (d *Definition) UID() UID {
	return d.Dashboard.UID()
}

// AsFolder converts the definition into a Folder.
func (d *Definition) AsFolder() (Folder, error) {
	if err := d.validate(); err != nil {
		return Folder{}, err
	}
	legacy, _ := d.Dashboard.ID()
	return Folder{
		UID:      d.Dashboard.UID(),
		Title:    d.Dashboard.Title(),
		LegacyID: legacy,
		Source:   d.Source,
	}, nil
}

// AsDashboard converts the definition into a Dashboard. The containing
// folder's id is required, since without it the dashboard cannot be placed.
func (d *Definition) AsDashboard() (Dashboard, error) {
	if err := d.validate(); err != nil {
		return Dashboard{}, err
	}
	folderID, ok := asID(d.Meta["folderId"])
	if !ok {
		return Dashboard{}, &errors.ValidationError{
			Source:  d.Source,
			Field:   "meta.folderId",
			Value:   d.Meta["folderId"],
			Message: "missing or not an integer",
		}
	}
	return Dashboard{
		UID:            d.Dashboard.UID(),
		Title:          d.Dashboard.Title(),
		Body:           d.Dashboard,
		FolderLegacyID: folderID,
		Source:         d.Source,
	}, nil
}

func (d *Definition) validate() error {
	if d.Dashboard == nil {
		return &errors.ValidationError{Source: d.Source, Field: "dashboard", Message: "missing"}
	}
	if d.Dashboard.UID() == "" {
		return &errors.ValidationError{Source: d.Source, Field: "dashboard.uid", Value: d.Dashboard["uid"], Message: "missing"}
	}
	if d.Dashboard.Title() == "" {
		return &errors.ValidationError{Source: d.Source, Field: "dashboard.title", Value: d.Dashboard["title"], Message: "missing"}
	}
	return nil
}

// Envelope returns the definition in the {"dashboard", "meta"} form it is
// exported in.
func (d *Definition) Envelope() Body {
	env := Body{"dashboard": d.Dashboard}
	if d.Meta != nil {
		env["meta"] = d.Meta
	}
	return env
}
