// Package grafana implements the remote side of reconciliation against the
// Grafana HTTP API.
package grafana

import (
	"context"
	"net/http"
	"path"

	"github.com/agentstation/dashsync/pkg/constants"
	"github.com/agentstation/dashsync/pkg/dashboards"
	"github.com/agentstation/dashsync/pkg/errors"
)

// Transport sends JSON requests to a Grafana instance.
type Transport interface {
	Get(ctx context.Context, path string, target any) error
	Send(ctx context.Context, method, path string, payload, target any) error
}

// Client talks to one Grafana instance.
type Client struct {
	transport Transport
}

// New creates a Grafana client on top of t.
func New(t Transport) *Client {
	return &Client{transport: t}
}

// saveResponse is the part of a folder or dashboard save response we use.
type saveResponse struct {
	ID  dashboards.ID  `json:"id"`
	UID dashboards.UID `json:"uid"`
}

// Search lists every folder and dashboard on the instance.
func (c *Client) Search(ctx context.Context) ([]dashboards.RemoteEntity, error) {
	var entities []dashboards.RemoteEntity
	if err := c.transport.Get(ctx, constants.SearchPath, &entities); err != nil {
		return nil, err
	}
	return entities, nil
}

// GetFolder fetches one folder by uid.
func (c *Client) GetFolder(ctx context.Context, uid dashboards.UID) (dashboards.RemoteEntity, error) {
	var folder dashboards.RemoteEntity
	if err := c.transport.Get(ctx, path.Join(constants.FoldersPath, string(uid)), &folder); err != nil {
		return dashboards.RemoteEntity{}, err
	}
	folder.Type = dashboards.KindFolder
	return folder, nil
}

// GetDashboard fetches the full definition of a dashboard or folder by
// uid, in the same envelope an export file holds.
func (c *Client) GetDashboard(ctx context.Context, uid dashboards.UID) (*dashboards.Definition, error) {
	endpoint := path.Join(constants.DashboardsByUIDPath, string(uid))

	var envelope dashboards.Body
	if err := c.transport.Get(ctx, endpoint, &envelope); err != nil {
		return nil, err
	}

	def := &dashboards.Definition{Source: endpoint}
	def.Dashboard, _ = envelope.Object("dashboard")
	def.Meta, _ = envelope.Object("meta")
	if def.Dashboard == nil {
		return nil, &errors.ValidationError{Source: endpoint, Field: "dashboard", Message: "missing from response"}
	}
	return def, nil
}

// SaveFolder creates a folder with the given uid, or renames an existing
// one in place when w.Overwrite is set.
func (c *Client) SaveFolder(ctx context.Context, w dashboards.FolderWrite) (dashboards.ID, error) {
	var (
		resp    saveResponse
		method  = http.MethodPost
		target  = constants.FoldersPath
		payload = map[string]any{"title": w.Title, "uid": w.UID}
	)
	if w.Overwrite {
		method = http.MethodPut
		target = path.Join(constants.FoldersPath, string(w.UID))
		payload = map[string]any{"title": w.Title, "overwrite": true}
	}

	if err := c.transport.Send(ctx, method, target, payload, &resp); err != nil {
		return 0, errors.WrapResource("save", "folder", string(w.UID), err)
	}
	return resp.ID, nil
}

// SaveDashboard creates or replaces a dashboard. The body is sent with
// its id set to the replaced dashboard's id, or null to create one.
func (c *Client) SaveDashboard(ctx context.Context, w dashboards.DashboardWrite) (dashboards.ID, error) {
	body := w.Body.Clone()
	uid := body.UID()
	if w.PriorID != nil {
		body["id"] = *w.PriorID
	} else {
		body["id"] = nil
	}

	payload := map[string]any{
		"dashboard": body,
		"folderId":  w.FolderID,
		"overwrite": w.Overwrite,
	}

	var resp saveResponse
	if err := c.transport.Send(ctx, http.MethodPost, constants.DashboardsDBPath, payload, &resp); err != nil {
		return 0, errors.WrapResource("save", "dashboard", string(uid), err)
	}
	return resp.ID, nil
}

// DeleteFolder removes a folder by uid.
func (c *Client) DeleteFolder(ctx context.Context, uid dashboards.UID) error {
	err := c.transport.Send(ctx, http.MethodDelete, path.Join(constants.FoldersPath, string(uid)), nil, nil)
	return errors.WrapResource("delete", "folder", string(uid), err)
}

// DeleteDashboard removes a dashboard by uid.
func (c *Client) DeleteDashboard(ctx context.Context, uid dashboards.UID) error {
	err := c.transport.Send(ctx, http.MethodDelete, path.Join(constants.DashboardsByUIDPath, string(uid)), nil, nil)
	return errors.WrapResource("delete", "dashboard", string(uid), err)
}
