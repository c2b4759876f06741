package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/dashsync/pkg/errors"
)

func TestBaseURL(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "http://grafana:3000", want: "http://grafana:3000/"},
		{input: "https://grafana.example.com/d/abc/cpu?orgId=1", want: "https://grafana.example.com/"},
		{input: " https://grafana.example.com/ ", want: "https://grafana.example.com/"},
		{input: "ftp://grafana", wantErr: true},
		{input: "grafana.example.com", wantErr: true},
		{input: "http://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			u, err := BaseURL(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				var cfgErr *errors.ConfigError
				assert.ErrorAs(t, err, &cfgErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, u.String())
		})
	}
}

func TestAuthenticators(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	(&NoAuth{}).Apply(req, "secret")
	assert.Empty(t, req.Header.Get("Authorization"))

	(&BearerAuth{}).Apply(req, "")
	assert.Empty(t, req.Header.Get("Authorization"))

	(&BearerAuth{}).Apply(req, "glsa_123")
	assert.Equal(t, "Bearer glsa_123", req.Header.Get("Authorization"))

	(&HeaderAuth{Header: "Cookie"}).Apply(req, "grafana_session=abc")
	assert.Equal(t, "grafana_session=abc", req.Header.Get("Cookie"))
}

func TestClientSendsCredentialsAndJSON(t *testing.T) {
	var got *http.Request
	var payload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &payload)
		_, _ = w.Write([]byte(`{"id": 12, "uid": "F1"}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL+"/dashboards", WithToken("tok"), WithCookie("session=1"))
	require.NoError(t, err)

	var out struct {
		ID  json.Number `json:"id"`
		UID string      `json:"uid"`
	}
	err = c.Send(context.Background(), http.MethodPost, "api/folders", map[string]any{"title": "Ops", "uid": "F1"}, &out)
	require.NoError(t, err)

	assert.Equal(t, "/api/folders", got.URL.Path)
	assert.Equal(t, "Bearer tok", got.Header.Get("Authorization"))
	assert.Equal(t, "session=1", got.Header.Get("Cookie"))
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.Equal(t, "Ops", payload["title"])
	assert.Equal(t, json.Number("12"), out.ID)
	assert.Equal(t, "F1", out.UID)
}

func TestClientDryRunSendsNoWrites(t *testing.T) {
	var reads, writes atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			reads.Add(1)
			_, _ = w.Write([]byte(`[]`))
			return
		}
		writes.Add(1)
		_, _ = w.Write([]byte(`{"id": 1}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, WithDryRun(true))
	require.NoError(t, err)
	assert.True(t, c.DryRun())

	ctx := context.Background()
	var list []any
	require.NoError(t, c.Get(ctx, "api/search", &list))

	out := map[string]any{}
	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		require.NoError(t, c.Send(ctx, method, "api/folders", map[string]any{"title": "x"}, &out))
	}

	assert.Equal(t, int32(1), reads.Load())
	assert.Equal(t, int32(0), writes.Load())
	assert.Empty(t, out)
}

func TestClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/dashboards/db":
			w.WriteHeader(http.StatusPreconditionFailed)
			_, _ = w.Write([]byte(`{"message":"version-mismatch"}`))
		case "/api/search":
			_, _ = w.Write([]byte("<html>\n<body>Please sign in to continue to Grafana</body></html>"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	fs := afero.NewMemMapFs()
	c, err := New(srv.URL, WithErrorBodyFile(fs, "error.html"))
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("non-success status carries raw body", func(t *testing.T) {
		err := c.Send(ctx, http.MethodPost, "api/dashboards/db", map[string]any{}, nil)
		var apiErr *errors.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusPreconditionFailed, apiErr.StatusCode)
		assert.Equal(t, `{"message":"version-mismatch"}`, apiErr.Message)
		assert.Equal(t, http.MethodPost, apiErr.Method)
	})

	t.Run("not found", func(t *testing.T) {
		err := c.Get(ctx, "api/folders/nope", &map[string]any{})
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("unparseable body", func(t *testing.T) {
		var list []any
		err := c.Get(ctx, "api/search", &list)
		var parseErr *errors.ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Contains(t, err.Error(), "<html> <body>Please sign in to continue ...")

		saved, readErr := afero.ReadFile(fs, "error.html")
		require.NoError(t, readErr)
		assert.Contains(t, string(saved), "Please sign in")
	})
}
