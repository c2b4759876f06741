// Package transport is the HTTP layer under the Grafana client: base
// address handling, credentials, JSON encoding, error mapping and dry run.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/spf13/afero"

	"github.com/agentstation/dashsync/pkg/constants"
	"github.com/agentstation/dashsync/pkg/errors"
	"github.com/agentstation/dashsync/pkg/logging"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Client sends JSON requests to one Grafana instance.
type Client struct {
	http        *http.Client
	baseURL     *url.URL
	credentials []credential
	dryRun      bool

	// errorFs receives the raw body of responses that fail to parse.
	errorFs   afero.Fs
	errorFile string
}

// Option configures a Client.
type Option func(*Client)

// WithToken authenticates with a bearer token.
func WithToken(token string) Option {
	return WithAuth(&BearerAuth{}, token)
}

// WithCookie sends a Cookie header with every request.
func WithCookie(cookie string) Option {
	return WithAuth(&HeaderAuth{Header: "Cookie"}, cookie)
}

// WithAuth adds a credential applied to every request.
func WithAuth(auth Authenticator, secret string) Option {
	return func(c *Client) {
		if secret == "" || auth == nil {
			return
		}
		c.credentials = append(c.credentials, credential{auth: auth, secret: secret})
	}
}

// WithDryRun makes every write-class request return before it is sent.
func WithDryRun(dryRun bool) Option {
	return func(c *Client) {
		c.dryRun = dryRun
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.Timeout = timeout
		}
	}
}

// WithErrorBodyFile saves the raw body of any response that is not valid
// JSON to path on fs, typically an HTML login or proxy error page.
func WithErrorBodyFile(fs afero.Fs, path string) Option {
	return func(c *Client) {
		c.errorFs = fs
		c.errorFile = path
	}
}

// New creates a client for the Grafana instance at rawURL.
func New(rawURL string, opts ...Option) (*Client, error) {
	base, err := BaseURL(rawURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		http:    &http.Client{Timeout: DefaultHTTPTimeout},
		baseURL: base,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the instance address requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// DryRun reports whether write-class requests are suppressed.
func (c *Client) DryRun() bool {
	return c.dryRun
}

// Get performs a GET request and decodes the JSON response into target.
func (c *Client) Get(ctx context.Context, path string, target any) error {
	return c.Send(ctx, http.MethodGet, path, nil, target)
}

// Send encodes payload as JSON, sends it and decodes the response into
// target. In dry run, a write-class request is logged and dropped and
// target is left untouched.
func (c *Client) Send(ctx context.Context, method, path string, payload, target any) error {
	logger := logging.FromContext(ctx)
	endpoint := c.baseURL.JoinPath(path)

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return errors.WrapParse("json", "request", err)
		}
	}

	if e := logger.Debug(); e.Enabled() {
		e = e.Str("method", method).Str("url", endpoint.String())
		if body != nil {
			e = e.RawJSON("payload", body)
		}
		e.Msg("Request")
	}

	if c.dryRun && isWrite(method) {
		logger.Debug().Str("method", method).Str("url", endpoint.String()).Msg("Dry run, request not sent")
		return nil
	}

	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := newRequest(ctx, method, endpoint.String(), reader)
	if err != nil {
		return errors.WrapResource("create", "request", method+" "+path, err)
	}

	resp, err := c.DoWithContext(ctx, req)
	if err != nil {
		return errors.WrapResource("send", "request", method+" "+path, err)
	}

	raw, err := readResponse(resp)
	logger.Debug().Int("status", resp.StatusCode).Bytes("body", raw).Msg("Response")
	if err != nil {
		return err
	}

	if err := unmarshal(raw, target); err != nil {
		c.saveErrorBody(ctx, raw)
		return err
	}
	return nil
}

// DoWithContext performs an HTTP request with credentials and JSON
// headers applied.
func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	for _, cred := range c.credentials {
		cred.auth.Apply(req, cred.secret)
	}

	req.Header.Set("Accept", "application/json")
	if req.Method == http.MethodPost || req.Method == http.MethodPut || req.Method == http.MethodPatch {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.http.Do(req.WithContext(ctx))
}

func (c *Client) saveErrorBody(ctx context.Context, raw []byte) {
	if c.errorFs == nil || c.errorFile == "" {
		return
	}
	logger := logging.FromContext(ctx)
	if err := afero.WriteFile(c.errorFs, c.errorFile, raw, constants.FilePermissions); err != nil {
		logger.Warn().Err(err).Str("path", c.errorFile).Msg("Could not save unparseable response")
		return
	}
	logger.Warn().Str("path", c.errorFile).Msg("Saved unparseable response")
}

func newRequest(ctx context.Context, method, target string, body *bytes.Reader) (*http.Request, error) {
	if body == nil {
		return http.NewRequestWithContext(ctx, method, target, nil)
	}
	return http.NewRequestWithContext(ctx, method, target, body)
}
