package dashsync

import (
	"net/http"
	"net/url"
	"time"

	"github.com/spf13/afero"

	"github.com/agentstation/dashsync/internal/transport"
	"github.com/agentstation/dashsync/pkg/constants"
	"github.com/agentstation/dashsync/pkg/errors"
)

// Option is a function that configures a Client.
type Option func(*config) error

type config struct {
	baseURL     *url.URL
	token       string
	cookie      string
	httpClient  *http.Client
	httpTimeout time.Duration

	fs            afero.Fs
	errorBodyFile string

	saveDiff bool
	diffDir  string
}

func defaultConfig() *config {
	return &config{
		fs:            afero.NewOsFs(),
		errorBodyFile: constants.ErrorBodyFile,
		diffDir:       ".",
		httpTimeout:   constants.DefaultHTTPTimeout,
	}
}

func (c *config) validate() error {
	if c.baseURL == nil {
		return errors.NewConfigError("url", "a Grafana URL is required", nil)
	}
	return nil
}

// WithURL sets the Grafana instance. Only the scheme and host are kept, so
// a dashboard link copied from the browser works too.
func WithURL(raw string) Option {
	return func(c *config) error {
		u, err := transport.BaseURL(raw)
		if err != nil {
			return err
		}
		c.baseURL = u
		return nil
	}
}

// WithToken authenticates with a service account or API token.
func WithToken(token string) Option {
	return func(c *config) error {
		c.token = token
		return nil
	}
}

// WithCookie sends a Cookie header with every request, for instances behind
// a login proxy.
func WithCookie(cookie string) Option {
	return func(c *config) error {
		c.cookie = cookie
		return nil
	}
}

// WithHTTPClient replaces the HTTP client used to reach Grafana.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) error {
		c.httpClient = hc
		return nil
	}
}

// WithHTTPTimeout sets the per-request timeout.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *config) error {
		if timeout < 0 {
			return &errors.ValidationError{Field: "HTTPTimeout", Value: timeout, Message: "timeout must be non-negative"}
		}
		c.httpTimeout = timeout
		return nil
	}
}

// WithFs sets the filesystem for definitions, diff dumps and saved error
// bodies.
func WithFs(fs afero.Fs) Option {
	return func(c *config) error {
		if fs == nil {
			return &errors.ValidationError{Field: "Fs", Message: "filesystem is nil"}
		}
		c.fs = fs
		return nil
	}
}

// WithErrorBodyFile sets where the raw body of an unparseable response is
// saved. An empty path disables saving.
func WithErrorBodyFile(path string) Option {
	return func(c *config) error {
		c.errorBodyFile = path
		return nil
	}
}

// WithDiffOutput writes the normalized local and remote forms of every
// compared dashboard into dir. An empty dir means the working directory.
func WithDiffOutput(dir string) Option {
	return func(c *config) error {
		c.saveDiff = true
		if dir != "" {
			c.diffDir = dir
		}
		return nil
	}
}
