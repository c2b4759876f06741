package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/agentstation/dashsync/pkg/constants"
	"github.com/agentstation/dashsync/pkg/errors"
)

// BaseURL reduces a Grafana address to scheme and host, so that a URL
// copied from the browser address bar works as well as the bare instance
// address. Only http and https are accepted.
func BaseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, errors.NewConfigError("url", fmt.Sprintf("invalid url %q", raw), err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.NewConfigError("url", fmt.Sprintf("invalid url %q: scheme must be http or https", raw), nil)
	}
	if u.Host == "" {
		return nil, errors.NewConfigError("url", fmt.Sprintf("invalid url %q: missing host", raw), nil)
	}
	return &url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"}, nil
}

// DecodeResponse decodes a JSON response into the target structure. A
// non-2xx status is returned as an *errors.APIError carrying the raw body.
func DecodeResponse(resp *http.Response, target any) error {
	body, err := readResponse(resp)
	if err != nil {
		return err
	}
	return unmarshal(body, target)
}

// readResponse drains and closes the body, failing on a non-2xx status.
func readResponse(resp *http.Response) ([]byte, error) {
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		method, endpoint := "", ""
		if resp.Request != nil {
			method = resp.Request.Method
			if resp.Request.URL != nil {
				endpoint = resp.Request.URL.Path
			}
		}
		return body, errors.NewAPIError(method, endpoint, resp.StatusCode, string(body))
	}
	return body, nil
}

// unmarshal decodes body into target, keeping numbers as json.Number.
// An empty body leaves target untouched.
func unmarshal(body []byte, target any) error {
	if target == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(target); err != nil {
		return errors.NewParseError("json", "response",
			"couldn't parse response: "+errors.Snippet(string(body), constants.ErrorSnippetLength), err)
	}
	return nil
}

// isWrite reports whether a method changes remote state.
func isWrite(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	default:
		return true
	}
}
