package transport

import (
	"net/http"
)

// Authenticator applies a credential to HTTP requests.
type Authenticator interface {
	Apply(req *http.Request, secret string)
}

// NoAuth implements no authentication.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ *http.Request, _ string) {}

// BearerAuth sends the secret as a bearer token, the way Grafana service
// account tokens are used.
type BearerAuth struct{}

// Apply implements the Authenticator interface for BearerAuth.
func (a *BearerAuth) Apply(req *http.Request, secret string) {
	if secret == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+secret)
}

// HeaderAuth sends the secret verbatim in a custom header. With Header set
// to "Cookie" it forwards a browser session cookie, which is how instances
// behind an authenticating proxy are reached.
type HeaderAuth struct {
	Header string
}

// Apply implements the Authenticator interface for HeaderAuth.
func (a *HeaderAuth) Apply(req *http.Request, secret string) {
	if secret == "" {
		return
	}
	req.Header.Set(a.Header, secret)
}

// credential pairs an authenticator with the secret it applies.
type credential struct {
	auth   Authenticator
	secret string
}
