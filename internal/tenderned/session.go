// Package tenderned is a client for the TenderNed Notice Service (TNS) XML API.
package tenderned

import (
	"net/http"

	"github.com/jonesrussell/north-cloud/tenderned-notice/internal/domain"
	infrahttp "github.com/jonesrussell/north-cloud/tenderned-notice/internal/infrastructure/http"
)

// basicAuthTransport adds HTTP Basic credentials to every request it sends, except
// redirect hops that leave the origin of the request that started the chain.
type basicAuthTransport struct {
	creds domain.Credentials
	next  http.RoundTripper
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !sameOrigin(originOf(req), req) {
		return t.next.RoundTrip(req)
	}

	// RoundTrippers must not modify the caller's request.
	authed := req.Clone(req.Context())
	authed.SetBasicAuth(t.creds.Username, t.creds.Password)
	return t.next.RoundTrip(authed)
}

// originOf follows the redirect chain back to the first request.
func originOf(req *http.Request) *http.Request {
	first := req
	for first.Response != nil && first.Response.Request != nil {
		first = first.Response.Request
	}
	return first
}

// sameOrigin reports whether req targets the host of origin without a downgrade
// from https to http.
func sameOrigin(origin, req *http.Request) bool {
	if origin == req {
		return true
	}
	if origin.URL.Host != req.URL.Host {
		return false
	}
	return !(origin.URL.Scheme == "https" && req.URL.Scheme == "http")
}

// NewSession builds an HTTP client that authenticates every request with creds.
// Credentials are withheld from redirects to another host. It performs no validation
// and no network I/O; empty credentials are sent as-is. cfg may be nil for default
// transport settings.
func NewSession(creds domain.Credentials, cfg *infrahttp.ClientConfig) *http.Client {
	clientCfg := infrahttp.ClientConfig{}
	if cfg != nil {
		clientCfg = *cfg
	}

	inner := clientCfg.Wrap
	clientCfg.Wrap = func(next http.RoundTripper) http.RoundTripper {
		if inner != nil {
			next = inner(next)
		}
		return &basicAuthTransport{creds: creds, next: next}
	}

	return infrahttp.NewClient(&clientCfg)
}
