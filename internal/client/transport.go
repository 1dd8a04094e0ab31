package client

import (
	"fmt"
	"net/http"

	"github.com/oklog/ulid/v2"
)

const (
	bearerPrefix    = "Bearer "
	requestIDHeader = "X-Request-ID"
)

// TokenSource yields the current bearer token, or "" when signed out
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// BearerTransport attaches the session's bearer token to every outgoing
// request. It does not retry: transport failures surface to the caller.
type BearerTransport struct {
	Base   http.RoundTripper
	Tokens TokenSource
}

func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request
	out := req.Clone(req.Context())

	if t.Tokens != nil {
		if token := t.Tokens.Token(); token != "" {
			out.Header.Set("Authorization", fmt.Sprintf("%s%s", bearerPrefix, token))
		}
	}

	if out.Header.Get(requestIDHeader) == "" {
		out.Header.Set(requestIDHeader, ulid.Make().String())
	}

	return t.base().RoundTrip(out)
}

func (t *BearerTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}
