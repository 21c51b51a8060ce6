package api

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Descriptor is the untyped view of an Endpoint consumed by the request
// builder.
type Descriptor interface {
	// HTTPMethod returns the HTTP method used for the call.
	HTTPMethod() string
	// RequiresAuth reports whether a bearer token must be held.
	RequiresAuth() bool
	// URL resolves the endpoint against the base URL.
	URL(base *url.URL) (*url.URL, error)
}

// Endpoint describes one remote operation: where it lives, how it is
// called, whether it needs a bearer token, and (through Response) what it
// answers with.
type Endpoint[Response any] struct {
	// Path is relative to the base URL. Dynamic segments must already be
	// escaped with url.PathEscape.
	Path                   string
	Method                 string
	RequiresAuthentication bool
}

// HTTPMethod returns the HTTP method of the endpoint.
func (e Endpoint[Response]) HTTPMethod() string {
	return e.Method
}

// RequiresAuth reports whether the endpoint needs a bearer token.
func (e Endpoint[Response]) RequiresAuth() bool {
	return e.RequiresAuthentication
}

// URL resolves the endpoint path against base. The base path is treated as
// a directory, so "https://host/v1" and "https://host/v1/" resolve the same.
func (e Endpoint[Response]) URL(base *url.URL) (*url.URL, error) {
	if base == nil {
		return nil, errors.New("base URL is nil")
	}
	if !base.IsAbs() || base.Host == "" {
		return nil, fmt.Errorf("base URL %q is not absolute", base.String())
	}

	ref, err := url.Parse(e.Path)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint path: %w", err)
	}
	if ref.IsAbs() || ref.Host != "" {
		return nil, fmt.Errorf("endpoint path %q must be relative", e.Path)
	}

	root := *base
	if !strings.HasSuffix(root.Path, "/") {
		root.Path += "/"
		if root.RawPath != "" {
			root.RawPath += "/"
		}
	}
	ref.Path = strings.TrimLeft(ref.Path, "/")
	ref.RawPath = strings.TrimLeft(ref.RawPath, "/")

	return root.ResolveReference(ref), nil
}
