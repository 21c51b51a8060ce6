package api

import (
	"net/http"
	"sync"
)

// Authenticator holds the bearer token of the current session.
// It is safe for concurrent use.
type Authenticator struct {
	mu     sync.Mutex
	bearer string
	has    bool
}

// HasToken reports whether a bearer token is held.
func (a *Authenticator) HasToken() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.has
}

// Token returns the current bearer token, if any.
func (a *Authenticator) Token() (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.bearer, a.has
}

// SetToken stores token, replacing any previous one. The value is not
// validated.
func (a *Authenticator) SetToken(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.bearer = token
	a.has = true
}

// Clear forgets the current token.
func (a *Authenticator) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.bearer = ""
	a.has = false
}

// Authenticate adds the bearer authorization header to req when a token is
// held. It reports whether the header was added.
func (a *Authenticator) Authenticate(req *http.Request) bool {
	token, ok := a.Token()
	if !ok {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return true
}
