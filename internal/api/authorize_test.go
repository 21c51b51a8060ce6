package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func authorizeServer(t *testing.T, body string, calls *int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		if r.Method != http.MethodPost || r.URL.Path != "/v1/authorize" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("x-api-key = %q", r.Header.Get("x-api-key"))
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestAuthorize_StoresToken(t *testing.T) {
	var calls int32
	server := authorizeServer(t, `{"success":true,"token":"abc"}`, &calls)
	c := newConfiguredClient(t, server.URL+"/v1/")

	if err := c.Authorize(context.Background()); err != nil {
		t.Fatalf("Authorize() error = %v", err)
	}
	if tok, ok := c.Authenticator().Token(); !ok || tok != "abc" {
		t.Errorf("Token() = %q, %v", tok, ok)
	}

	req, err := c.CreateRequest(context.Background(), CreateTransferEndpoint(), nil)
	if err != nil {
		t.Fatalf("CreateRequest() error = %v", err)
	}
	if got := req.Header.Get("Authorization"); got != "Bearer abc" {
		t.Errorf("Authorization = %q", got)
	}
}

func TestAuthorize_IsIdempotent(t *testing.T) {
	var calls int32
	server := authorizeServer(t, `{"success":true,"token":"abc"}`, &calls)
	c := newConfiguredClient(t, server.URL+"/v1/")

	for i := 0; i < 3; i++ {
		if err := c.Authorize(context.Background()); err != nil {
			t.Fatalf("Authorize() #%d error = %v", i, err)
		}
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestAuthorize_Rejected(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"success false", `{"success":false,"token":null}`},
		{"success without token", `{"success":true}`},
		{"success with empty token", `{"success":true,"token":""}`},
		{"token without success", `{"success":false,"token":"abc"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			server := authorizeServer(t, tt.body, &calls)
			c := newConfiguredClient(t, server.URL+"/v1/")

			err := c.Authorize(context.Background())
			if !errors.Is(err, ErrAuthorizationFailed) {
				t.Errorf("Authorize() error = %v, want ErrAuthorizationFailed", err)
			}
			if c.Authenticator().HasToken() {
				t.Error("token should not be stored")
			}
		})
	}
}

func TestAuthorize_NotConfigured(t *testing.T) {
	c := NewClient(Config{})
	if err := c.Authorize(context.Background()); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Authorize() error = %v, want ErrNotConfigured", err)
	}
}

func TestAuthorize_TokenHeldSkipsConfigurationChecks(t *testing.T) {
	c := NewClient(Config{})
	c.Authenticator().SetToken("abc")

	if err := c.Authorize(context.Background()); err != nil {
		t.Errorf("Authorize() with token held error = %v", err)
	}
}

func TestAuthorize_PassesThroughErrors(t *testing.T) {
	t.Run("http error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"bad key"}`))
		}))
		defer server.Close()

		c := newConfiguredClient(t, server.URL)
		err := c.Authorize(context.Background())
		if !errors.Is(err, ErrUnauthorized) {
			t.Errorf("Authorize() error = %v, want ErrUnauthorized", err)
		}
		if errors.Is(err, ErrAuthorizationFailed) {
			t.Error("HTTP errors should not be turned into ErrAuthorizationFailed")
		}
	})

	for _, body := range []string{``, `{}`, `{"token":"abc"}`} {
		t.Run("undecodable "+body, func(t *testing.T) {
			var calls int32
			server := authorizeServer(t, body, &calls)
			c := newConfiguredClient(t, server.URL+"/v1/")

			err := c.Authorize(context.Background())
			var decErr *DecodeError
			if !errors.As(err, &decErr) {
				t.Errorf("Authorize(%q) error = %v, want *DecodeError", body, err)
			}
			if errors.Is(err, ErrAuthorizationFailed) {
				t.Error("decode errors should not be turned into ErrAuthorizationFailed")
			}
			if c.Authenticator().HasToken() {
				t.Error("token should not be stored")
			}
		})
	}

	t.Run("decode error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		}))
		defer server.Close()

		c := newConfiguredClient(t, server.URL)
		var decErr *DecodeError
		if err := c.Authorize(context.Background()); !errors.As(err, &decErr) {
			t.Errorf("Authorize() error = %v, want *DecodeError", err)
		}
	})
}
