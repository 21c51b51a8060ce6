package api

import (
	"net/http"
	"sync"
	"testing"
)

func TestAuthenticator_Lifecycle(t *testing.T) {
	var a Authenticator

	if a.HasToken() {
		t.Fatal("zero Authenticator should not hold a token")
	}
	req, _ := http.NewRequest(http.MethodGet, "https://example.com", nil)
	if a.Authenticate(req) {
		t.Error("Authenticate() without token should report false")
	}
	if req.Header.Get("Authorization") != "" {
		t.Error("Authorization header should not be set without token")
	}

	a.SetToken("abc")
	if tok, ok := a.Token(); !ok || tok != "abc" {
		t.Errorf("Token() = %q, %v; want abc, true", tok, ok)
	}
	if !a.Authenticate(req) || req.Header.Get("Authorization") != "Bearer abc" {
		t.Errorf("Authorization = %q", req.Header.Get("Authorization"))
	}

	a.SetToken("def")
	if tok, _ := a.Token(); tok != "def" {
		t.Errorf("Token() = %q, want def", tok)
	}

	a.Clear()
	if a.HasToken() {
		t.Error("token should be cleared")
	}
}

func TestAuthenticator_Concurrent(t *testing.T) {
	var a Authenticator
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			a.SetToken("tok")
		}()
		go func() {
			defer wg.Done()
			if tok, ok := a.Token(); ok && tok != "tok" {
				t.Errorf("Token() = %q", tok)
			}
		}()
	}
	wg.Wait()

	if !a.HasToken() {
		t.Error("token should be set")
	}
}
