//go:build integration

package integration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joho/godotenv"

	"github.com/wetransfer/wetransfer-go"
)

var (
	apiKey  string
	baseURL string
)

func TestMain(m *testing.M) {
	// Load .env file if it exists (won't error if missing)
	if err := godotenv.Load("../.env"); err != nil {
		os.Stderr.WriteString("Note: .env file not found at project root\n")
	}

	apiKey = os.Getenv("WETRANSFER_API_KEY")
	baseURL = os.Getenv("WETRANSFER_BASE_URL")

	if apiKey == "" {
		os.Stderr.WriteString("Skipping integration tests: WETRANSFER_API_KEY not set\n")
		os.Exit(0)
	}

	if baseURL == "" {
		baseURL = wetransfer.DefaultBaseURL
	}

	os.Stderr.WriteString("Running integration tests...\n")
	os.Stderr.WriteString("API URL: " + baseURL + "\n")

	os.Exit(m.Run())
}

func newClient(t *testing.T) *wetransfer.Client {
	t.Helper()

	client, err := wetransfer.New(apiKey,
		wetransfer.WithBaseURL(baseURL),
		wetransfer.WithTimeout(30*time.Second),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	t.Cleanup(func() {
		client.Close()
	})
	return client
}

func TestAuthorize(t *testing.T) {
	client := newClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := client.Authorize(ctx); err != nil {
		t.Fatalf("Authorize() error = %v", err)
	}
	if !client.IsAuthorized() {
		t.Error("IsAuthorized() = false after Authorize")
	}
}

func TestAuthorize_InvalidKey(t *testing.T) {
	client, err := wetransfer.New("invalid-"+apiKey, wetransfer.WithBaseURL(baseURL), wetransfer.WithRetries(0))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer client.Close()

	err = client.Authorize(context.Background())
	if err == nil {
		t.Fatal("Authorize() with an invalid key succeeded")
	}
	if !errors.Is(err, wetransfer.ErrUnauthorized) && !errors.Is(err, wetransfer.ErrAuthorizationFailed) {
		t.Errorf("Authorize() error = %v, want unauthorized", err)
	}
}

func TestSend(t *testing.T) {
	client := newClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	path := filepath.Join(t.TempDir(), "integration.txt")
	if err := os.WriteFile(path, []byte("wetransfer-go integration test\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	transfer, err := client.Send(ctx, "wetransfer-go integration", "", []string{path}, nil)
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if transfer.ShortURL == "" {
		t.Error("ShortURL is empty")
	}
	for _, f := range transfer.Files {
		if !f.Uploaded {
			t.Errorf("file %s not uploaded", f.Filename)
		}
	}
}

func TestSendTransfer_States(t *testing.T) {
	client := newClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	path := filepath.Join(t.TempDir(), "states.txt")
	if err := os.WriteFile(path, []byte("states"), 0o600); err != nil {
		t.Fatal(err)
	}

	states := make(chan wetransfer.TransferState, 4)
	client.SendTransfer(ctx, "wetransfer-go states", "", []string{path}, func(s wetransfer.TransferState) {
		states <- s
	})

	var kinds []wetransfer.TransferStateKind
	for s := range states {
		kinds = append(kinds, s.Kind)
		if s.Kind == wetransfer.TransferFailed {
			t.Fatalf("transfer failed: %v", s.Err)
		}
		if s.Kind == wetransfer.TransferCompleted {
			break
		}
	}
	want := []wetransfer.TransferStateKind{wetransfer.TransferCreated, wetransfer.TransferStarted, wetransfer.TransferCompleted}
	if len(kinds) != len(want) {
		t.Fatalf("states = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("state %d = %v, want %v", i, kinds[i], want[i])
		}
	}
}
