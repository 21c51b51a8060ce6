package wetransfer

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/wetransfer/wetransfer-go/internal/api"
	"github.com/wetransfer/wetransfer-go/internal/dispatch"
	"github.com/wetransfer/wetransfer-go/internal/upload"
)

// Client is the WeTransfer client. A Client holds one API key, one base URL
// and at most one bearer token, and is safe for concurrent use.
type Client struct {
	apiClient *api.Client
	uploader  *upload.Uploader
	baseURL   string
	logger    zerolog.Logger

	// executor runs every completion and progress callback. queue is set
	// only when the client owns it.
	executor Executor
	queue    *dispatch.Queue

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup

	// closeCtx is canceled by Close to stop background operations.
	closeCtx    context.Context
	closeCancel context.CancelFunc
}

// buildAPIClient creates the request layer from the given config.
func buildAPIClient(cfg *clientConfig) *api.Client {
	retry := api.DefaultRetryConfig()
	retry.MaxRetries = cfg.retries

	return api.NewClient(api.Config{
		HTTPClient: cfg.httpClient,
		Timeout:    cfg.timeout,
		Retry:      retry,
		Logger:     cfg.logger,
		Debug:      cfg.debug,
	})
}

// NewClient creates a client that is not configured yet. Call Configure
// before sending any request.
func NewClient(opts ...Option) *Client {
	cfg := &clientConfig{
		timeout: api.DefaultTimeout,
		retries: api.DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.retries < 0 {
		cfg.retries = 0
	}

	logger := zerolog.Nop()
	if cfg.logger != nil {
		logger = *cfg.logger
	}

	apiClient := buildAPIClient(cfg)
	c := &Client{
		apiClient: apiClient,
		uploader: upload.New(apiClient, upload.Config{
			ChunkSize:        cfg.chunkSize,
			Concurrency:      cfg.uploadConcurrency,
			MaxRetryPerChunk: cfg.maxRetryPerChunk,
			Logger:           &logger,
		}),
		baseURL:  cfg.baseURL,
		logger:   logger,
		executor: cfg.executor,
	}
	if c.executor == nil {
		c.queue = dispatch.NewQueue(logger)
		c.executor = c.queue
	}
	c.closeCtx, c.closeCancel = context.WithCancel(context.Background())
	return c
}

// New creates a client configured with apiKey and the base URL given by
// WithBaseURL, or DefaultBaseURL.
func New(apiKey string, opts ...Option) (*Client, error) {
	c := NewClient(opts...)
	if err := c.Configure(apiKey, c.baseURL); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// Configure sets the API key and base URL. An empty baseURL selects
// DefaultBaseURL. A held token is kept.
func (c *Client) Configure(apiKey, baseURL string) error {
	if err := c.checkClosed(); err != nil {
		return err
	}
	if err := c.apiClient.Configure(apiKey, baseURL); err != nil {
		return err
	}
	c.logger.Debug().Str("base_url", c.apiClient.BaseURL()).Msg("client configured")
	return nil
}

// Reset forgets the API key, the base URL and the token.
func (c *Client) Reset() {
	c.apiClient.Reset()
}

// Logout forgets the token only. The next operation authorizes again.
func (c *Client) Logout() {
	c.apiClient.Authenticator().Clear()
}

// IsConfigured reports whether an API key and base URL are set.
func (c *Client) IsConfigured() bool {
	return c.apiClient.IsConfigured()
}

// IsAuthorized reports whether a bearer token is held.
func (c *Client) IsAuthorized() bool {
	return c.apiClient.Authenticator().HasToken()
}

// Close cancels background operations and returns without waiting for
// them. Their completions are still delivered, and the client's callback
// queue stops once the last of them has drained, so Close may be called
// from a callback. Close is idempotent. Operations started after Close fail
// with ErrClientClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.closeCancel()

	if c.queue != nil {
		go func() {
			c.wg.Wait()
			c.queue.Close()
		}()
	}
	return nil
}

// checkClosed returns ErrClientClosed if the client has been closed.
func (c *Client) checkClosed() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClientClosed
	}
	return nil
}

// goBackground runs fn on its own goroutine with a context that is also
// canceled by Close. It reports false, without running fn, once the client
// is closed.
func (c *Client) goBackground(ctx context.Context, fn func(ctx context.Context)) bool {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return false
	}
	c.wg.Add(1)
	c.mu.RUnlock()

	go func() {
		defer c.wg.Done()
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		stop := context.AfterFunc(c.closeCtx, cancel)
		defer stop()
		fn(ctx)
	}()
	return true
}

// deliver hands fn to the callback executor.
func (c *Client) deliver(fn func()) {
	c.executor.Submit(fn)
}
