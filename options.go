package wetransfer

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/wetransfer/wetransfer-go/internal/api"
	"github.com/wetransfer/wetransfer-go/internal/dispatch"
	"github.com/wetransfer/wetransfer-go/internal/upload"
)

const (
	// DefaultBaseURL is the root of the WeTransfer public API.
	DefaultBaseURL = api.DefaultBaseURL
	// DefaultChunkSize is the size of one upload part.
	DefaultChunkSize = upload.DefaultChunkSize
)

// Executor runs completion callbacks. See WithCallbackExecutor.
type Executor = dispatch.Executor

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc = dispatch.ExecutorFunc

// InlineExecutor runs callbacks synchronously on the goroutine that
// finished the work.
var InlineExecutor = dispatch.Inline

// clientConfig holds configuration for the client.
type clientConfig struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	retries    int
	logger     *zerolog.Logger
	debug      bool
	executor   Executor

	chunkSize         int64
	uploadConcurrency int
	maxRetryPerChunk  int
}

// Option configures the client.
type Option func(*clientConfig)

// WithBaseURL sets the API base URL.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client. It is copied, never modified.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the per-request HTTP timeout.
// Ignored when WithHTTPClient is used.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithRetries sets the number of retries for API calls. Zero disables
// retries.
// Default: 3
func WithRetries(count int) Option {
	return func(c *clientConfig) {
		c.retries = count
	}
}

// WithLogger sets the logger used by the client.
// Default: a disabled logger
func WithLogger(logger zerolog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = &logger
	}
}

// WithDebugLogging dumps every HTTP request and response at debug level,
// with credentials redacted. WETRANSFER_DEBUG=true has the same effect.
func WithDebugLogging(enabled bool) Option {
	return func(c *clientConfig) {
		c.debug = enabled
	}
}

// WithCallbackExecutor sets where completions and progress callbacks run.
// By default they run one at a time, in order, on a goroutine owned by the
// client.
func WithCallbackExecutor(executor Executor) Option {
	return func(c *clientConfig) {
		c.executor = executor
	}
}

// WithChunkSize sets the upload part size. It must match the part size the
// service uses when it announces multipart_parts.
// Default: 6 MiB
func WithChunkSize(size int64) Option {
	return func(c *clientConfig) {
		c.chunkSize = size
	}
}

// WithUploadConcurrency sets how many parts of a file are uploaded at once.
// Default: 4
func WithUploadConcurrency(n int) Option {
	return func(c *clientConfig) {
		c.uploadConcurrency = n
	}
}

// WithMaxRetryPerChunk sets how many times one part is attempted before
// the upload fails.
// Default: 3
func WithMaxRetryPerChunk(n int) Option {
	return func(c *clientConfig) {
		c.maxRetryPerChunk = n
	}
}
