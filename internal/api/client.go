package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

const (
	// DefaultBaseURL is the WeTransfer public API root.
	DefaultBaseURL = "https://dev.wetransfer.com/v1/"
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxRetries is the default number of retry attempts.
	DefaultMaxRetries = 3
	// DefaultRetryDelay is the default base delay between retries.
	DefaultRetryDelay = time.Second

	apiKeyHeader = "x-api-key"
)

// Config holds the transport configuration of a Client. Credentials are
// supplied separately through Configure.
type Config struct {
	HTTPClient *http.Client
	Timeout    time.Duration
	Retry      *RetryConfig
	Logger     *zerolog.Logger
	// Debug wraps the transport with request/response dumps.
	Debug bool
}

// Client builds and sends requests to the WeTransfer API. It holds the API
// key, the base URL and the session's bearer token.
// It is safe for concurrent use.
type Client struct {
	mu      sync.RWMutex
	apiKey  string
	baseURL *url.URL

	auth   *Authenticator
	codec  Codec
	http   *retryablehttp.Client
	retry  *RetryConfig
	logger zerolog.Logger
}

// NewClient creates an unconfigured client. Configure must be called before
// any request can be built.
func NewClient(cfg Config) *Client {
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	retry := cfg.Retry
	if retry == nil {
		retry = DefaultRetryConfig()
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	var httpClient http.Client
	if cfg.HTTPClient != nil {
		httpClient = *cfg.HTTPClient
	} else {
		httpClient = http.Client{Timeout: timeout}
	}
	if cfg.Debug || DebugLoggingRequested() {
		base := httpClient.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		httpClient.Transport = &debugTransport{base: base, logger: logger}
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient = &httpClient
	rc.RetryMax = retry.MaxRetries
	rc.RetryWaitMin = retry.BaseDelay
	rc.RetryWaitMax = retry.MaxDelay
	rc.CheckRetry = retry.CheckRetry
	rc.Backoff = retry.Backoff
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = leveledLogger{logger: logger}

	return &Client{
		auth:   &Authenticator{},
		http:   rc,
		retry:  retry,
		logger: logger,
	}
}

// Configure sets the API key and base URL. An empty baseURL selects
// DefaultBaseURL. Invalid input leaves the client unchanged.
func (c *Client) Configure(apiKey, baseURL string) error {
	if apiKey == "" {
		return fmt.Errorf("%w: API key is required", ErrNotConfigured)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("%w: invalid base URL: %v", ErrNotConfigured, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("%w: base URL %q is not absolute", ErrNotConfigured, baseURL)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.apiKey = apiKey
	c.baseURL = u
	return nil
}

// Reset forgets the API key, the base URL and the bearer token.
func (c *Client) Reset() {
	c.mu.Lock()
	c.apiKey = ""
	c.baseURL = nil
	c.mu.Unlock()
	c.auth.Clear()
}

// IsConfigured reports whether an API key and base URL are set.
func (c *Client) IsConfigured() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiKey != "" && c.baseURL != nil
}

// BaseURL returns the configured base URL, or "" when unset.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// Authenticator returns the token holder of the client.
func (c *Client) Authenticator() *Authenticator {
	return c.auth
}

// CreateRequest builds the HTTP request for ep. Checks run in a fixed order:
// API key, authentication, base URL. The request carries the API key and,
// whenever a token is held, the bearer token, even for endpoints that do not
// require one. A non-nil payload is encoded as snake_case JSON.
// CreateRequest performs no I/O.
func (c *Client) CreateRequest(ctx context.Context, ep Descriptor, payload any) (*http.Request, error) {
	c.mu.RLock()
	apiKey, base := c.apiKey, c.baseURL
	c.mu.RUnlock()

	if apiKey == "" {
		return nil, fmt.Errorf("%w: no API key", ErrNotConfigured)
	}
	if ep.RequiresAuth() && !c.auth.HasToken() {
		return nil, ErrNotAuthorized
	}
	if base == nil {
		return nil, fmt.Errorf("%w: no base URL", ErrNotConfigured)
	}
	target, err := ep.URL(base)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotConfigured, err)
	}

	var body io.Reader
	if payload != nil {
		data, err := c.codec.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, ep.HTTPMethod(), target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set(apiKeyHeader, apiKey)
	c.auth.Authenticate(req)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// Send executes req through the retrying transport. Transport failures come
// back as *NetworkError; any HTTP status is returned as a response.
func (c *Client) Send(req *http.Request) (*http.Response, error) {
	rreq, err := retryablehttp.FromRequest(req)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	start := time.Now()
	resp, err := c.http.Do(rreq)
	return c.observe(req, start, resp, err)
}

// sendOnce executes req exactly once, bypassing the retry layer. Callers
// that retry on their own use it so that attempts do not multiply.
func (c *Client) sendOnce(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.http.HTTPClient.Do(req)
	return c.observe(req, start, resp, err)
}

// observe records the outcome of req and maps transport failures.
func (c *Client) observe(req *http.Request, start time.Time, resp *http.Response, err error) (*http.Response, error) {
	if err != nil {
		requestsTotal.WithLabelValues(req.Method, "error").Inc()
		if ctxErr := req.Context().Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, ctxErr
		}
		return nil, &NetworkError{Err: err, URL: req.URL.String()}
	}
	requestsTotal.WithLabelValues(req.Method, strconv.Itoa(resp.StatusCode)).Inc()

	c.logger.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("api request")
	return resp, nil
}

// Do builds, sends and decodes a call to ep. An error status is returned as
// *APIError; an undecodable body as *DecodeError. Only a 204 may carry no
// body.
func Do[R any](ctx context.Context, c *Client, ep Endpoint[R], payload any) (*R, error) {
	req, err := c.CreateRequest(ctx, ep, payload)
	if err != nil {
		return nil, err
	}
	resp, err := c.Send(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, c.parseErrorResponse(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err, URL: req.URL.String()}
	}

	var result R
	if resp.StatusCode == http.StatusNoContent {
		return &result, nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &DecodeError{Err: errEmptyBody}
	}
	if err := c.codec.Unmarshal(data, &result); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return &result, nil
}

type errorResponse struct {
	Error     string
	Message   string
	RequestID string
}

func (c *Client) parseErrorResponse(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	requestID := resp.Header.Get("X-Request-Id")

	var errResp errorResponse
	if err := c.codec.Unmarshal(body, &errResp); err == nil {
		if errResp.RequestID != "" {
			requestID = errResp.RequestID
		}
		msg := errResp.Message
		if msg == "" {
			msg = errResp.Error
		}
		if msg != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: msg, RequestID: requestID}
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    strings.TrimSpace(string(body)),
		RequestID:  requestID,
	}
}
