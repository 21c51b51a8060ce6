// Package api provides the HTTP layer for the WeTransfer public API. It
// describes endpoints, builds authenticated requests, encodes and decodes
// snake_case JSON bodies and retries transient failures.
//
// # Request Building
//
// [Client.CreateRequest] turns an [Endpoint] into an *http.Request without
// any I/O. It fails with [ErrNotConfigured] when no API key is set, with
// [ErrNotAuthorized] when the endpoint needs a bearer token and none is
// held, and with [ErrNotConfigured] again when the base URL is missing or
// the endpoint cannot be resolved against it. Every request carries the
// x-api-key header. The Authorization header is added whenever a token is
// held, including on endpoints that do not require one.
//
// # Authorization
//
// [Client.Authorize] exchanges the API key for a bearer token. It is a no-op
// once a token is held. The token lives in the client's [Authenticator]
// until [Client.Reset] is called.
//
// # Retry Behavior
//
// Requests go through a go-retryablehttp client. By default they are retried
// up to 3 times for these HTTP status codes:
//
//   - 408 Request Timeout
//   - 429 Too Many Requests
//   - 500 Internal Server Error
//   - 502 Bad Gateway
//   - 503 Service Unavailable
//   - 504 Gateway Timeout
//
// The retry delay doubles with each attempt (1s, 2s, 4s, ...) with 20%
// jitter. A Retry-After header on 429 and 503 responses takes precedence.
//
// # Error Handling
//
// HTTP errors are returned as [*APIError] and match sentinel errors through
// errors.Is:
//
//   - [ErrUnauthorized]: Invalid API key or expired token (401, 403).
//   - [ErrTransferNotFound]: Transfer does not exist (404).
//   - [ErrFileNotFound]: File does not exist (404).
//   - [ErrRateLimited]: Rate limit exceeded (429).
//
// Transport failures are returned as [*NetworkError] and undecodable bodies
// as [*DecodeError].
//
// # Thread Safety
//
// The [Client] type is safe for concurrent use.
package api
