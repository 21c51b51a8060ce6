// Package apierrors provides shared error types for the WeTransfer client.
package apierrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrNotConfigured is returned when the client has no API key, no base
	// URL, or an endpoint that cannot be resolved against the base URL.
	ErrNotConfigured = errors.New("client is not configured")

	// ErrNotAuthorized is returned when an endpoint requiring authentication
	// is used before a bearer token has been obtained.
	ErrNotAuthorized = errors.New("client is not authorized")

	// ErrAuthorizationFailed is returned when the service rejects the
	// authorization request or accepts it without handing out a token.
	ErrAuthorizationFailed = errors.New("authorization failed")

	// ErrClientClosed is returned when operations are attempted on a closed client.
	ErrClientClosed = errors.New("client has been closed")

	// ErrUnauthorized is returned when the service answers 401 or 403.
	ErrUnauthorized = errors.New("invalid API key or expired token")

	// ErrTransferNotFound is returned when a transfer does not exist.
	ErrTransferNotFound = errors.New("transfer not found")

	// ErrFileNotFound is returned when a remote file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrRateLimited is returned when the API rate limit is exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// ResourceType indicates which type of resource an error relates to.
type ResourceType string

const (
	// ResourceUnknown indicates the resource type is not specified.
	ResourceUnknown ResourceType = ""
	// ResourceTransfer indicates the error relates to a transfer.
	ResourceTransfer ResourceType = "transfer"
	// ResourceFile indicates the error relates to a file.
	ResourceFile ResourceType = "file"
)

// APIError represents an HTTP error from the WeTransfer API.
type APIError struct {
	StatusCode   int
	Message      string
	RequestID    string
	ResourceType ResourceType
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		if e.Message != "" {
			return fmt.Sprintf("API error %d: %s (request_id: %s)", e.StatusCode, e.Message, e.RequestID)
		}
		return fmt.Sprintf("API error %d (request_id: %s)", e.StatusCode, e.RequestID)
	}
	if e.Message != "" {
		return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error %d", e.StatusCode)
}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case 401, 403:
		return target == ErrUnauthorized
	case 404:
		switch e.ResourceType {
		case ResourceTransfer:
			return target == ErrTransferNotFound
		case ResourceFile:
			return target == ErrFileNotFound
		default:
			return target == ErrTransferNotFound || target == ErrFileNotFound
		}
	case 429:
		return target == ErrRateLimited
	}
	return false
}

// Temporary reports whether the status code describes a condition worth
// trying again (server side failures, throttling, timeouts).
func (e *APIError) Temporary() bool {
	switch e.StatusCode {
	case 408, 429:
		return true
	}
	return e.StatusCode >= 500
}

// WithResourceType returns a copy of the error with the resource type set.
// If the error is not an *APIError, it is returned unchanged.
func WithResourceType(err error, rt ResourceType) error {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return &APIError{
			StatusCode:   apiErr.StatusCode,
			Message:      apiErr.Message,
			RequestID:    apiErr.RequestID,
			ResourceType: rt,
		}
	}
	return err
}

// NetworkError represents a transport-level failure.
type NetworkError struct {
	Err error
	URL string
}

func (e *NetworkError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("network error: %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("network error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// DecodeError indicates a response body that could not be decoded.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// UploadError reports a chunk or file that could not be uploaded.
type UploadError struct {
	File string
	Part int // 1-based, 0 when the failure is not tied to a part
	Err  error
}

func (e *UploadError) Error() string {
	if e.Part > 0 {
		return fmt.Sprintf("upload %s part %d: %v", e.File, e.Part, e.Err)
	}
	return fmt.Sprintf("upload %s: %v", e.File, e.Err)
}

// Unwrap returns the underlying error.
func (e *UploadError) Unwrap() error {
	return e.Err
}
