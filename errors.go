package wetransfer

import (
	"errors"

	"github.com/wetransfer/wetransfer-go/internal/apierrors"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrNotConfigured is returned when no API key or base URL is set, or
	// when an endpoint cannot be resolved against the base URL.
	ErrNotConfigured = apierrors.ErrNotConfigured

	// ErrNotAuthorized is returned when an operation needs a bearer token
	// and none has been obtained.
	ErrNotAuthorized = apierrors.ErrNotAuthorized

	// ErrAuthorizationFailed is returned when the service rejects the
	// authorization request or does not hand out a token.
	ErrAuthorizationFailed = apierrors.ErrAuthorizationFailed

	// ErrClientClosed is returned when operations are attempted on a closed client.
	ErrClientClosed = apierrors.ErrClientClosed

	// ErrUnauthorized is returned when the service answers 401 or 403.
	ErrUnauthorized = apierrors.ErrUnauthorized

	// ErrTransferNotFound is returned when a transfer does not exist remotely.
	ErrTransferNotFound = apierrors.ErrTransferNotFound

	// ErrFileNotFound is returned when a registered file does not exist remotely.
	ErrFileNotFound = apierrors.ErrFileNotFound

	// ErrRateLimited is returned when the API rate limit is exceeded.
	ErrRateLimited = apierrors.ErrRateLimited

	// ErrTransferNotCreated is returned when files are added to or uploaded
	// for a transfer that has no remote identifier yet.
	ErrTransferNotCreated = errors.New("transfer has not been created")

	// ErrFileNotAdded is returned when a file is uploaded before it was
	// registered on its transfer.
	ErrFileNotAdded = errors.New("file has not been added to the transfer")
)

// APIError represents an HTTP error from the WeTransfer API.
type APIError = apierrors.APIError

// NetworkError represents a transport-level failure.
type NetworkError = apierrors.NetworkError

// DecodeError indicates a response body that could not be decoded.
type DecodeError = apierrors.DecodeError

// UploadError reports a file or chunk that could not be uploaded.
type UploadError = apierrors.UploadError
