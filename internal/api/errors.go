package api

import (
	"errors"

	"github.com/wetransfer/wetransfer-go/internal/apierrors"
)

// Errors shared with the root package, re-exported for use within api.
var (
	ErrNotConfigured       = apierrors.ErrNotConfigured
	ErrNotAuthorized       = apierrors.ErrNotAuthorized
	ErrAuthorizationFailed = apierrors.ErrAuthorizationFailed
	ErrUnauthorized        = apierrors.ErrUnauthorized
	ErrTransferNotFound    = apierrors.ErrTransferNotFound
	ErrFileNotFound        = apierrors.ErrFileNotFound
	ErrRateLimited         = apierrors.ErrRateLimited
)

type (
	APIError     = apierrors.APIError
	NetworkError = apierrors.NetworkError
	DecodeError  = apierrors.DecodeError
	ResourceType = apierrors.ResourceType
)

const (
	ResourceUnknown  = apierrors.ResourceUnknown
	ResourceTransfer = apierrors.ResourceTransfer
	ResourceFile     = apierrors.ResourceFile
)

var (
	errEmptyBody      = errors.New("empty response body")
	errMissingSuccess = errors.New("authorize response has no success field")
)

// WithResourceType is re-exported from apierrors.
var WithResourceType = apierrors.WithResourceType
