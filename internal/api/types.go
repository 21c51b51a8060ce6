package api

// Wire types carry no json tags: Codec maps field names to snake_case keys.

// AuthorizeResponse is the body answered by the authorize endpoint.
// Success is required; its absence is a decode error.
type AuthorizeResponse struct {
	Success *bool
	Token   *string
}

// CreateTransferRequest is sent to create a transfer.
type CreateTransferRequest struct {
	Name        string
	Description string
}

// TransferResponse describes a transfer as known by the service.
type TransferResponse struct {
	ID           string
	Name         string
	Description  string
	State        string
	ShortenedURL string
	Size         int64
	TotalSize    int64
	Items        []ItemResponse
}

// ItemRequest announces one local file to add to a transfer.
type ItemRequest struct {
	LocalIdentifier   string
	ContentIdentifier string
	Filename          string
	Filesize          int64
}

// AddItemsRequest is sent to add files to a transfer.
type AddItemsRequest struct {
	Items []ItemRequest
}

// ItemMeta carries the multipart upload parameters of a file.
type ItemMeta struct {
	MultipartParts    int
	MultipartUploadID string
}

// ItemResponse describes a file registered on a transfer.
type ItemResponse struct {
	ID                string
	ContentIdentifier string
	LocalIdentifier   string
	Name              string
	Size              int64
	Meta              ItemMeta
	UploadID          string
	UploadExpiresAt   int64
}

// UploadURLResponse holds the presigned URL for one chunk.
type UploadURLResponse struct {
	UploadURL       string
	PartNumber      int
	UploadID        string
	UploadExpiresAt int64
}

// CompleteUploadResponse is answered once all parts of a file are stored.
type CompleteUploadResponse struct {
	OK      bool
	Message string
}
