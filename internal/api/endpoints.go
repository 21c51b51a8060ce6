package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// AuthorizeEndpoint exchanges the API key for a bearer token.
func AuthorizeEndpoint() Endpoint[AuthorizeResponse] {
	return Endpoint[AuthorizeResponse]{Path: "authorize", Method: http.MethodPost}
}

// CreateTransferEndpoint creates an empty transfer.
func CreateTransferEndpoint() Endpoint[TransferResponse] {
	return Endpoint[TransferResponse]{Path: "transfers", Method: http.MethodPost, RequiresAuthentication: true}
}

// AddItemsEndpoint registers files on transfer id.
func AddItemsEndpoint(transferID string) Endpoint[[]ItemResponse] {
	return Endpoint[[]ItemResponse]{
		Path:                   fmt.Sprintf("transfers/%s/items", url.PathEscape(transferID)),
		Method:                 http.MethodPost,
		RequiresAuthentication: true,
	}
}

// UploadURLEndpoint asks for the presigned URL of one chunk. partNumber is
// 1-based.
func UploadURLEndpoint(fileID string, partNumber int, multipartUploadID string) Endpoint[UploadURLResponse] {
	return Endpoint[UploadURLResponse]{
		Path: fmt.Sprintf("files/%s/uploads/%d/%s",
			url.PathEscape(fileID), partNumber, url.PathEscape(multipartUploadID)),
		Method:                 http.MethodGet,
		RequiresAuthentication: true,
	}
}

// CompleteUploadEndpoint finalizes the multipart upload of a file.
func CompleteUploadEndpoint(fileID string) Endpoint[CompleteUploadResponse] {
	return Endpoint[CompleteUploadResponse]{
		Path:                   fmt.Sprintf("files/%s/uploads/complete", url.PathEscape(fileID)),
		Method:                 http.MethodPost,
		RequiresAuthentication: true,
	}
}

// CreateTransfer creates a transfer.
func (c *Client) CreateTransfer(ctx context.Context, req CreateTransferRequest) (*TransferResponse, error) {
	resp, err := Do(ctx, c, CreateTransferEndpoint(), req)
	if err != nil {
		return nil, WithResourceType(err, ResourceTransfer)
	}
	return resp, nil
}

// AddItems registers files on a transfer.
func (c *Client) AddItems(ctx context.Context, transferID string, req AddItemsRequest) ([]ItemResponse, error) {
	resp, err := Do(ctx, c, AddItemsEndpoint(transferID), req)
	if err != nil {
		return nil, WithResourceType(err, ResourceTransfer)
	}
	return *resp, nil
}

// GetUploadURL returns the presigned URL for one chunk of a file.
func (c *Client) GetUploadURL(ctx context.Context, fileID string, partNumber int, multipartUploadID string) (*UploadURLResponse, error) {
	resp, err := Do(ctx, c, UploadURLEndpoint(fileID, partNumber, multipartUploadID), nil)
	if err != nil {
		return nil, WithResourceType(err, ResourceFile)
	}
	return resp, nil
}

// CompleteUpload finalizes the upload of a file once every part is stored.
func (c *Client) CompleteUpload(ctx context.Context, fileID string) (*CompleteUploadResponse, error) {
	resp, err := Do(ctx, c, CompleteUploadEndpoint(fileID), nil)
	if err != nil {
		return nil, WithResourceType(err, ResourceFile)
	}
	return resp, nil
}

// UploadPart stores one chunk at a presigned URL. The request carries
// neither the API key nor the bearer token, and is sent once: retrying a
// chunk is up to the caller, which needs a fresh URL per attempt.
func (c *Client) UploadPart(ctx context.Context, uploadURL string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.ContentLength = int64(len(data))

	resp, err := c.sendOnce(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return WithResourceType(c.parseErrorResponse(resp), ResourceFile)
	}
	return nil
}
