package wetransfer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	units "github.com/docker/go-units"
	"github.com/google/uuid"

	"github.com/wetransfer/wetransfer-go/internal/api"
	"github.com/wetransfer/wetransfer-go/internal/upload"
)

// contentIdentifier is the only kind of item the client adds to transfers.
const contentIdentifier = "file"

// File is a local file taking part in a transfer.
type File struct {
	// LocalIdentifier is generated by NewFile and links the file to the
	// item the service registers for it.
	LocalIdentifier string
	Path            string
	Filename        string
	Filesize        int64

	// Set once the file has been added to a transfer.
	Identifier                string
	MultipartUploadIdentifier string
	NumberOfChunks            int

	Uploaded bool
}

// NewFile describes the regular file at path.
func NewFile(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", path)
	}
	return &File{
		LocalIdentifier: uuid.NewString(),
		Path:            path,
		Filename:        filepath.Base(path),
		Filesize:        info.Size(),
	}, nil
}

// Transfer is a collection of files shared through one link. A Transfer is
// not safe for concurrent modification; operations on it must not overlap.
type Transfer struct {
	// Identifier is assigned by the service on creation.
	Identifier  string
	Name        string
	Description string
	ShortURL    string
	Files       []*File
}

// Size returns the total size of the files in bytes.
func (t *Transfer) Size() int64 {
	var n int64
	for _, f := range t.Files {
		n += f.Filesize
	}
	return n
}

func (t *Transfer) clone() *Transfer {
	cp := *t
	cp.Files = make([]*File, len(t.Files))
	for i, f := range t.Files {
		fc := *f
		cp.Files[i] = &fc
	}
	return &cp
}

// CreateTransfer creates a transfer named name and adds the files at paths,
// if any. The client authorizes first when it holds no token. All paths are
// checked before anything is sent.
func (c *Client) CreateTransfer(ctx context.Context, name, description string, paths ...string) (*Transfer, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errors.New("transfer name is required")
	}
	files, err := newFiles(paths)
	if err != nil {
		return nil, err
	}
	if err := c.apiClient.Authorize(ctx); err != nil {
		return nil, err
	}

	resp, err := c.apiClient.CreateTransfer(ctx, api.CreateTransferRequest{
		Name:        name,
		Description: description,
	})
	if err != nil {
		return nil, err
	}

	t := &Transfer{
		Identifier:  resp.ID,
		Name:        name,
		Description: description,
		ShortURL:    resp.ShortenedURL,
	}
	if resp.Name != "" {
		t.Name = resp.Name
	}
	c.logger.Info().Str("transfer", t.Identifier).Str("short_url", t.ShortURL).Msg("transfer created")

	if len(files) > 0 {
		if err := c.addFiles(ctx, t, files); err != nil {
			return t, err
		}
	}
	return t, nil
}

// AddFiles registers the files at paths on t. Files are appended to t only
// once the service has registered all of them.
func (c *Client) AddFiles(ctx context.Context, t *Transfer, paths ...string) error {
	if err := c.checkClosed(); err != nil {
		return err
	}
	if t == nil || t.Identifier == "" {
		return ErrTransferNotCreated
	}
	files, err := newFiles(paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return nil
	}
	if err := c.apiClient.Authorize(ctx); err != nil {
		return err
	}
	return c.addFiles(ctx, t, files)
}

func newFiles(paths []string) ([]*File, error) {
	files := make([]*File, 0, len(paths))
	for _, p := range paths {
		f, err := NewFile(p)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func (c *Client) addFiles(ctx context.Context, t *Transfer, files []*File) error {
	req := api.AddItemsRequest{Items: make([]api.ItemRequest, len(files))}
	for i, f := range files {
		req.Items[i] = api.ItemRequest{
			LocalIdentifier:   f.LocalIdentifier,
			ContentIdentifier: contentIdentifier,
			Filename:          f.Filename,
			Filesize:          f.Filesize,
		}
	}

	items, err := c.apiClient.AddItems(ctx, t.Identifier, req)
	if err != nil {
		return err
	}

	byLocalID := make(map[string]api.ItemResponse, len(items))
	for _, item := range items {
		byLocalID[item.LocalIdentifier] = item
	}
	for _, f := range files {
		item, ok := byLocalID[f.LocalIdentifier]
		if !ok || item.ID == "" {
			return fmt.Errorf("service did not register %s", f.Filename)
		}
		f.Identifier = item.ID
		f.MultipartUploadIdentifier = item.Meta.MultipartUploadID
		f.NumberOfChunks = item.Meta.MultipartParts
		if f.NumberOfChunks <= 0 {
			f.NumberOfChunks = upload.NumChunks(f.Filesize, c.uploader.ChunkSize())
		}
	}

	t.Files = append(t.Files, files...)
	c.logger.Debug().
		Str("transfer", t.Identifier).
		Int("files", len(files)).
		Str("size", units.HumanSize(float64(t.Size()))).
		Msg("files added")
	return nil
}

// ProgressSnapshot is a point-in-time view of an upload.
type ProgressSnapshot = upload.Snapshot

// Progress reports how far the upload of a transfer has got.
type Progress struct {
	tracker  *upload.Tracker
	executor Executor
}

func (c *Client) newProgress(t *Transfer) *Progress {
	var bytes int64
	var chunks int
	for _, f := range t.Files {
		if f.Uploaded {
			continue
		}
		bytes += f.Filesize
		chunks += f.NumberOfChunks
	}
	return &Progress{
		tracker:  upload.NewTracker(bytes, chunks),
		executor: c.executor,
	}
}

// FractionCompleted returns the uploaded share, between 0 and 1.
func (p *Progress) FractionCompleted() float64 {
	return p.tracker.Snapshot().Fraction()
}

// Snapshot returns the current progress.
func (p *Progress) Snapshot() ProgressSnapshot {
	return p.tracker.Snapshot()
}

// OnChange registers fn for progress updates, delivered on the client's
// callback executor. Updates already handed to the executor may still be
// delivered after the returned function is called.
func (p *Progress) OnChange(fn func(ProgressSnapshot)) (unsubscribe func()) {
	return p.tracker.Subscribe(func(s upload.Snapshot) {
		p.executor.Submit(func() { fn(s) })
	})
}

// Upload uploads every file of t that is not uploaded yet. onProgress, when
// not nil, receives progress updates on the client's callback executor.
func (c *Client) Upload(ctx context.Context, t *Transfer, onProgress func(ProgressSnapshot)) error {
	if err := c.checkClosed(); err != nil {
		return err
	}
	if t == nil || t.Identifier == "" {
		return ErrTransferNotCreated
	}
	p := c.newProgress(t)
	if onProgress != nil {
		defer p.OnChange(onProgress)()
	}
	return c.upload(ctx, t, p)
}

func (c *Client) upload(ctx context.Context, t *Transfer, p *Progress) error {
	if err := c.apiClient.Authorize(ctx); err != nil {
		return err
	}
	for _, f := range t.Files {
		if f.Uploaded {
			continue
		}
		if f.Identifier == "" {
			return &UploadError{File: f.Filename, Err: ErrFileNotAdded}
		}
		job := upload.Job{
			Name:              f.Filename,
			Path:              f.Path,
			FileID:            f.Identifier,
			MultipartUploadID: f.MultipartUploadIdentifier,
			Chunks:            f.NumberOfChunks,
		}
		if err := c.uploader.UploadFile(ctx, job, p.tracker); err != nil {
			return err
		}
		f.Uploaded = true
	}
	c.logger.Info().Str("transfer", t.Identifier).Msg("transfer uploaded")
	return nil
}
