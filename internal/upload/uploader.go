package upload

import (
	"context"
	"errors"
	"fmt"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	units "github.com/docker/go-units"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/wetransfer/wetransfer-go/internal/api"
	"github.com/wetransfer/wetransfer-go/internal/apierrors"
)

// Transport is the part of the API client used by the uploader.
type Transport interface {
	GetUploadURL(ctx context.Context, fileID string, partNumber int, multipartUploadID string) (*api.UploadURLResponse, error)
	UploadPart(ctx context.Context, uploadURL string, data []byte) error
	CompleteUpload(ctx context.Context, fileID string) (*api.CompleteUploadResponse, error)
}

// Config tunes the uploader. Zero values select the defaults.
type Config struct {
	ChunkSize        int64
	Concurrency      int
	MaxRetryPerChunk int
	BaseBackoff      time.Duration
	MaxBackoff       time.Duration
	Logger           *zerolog.Logger
}

// Job describes one registered file to upload.
type Job struct {
	Name              string
	Path              string
	FileID            string
	MultipartUploadID string
	// Chunks is the part count announced by the service; 0 accepts the
	// local count.
	Chunks int
}

// Uploader sends files in chunks: for every part it asks the service for a
// presigned URL, stores the bytes there, and once all parts are stored it
// completes the file. Parts of one file are uploaded in parallel.
type Uploader struct {
	cfg       Config
	transport Transport
	logger    zerolog.Logger
}

// New creates an Uploader.
func New(transport Transport, cfg Config) *Uploader {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.MaxRetryPerChunk <= 0 {
		cfg.MaxRetryPerChunk = 3
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 500 * time.Millisecond
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 20 * time.Second
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	return &Uploader{cfg: cfg, transport: transport, logger: logger}
}

// ChunkSize returns the part size in use.
func (u *Uploader) ChunkSize() int64 {
	return u.cfg.ChunkSize
}

// UploadFile uploads every part of job.Path and completes the file.
// Progress is reported to tracker when it is non-nil.
func (u *Uploader) UploadFile(ctx context.Context, job Job, tracker *Tracker) error {
	provider, err := OpenFile(job.Path, u.cfg.ChunkSize)
	if err != nil {
		return &apierrors.UploadError{File: job.Name, Err: err}
	}
	defer provider.Close()

	return u.Upload(ctx, job, provider, tracker)
}

// Upload uploads the chunks supplied by provider for the registered file
// described by job, then completes it.
func (u *Uploader) Upload(ctx context.Context, job Job, provider ChunkProvider, tracker *Tracker) error {
	numChunks := provider.NumChunks()
	if job.Chunks > 0 && job.Chunks != numChunks {
		return &apierrors.UploadError{
			File: job.Name,
			Err:  fmt.Errorf("chunk count mismatch: service expects %d parts, file has %d", job.Chunks, numChunks),
		}
	}

	var size int64
	for i := 0; i < numChunks; i++ {
		size += provider.ChunkSize(i)
	}
	log := u.logger.With().Str("file", job.Name).Str("file_id", job.FileID).Logger()
	log.Debug().
		Str("size", units.HumanSize(float64(size))).
		Int("chunks", numChunks).
		Msg("uploading file")

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.cfg.Concurrency)

	for i := 0; i < numChunks; i++ {
		index := i
		g.Go(func() error {
			return u.uploadChunkWithRetry(gctx, log, job, provider, index, numChunks, tracker)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if _, err := u.transport.CompleteUpload(ctx, job.FileID); err != nil {
		return &apierrors.UploadError{File: job.Name, Err: fmt.Errorf("complete upload: %w", err)}
	}

	log.Info().
		Str("size", units.HumanSize(float64(size))).
		Dur("took", time.Since(start).Round(time.Millisecond)).
		Msg("file uploaded")
	return nil
}

func (u *Uploader) uploadChunkWithRetry(ctx context.Context, log zerolog.Logger, job Job, provider ChunkProvider, index, total int, tracker *Tracker) error {
	part := index + 1

	data, err := provider.GetChunk(index)
	if err != nil {
		return &apierrors.UploadError{File: job.Name, Part: part, Err: err}
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = u.cfg.BaseBackoff
	exp.Multiplier = 2
	exp.MaxInterval = u.cfg.MaxBackoff
	exp.MaxElapsedTime = 0
	exp.Reset()
	policy := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(u.cfg.MaxRetryPerChunk-1)), ctx)

	attempt := 0
	operation := func() error {
		attempt++
		log.Debug().Int("part", part).Int("of", total).Int("attempt", attempt).Msg("uploading chunk")

		start := time.Now()
		err := u.uploadChunk(ctx, job, part, data)
		chunkDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			chunksTotal.WithLabelValues("failure").Inc()
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}
		chunksTotal.WithLabelValues("success").Inc()
		bytesTotal.Add(float64(len(data)))
		return nil
	}
	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Int("part", part).Int("attempt", attempt).Dur("retry_in", wait).Msg("chunk upload failed")
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return &apierrors.UploadError{File: job.Name, Part: part, Err: err}
	}

	if tracker != nil {
		tracker.chunkDone(int64(len(data)))
	}
	return nil
}

// uploadChunk fetches a fresh presigned URL and stores data there. A new URL
// is requested on every attempt since presigned URLs expire. Rejections of
// the URL request other than throttling and server errors are final; any
// failure of the presigned PUT is retried.
func (u *Uploader) uploadChunk(ctx context.Context, job Job, part int, data []byte) error {
	target, err := u.transport.GetUploadURL(ctx, job.FileID, part, job.MultipartUploadID)
	if err != nil {
		err = fmt.Errorf("get upload URL: %w", err)
		var apiErr *apierrors.APIError
		if errors.Is(err, apierrors.ErrNotAuthorized) || errors.Is(err, apierrors.ErrNotConfigured) ||
			(errors.As(err, &apiErr) && !apiErr.Temporary()) {
			return backoff.Permanent(err)
		}
		return err
	}
	if target.UploadURL == "" {
		return backoff.Permanent(errors.New("get upload URL: empty URL in response"))
	}
	if err := u.transport.UploadPart(ctx, target.UploadURL, data); err != nil {
		return fmt.Errorf("store chunk: %w", err)
	}
	return nil
}
