package upload

import (
	"fmt"
	"io"
	"os"
)

// DefaultChunkSize is the part size used by the multipart upload API.
const DefaultChunkSize int64 = 6 * 1024 * 1024

// NumChunks returns how many parts a file of size bytes is split into.
// Empty files still take one (empty) part.
func NumChunks(size, chunkSize int64) int {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if size <= 0 {
		return 1
	}
	return int((size + chunkSize - 1) / chunkSize)
}

// ChunkProvider supplies the bytes of each part. Indexes are 0-based.
type ChunkProvider interface {
	NumChunks() int
	ChunkSize(index int) int64
	GetChunk(index int) ([]byte, error)
}

// FileChunkProvider reads chunks from a file on disk.
// Safe for parallel chunk reads.
type FileChunkProvider struct {
	file      *os.File
	size      int64
	chunkSize int64
	numChunks int
}

// OpenFile opens path and splits it into chunks of chunkSize bytes.
func OpenFile(path string, chunkSize int64) (*FileChunkProvider, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if info.IsDir() {
		file.Close()
		return nil, fmt.Errorf("%s is a directory", path)
	}

	return &FileChunkProvider{
		file:      file,
		size:      info.Size(),
		chunkSize: chunkSize,
		numChunks: NumChunks(info.Size(), chunkSize),
	}, nil
}

// NumChunks returns the total number of chunks.
func (p *FileChunkProvider) NumChunks() int {
	return p.numChunks
}

// Size returns the file size in bytes.
func (p *FileChunkProvider) Size() int64 {
	return p.size
}

// ChunkSize returns the size of the chunk at the given index.
func (p *FileChunkProvider) ChunkSize(index int) int64 {
	if index < 0 || index >= p.numChunks {
		return 0
	}
	if index == p.numChunks-1 {
		return p.size - int64(index)*p.chunkSize
	}
	return p.chunkSize
}

// GetChunk reads the chunk at the given index into memory so that it can be
// sent again on retry.
func (p *FileChunkProvider) GetChunk(index int) ([]byte, error) {
	if index < 0 || index >= p.numChunks {
		return nil, fmt.Errorf("chunk index %d out of range [0, %d)", index, p.numChunks)
	}

	offset := int64(index) * p.chunkSize
	chunk := make([]byte, p.ChunkSize(index))
	n, err := p.file.ReadAt(chunk, offset)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read chunk %d: %w", index+1, err)
	}
	if n != len(chunk) {
		return nil, fmt.Errorf("read chunk %d: file changed size during upload", index+1)
	}
	return chunk, nil
}

// Close closes the underlying file.
func (p *FileChunkProvider) Close() error {
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// ByteSliceChunkProvider provides chunks from pre-loaded byte slices.
type ByteSliceChunkProvider struct {
	chunks [][]byte
}

// NewByteSliceChunkProvider creates a ChunkProvider from byte slices.
func NewByteSliceChunkProvider(chunks [][]byte) *ByteSliceChunkProvider {
	return &ByteSliceChunkProvider{chunks: chunks}
}

// NumChunks returns the total number of chunks.
func (p *ByteSliceChunkProvider) NumChunks() int {
	return len(p.chunks)
}

// ChunkSize returns the size of the chunk at the given index.
func (p *ByteSliceChunkProvider) ChunkSize(index int) int64 {
	if index < 0 || index >= len(p.chunks) {
		return 0
	}
	return int64(len(p.chunks[index]))
}

// GetChunk returns the chunk at the given index.
func (p *ByteSliceChunkProvider) GetChunk(index int) ([]byte, error) {
	if index < 0 || index >= len(p.chunks) {
		return nil, fmt.Errorf("chunk index %d out of range [0, %d)", index, len(p.chunks))
	}
	return p.chunks[index], nil
}
