// Package loader fetches the dashboards' input files by name and parses them
// into typed records and ZIP polygons.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"spca-maps/internal/metrics"
)

var (
	// ErrNotFound is returned when a named blob does not exist in the store.
	ErrNotFound = errors.New("loader: file not found")
	// ErrMalformed is returned when a blob cannot be parsed into the expected shape.
	ErrMalformed = errors.New("loader: malformed file")
	// ErrUnavailable is returned when the store itself could not be reached.
	ErrUnavailable = errors.New("loader: source unavailable")
)

// Store fetches a blob by name.
type Store interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// FileStore reads blobs from a local directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !filepath.IsLocal(name) {
		return nil, fmt.Errorf("%w: %q is not a local file name", ErrNotFound, name)
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		metrics.BlobFetched("file", "error")
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrUnavailable, name, err)
	}
	metrics.BlobFetched("file", "ok")
	return data, nil
}
