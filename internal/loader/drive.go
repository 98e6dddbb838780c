package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"spca-maps/internal/metrics"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const defaultChunkSize int64 = 1 << 20

// DriveStore reads blobs by name from a single Google Drive folder.
type DriveStore struct {
	svc       *drive.Service
	folder    string
	chunkSize int64

	mu       sync.Mutex
	folderID string
}

// NewDriveStore authenticates with a service account key and targets folder.
func NewDriveStore(ctx context.Context, credentialsJSON []byte, folder string, chunkSize int64) (*DriveStore, error) {
	conf, err := google.JWTConfigFromJSON(credentialsJSON, drive.DriveReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("loader: parse drive credentials: %w", err)
	}
	svc, err := drive.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("loader: create drive service: %w", err)
	}
	return NewDriveStoreWithService(svc, folder, chunkSize), nil
}

func NewDriveStoreWithService(svc *drive.Service, folder string, chunkSize int64) *DriveStore {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	return &DriveStore{svc: svc, folder: folder, chunkSize: chunkSize}
}

func (s *DriveStore) Fetch(ctx context.Context, name string) ([]byte, error) {
	data, err := s.fetch(ctx, name)
	if err != nil {
		metrics.BlobFetched("drive", "error")
		return nil, err
	}
	metrics.BlobFetched("drive", "ok")
	return data, nil
}

func (s *DriveStore) fetch(ctx context.Context, name string) ([]byte, error) {
	folderID, err := s.resolveFolder(ctx)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf("'%s' in parents and name='%s' and trashed=false", folderID, quote(name))
	fileID, err := s.findOne(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", name, err)
	}

	data, err := downloadChunks(ctx, func(ctx context.Context, start, end int64) (*http.Response, error) {
		call := s.svc.Files.Get(fileID).Context(ctx)
		call.Header().Set("Range", fmt.Sprintf("bytes=%d-%d", start, end))
		return call.Download()
	}, s.chunkSize)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", name, classify(err))
	}
	return data, nil
}

func (s *DriveStore) resolveFolder(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.folderID != "" {
		return s.folderID, nil
	}

	q := fmt.Sprintf("name='%s' and mimeType='application/vnd.google-apps.folder' and trashed=false", quote(s.folder))
	id, err := s.findOne(ctx, q)
	if err != nil {
		return "", fmt.Errorf("find folder %s: %w", s.folder, err)
	}
	s.folderID = id
	return id, nil
}

func (s *DriveStore) findOne(ctx context.Context, q string) (string, error) {
	list, err := s.svc.Files.List().Q(q).Spaces("drive").Fields("files(id, name)").Context(ctx).Do()
	if err != nil {
		return "", classify(err)
	}
	if len(list.Files) == 0 {
		return "", ErrNotFound
	}
	return list.Files[0].Id, nil
}

func classify(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusNotFound {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func quote(s string) string {
	return strings.ReplaceAll(s, `'`, `\'`)
}

type rangeFetcher func(ctx context.Context, start, end int64) (*http.Response, error)

// downloadChunks requests the object in chunkSize byte ranges until the
// reported total has been received. A failing chunk aborts the download.
func downloadChunks(ctx context.Context, fetch rangeFetcher, chunkSize int64) ([]byte, error) {
	var buf bytes.Buffer
	var offset int64
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		resp, err := fetch(ctx, offset, offset+chunkSize-1)
		if err != nil {
			return nil, err
		}

		switch resp.StatusCode {
		case http.StatusOK:
			// Range ignored, the body is the whole object.
			buf.Reset()
			_, err := io.Copy(&buf, resp.Body)
			resp.Body.Close()
			if err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		case http.StatusPartialContent:
			n, err := io.Copy(&buf, resp.Body)
			resp.Body.Close()
			if err != nil {
				return nil, err
			}
			offset += n
			total, known := totalFromContentRange(resp.Header.Get("Content-Range"))
			if n == 0 || !known || offset >= total {
				return buf.Bytes(), nil
			}
		default:
			resp.Body.Close()
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
	}
}

// totalFromContentRange parses the complete length of "bytes 0-99/1234".
func totalFromContentRange(h string) (int64, bool) {
	i := strings.LastIndexByte(h, '/')
	if i < 0 || i == len(h)-1 {
		return 0, false
	}
	total, err := strconv.ParseInt(h[i+1:], 10, 64)
	if err != nil {
		return 0, false
	}
	return total, true
}
