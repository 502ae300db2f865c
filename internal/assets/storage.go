// Package assets is the object-storage port for operation attachments
// (radiographs, consent scans, photos). The domain layer only ever touches
// the Storage interface; backends are swappable without touching services.
package assets

import (
	"context"
	"io"
)

// UploadRequest carries one blob bound for storage. Body is consumed exactly
// once by the backend.
type UploadRequest struct {
	Key           string
	ContentLength int64
	ContentType   string
	Body          io.Reader
}

// Storage stores and retrieves opaque blobs by key. Get reports
// sentinel.ErrNotFound for unknown keys. Backend errors propagate unchanged;
// no retry happens at this layer.
type Storage interface {
	Upload(ctx context.Context, req UploadRequest) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}
