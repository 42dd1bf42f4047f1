package ports

import (
	"context"
	"io"
)

// ObjectStorage stores uploaded files and returns a publicly reachable URL.
type ObjectStorage interface {
	Upload(ctx context.Context, bucket, objectName, contentType string, reader io.Reader, size int64) (string, error)
}
