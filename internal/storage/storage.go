package storage

import (
	"context"
	"io"
)

// ImageStore keeps listing images and hands back the URL clients load them
// from.
type ImageStore interface {
	Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}
