package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/propmarket/backend/internal/storage"
	"github.com/propmarket/backend/pkg/logger"
)

// ImageUpload is one file received with a listing request.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

func imageObjectName(ownerID uuid.UUID, filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "image"
	}
	return fmt.Sprintf("properties/%s/%s/%s", ownerID, uuid.New(), base)
}

// uploadImages stores every upload in order. When one fails the ones
// already stored are removed again.
func uploadImages(ctx context.Context, store storage.ImageStore, ownerID uuid.UUID, uploads []ImageUpload) ([]string, error) {
	urls := make([]string, 0, len(uploads))
	for _, up := range uploads {
		url, err := uploadOne(ctx, store, ownerID, up)
		if err != nil {
			removeImages(ctx, store, urls)
			return nil, fmt.Errorf("upload %s: %w", up.Filename, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func uploadOne(ctx context.Context, store storage.ImageStore, ownerID uuid.UUID, up ImageUpload) (string, error) {
	reader, err := up.Open()
	if err != nil {
		return "", err
	}
	defer reader.Close()
	return store.Upload(ctx, imageObjectName(ownerID, up.Filename), reader, up.Size, up.ContentType)
}

// removeImages deletes stored objects and only logs failures.
func removeImages(ctx context.Context, store storage.ImageStore, urls []string) {
	for _, url := range urls {
		if err := store.Delete(ctx, url); err != nil {
			logger.Warn("image_cleanup_failed", map[string]interface{}{
				"url":   url,
				"error": err.Error(),
			})
		}
	}
}
