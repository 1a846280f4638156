package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/propmarket/backend/internal/config"
	"github.com/propmarket/backend/pkg/logger"
)

var ErrForeignURL = errors.New("url does not belong to this bucket")

// MinIOStore writes images to an S3 compatible bucket with anonymous read
// access, so the stored URL can be used directly by browsers.
type MinIOStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

func NewMinIOStore(cfg config.StorageConfig) (*MinIOStore, error) {
	var creds *credentials.Credentials
	if cfg.AccessKey == "" {
		creds = credentials.NewIAM("")
	} else {
		creds = credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, "")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  creds,
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, err
	}

	return &MinIOStore{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: PublicBaseURL(cfg.PublicEndpoint, cfg.PublicUseSSL, cfg.Bucket),
	}, nil
}

// PublicBaseURL is the prefix every object URL in bucket starts with.
func PublicBaseURL(endpoint string, useSSL bool, bucket string) string {
	scheme := "http"
	if useSSL {
		scheme = "https"
	}
	endpoint = strings.TrimSuffix(endpoint, "/")
	if strings.Contains(endpoint, "://") {
		return endpoint + "/" + bucket + "/"
	}
	return scheme + "://" + endpoint + "/" + bucket + "/"
}

func (m *MinIOStore) objectURL(objectName string) string {
	return m.baseURL + (&url.URL{Path: objectName}).EscapedPath()
}

// ObjectName maps a URL issued by this store back to its object key.
func (m *MinIOStore) ObjectName(rawURL string) (string, error) {
	return objectNameFromURL(m.baseURL, rawURL)
}

func objectNameFromURL(baseURL, rawURL string) (string, error) {
	if !strings.HasPrefix(rawURL, baseURL) {
		return "", ErrForeignURL
	}
	name, err := url.PathUnescape(strings.TrimPrefix(rawURL, baseURL))
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", ErrForeignURL
	}
	return name, nil
}

func (m *MinIOStore) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := m.client.PutObject(ctx, m.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	details := map[string]interface{}{
		"object_name":  objectName,
		"size":         size,
		"content_type": contentType,
		"bucket":       m.bucket,
	}
	if err != nil {
		logger.Error("image_upload_failed", err, details)
		return "", err
	}
	logger.Info("image_upload_success", details)
	return m.objectURL(objectName), nil
}

func (m *MinIOStore) Delete(ctx context.Context, rawURL string) error {
	objectName, err := m.ObjectName(rawURL)
	if err != nil {
		logger.Warn("image_delete_skipped", map[string]interface{}{
			"url":    rawURL,
			"reason": err.Error(),
		})
		return err
	}

	err = m.client.RemoveObject(ctx, m.bucket, objectName, minio.RemoveObjectOptions{})
	details := map[string]interface{}{
		"object_name": objectName,
		"bucket":      m.bucket,
	}
	if err != nil {
		logger.Error("image_delete_failed", err, details)
	} else {
		logger.Info("image_delete_success", details)
	}
	return err
}

// EnsureBucket creates the bucket when missing and applies the public read
// policy.
func (m *MinIOStore) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !exists {
		if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed creating bucket %s: %w", m.bucket, err)
		}
	}

	if err := m.client.SetBucketPolicy(ctx, m.bucket, PublicReadPolicy(m.bucket)); err != nil {
		return fmt.Errorf("failed setting policy on bucket %s: %w", m.bucket, err)
	}
	return nil
}

func PublicReadPolicy(bucket string) string {
	return fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`, bucket)
}
