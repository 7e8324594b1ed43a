package repository

import (
	"context"
	"fmt"
	"io"
	"strings"

	"ecomarket/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// NewMinioClient builds a client for the configured object storage.
func NewMinioClient(cfg config.MinioConfig) (*minio.Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return client, nil
}

// ImageRepository stores product images in a MinIO bucket.
type ImageRepository struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewImageRepository(client *minio.Client, cfg config.MinioConfig) *ImageRepository {
	return &ImageRepository{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: PublicBaseURL(cfg),
	}
}

// PublicBaseURL is the prefix under which stored objects are served.
func PublicBaseURL(cfg config.MinioConfig) string {
	if cfg.PublicURL != "" {
		return strings.TrimRight(cfg.PublicURL, "/")
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
}

// EnsureBucket creates the bucket when it does not exist yet.
func (r *ImageRepository) EnsureBucket(ctx context.Context) error {
	exists, err := r.client.BucketExists(ctx, r.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", r.bucket, err)
	}
	if exists {
		return nil
	}
	if err := r.client.MakeBucket(ctx, r.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", r.bucket, err)
	}
	return nil
}

// Upload stores the object and returns its key.
func (r *ImageRepository) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	info, err := r.client.PutObject(ctx, r.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return info.Key, nil
}

func (r *ImageRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.RemoveObject(ctx, r.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// URL is the public address of key.
func (r *ImageRepository) URL(key string) string {
	return r.publicURL + "/" + key
}
