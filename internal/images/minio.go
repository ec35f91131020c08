// Package images stores uploaded content images in S3-compatible object
// storage and hands back public URLs.
package images

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Uploader stores an image and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, error)
}

// Config holds object storage connection settings.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinioUploader stores images in a MinIO (or any S3-compatible) bucket.
type MinioUploader struct {
	client *minio.Client
	bucket string
}

// NewMinioUploader connects to the configured endpoint and ensures the
// bucket exists.
func NewMinioUploader(ctx context.Context, cfg Config) (*MinioUploader, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect object storage: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return &MinioUploader{client: client, bucket: cfg.Bucket}, nil
}

// Upload stores the image under a unique object name derived from the upload
// time, keeping the original extension.
func (u *MinioUploader) Upload(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	name := fmt.Sprintf("uploads/%d-%s%s", time.Now().UnixNano(), uuid.New().String()[:8], ext)

	_, err := u.client.PutObject(ctx, u.bucket, name, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	return u.client.EndpointURL().String() + "/" + u.bucket + "/" + name, nil
}
