// Package storage implements the artifact store C12: an optional
// object-storage sink alongside the mandatory on-disk JPEG paths from
// spec.md §6.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/your-org/camguard/internal/config"
)

// MinIOStore mirrors the mandated on-disk thumbnail/debug-dump artifacts
// into object storage (thumbnails/ and debug/ prefixes), so the (out-of-scope)
// upload client can pull either from local disk or from the bucket. It is
// write-only: nothing in this pipeline reads artifacts back, so there is no
// Get/List/Delete surface here.
type MinIOStore struct {
	client *minio.Client
	bucket string
}

// NewMinIOStore connects to the configured MinIO endpoint. Returns nil, nil
// when no endpoint is configured — the artifact store is optional per
// spec.md §4.13 ("when configured").
func NewMinIOStore(cfg config.MinIOConfig) (*MinIOStore, error) {
	if cfg.Endpoint == "" {
		return nil, nil
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &MinIOStore{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// EnsureBucket creates the configured bucket if it doesn't exist.
func (s *MinIOStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
	}
	return nil
}

// PutThumbnail mirrors a clip's /tmp/{clip}.jpeg thumbnail into the bucket
// under thumbnails/{clip}.jpeg.
func (s *MinIOStore) PutThumbnail(ctx context.Context, clipName string, data []byte) error {
	key := path.Join("thumbnails", clipName+".jpeg")
	return s.putObject(ctx, key, data, "image/jpeg")
}

// PutDebugDump mirrors a raw/transformed-buffer debug JPEG into the bucket
// under debug/{basename}, matching the /opt/image_{epoch_ms}.jpg naming
// spec.md §6 describes.
func (s *MinIOStore) PutDebugDump(ctx context.Context, baseName string, data []byte) error {
	key := path.Join("debug", baseName)
	return s.putObject(ctx, key, data, "image/jpeg")
}

func (s *MinIOStore) putObject(ctx context.Context, key string, data []byte, contentType string) error {
	reader := bytes.NewReader(data)
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

// Ping checks MinIO connectivity.
func (s *MinIOStore) Ping(ctx context.Context) error {
	_, err := s.client.BucketExists(ctx, s.bucket)
	return err
}
