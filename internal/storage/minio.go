package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ideahunt/backend/internal/config"
)

// ThumbnailStore keeps idea thumbnails in a MinIO bucket, one object per
// idea, keyed by the idea's identifier.
type ThumbnailStore struct {
	client *minio.Client
	bucket string
}

// NewThumbnailStore creates the MinIO client and ensures the bucket exists.
func NewThumbnailStore(cfg config.MinIOConfig) (*ThumbnailStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint not configured")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	s := &ThumbnailStore{client: mc, bucket: cfg.Bucket}
	// ensure bucket exists (idempotent)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		exist, xerr := mc.BucketExists(ctx, s.bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return s, nil
}

func thumbnailKey(ideaID string) string {
	return "thumbnails/" + ideaID
}

// Upload stores the thumbnail for an idea, replacing any previous one.
func (s *ThumbnailStore) Upload(ctx context.Context, ideaID string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, thumbnailKey(ideaID), r, size, minio.PutObjectOptions{ContentType: contentType})
	return err
}

// PresignedURL returns a time-limited GET URL for an idea's thumbnail.
func (s *ThumbnailStore) PresignedURL(ctx context.Context, ideaID string, expires time.Duration) (string, error) {
	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, thumbnailKey(ideaID), expires, url.Values{})
	if err != nil {
		return "", err
	}
	return presigned.String(), nil
}
