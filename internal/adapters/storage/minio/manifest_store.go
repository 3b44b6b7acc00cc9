package minio

import (
	"bytes"
	"context"
	"fmt"
	"time"

	portssvc "github.com/SscSPs/document_distribution_app/internal/core/ports/services"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ManifestStore archives manifests as JSON objects in one bucket.
type ManifestStore struct {
	client *minio.Client
	bucket string
}

var _ portssvc.ManifestStore = (*ManifestStore)(nil)

// NewManifestStore connects to endpoint. No request is made until EnsureBucket or the first upload.
func NewManifestStore(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*ManifestStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &ManifestStore{client: client, bucket: bucket}, nil
}

// EnsureBucket creates the manifest bucket if it does not exist.
func (s *ManifestStore) EnsureBucket(ctx context.Context) error {
	found, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !found {
		return s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	}
	return nil
}

func (s *ManifestStore) PutManifest(ctx context.Context, key string, body []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	return err
}

func (s *ManifestStore) PresignManifest(ctx context.Context, key string, expiry time.Duration) (string, error) {
	url, err := s.client.PresignedGetObject(ctx, s.bucket, key, expiry, nil)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}
