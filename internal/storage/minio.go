package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/glosario-lsc/glosario/internal/glossary"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// anonymous read on every object so PublicURL works without presigning
const publicReadPolicy = `{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`

// MinIOStorage is a thin wrapper around the minio client used by services.
type MinIOStorage struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// NewMinIOStorage creates a new MinIO storage client and ensures the bucket exists.
func NewMinIOStorage(cfg *MinIOConfig) (*MinIOStorage, error) {
	if cfg == nil || cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio config missing")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	s := &MinIOStorage{client: mc, bucket: cfg.Bucket, baseURL: strings.TrimRight(cfg.PublicBaseURL, "/")}
	if s.baseURL == "" {
		s.baseURL = strings.TrimRight(mc.EndpointURL().String(), "/") + "/" + s.bucket
	}
	// ensure bucket exists (idempotent)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		// ignore "already exists" style errors
		exist, xerr := mc.BucketExists(ctx, s.bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	if err := mc.SetBucketPolicy(ctx, s.bucket, fmt.Sprintf(publicReadPolicy, s.bucket)); err != nil {
		return nil, fmt.Errorf("minio bucket policy: %w", err)
	}
	return s, nil
}

// Upload stores the blob in the configured bucket under key.
func (s *MinIOStorage) Upload(ctx context.Context, key string, blob glossary.Blob) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(blob.Data), blob.Size(), minio.PutObjectOptions{ContentType: blob.ContentType})
	return err
}

func (s *MinIOStorage) PublicURL(key string) string {
	return s.baseURL + "/" + key
}

// Open returns a ReadCloser for the stored object and its content type.
func (s *MinIOStorage) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", err
	}
	// perform a stat to ensure object exists
	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, "", ErrObjectNotFound
		}
		return nil, "", err
	}
	return obj, info.ContentType, nil
}

// Ping checks the bucket is reachable; used by the readiness probe.
func (s *MinIOStorage) Ping(ctx context.Context) error {
	ok, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("bucket %s missing", s.bucket)
	}
	return nil
}
