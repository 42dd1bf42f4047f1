package minio

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

func NewClient(endpoint, key, secret string, useSSL bool) (*minio.Client, error) {
	return minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(key, secret, ""),
		Secure: useSSL,
	})
}

// Storage implements ports.ObjectStorage on top of a MinIO client. When a
// public base URL is configured it is used to build returned URLs, otherwise
// the client endpoint is.
type Storage struct {
	client     *minio.Client
	publicBase string
}

func NewStorage(client *minio.Client, publicBase string) *Storage {
	return &Storage{
		client:     client,
		publicBase: strings.TrimRight(publicBase, "/"),
	}
}

func (s *Storage) Upload(ctx context.Context, bucket, objectName, contentType string, reader io.Reader, size int64) (string, error) {
	_, err := s.client.PutObject(ctx, bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("minio: upload %s/%s: %w", bucket, objectName, err)
	}
	if s.publicBase != "" {
		return fmt.Sprintf("%s/%s/%s", s.publicBase, bucket, objectName), nil
	}
	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), bucket, objectName), nil
}
