package reporting

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/segmentio/ksuid"
)

// Archive stores generated report files.
type Archive interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Bucket() string
}

// ArchiveKey returns a time-sortable object key under reports/<kind>/.
func ArchiveKey(kind, ext string) string {
	return fmt.Sprintf("reports/%s/%s.%s", kind, ksuid.New().String(), ext)
}

type MinioArchive struct {
	client *minio.Client
	bucket string
}

// NewMinioArchive connects to the object store and creates bucket when missing.
func NewMinioArchive(endpoint, accessKey, secretKey string, useSSL bool, bucket string) (*MinioArchive, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}

	return &MinioArchive{client: client, bucket: bucket}, nil
}

func (a *MinioArchive) Put(ctx context.Context, key, contentType string, data []byte) error {
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (a *MinioArchive) Bucket() string {
	return a.bucket
}
