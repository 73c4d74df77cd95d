package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Archive keeps copies of generated artifacts (summary PDFs, voice clips) in
// an S3-compatible bucket under <email>/<object>. It is optional: a nil
// *Archive skips archiving entirely, and failures are logged, never surfaced
// to the user.
type Archive struct {
	client *minio.Client
	bucket string
	logger *slog.Logger
}

// NewArchive connects to the MinIO endpoint and ensures the bucket exists.
func NewArchive(endpoint, accessKey, secretKey, bucket string, useSSL bool, logger *slog.Logger) (*Archive, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create archive client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check archive bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create archive bucket: %w", err)
		}
		logger.Info("created archive bucket", "bucket", bucket)
	}

	return &Archive{client: client, bucket: bucket, logger: logger}, nil
}

// Store uploads one artifact under <email>/<name>. Errors are logged only.
func (a *Archive) Store(ctx context.Context, email, name string, data []byte, contentType string) {
	if a == nil {
		return
	}
	objectName := fmt.Sprintf("%s/%s", email, name)
	_, err := a.client.PutObject(ctx, a.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		a.logger.Warn("artifact archive failed", "object", objectName, "error", err)
		return
	}
	a.logger.Info("artifact archived", "object", objectName, "size", len(data))
}

// List returns the archived object keys for one user.
func (a *Archive) List(ctx context.Context, email string) ([]string, error) {
	if a == nil {
		return nil, nil
	}
	var keys []string
	for object := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{
		Prefix:    email + "/",
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, object.Err
		}
		keys = append(keys, object.Key)
	}
	return keys, nil
}
