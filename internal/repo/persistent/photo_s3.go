package persistent

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/heartbeam/photo-service/pkg/s3client"
)

// PhotoObjectRepo stores photo bytes in object storage. PutObject replaces
// an existing object under the same key, which makes retried uploads
// idempotent by construction.
type PhotoObjectRepo struct {
	*s3client.S3Client
	bucket        string
	publicBaseURL string
}

func NewPhotoObjectRepo(s3c *s3client.S3Client, bucket, publicBaseURL string) *PhotoObjectRepo {
	return &PhotoObjectRepo{
		S3Client:      s3c,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

func (r *PhotoObjectRepo) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := r.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("PhotoObjectRepo - Upload - r.Client.PutObject: %w", err)
	}

	return nil
}

func (r *PhotoObjectRepo) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", r.publicBaseURL, r.bucket, key)
}

func (r *PhotoObjectRepo) Delete(ctx context.Context, key string) error {
	_, err := r.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("PhotoObjectRepo - Delete - r.Client.DeleteObject: %w", err)
	}

	return nil
}
