// Package media stores images uploaded with manual posts in S3-compatible
// object storage and hands out presigned URLs the page APIs can fetch.
package media

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// seams for tests
var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}

	now = time.Now
)

// S3Options configure the uploader. BaseEndpoint points at MinIO or another
// S3-compatible server; empty means AWS.
type S3Options struct {
	Region       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
	Bucket       string
	PresignTTL   time.Duration
}

type S3Uploader struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	ttl     time.Duration
}

func NewS3Uploader(ctx context.Context, opts S3Options) (*S3Uploader, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 uploader requires a bucket")
	}

	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(opts.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(opts.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	ttl := opts.PresignTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &S3Uploader{client: client, presign: s3.NewPresignClient(client), bucket: opts.Bucket, ttl: ttl}, nil
}

// StorageKey returns a fresh object key under uploads/YYYY/M/D/.
func StorageKey() string {
	d := now()
	return fmt.Sprintf("uploads/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

// Upload stores body under a new key and returns a presigned GET URL for it.
func (u *S3Uploader) Upload(ctx context.Context, contentType string, body io.Reader, size int64) (string, error) {
	key := StorageKey()

	in := &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if size > 0 {
		in.ContentLength = aws.Int64(size)
	}

	if _, err := putObject(u.client, ctx, in); err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	req, err := presignGetObject(u.presign, ctx, &s3.GetObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(u.ttl))
	if err != nil {
		return "", fmt.Errorf("presign get %s: %w", key, err)
	}

	return req.URL, nil
}
