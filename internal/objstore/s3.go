package objstore

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sethvargo/go-retry"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// S3Config carries settings for the S3-compatible backend.
type S3Config struct {
	RootUser      string
	RootPassword  string
	Bucket        string
	Region        string
	BaseEndpoint  string
	PublicBaseURL string // defaults to BaseEndpoint when empty
}

// S3Store implements Store over an S3-compatible backend (MinIO in dev).
// Objects are written with a public-read ACL; the returned URLs are plain
// path-style links that stay valid for the lifetime of the object.
type S3Store struct {
	client *s3.Client
	cfg    S3Config
}

// NewS3Store builds the client the same way for AWS proper and for
// MinIO-style endpoints: static credentials plus a base endpoint override.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.RootUser,
			cfg.RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("aws config error: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		o.UsePathStyle = true
	})

	return &S3Store{client: client, cfg: cfg}, nil
}

// withRetry runs fn with a short bounded backoff. Only transient transport
// errors deserve a second attempt; the classification is left to fn, which
// wraps retryable failures with retry.RetryableError.
func withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	b := retry.WithMaxRetries(2, retry.NewFibonacci(200*time.Millisecond))
	return retry.Do(ctx, b, fn)
}

func (s *S3Store) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	err := withRetry(ctx, func(ctx context.Context) error {
		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.cfg.Bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(body),
			ContentType: aws.String(contentType),
			ACL:         types.ObjectCannedACLPublicRead,
		})
		if err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("s3 put error: %w", err)
	}

	return s.ObjectURL(key), nil
}

func (s *S3Store) Copy(ctx context.Context, srcKey, dstKey string) (string, error) {
	err := withRetry(ctx, func(ctx context.Context) error {
		_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
			Bucket:     aws.String(s.cfg.Bucket),
			Key:        aws.String(dstKey),
			CopySource: aws.String(s.cfg.Bucket + "/" + srcKey),
			ACL:        types.ObjectCannedACLPublicRead,
		})
		if err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("s3 copy error: %w", err)
	}

	return s.ObjectURL(dstKey), nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	// DeleteObject is idempotent on S3: deleting a missing key succeeds.
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete error: %w", err)
	}

	return nil
}

// ObjectURL returns the path-style public URL of an object.
func (s *S3Store) ObjectURL(key string) string {
	base := s.cfg.PublicBaseURL
	if base == "" {
		base = s.cfg.BaseEndpoint
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(base, "/"), s.cfg.Bucket, key)
}
