package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3API is the minimal S3 interface required by S3Store.
// *s3.Client from aws-sdk-go-v2 satisfies this interface.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// S3Options configures S3Store.
type S3Options struct {
	Bucket       string
	Region       string
	Endpoint     string
	UsePathStyle bool
	// PublicBaseURL overrides the URL returned for stored objects.
	PublicBaseURL string
	Prefix        string
}

// S3Store writes files to an S3 compatible bucket.
type S3Store struct {
	api  s3API
	opts S3Options
}

// NewS3Client builds an S3 client from an AWS config honouring a custom
// endpoint and path-style addressing.
func NewS3Client(cfg aws.Config, opts S3Options) *s3.Client {
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Region != "" {
			o.Region = opts.Region
		}
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.UsePathStyle
	})
}

// NewS3Store creates an S3 backed store.
func NewS3Store(api s3API, opts S3Options) (*S3Store, error) {
	if api == nil {
		return nil, errors.New("storage: api must not be nil")
	}
	if strings.TrimSpace(opts.Bucket) == "" {
		return nil, errors.New("storage: bucket must not be empty")
	}
	return &S3Store{api: api, opts: opts}, nil
}

// Name returns the backend name.
func (s *S3Store) Name() string { return "s3" }

// Put uploads the object and returns its URL.
func (s *S3Store) Put(ctx context.Context, name string, body io.Reader, size int64, contentType string) (string, error) {
	key := s.key(name)
	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.opts.Bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("storage: put object %s: %w", key, err)
	}
	return s.objectURL(key), nil
}

// Health performs a HeadBucket request.
func (s *S3Store) Health(ctx context.Context) error {
	_, err := s.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.opts.Bucket)})
	return err
}

func (s *S3Store) key(name string) string {
	prefix := strings.Trim(s.opts.Prefix, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

func (s *S3Store) objectURL(key string) string {
	switch {
	case s.opts.PublicBaseURL != "":
		return strings.TrimSuffix(s.opts.PublicBaseURL, "/") + "/" + key
	case s.opts.Endpoint != "":
		return strings.TrimSuffix(s.opts.Endpoint, "/") + "/" + s.opts.Bucket + "/" + key
	case s.opts.UsePathStyle:
		return fmt.Sprintf("https://s3.%s.amazonaws.com/%s/%s", s.opts.Region, s.opts.Bucket, key)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.opts.Bucket, s.opts.Region, key)
	}
}
