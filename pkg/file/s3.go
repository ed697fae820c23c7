package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3Client defines the subset of the S3 API used by S3Storage.
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// S3Storage implements Storage for Amazon S3 and S3-compatible services.
// It is safe for concurrent use.
type S3Storage struct {
	client        S3Client
	bucket        string
	prefix        string
	readTimeout   time.Duration
	maxObjectSize int64
}

// S3Config contains configuration for S3 storage.
type S3Config struct {
	Bucket         string
	Region         string
	AccessKeyID    string
	SecretKey      string
	Endpoint       string // Optional: for S3-compatible services
	Prefix         string // Optional: key prefix prepended to every file name
	ForcePathStyle bool   // For S3-compatible services like MinIO
}

// S3Option defines a function that configures S3Storage.
type S3Option func(*s3Options)

type s3Options struct {
	httpClient      *http.Client
	s3Client        S3Client
	s3ConfigOptions []func(*config.LoadOptions) error
	s3ClientOptions []func(*s3.Options)
	readTimeout     time.Duration
	maxObjectSize   int64
}

// WithS3Client sets a custom pre-configured S3 client.
// Useful for testing with mocks.
func WithS3Client(client S3Client) S3Option {
	return func(o *s3Options) {
		o.s3Client = client
	}
}

// WithHTTPClient sets a custom HTTP client for S3 requests.
func WithHTTPClient(client *http.Client) S3Option {
	return func(o *s3Options) {
		o.httpClient = client
	}
}

// WithS3ConfigOption adds a custom AWS config option.
func WithS3ConfigOption(option func(*config.LoadOptions) error) S3Option {
	return func(o *s3Options) {
		o.s3ConfigOptions = append(o.s3ConfigOptions, option)
	}
}

// WithS3ClientOption adds a custom S3 client option.
func WithS3ClientOption(option func(*s3.Options)) S3Option {
	return func(o *s3Options) {
		o.s3ClientOptions = append(o.s3ClientOptions, option)
	}
}

// WithS3ReadTimeout bounds every object download.
// If not set, the context deadline from the caller is used.
func WithS3ReadTimeout(timeout time.Duration) S3Option {
	return func(o *s3Options) {
		o.readTimeout = timeout
	}
}

// WithS3MaxObjectSize rejects objects larger than n bytes with ErrFileTooLarge.
func WithS3MaxObjectSize(n int64) S3Option {
	return func(o *s3Options) {
		if n > 0 {
			o.maxObjectSize = n
		}
	}
}

// NewS3Storage creates a new S3 storage instance.
func NewS3Storage(ctx context.Context, cfg S3Config, opts ...S3Option) (*S3Storage, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, ErrInvalidConfig
	}

	options := &s3Options{}
	for _, opt := range opts {
		opt(options)
	}

	client := options.s3Client
	if client == nil {
		awsOptions := []func(*config.LoadOptions) error{
			config.WithRegion(cfg.Region),
		}

		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			awsOptions = append(awsOptions,
				config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
					cfg.AccessKeyID,
					cfg.SecretKey,
					"",
				)),
			)
		}

		if options.httpClient != nil {
			awsOptions = append(awsOptions, config.WithHTTPClient(options.httpClient))
		}

		awsOptions = append(awsOptions, options.s3ConfigOptions...)

		awsConfig, err := config.LoadDefaultConfig(ctx, awsOptions...)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFailedToLoadConfig, err)
		}

		client = s3.NewFromConfig(awsConfig, func(o *s3.Options) {
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			o.UsePathStyle = cfg.ForcePathStyle

			for _, opt := range options.s3ClientOptions {
				opt(o)
			}
		})
	}

	return &S3Storage{
		client:        client,
		bucket:        cfg.Bucket,
		prefix:        cfg.Prefix,
		readTimeout:   options.readTimeout,
		maxObjectSize: options.maxObjectSize,
	}, nil
}

// Read downloads the object stored under name.
func (s *S3Storage) Read(ctx context.Context, name string) ([]byte, error) {
	if s.readTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.readTimeout)
		defer cancel()
	}

	key, err := s.objectKey(name)
	if err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, classifyS3Error(err, "get object")
	}
	defer func() { _ = out.Body.Close() }()

	if s.maxObjectSize > 0 && aws.ToInt64(out.ContentLength) > s.maxObjectSize {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit %d",
			ErrFileTooLarge, name, aws.ToInt64(out.ContentLength), s.maxObjectSize)
	}

	var body io.Reader = out.Body
	if s.maxObjectSize > 0 {
		body = io.LimitReader(out.Body, s.maxObjectSize+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, contextError(ctxErr, "get object")
		}
		return nil, fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
	}
	if s.maxObjectSize > 0 && int64(len(data)) > s.maxObjectSize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrFileTooLarge, name, s.maxObjectSize)
	}
	return data, nil
}

// Size returns the object's content length.
func (s *S3Storage) Size(ctx context.Context, name string) (int64, error) {
	key, err := s.objectKey(name)
	if err != nil {
		return 0, err
	}

	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return 0, classifyS3Error(err, "head object")
	}
	return aws.ToInt64(out.ContentLength), nil
}

// Ping checks that the bucket exists and is accessible.
func (s *S3Storage) Ping(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return classifyS3Error(err, "head bucket")
	}
	return nil
}

func (s *S3Storage) objectKey(name string) (string, error) {
	key, err := cleanKey(name)
	if err != nil {
		return "", err
	}
	if s.prefix != "" {
		key = path.Join(s.prefix, key)
	}
	return key, nil
}

// classifyS3Error converts S3 errors to domain-specific errors.
func classifyS3Error(err error, operation string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return contextError(err, operation)
	}

	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return fmt.Errorf("%w: %s", ErrFileNotFound, err)
	}

	// HeadObject reports a missing key as a bare 404 NotFound.
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return fmt.Errorf("%w: %s", ErrFileNotFound, err)
	}

	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return ErrBucketNotFound
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		switch code {
		case "AccessDenied", "Forbidden":
			return fmt.Errorf("%w: %s operation", ErrAccessDenied, operation)
		case "RequestTimeout":
			return fmt.Errorf("%w: %s operation", ErrRequestTimeout, operation)
		case "SlowDown", "ServiceUnavailable":
			return fmt.Errorf("%w: %s operation", ErrServiceUnavailable, operation)
		case "InvalidObjectState":
			return fmt.Errorf("%w: %s operation", ErrInvalidObjectState, operation)
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%w: %s", ErrFileNotFound, err)
		case "NoSuchBucket":
			return ErrBucketNotFound
		default:
			return fmt.Errorf("%s operation failed (code: %s): %w", operation, code, err)
		}
	}

	return fmt.Errorf("%s operation failed: %w", operation, err)
}
