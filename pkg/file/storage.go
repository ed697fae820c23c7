package file

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Storage resolves a file name to its content.
// Implementations return an error wrapping ErrFileNotFound when the name
// does not exist.
type Storage interface {
	// Read returns the full content of name.
	Read(ctx context.Context, name string) ([]byte, error)
	// Size returns the byte length of name without reading it.
	Size(ctx context.Context, name string) (int64, error)
	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
}

// Driver names a Storage backend.
type Driver string

const (
	DriverLocal Driver = "local"
	DriverS3    Driver = "s3"
)

// Config selects and configures a backend from the environment.
type Config struct {
	Driver      Driver `env:"STORAGE_DRIVER" envDefault:"local"`
	LocalDir    string `env:"STORAGE_LOCAL_DIR" envDefault:"./files"`
	MaxFileSize int64  `env:"STORAGE_MAX_FILE_SIZE" envDefault:"0"` // 0 means unlimited

	S3Bucket         string `env:"STORAGE_S3_BUCKET"`
	S3Region         string `env:"STORAGE_S3_REGION" envDefault:"us-east-1"`
	S3AccessKeyID    string `env:"STORAGE_S3_ACCESS_KEY_ID"`
	S3SecretKey      string `env:"STORAGE_S3_SECRET_KEY"`
	S3Endpoint       string `env:"STORAGE_S3_ENDPOINT"`
	S3Prefix         string `env:"STORAGE_S3_PREFIX"`
	S3ForcePathStyle bool   `env:"STORAGE_S3_FORCE_PATH_STYLE" envDefault:"false"`
}

// Validate checks the configuration of the selected driver.
func (c Config) Validate() error {
	switch c.Driver {
	case DriverLocal:
		if c.LocalDir == "" {
			return fmt.Errorf("%w: STORAGE_LOCAL_DIR is required", ErrInvalidConfig)
		}
	case DriverS3:
		if c.S3Bucket == "" || c.S3Region == "" {
			return fmt.Errorf("%w: STORAGE_S3_BUCKET and STORAGE_S3_REGION are required", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Driver)
	}
	if c.MaxFileSize < 0 {
		return fmt.Errorf("%w: STORAGE_MAX_FILE_SIZE must not be negative", ErrInvalidConfig)
	}
	return nil
}

// New builds the Storage selected by cfg.Driver.
func New(ctx context.Context, cfg Config) (Storage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Driver {
	case DriverS3:
		return NewS3Storage(ctx, S3Config{
			Bucket:         cfg.S3Bucket,
			Region:         cfg.S3Region,
			AccessKeyID:    cfg.S3AccessKeyID,
			SecretKey:      cfg.S3SecretKey,
			Endpoint:       cfg.S3Endpoint,
			Prefix:         cfg.S3Prefix,
			ForcePathStyle: cfg.S3ForcePathStyle,
		}, WithS3MaxObjectSize(cfg.MaxFileSize))
	default:
		return NewLocalStorage(cfg.LocalDir, WithLocalMaxFileSize(cfg.MaxFileSize))
	}
}

// cleanKey normalizes an object name and rejects traversal attempts.
func cleanKey(name string) (string, error) {
	name = strings.TrimPrefix(strings.ReplaceAll(name, "\\", "/"), "/")
	if name == "" || strings.Contains(name, "..") || strings.ContainsRune(name, 0) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, name)
	}
	return name, nil
}

// contextError maps context termination to the package sentinels.
func contextError(err error, operation string) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %s operation", ErrOperationTimeout, operation)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %s operation", ErrOperationCanceled, operation)
	default:
		return err
	}
}
