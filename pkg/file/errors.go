package file

import "errors"

var (
	ErrInvalidPath = errors.New("invalid path") // Prevents path traversal attacks

	// File system errors
	ErrFileNotFound      = errors.New("file not found")
	ErrDirectoryNotFound = errors.New("directory not found")
	ErrIsDirectory       = errors.New("path is a directory")
	ErrFileTooLarge      = errors.New("file size exceeds maximum allowed size")

	// I/O operation errors - wrapped with context for debugging
	ErrFailedToReadFile        = errors.New("failed to read file")
	ErrFailedToStatPath        = errors.New("failed to stat path")
	ErrFailedToGetAbsolutePath = errors.New("failed to get absolute path")

	// S3-specific errors
	ErrBucketNotFound     = errors.New("bucket not found")
	ErrAccessDenied       = errors.New("access denied")
	ErrRequestTimeout     = errors.New("request timed out")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
	ErrInvalidObjectState = errors.New("invalid object state")

	// Context and cancellation errors
	ErrOperationTimeout  = errors.New("operation timed out")
	ErrOperationCanceled = errors.New("operation canceled")

	// Configuration errors
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrUnknownDriver      = errors.New("unknown storage driver")
	ErrFailedToLoadConfig = errors.New("failed to load AWS config")
)
