package file

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStorage implements Storage for the local filesystem.
// All reads are confined to baseDir to prevent path traversal attacks.
type LocalStorage struct {
	baseDir     string        // Absolute path - all files are read from within this directory
	readTimeout time.Duration // Optional timeout to prevent hanging reads
	maxFileSize int64         // Zero means unlimited
}

// LocalOption defines a function that configures LocalStorage.
type LocalOption func(*LocalStorage)

// WithLocalReadTimeout sets the timeout for read operations.
// If not set, relies on context deadline from caller.
func WithLocalReadTimeout(timeout time.Duration) LocalOption {
	return func(s *LocalStorage) {
		s.readTimeout = timeout
	}
}

// WithLocalMaxFileSize rejects files larger than n bytes with ErrFileTooLarge.
func WithLocalMaxFileSize(n int64) LocalOption {
	return func(s *LocalStorage) {
		if n > 0 {
			s.maxFileSize = n
		}
	}
}

// NewLocalStorage creates a storage reading from baseDir.
// baseDir is resolved to an absolute path and must exist.
func NewLocalStorage(baseDir string, opts ...LocalOption) (*LocalStorage, error) {
	if baseDir == "" {
		return nil, ErrInvalidConfig
	}

	absBaseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to resolve base directory: %v", ErrFailedToGetAbsolutePath, err)
	}

	info, err := os.Stat(absBaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, baseDir)
		}
		return nil, fmt.Errorf("%w: %v", ErrFailedToStatPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidConfig, baseDir)
	}

	s := &LocalStorage{baseDir: absBaseDir}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Read returns the content of name. Reading runs in a goroutine so that a
// cancelled context releases the caller even if the filesystem hangs.
func (s *LocalStorage) Read(ctx context.Context, name string) ([]byte, error) {
	if s.readTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.readTimeout)
		defer cancel()
	}

	if err := ctx.Err(); err != nil {
		return nil, contextError(err, "read file")
	}

	absPath, err := s.resolvePath(name)
	if err != nil {
		return nil, err
	}

	type result struct {
		data []byte
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		data, err := s.readFile(absPath, name)
		ch <- result{data, err}
	}()

	select {
	case <-ctx.Done():
		return nil, contextError(ctx.Err(), "read file")
	case r := <-ch:
		return r.data, r.err
	}
}

// Size returns the byte length of name.
func (s *LocalStorage) Size(ctx context.Context, name string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, contextError(err, "stat file")
	}

	absPath, err := s.resolvePath(name)
	if err != nil {
		return 0, err
	}

	info, err := s.stat(absPath, name)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// Ping verifies the base directory is still accessible.
func (s *LocalStorage) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return contextError(err, "ping")
	}
	if _, err := os.Stat(s.baseDir); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToStatPath, err)
	}
	return nil
}

// BaseDir returns the absolute directory files are read from.
func (s *LocalStorage) BaseDir() string {
	return s.baseDir
}

func (s *LocalStorage) readFile(absPath, name string) ([]byte, error) {
	info, err := s.stat(absPath, name)
	if err != nil {
		return nil, err
	}
	if s.maxFileSize > 0 && info.Size() > s.maxFileSize {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrFileTooLarge, name, info.Size(), s.maxFileSize)
	}

	f, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, name)
		}
		return nil, fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if s.maxFileSize > 0 {
		// The file may grow after stat.
		r = io.LimitReader(f, s.maxFileSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
	}
	if s.maxFileSize > 0 && int64(len(data)) > s.maxFileSize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrFileTooLarge, name, s.maxFileSize)
	}
	return data, nil
}

func (s *LocalStorage) stat(absPath, name string) (os.FileInfo, error) {
	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, name)
		}
		return nil, fmt.Errorf("%w: %v", ErrFailedToStatPath, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, name)
	}
	return info, nil
}

// resolvePath validates and resolves a path within the base directory.
// Ensures all resolved paths stay within baseDir bounds using string prefix checking.
func (s *LocalStorage) resolvePath(path string) (string, error) {
	path = filepath.Clean(path)
	absPath := filepath.Join(s.baseDir, path)

	absPath, err := filepath.Abs(absPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToGetAbsolutePath, err)
	}

	if !strings.HasPrefix(absPath, s.baseDir+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}

	return absPath, nil
}
