package filehash_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/filehash/pkg/file"
)

// memStorage is an in-memory file.Storage that records read concurrency.
type memStorage struct {
	files map[string][]byte
	delay time.Duration
	block chan struct{}

	reads    atomic.Int64
	inFlight atomic.Int64
	peak     atomic.Int64
}

func newMemStorage(files map[string]string) *memStorage {
	m := &memStorage{files: make(map[string][]byte, len(files))}
	for k, v := range files {
		m.files[k] = []byte(v)
	}
	return m
}

func (m *memStorage) Read(ctx context.Context, name string) ([]byte, error) {
	m.reads.Add(1)
	cur := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		p := m.peak.Load()
		if cur <= p || m.peak.CompareAndSwap(p, cur) {
			break
		}
	}

	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.delay > 0 {
		time.Sleep(m.delay)
	}

	data, ok := m.files[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", file.ErrFileNotFound, name)
	}
	return data, nil
}

func (m *memStorage) Size(_ context.Context, name string) (int64, error) {
	data, ok := m.files[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", file.ErrFileNotFound, name)
	}
	return int64(len(data)), nil
}

func (m *memStorage) Ping(context.Context) error { return nil }

// MockStorage is a testify mock of file.Storage.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Read(ctx context.Context, name string) ([]byte, error) {
	args := m.Called(ctx, name)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockStorage) Size(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
