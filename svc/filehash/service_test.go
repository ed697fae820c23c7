package filehash_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/filehash/pkg/cache"
	"github.com/dmitrymomot/filehash/pkg/file"
	"github.com/dmitrymomot/filehash/pkg/hasher"
	"github.com/dmitrymomot/filehash/pkg/workerpool"
	"github.com/dmitrymomot/filehash/svc/filehash"
)

func newService(t *testing.T, storage file.Storage, capacity, workers int, poolOpts ...workerpool.Option) (*filehash.Service, *cache.Cache) {
	t.Helper()
	c := cache.New(capacity)
	p := workerpool.New(workers, poolOpts...)
	return filehash.New(c, p, storage), c
}

func runEvictor(t *testing.T, c *cache.Cache) *cache.Evictor {
	t.Helper()
	ev := cache.NewEvictor(c)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ev.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return ev
}

func TestService_FirstRequestComputesDigest(t *testing.T) {
	t.Parallel()

	storage := newMemStorage(map[string]string{"a.txt": "hello world"})
	svc, c := newService(t, storage, 3, 10)

	res, err := svc.Hash(context.Background(), "a.txt")
	require.NoError(t, err)

	assert.Equal(t, "a.txt", res.Key)
	assert.Equal(t, hasher.Digest([]byte("hello world")), res.Hash)
	assert.Len(t, res.Hash, hasher.HexLen)
	assert.False(t, res.Cached)
	assert.Equal(t, int64(1), res.Hits)
	assert.Equal(t, "a.txt - "+res.Hash, res.String())

	entry, ok := c.Lookup("a.txt")
	require.True(t, ok)
	assert.Equal(t, res.Hash, entry.Hash)
	assert.Equal(t, int64(len("hello world")), entry.Size)
	assert.Equal(t, int64(1), entry.Hits)
}

func TestService_HitReturnsSameHash(t *testing.T) {
	t.Parallel()

	storage := newMemStorage(map[string]string{"a.txt": "content"})
	svc, _ := newService(t, storage, 3, 10)
	ctx := context.Background()

	first, err := svc.Hash(ctx, "a.txt")
	require.NoError(t, err)

	for i := 2; i <= 4; i++ {
		res, err := svc.Hash(ctx, "a.txt")
		require.NoError(t, err)
		assert.True(t, res.Cached)
		assert.Equal(t, first.Hash, res.Hash)
		assert.Equal(t, int64(i), res.Hits)
	}

	assert.Equal(t, int64(1), storage.reads.Load(), "hits must not touch storage")
}

func TestService_EmptyFile(t *testing.T) {
	t.Parallel()

	storage := newMemStorage(map[string]string{"empty.txt": ""})
	svc, _ := newService(t, storage, 3, 10)

	res, err := svc.Hash(context.Background(), "empty.txt")
	require.NoError(t, err)
	assert.Equal(t, hasher.Digest(nil), res.Hash)
}

func TestService_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key  string
		want error
	}{
		{"", filehash.ErrEmptyQuery},
		{"malformed", filehash.ErrInvalidQuery},
		{"a.b.txt", filehash.ErrInvalidQuery},
		{"a.csv", filehash.ErrInvalidQuery},
		{".txt", filehash.ErrInvalidQuery},
		{"a.TXT", filehash.ErrInvalidQuery},
	}

	storage := newMemStorage(nil)
	svc, c := newService(t, storage, 3, 10)

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.key), func(t *testing.T) {
			_, err := svc.Hash(context.Background(), tt.key)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.Zero(t, storage.reads.Load())
	assert.Zero(t, c.Len())
}

func TestService_NotFoundLeavesNoEntry(t *testing.T) {
	t.Parallel()

	storage := newMemStorage(nil)
	svc, c := newService(t, storage, 3, 10)

	_, err := svc.Hash(context.Background(), "missing.txt")
	require.ErrorIs(t, err, filehash.ErrNotFound)
	assert.ErrorIs(t, err, file.ErrFileNotFound)
	assert.Equal(t, 404, filehash.AsHTTPError(err).Code)
	assert.Zero(t, c.Len())
}

func TestService_StorageErrors(t *testing.T) {
	t.Parallel()

	cause := errors.New("disk on fire")
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"generic failure", cause, filehash.ErrInternal},
		{"timeout", fmt.Errorf("%w: read", file.ErrOperationTimeout), filehash.ErrInternal},
		{"directory", fmt.Errorf("%w: dir.txt", file.ErrIsDirectory), filehash.ErrNotFound},
		{"path escape", fmt.Errorf("%w: x", file.ErrInvalidPath), filehash.ErrInvalidQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			storage := new(MockStorage)
			storage.On("Read", mock.Anything, "x.txt").Return(nil, tt.err).Once()

			svc, c := newService(t, storage, 3, 10)
			_, err := svc.Hash(context.Background(), "x.txt")

			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, tt.err)
			assert.Zero(t, c.Len())
			storage.AssertExpectations(t)
		})
	}
}

func TestService_CapacityEviction(t *testing.T) {
	t.Parallel()

	storage := newMemStorage(map[string]string{
		"a.txt": "aaaa",
		"b.txt": "bbbbbbbb",
		"c.txt": "cc",
	})
	svc, c := newService(t, storage, 3, 10)
	ev := runEvictor(t, c)

	for _, key := range []string{"a.txt", "b.txt", "c.txt"} {
		_, err := svc.Hash(context.Background(), key)
		require.NoError(t, err)
	}

	require.Eventually(t, func() bool {
		return c.Len() == 2 && ev.Stats().Evicted == 1
	}, time.Second, 5*time.Millisecond)
}

func TestService_ConcurrentHitsAreCounted(t *testing.T) {
	t.Parallel()

	const n = 200
	storage := newMemStorage(map[string]string{"a.txt": "payload"})
	svc, c := newService(t, storage, 3, 10)
	ctx := context.Background()

	_, err := svc.Hash(ctx, "a.txt")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Hash(ctx, "a.txt")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	entry, ok := c.Lookup("a.txt")
	require.True(t, ok)
	assert.Equal(t, int64(n+1), entry.Hits)
}

func TestService_ConcurrentMissesInsertOnce(t *testing.T) {
	t.Parallel()

	storage := newMemStorage(map[string]string{"a.txt": "payload"})
	storage.delay = 10 * time.Millisecond
	svc, c := newService(t, storage, 10, 10)

	var wg sync.WaitGroup
	hashes := make([]string, 10)
	for i := range hashes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.Hash(context.Background(), "a.txt")
			assert.NoError(t, err)
			hashes[i] = res.Hash
		}()
	}
	wg.Wait()

	want := hasher.Digest([]byte("payload"))
	for _, h := range hashes {
		assert.Equal(t, want, h)
	}
	assert.Equal(t, 1, c.Len())
}

func TestService_BoundedConcurrency(t *testing.T) {
	t.Parallel()

	const (
		workers  = 3
		requests = 20
	)
	files := make(map[string]string, requests)
	for i := range requests {
		files[fmt.Sprintf("f%d.txt", i)] = fmt.Sprintf("content %d", i)
	}
	storage := newMemStorage(files)
	storage.delay = 20 * time.Millisecond
	svc, _ := newService(t, storage, 100, workers)

	var wg sync.WaitGroup
	for key := range files {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Hash(context.Background(), key)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, storage.peak.Load(), int64(workers))
	assert.Equal(t, int64(requests), storage.reads.Load())

	st := svc.Stats()
	assert.Equal(t, int64(requests), st.Pool.Admitted)
	assert.Zero(t, st.Pool.InFlight)
}

func TestService_AdmissionTimeout(t *testing.T) {
	t.Parallel()

	storage := newMemStorage(map[string]string{"a.txt": "a", "b.txt": "b"})
	storage.block = make(chan struct{})
	svc, _ := newService(t, storage, 3, 1, workerpool.WithAdmissionTimeout(20*time.Millisecond))

	done := make(chan error, 1)
	go func() {
		_, err := svc.Hash(context.Background(), "a.txt")
		done <- err
	}()
	require.Eventually(t, func() bool { return storage.inFlight.Load() == 1 }, time.Second, time.Millisecond)

	_, err := svc.Hash(context.Background(), "b.txt")
	assert.ErrorIs(t, err, filehash.ErrAdmissionTimeout)
	assert.ErrorIs(t, err, workerpool.ErrAdmissionTimeout)
	assert.Equal(t, 503, filehash.AsHTTPError(err).Code)

	close(storage.block)
	require.NoError(t, <-done)
}

func TestService_CancelledWhileWaiting(t *testing.T) {
	t.Parallel()

	storage := newMemStorage(map[string]string{"a.txt": "a"})
	storage.block = make(chan struct{})
	svc, _ := newService(t, storage, 3, 1)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Hash(context.Background(), "a.txt")
		done <- err
	}()
	require.Eventually(t, func() bool { return storage.inFlight.Load() == 1 }, time.Second, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := svc.Hash(ctx, "a.txt")
	assert.ErrorIs(t, err, filehash.ErrInternal)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(storage.block)
	require.NoError(t, <-done)
}

func TestService_Ready(t *testing.T) {
	t.Parallel()

	storage := new(MockStorage)
	storage.On("Ping", mock.Anything).Return(nil).Once()
	storage.On("Ping", mock.Anything).Return(errors.New("unreachable")).Once()

	svc, _ := newService(t, storage, 3, 10)
	assert.NoError(t, svc.Ready(context.Background()))
	assert.Error(t, svc.Ready(context.Background()))
	storage.AssertExpectations(t)
}

func TestService_Stats(t *testing.T) {
	t.Parallel()

	storage := newMemStorage(map[string]string{"b.txt": "bb", "a.txt": "a"})
	c := cache.New(5)
	ev := cache.NewEvictor(c)
	svc := filehash.New(c, workerpool.New(4), storage, filehash.WithEvictor(ev))

	for _, key := range []string{"b.txt", "a.txt", "a.txt"} {
		_, err := svc.Hash(context.Background(), key)
		require.NoError(t, err)
	}

	st := svc.Stats()
	assert.Equal(t, 5, st.Cache.Capacity)
	assert.Equal(t, 2, st.Cache.Len)
	require.Len(t, st.Cache.Entries, 2)
	assert.Equal(t, "a.txt", st.Cache.Entries[0].Key)
	assert.Equal(t, int64(2), st.Cache.Entries[0].Hits)
	assert.Equal(t, 4, st.Pool.Capacity)
	assert.Equal(t, int64(3), st.Pool.Admitted)
	require.NotNil(t, st.Evictor)
	assert.Zero(t, st.Evictor.Evicted)
}

func TestNew_PanicsOnNilDependency(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		filehash.New(nil, workerpool.New(1), newMemStorage(nil))
	})
	assert.Panics(t, func() {
		filehash.New(cache.New(1), workerpool.New(1), nil)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, filehash.Config{CacheCapacity: 3, MaxConcurrent: 10}.Validate())
	assert.Error(t, filehash.Config{CacheCapacity: 0, MaxConcurrent: 10}.Validate())
	assert.Error(t, filehash.Config{CacheCapacity: 3, MaxConcurrent: 0}.Validate())
	assert.Error(t, filehash.Config{CacheCapacity: 3, MaxConcurrent: 1, AdmissionTimeout: -time.Second}.Validate())
}
