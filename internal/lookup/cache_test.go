package lookup

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/litescript/ls-skymap/internal/catalog"
)

type countingService struct {
	calls   atomic.Int32
	release chan struct{}
	fail    error
}

func (s *countingService) ByID(_ context.Context, id string) (ObjectDetail, error) {
	s.calls.Add(1)
	if s.release != nil {
		<-s.release
	}
	if s.fail != nil {
		return ObjectDetail{}, s.fail
	}
	return ObjectDetail{ID: id, Kind: catalog.KindStar}, nil
}

func (s *countingService) ByName(_ context.Context, name string) (ObjectDetail, error) {
	s.calls.Add(1)
	return ObjectDetail{Name: name}, nil
}

func (s *countingService) Document(_ context.Context, ref string) (Document, error) {
	s.calls.Add(1)
	return Document{Ref: ref}, nil
}

func TestCache_HitWithinTTL(t *testing.T) {
	defer goleak.VerifyNone(t)

	svc := &countingService{}
	c := NewCache(svc, svc, time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		d, err := c.ByID(ctx, "star-0001")
		require.NoError(t, err)
		assert.Equal(t, "star-0001", d.ID)
	}
	assert.EqualValues(t, 1, svc.calls.Load())

	now = now.Add(2 * time.Minute)
	_, err := c.ByID(ctx, "star-0001")
	require.NoError(t, err)
	assert.EqualValues(t, 2, svc.calls.Load(), "expired entry refetched")

	_, _ = c.ByName(ctx, "天狼")
	_, _ = c.Document(ctx, "star-0001")
	assert.EqualValues(t, 4, svc.calls.Load())
	assert.Equal(t, 3, c.Len())
}

func TestCache_ErrorsNotCached(t *testing.T) {
	defer goleak.VerifyNone(t)

	svc := &countingService{fail: errors.New("boom")}
	c := NewCache(svc, svc, time.Minute)

	_, err := c.ByID(context.Background(), "star-0001")
	assert.Error(t, err)
	_, err = c.ByID(context.Background(), "star-0001")
	assert.Error(t, err)
	assert.EqualValues(t, 2, svc.calls.Load())
	assert.Equal(t, 0, c.Len())
}

func TestCache_ConcurrentMissesShareOneCall(t *testing.T) {
	defer goleak.VerifyNone(t)

	svc := &countingService{release: make(chan struct{})}
	c := NewCache(svc, svc, time.Minute)

	const n = 16
	var wg sync.WaitGroup
	results := make([]ObjectDetail, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d, err := c.ByID(context.Background(), "star-0002")
			assert.NoError(t, err)
			results[i] = d
		}(i)
	}

	// Let every goroutine reach the flight before releasing it.
	require.Eventually(t, func() bool { return svc.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(svc.release)
	wg.Wait()

	assert.EqualValues(t, 1, svc.calls.Load())
	for _, d := range results {
		assert.Equal(t, "star-0002", d.ID)
	}
}

func TestCache_CallerCancellation(t *testing.T) {
	defer goleak.VerifyNone(t)

	svc := &countingService{release: make(chan struct{})}
	c := NewCache(svc, svc, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.ByID(ctx, "star-0003")
		done <- err
	}()

	require.Eventually(t, func() bool { return svc.calls.Load() == 1 }, time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	// The shared fetch still completes and fills the cache.
	close(svc.release)
	require.Eventually(t, func() bool { return c.Len() == 1 }, time.Second, time.Millisecond)
}
