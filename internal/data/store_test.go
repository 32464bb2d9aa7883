package data

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goldTable = `kg,l1,l2,l3,l4,l5,l6,l7,l8,l9,l10
1.0,10,15,20,25,30,35,40,45,50,55
2.0,20,30,40,50,60,70,80,90,100,110
`

func TestStoreCachesTables(t *testing.T) {
	t.Parallel()

	f := NewMapFetcher(map[string]string{"gold.csv": goldTable})
	s := NewStore(f)

	var loads []string
	s.SetObserver(func(file string, _ time.Duration, err error) {
		assert.NoError(t, err)
		loads = append(loads, file)
	})

	for range 3 {
		tbl, err := s.Table(context.Background(), "gold.csv")
		require.NoError(t, err)
		assert.Equal(t, 2, tbl.Len())
	}
	assert.Equal(t, 1, f.Calls("gold.csv"))
	assert.Equal(t, []string{"gold.csv"}, loads)
	assert.True(t, s.Cached("gold.csv"))
	assert.Equal(t, 1, s.Len())
}

func TestStoreConcurrentLoads(t *testing.T) {
	t.Parallel()

	f := NewMapFetcher(map[string]string{"gold.csv": goldTable})
	s := NewStore(f)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Table(context.Background(), "gold.csv")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, f.Calls("gold.csv"), 16)
	assert.True(t, s.Cached("gold.csv"))
}

func TestStoreFailureNotCached(t *testing.T) {
	t.Parallel()

	f := NewMapFetcher(nil)
	s := NewStore(f)

	_, err := s.Table(context.Background(), "gold.csv")
	require.ErrorIs(t, err, ErrResourceLoad)
	assert.False(t, s.Cached("gold.csv"))

	f.Set("gold.csv", goldTable)
	tbl, err := s.Table(context.Background(), "gold.csv")
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, 2, f.Calls("gold.csv"))
}

func TestStorePrefetch(t *testing.T) {
	t.Parallel()

	f := NewMapFetcher(map[string]string{
		"a.csv": goldTable,
		"b.csv": goldTable,
		"c.csv": goldTable,
	})
	s := NewStore(f)

	require.NoError(t, s.Prefetch(context.Background(), []string{"a.csv", "b.csv", "c.csv"}, 2))
	assert.Equal(t, 3, s.Len())

	err := s.Prefetch(context.Background(), []string{"a.csv", "missing.csv"}, 0)
	assert.ErrorIs(t, err, ErrResourceLoad)
}

// gatedFetcher blocks every fetch until release is closed.
type gatedFetcher struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
	calls   atomic.Int32
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{started: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedFetcher) Fetch(ctx context.Context, _ string) ([]byte, error) {
	g.calls.Add(1)
	g.once.Do(func() { close(g.started) })
	select {
	case <-g.release:
		return []byte(goldTable), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestStoreCancelledCallerDoesNotFailOthers(t *testing.T) {
	t.Parallel()

	f := newGatedFetcher()
	s := NewStore(f)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := s.Table(ctxA, "gold.csv")
		errA <- err
	}()
	<-f.started

	type result struct {
		rows int
		err  error
	}
	resB := make(chan result, 1)
	go func() {
		tbl, err := s.Table(context.Background(), "gold.csv")
		if err != nil {
			resB <- result{err: err}
			return
		}
		resB <- result{rows: tbl.Len()}
	}()

	cancelA()
	select {
	case err := <-errA:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("cancelled caller did not return")
	}

	close(f.release)
	select {
	case res := <-resB:
		require.NoError(t, res.err)
		assert.Equal(t, 2, res.rows)
	case <-time.After(5 * time.Second):
		t.Fatal("second caller did not get the table")
	}

	assert.Equal(t, int32(1), f.calls.Load())
	assert.True(t, s.Cached("gold.csv"))
}

func TestStoreCancelledBeforeLoad(t *testing.T) {
	t.Parallel()

	f := newGatedFetcher()
	s := NewStore(f)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Table(ctx, "gold.csv")
	assert.ErrorIs(t, err, context.Canceled)

	close(f.release)
	tbl, err := s.Table(context.Background(), "gold.csv")
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())
}
