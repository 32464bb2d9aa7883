package data

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/udisondev/plantcalc/internal/damage"
)

// LoadObserver is notified after every table fetch attempt.
type LoadObserver func(file string, took time.Duration, err error)

// Store caches parsed damage tables by file name.
// Tables are loaded once and never evicted; failed loads are not cached.
type Store struct {
	fetcher  Fetcher
	observer LoadObserver

	mu     sync.RWMutex
	tables map[string]*damage.Table
	group  singleflight.Group
}

// NewStore creates a table store backed by f.
func NewStore(f Fetcher) *Store {
	return &Store{
		fetcher: f,
		tables:  make(map[string]*damage.Table),
	}
}

// SetObserver installs a load observer. Not safe to call concurrently with Table.
func (s *Store) SetObserver(o LoadObserver) {
	s.observer = o
}

// Table returns the parsed table for file, loading it on first use.
// Concurrent callers for the same file share one fetch. The fetch runs
// detached from any single caller, so a caller that gives up gets its own
// ctx error while the others keep waiting.
func (s *Store) Table(ctx context.Context, file string) (*damage.Table, error) {
	s.mu.RLock()
	t, ok := s.tables[file]
	s.mu.RUnlock()
	if ok {
		return t, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(file, func() (any, error) {
		s.mu.RLock()
		t, ok := s.tables[file]
		s.mu.RUnlock()
		if ok {
			return t, nil
		}
		return s.load(loadCtx, file)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*damage.Table), nil
	}
}

func (s *Store) load(ctx context.Context, file string) (*damage.Table, error) {
	start := time.Now()
	slog.Debug("loading damage table", "file", file)

	t, err := s.fetchAndParse(ctx, file)
	if s.observer != nil {
		s.observer(file, time.Since(start), err)
	}
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.tables[file] = t
	s.mu.Unlock()

	slog.Debug("damage table loaded", "file", file, "rows", t.Len(), "took", time.Since(start))
	return t, nil
}

func (s *Store) fetchAndParse(ctx context.Context, file string) (*damage.Table, error) {
	raw, err := s.fetcher.Fetch(ctx, file)
	if err != nil {
		return nil, err
	}
	t, err := damage.ParseTable(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", file, err)
	}
	return t, nil
}

// Cached reports whether file is already loaded.
func (s *Store) Cached(file string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tables[file]
	return ok
}

// Len returns the number of cached tables.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tables)
}

// Prefetch loads files concurrently, at most limit at a time.
// The first failure cancels the remaining loads.
func (s *Store) Prefetch(ctx context.Context, files []string, limit int) error {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for _, f := range files {
		g.Go(func() error {
			_, err := s.Table(ctx, f)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("prefetching damage tables: %w", err)
	}
	slog.Info("damage tables prefetched", "count", len(files))
	return nil
}
