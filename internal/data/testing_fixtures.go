package data

import (
	"context"
	"fmt"
	"sync"
)

// MapFetcher serves resources from memory. Intended for tests from other
// packages that need plant indexes or damage tables without network access.
type MapFetcher struct {
	mu    sync.Mutex
	files map[string][]byte
	calls map[string]int
}

// NewMapFetcher returns a MapFetcher serving files.
func NewMapFetcher(files map[string]string) *MapFetcher {
	m := &MapFetcher{
		files: make(map[string][]byte, len(files)),
		calls: make(map[string]int),
	}
	for k, v := range files {
		m.files[k] = []byte(v)
	}
	return m
}

// Fetch implements Fetcher.
func (m *MapFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[name]++
	b, ok := m.files[name]
	if !ok {
		return nil, fmt.Errorf("%w: failed to fetch %s (404)", ErrResourceLoad, name)
	}
	return b, nil
}

// Set replaces or adds a resource.
func (m *MapFetcher) Set(name, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = []byte(content)
}

// Calls returns how many times name was fetched.
func (m *MapFetcher) Calls(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}
