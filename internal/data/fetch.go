package data

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrResourceLoad is returned when a plant index or damage table cannot be fetched.
var ErrResourceLoad = errors.New("resource load failed")

// maxResourceSize caps a single fetched resource.
const maxResourceSize = 16 << 20

// Fetcher returns the raw bytes of a named resource.
type Fetcher interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// HTTPFetcher fetches resources relative to BaseURL.
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPFetcher returns an HTTPFetcher with a bounded client timeout.
func NewHTTPFetcher(baseURL string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
	}
}

// Fetch implements Fetcher. Any non-2xx status is a load failure.
func (f *HTTPFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	u, err := f.resolve(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrResourceLoad, name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrResourceLoad, name, err)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrResourceLoad, name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: failed to fetch %s (%d)", ErrResourceLoad, name, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResourceSize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrResourceLoad, name, err)
	}
	return body, nil
}

func (f *HTTPFetcher) resolve(name string) (string, error) {
	ref, err := url.Parse(name)
	if err != nil {
		return "", err
	}
	if ref.IsAbs() || f.BaseURL == "" {
		return ref.String(), nil
	}
	base, err := url.Parse(strings.TrimSuffix(f.BaseURL, "/") + "/")
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}

// DirFetcher reads resources from a file system (embedded or on disk).
type DirFetcher struct {
	FS fs.FS
}

// Fetch implements Fetcher.
func (f DirFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := fs.ReadFile(f.FS, strings.TrimPrefix(name, "./"))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrResourceLoad, name, err)
	}
	return b, nil
}
