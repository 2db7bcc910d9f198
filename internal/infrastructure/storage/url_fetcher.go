package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	workorderapp "github.com/fieldops/backend/internal/application/workorder"
)

var _ workorderapp.ImageFetcher = (*URLFetcher)(nil)

// URLFetcher downloads linked images over HTTP
type URLFetcher struct {
	client *http.Client
}

// NewURLFetcher creates a fetcher with the given per-request timeout
func NewURLFetcher(timeout time.Duration) *URLFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &URLFetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch returns the response body for url. The caller closes it.
func (f *URLFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid image url: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to fetch image: status %d", resp.StatusCode)
	}
	return resp.Body, nil
}
