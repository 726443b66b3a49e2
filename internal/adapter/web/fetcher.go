package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	// DefaultTimeout bounds a single page fetch.
	DefaultTimeout = 10 * time.Second
	// UserAgent identifies the pipeline to Wikipedia, which rejects anonymous clients.
	UserAgent = "stadium-data-etl/1.0 (github.com/couchcryptid/stadium-data-etl)"

	maxPageBytes = 32 << 20
)

// Fetcher downloads page HTML over HTTP.
type Fetcher struct {
	client   *http.Client
	maxBytes int64
	logger   *slog.Logger
}

// ErrPageTooLarge is returned when the body exceeds the size limit.
var ErrPageTooLarge = errors.New("page too large")

// NewFetcher creates a Fetcher whose requests time out after timeout.
func NewFetcher(timeout time.Duration, logger *slog.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxPageBytes,
		logger:   logger,
	}
}

// Fetch returns the body of url. Any transport error or non-200 status is
// returned as an error; the caller must not parse anything on failure.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.logger.Info("fetching page", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch page: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read page body: %w", err)
	}
	if int64(len(body)) > f.maxBytes {
		return "", fmt.Errorf("fetch page: %w: body exceeds %d bytes", ErrPageTooLarge, f.maxBytes)
	}
	f.logger.Debug("page fetched", "url", url, "bytes", len(body))
	return string(body), nil
}
