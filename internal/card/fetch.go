package card

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const maxImageBytes = 16 << 20

// Fetcher downloads source images with a bounded timeout. Every failure mode
// (timeout, transport error, non-200, oversized body) returns nil so the
// compositor can substitute its placeholder.
type Fetcher struct {
	client *http.Client
	logger *slog.Logger
}

// NewFetcher builds a Fetcher with the given per-request timeout.
func NewFetcher(timeout time.Duration, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Fetch returns the image bytes at url, or nil when the URL is empty or the
// download fails.
func (f *Fetcher) Fetch(ctx context.Context, url string) []byte {
	if url == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		f.logger.Warn("image request build failed", "url", url, "error", err)
		return nil
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Warn("image download failed", "url", url, "elapsed", time.Since(start), "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.logger.Warn("image download rejected", "url", url, "status", resp.StatusCode)
		return nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		f.logger.Warn("image body read failed", "url", url, "error", err)
		return nil
	}
	if len(data) > maxImageBytes {
		f.logger.Warn("image body too large", "url", url)
		return nil
	}
	return data
}
