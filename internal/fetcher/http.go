// Package fetcher retrieves raw page content for candidate websites.
package fetcher

import (
	"context"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Irina-Kostina/business-search-tool/internal/config"
)

// Client fetches pages over HTTP. A failed fetch is an expected outcome, not
// an error: many small-business sites time out, 403 bots, or are simply down.
type Client struct {
	http      *http.Client
	userAgent string
	maxBody   int64
}

// New creates a Client from config, applying defaults for zero values.
func New(cfg config.FetchConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody == 0 {
		maxBody = 2 * 1024 * 1024
	}
	return &Client{
		http:      &http.Client{Timeout: timeout},
		userAgent: cfg.UserAgent,
		maxBody:   maxBody,
	}
}

// Fetch issues one GET and returns the body on HTTP 200. Any other status,
// timeout, or transport error yields "" with a warn log. No retries.
func (c *Client) Fetch(ctx context.Context, rawURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		zap.L().Warn("fetch: bad url", zap.String("url", rawURL), zap.Error(err))
		return ""
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		zap.L().Warn("fetch: request failed", zap.String("url", rawURL), zap.Error(err))
		return ""
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		zap.L().Warn("fetch: non-200 status",
			zap.String("url", rawURL),
			zap.Int("status", resp.StatusCode),
		)
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody))
	if err != nil {
		zap.L().Warn("fetch: read body", zap.String("url", rawURL), zap.Error(err))
		return ""
	}

	return string(body)
}
