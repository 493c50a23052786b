// Package search resolves a free-text query into candidate business URLs via
// DuckDuckGo's HTML results page.
package search

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/Irina-Kostina/business-search-tool/internal/config"
)

// redirectMarker identifies DuckDuckGo's outbound-link wrapper. The HTML
// results interface wraps destinations rather than linking them directly.
const redirectMarker = "/l/"

// Resolver turns a query into an ordered list of candidate URLs.
type Resolver struct {
	client     *http.Client
	baseURL    string
	userAgent  string
	siteFilter string
	oversample int
	denylist   []string
}

// NewResolver creates a Resolver from config, applying defaults for zero
// values.
func NewResolver(cfg config.SearchConfig) *Resolver {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://html.duckduckgo.com/html/"
	}
	oversample := cfg.Oversample
	if oversample <= 0 {
		oversample = 3
	}
	return &Resolver{
		client:     &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		userAgent:  cfg.UserAgent,
		siteFilter: cfg.SiteFilter,
		oversample: oversample,
		denylist:   cfg.Denylist,
	}
}

// Resolve issues one search and returns up to n candidate URLs: redirect
// wrappers decoded, denylisted hosts dropped, duplicates removed with
// first-seen order preserved. Search failure is recoverable and yields an
// empty list. Each call re-issues the search.
func (r *Resolver) Resolve(ctx context.Context, query string, n int) []string {
	log := zap.L().With(zap.String("query", query))

	composed := query
	if r.siteFilter != "" {
		composed = query + " site:" + r.siteFilter
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL, nil)
	if err != nil {
		log.Warn("search: bad base url", zap.Error(err))
		return nil
	}
	q := req.URL.Query()
	q.Set("q", composed)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		log.Warn("search: request failed", zap.Error(err))
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		log.Warn("search: non-200 status", zap.Int("status", resp.StatusCode))
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		log.Warn("search: parse results page", zap.Error(err))
		return nil
	}

	// Oversample raw links to survive filtering, then stop scanning.
	budget := n * r.oversample
	var raw []string
	doc.Find("a.result__a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, ok := sel.Attr("href")
		if !ok || href == "" {
			return true
		}
		raw = append(raw, DecodeRedirect(href))
		return len(raw) < budget
	})

	urls := NewOrderedSet()
	for _, u := range raw {
		if r.denied(u) {
			log.Debug("search: denylisted", zap.String("url", u))
			continue
		}
		urls.Add(u)
		if urls.Len() == n {
			break
		}
	}

	log.Info("search: resolved candidates",
		zap.Int("raw", len(raw)),
		zap.Int("kept", urls.Len()),
	)
	return urls.Values()
}

// DecodeRedirect unwraps DuckDuckGo's redirect path: the true destination
// travels percent-encoded in the uddg query parameter. Non-wrapped URLs pass
// through unchanged.
func DecodeRedirect(href string) string {
	raw := href
	if strings.HasPrefix(raw, "//") {
		raw = "https:" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return href
	}
	if !strings.Contains(u.Path, redirectMarker) {
		return href
	}
	if dest := u.Query().Get("uddg"); dest != "" {
		return dest
	}
	return href
}

func (r *Resolver) denied(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, sub := range r.denylist {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}
