// Package pipeline drives one lead-generation run: resolve candidate URLs,
// fetch and parse each unseen site, append leads to the ledger.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Irina-Kostina/business-search-tool/internal/ledger"
	"github.com/Irina-Kostina/business-search-tool/internal/model"
)

// Resolver turns a query into candidate URLs.
type Resolver interface {
	Resolve(ctx context.Context, query string, n int) []string
}

// Fetcher retrieves raw page content; "" means the fetch failed.
type Fetcher interface {
	Fetch(ctx context.Context, url string) string
}

// ParseFunc extracts a lead from raw page content.
type ParseFunc func(content, url, query string) model.ParseResult

// Summary counts the outcomes of one run.
type Summary struct {
	RunID    string `json:"run_id"`
	Resolved int    `json:"resolved"`
	Skipped  int    `json:"skipped"`
	Appended int    `json:"appended"`
	Failed   int    `json:"failed"`
}

// Runner executes runs strictly sequentially: one site is fetched, parsed,
// and appended before the next begins.
type Runner struct {
	Resolver Resolver
	Fetcher  Fetcher
	Parse    ParseFunc
	Ledger   ledger.Ledger

	// Delay paces iterations as a courtesy to target servers. Not a
	// backoff mechanism.
	Delay time.Duration
}

// Run processes up to n candidate sites for query. Per-site failures are
// logged and skipped; only ledger setup failure is returned as an error. An
// empty search result ends the run gracefully.
func (r *Runner) Run(ctx context.Context, query string, n int) (Summary, error) {
	sum := Summary{RunID: uuid.NewString()}
	log := zap.L().With(zap.String("run_id", sum.RunID), zap.String("query", query))

	urls := r.Resolver.Resolve(ctx, query, n)
	sum.Resolved = len(urls)
	if len(urls) == 0 {
		log.Info("no results for query")
		return sum, nil
	}

	if err := r.Ledger.EnsureSchema(ctx); err != nil {
		return sum, eris.Wrap(err, "pipeline: ensure ledger schema")
	}
	seen := r.Ledger.ExistingKeys(ctx)
	log.Info("run started", zap.Int("urls", len(urls)), zap.Int("existing_keys", len(seen)))

	delay := r.Delay
	if delay <= 0 {
		delay = 2 * time.Second
	}
	limiter := rate.NewLimiter(rate.Every(delay), 1)

	for i, u := range urls {
		if err := limiter.Wait(ctx); err != nil {
			log.Warn("run cancelled", zap.Int("processed", i))
			break
		}

		itemLog := log.With(zap.String("url", u), zap.Int("index", i+1), zap.Int("total", len(urls)))

		if _, ok := seen[u]; ok {
			itemLog.Info("skip: already in ledger")
			sum.Skipped++
			continue
		}

		content := r.Fetcher.Fetch(ctx, u)
		res := r.Parse(content, u, query)
		if !res.OK() {
			itemLog.Info("skip: could not parse")
			sum.Skipped++
			continue
		}

		lead := res.Lead()
		if err := r.Ledger.Append(ctx, lead); err != nil {
			itemLog.Warn("append failed", zap.Error(err))
			sum.Failed++
			continue
		}
		seen[u] = struct{}{}
		sum.Appended++
		itemLog.Info("lead saved",
			zap.String("business_name", lead.BusinessName),
			zap.Int("emails", len(lead.Emails)),
			zap.Int("phones", len(lead.Phones)),
		)
	}

	log.Info("run finished",
		zap.Int("resolved", sum.Resolved),
		zap.Int("appended", sum.Appended),
		zap.Int("skipped", sum.Skipped),
		zap.Int("failed", sum.Failed),
	)
	return sum, nil
}
