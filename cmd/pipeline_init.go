package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/Irina-Kostina/business-search-tool/internal/extract"
	"github.com/Irina-Kostina/business-search-tool/internal/fetcher"
	"github.com/Irina-Kostina/business-search-tool/internal/ledger"
	"github.com/Irina-Kostina/business-search-tool/internal/pipeline"
	"github.com/Irina-Kostina/business-search-tool/internal/search"
)

// pipelineEnv bundles the wired components for one command invocation.
type pipelineEnv struct {
	ledger ledger.Ledger
	runner *pipeline.Runner
}

// initPipeline opens the ledger and wires the runner from config. Ledger
// configuration problems (missing spreadsheet ID, bad DSN) fail here, before
// any site is touched.
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	led, err := ledger.Open(ctx, cfg.Ledger)
	if err != nil {
		return nil, eris.Wrap(err, "open ledger")
	}

	runner := &pipeline.Runner{
		Resolver: search.NewResolver(cfg.Search),
		Fetcher:  fetcher.New(cfg.Fetch),
		Parse:    extract.Parse,
		Ledger:   led,
		Delay:    time.Duration(cfg.Pipeline.DelaySecs * float64(time.Second)),
	}

	return &pipelineEnv{ledger: led, runner: runner}, nil
}

func (e *pipelineEnv) Close() {
	_ = e.ledger.Close()
}
