// Package ledger persists leads to an external append-only tabular store.
//
// No backend enforces website uniqueness; dedup is the caller's job via
// ExistingKeys. Two concurrent runs against one store can append duplicate
// rows. Accepted for a single-operator tool.
package ledger

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/Irina-Kostina/business-search-tool/internal/config"
	"github.com/Irina-Kostina/business-search-tool/internal/model"
)

// Ledger is the persistence interface for lead records.
type Ledger interface {
	// EnsureSchema writes the header row (or creates the table) when the
	// store is empty. Idempotent; a no-op when rows already exist. It does
	// not validate that an existing header matches the current schema.
	EnsureSchema(ctx context.Context) error

	// ExistingKeys returns the set of website values already recorded. A
	// read failure degrades to an empty set with a warning: dedup is lost
	// for the run, the run itself proceeds.
	ExistingKeys(ctx context.Context) map[string]struct{}

	// Append writes one lead as a new row in model.Header column order.
	Append(ctx context.Context, lead model.Lead) error

	// Rows returns up to limit most recent data rows in model.Header column
	// order, oldest first.
	Rows(ctx context.Context, limit int) ([][]string, error)

	Close() error
}

// Open constructs the backend selected by cfg.Driver. Configuration errors
// (unknown driver, missing identifier or DSN) are fatal to the run.
func Open(ctx context.Context, cfg config.LedgerConfig) (Ledger, error) {
	switch cfg.Driver {
	case "sheets":
		return NewSheets(ctx, cfg.SpreadsheetID, cfg.CredentialsFile, cfg.Sheet)
	case "csv":
		return NewCSV(cfg.Path)
	case "xlsx":
		return NewXLSX(cfg.Path)
	case "sqlite":
		return NewSQLite(cfg.Path)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("ledger: unknown driver %q", cfg.Driver)
	}
}
