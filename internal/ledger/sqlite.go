package ledger

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/Irina-Kostina/business-search-tool/internal/model"
)

// SQLiteLedger appends leads to a local SQLite database.
type SQLiteLedger struct {
	db *sql.DB
}

// No UNIQUE on website: dedup stays the caller's existing-keys check, same
// as every other backend.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS leads (
	timestamp     TEXT NOT NULL,
	search_query  TEXT NOT NULL,
	business_name TEXT NOT NULL,
	website       TEXT NOT NULL,
	title         TEXT NOT NULL DEFAULT '',
	description   TEXT NOT NULL DEFAULT '',
	emails        TEXT NOT NULL DEFAULT '',
	phones        TEXT NOT NULL DEFAULT '',
	instagram     TEXT NOT NULL DEFAULT '',
	facebook      TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_leads_website ON leads(website);
`

// NewSQLite opens a SQLite database at the given path and configures WAL
// mode.
func NewSQLite(path string) (*SQLiteLedger, error) {
	if path == "" {
		return nil, eris.New("sqlite: ledger path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteLedger{db: db}, nil
}

func (l *SQLiteLedger) EnsureSchema(ctx context.Context) error {
	_, err := l.db.ExecContext(ctx, sqliteSchema)
	return eris.Wrap(err, "sqlite: ensure schema")
}

func (l *SQLiteLedger) ExistingKeys(ctx context.Context) map[string]struct{} {
	keys := make(map[string]struct{})

	rows, err := l.db.QueryContext(ctx, `SELECT website FROM leads`)
	if err != nil {
		zap.L().Warn("sqlite: read existing keys failed, assuming empty", zap.Error(err))
		return keys
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var website string
		if err := rows.Scan(&website); err != nil {
			zap.L().Warn("sqlite: scan existing key", zap.Error(err))
			continue
		}
		keys[website] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		zap.L().Warn("sqlite: iterate existing keys", zap.Error(err))
	}
	return keys
}

func (l *SQLiteLedger) Append(ctx context.Context, lead model.Lead) error {
	row := lead.Row()
	args := make([]any, len(row))
	for i, v := range row {
		args[i] = v
	}

	_, err := l.db.ExecContext(ctx,
		`INSERT INTO leads (timestamp, search_query, business_name, website, title, description, emails, phones, instagram, facebook)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		args...,
	)
	return eris.Wrapf(err, "sqlite: append %s", lead.Website)
}

func (l *SQLiteLedger) Rows(ctx context.Context, limit int) ([][]string, error) {
	query := `SELECT timestamp, search_query, business_name, website, title, description, emails, phones, instagram, facebook
		FROM leads ORDER BY rowid`

	rows, err := l.db.QueryContext(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: read rows")
	}
	defer func() { _ = rows.Close() }()

	var out [][]string
	for rows.Next() {
		row := make([]string, len(model.Header))
		dest := make([]any, len(row))
		for i := range row {
			dest[i] = &row[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan row")
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate rows")
	}
	return tail(out, limit), nil
}

func (l *SQLiteLedger) Close() error {
	return l.db.Close()
}
