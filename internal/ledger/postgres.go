package ledger

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Irina-Kostina/business-search-tool/internal/model"
)

// Pool is the subset of pgxpool.Pool the ledger uses; pgxmock satisfies it.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close()
}

// PostgresLedger appends leads to a shared Postgres table.
type PostgresLedger struct {
	pool Pool
}

const postgresSchema = `
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

CREATE INDEX IF NOT EXISTS idx_leads_website ON leads(website)
`

// NewPostgres creates a PostgresLedger with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresLedger, error) {
	if connString == "" {
		return nil, eris.New("postgres: database URL is required")
	}
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresLedger{pool: pool}, nil
}

func (l *PostgresLedger) EnsureSchema(ctx context.Context) error {
	_, err := l.pool.Exec(ctx, postgresSchema)
	return eris.Wrap(err, "postgres: ensure schema")
}

func (l *PostgresLedger) ExistingKeys(ctx context.Context) map[string]struct{} {
	keys := make(map[string]struct{})

	rows, err := l.pool.Query(ctx, `SELECT website FROM leads`)
	if err != nil {
		zap.L().Warn("postgres: read existing keys failed, assuming empty", zap.Error(err))
		return keys
	}
	defer rows.Close()

	for rows.Next() {
		var website string
		if err := rows.Scan(&website); err != nil {
			zap.L().Warn("postgres: scan existing key", zap.Error(err))
			continue
		}
		keys[website] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		zap.L().Warn("postgres: iterate existing keys", zap.Error(err))
	}
	return keys
}

func (l *PostgresLedger) Append(ctx context.Context, lead model.Lead) error {
	row := lead.Row()
	args := make([]any, len(row))
	for i, v := range row {
		args[i] = v
	}

	_, err := l.pool.Exec(ctx,
		`INSERT INTO leads (timestamp, search_query, business_name, website, title, description, emails, phones, instagram, facebook)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		args...,
	)
	return eris.Wrapf(err, "postgres: append %s", lead.Website)
}

func (l *PostgresLedger) Rows(ctx context.Context, limit int) ([][]string, error) {
	rows, err := l.pool.Query(ctx,
		`SELECT timestamp, search_query, business_name, website, title, description, emails, phones, instagram, facebook
		 FROM leads ORDER BY ctid`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: read rows")
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		row := make([]string, len(model.Header))
		dest := make([]any, len(row))
		for i := range row {
			dest[i] = &row[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, eris.Wrap(err, "postgres: scan row")
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate rows")
	}
	return tail(out, limit), nil
}

func (l *PostgresLedger) Close() error {
	l.pool.Close()
	return nil
}
