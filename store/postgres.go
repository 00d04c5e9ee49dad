package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const DefaultTable = "confdoc_documents"

// Postgres stores each document in a row of a table keyed by name.
type Postgres struct {
	pool   *pgxpool.Pool
	table  string
	logger *slog.Logger
}

type PostgresOption func(*Postgres)

func PostgresTable(table string) PostgresOption {
	return func(p *Postgres) { p.table = table }
}

func PostgresLogger(logger *slog.Logger) PostgresOption {
	return func(p *Postgres) { p.logger = logger }
}

// NewPostgres creates the table if needed.
func NewPostgres(ctx context.Context, pool *pgxpool.Pool, opts ...PostgresOption) (*Postgres, error) {
	p := &Postgres{pool: pool, table: DefaultTable}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	_, err := pool.Exec(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	name TEXT PRIMARY KEY,
	data BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`, p.ident()))
	if err != nil {
		return nil, fmt.Errorf("creating table %s: %w", p.table, err)
	}
	return p, nil
}

// ConnectPostgres opens a pool on url and prepares the store.
func ConnectPostgres(ctx context.Context, url string, opts ...PostgresOption) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, err
	}
	p, err := NewPostgres(ctx, pool, opts...)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

func (p *Postgres) Close() {
	p.pool.Close()
}

func (p *Postgres) ident() string {
	return pgx.Identifier{p.table}.Sanitize()
}

func (p *Postgres) Save(ctx context.Context, name string, data []byte) error {
	if err := checkName(name); err != nil {
		return err
	}
	_, err := p.pool.Exec(ctx, fmt.Sprintf(`INSERT INTO %s (name, data) VALUES ($1, $2)
ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`, p.ident()), name, data)
	return err
}

func (p *Postgres) Load(ctx context.Context, name string) ([]byte, error) {
	var d []byte
	err := p.pool.QueryRow(ctx, fmt.Sprintf(`SELECT data FROM %s WHERE name = $1`, p.ident()), name).Scan(&d)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}
