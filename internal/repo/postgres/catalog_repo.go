package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"domainsearch/internal/domain"
)

var _ domain.CatalogRepository = (*CatalogRepository)(nil)

type CatalogRepository struct {
	pool *pgxpool.Pool
	seed []domain.DomainRecord
}

const schema = `
CREATE TABLE IF NOT EXISTS domains (
	position INTEGER PRIMARY KEY,
	domain TEXT NOT NULL UNIQUE,
	available BOOLEAN NOT NULL,
	meaningful BOOLEAN NOT NULL,
	length INTEGER NOT NULL,
	price NUMERIC(10, 2) NOT NULL
);
`

// Open подключается и проверяет пул.
func Open(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

func New(pool *pgxpool.Pool) *CatalogRepository {
	return NewWithSeed(pool, domain.SampleCatalog())
}

func NewWithSeed(pool *pgxpool.Pool, seed []domain.DomainRecord) *CatalogRepository {
	return &CatalogRepository{pool: pool, seed: seed}
}

func (r *CatalogRepository) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create domains table: %w", err)
	}

	batch := &pgx.Batch{}
	for i, rec := range r.seed {
		batch.Queue(
			`INSERT INTO domains (position, domain, available, meaningful, length, price)
			 VALUES ($1, $2, $3, $4, $5, $6::numeric) ON CONFLICT DO NOTHING`,
			i, rec.Domain, rec.Available, rec.Meaningful, rec.Length, rec.Price.String(),
		)
	}
	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("seed domains: %w", err)
	}
	return nil
}

func (r *CatalogRepository) List(ctx context.Context) ([]domain.DomainRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT domain, available, meaningful, length, price::text FROM domains ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query domains: %w", err)
	}
	defer rows.Close()

	var out []domain.DomainRecord
	for rows.Next() {
		var rec domain.DomainRecord
		var price string
		if err := rows.Scan(&rec.Domain, &rec.Available, &rec.Meaningful, &rec.Length, &price); err != nil {
			return nil, fmt.Errorf("scan domain: %w", err)
		}
		if rec.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("parse price of %s: %w", rec.Domain, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate domains: %w", err)
	}
	return out, nil
}

func (r *CatalogRepository) Close() {
	r.pool.Close()
}
