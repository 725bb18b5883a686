package repo

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"domainsearch/internal/domain"
)

var _ domain.CatalogRepository = (*CatalogRepository)(nil)

type CatalogRepository struct {
	db   *sql.DB
	seed []domain.DomainRecord
}

func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(0)

	if _, err = db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		return nil, err
	}
	if _, err = db.Exec(`PRAGMA synchronous = NORMAL;`); err != nil {
		return nil, err
	}
	if _, err = db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		return nil, err
	}

	return db, nil
}

// New возвращает репозиторий, который заполняет каталог при Migrate.
func New(db *sql.DB) *CatalogRepository {
	return NewWithSeed(db, domain.SampleCatalog())
}

func NewWithSeed(db *sql.DB, seed []domain.DomainRecord) *CatalogRepository {
	return &CatalogRepository{db: db, seed: seed}
}

// Migrate создаёт таблицу и один раз вставляет записи. position хранит
// порядок каталога, он же порядок релевантности.
func (r *CatalogRepository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS domains (
    position INTEGER PRIMARY KEY,
    domain TEXT NOT NULL UNIQUE,
    available BOOLEAN NOT NULL,
    meaningful BOOLEAN NOT NULL,
    length INTEGER NOT NULL,
    price TEXT NOT NULL
);
`)
	if err != nil {
		return fmt.Errorf("create domains table: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	for i, rec := range r.seed {
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO domains(position, domain, available, meaningful, length, price) VALUES(?,?,?,?,?,?)`,
			i, rec.Domain, rec.Available, rec.Meaningful, rec.Length, rec.Price.String(),
		)
		if err != nil {
			return fmt.Errorf("seed %s: %w", rec.Domain, err)
		}
	}
	return tx.Commit()
}

func (r *CatalogRepository) List(ctx context.Context) ([]domain.DomainRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT domain, available, meaningful, length, price
FROM domains
ORDER BY position;
`)
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
