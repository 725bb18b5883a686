package memory

import (
	"context"
	"slices"
	"sync"

	"domainsearch/internal/domain"
)

var _ domain.CatalogRepository = (*CatalogRepository)(nil)

type CatalogRepository struct {
	mu      sync.RWMutex
	records []domain.DomainRecord
}

// New возвращает репозиторий поверх встроенного каталога.
func New() *CatalogRepository {
	return NewWithRecords(domain.SampleCatalog())
}

func NewWithRecords(records []domain.DomainRecord) *CatalogRepository {
	return &CatalogRepository{records: slices.Clone(records)}
}

func (r *CatalogRepository) Migrate(ctx context.Context) error {
	return nil
}

func (r *CatalogRepository) List(ctx context.Context) ([]domain.DomainRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.records), nil
}
