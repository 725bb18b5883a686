package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"domainsearch/internal/cache"
	"domainsearch/internal/domain"
	"domainsearch/internal/metrics"
)

type searchService struct {
	repo   domain.CatalogRepository
	cache  *cache.ResultCache
	delay  time.Duration
	logger *slog.Logger
}

// NewSearchService оборачивает чистый поиск. Каждый вызов ждёт delay
// перед результатом; cache может быть nil.
func NewSearchService(repo domain.CatalogRepository, c *cache.ResultCache, delay time.Duration, logger *slog.Logger) domain.SearchService {
	return &searchService{repo: repo, cache: c, delay: delay, logger: logger}
}

func (s *searchService) Search(ctx context.Context, c domain.Criteria) (out []domain.DomainRecord, err error) {
	c = c.Normalize()
	start := time.Now()
	sort := string(c.SortBy)

	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("%w: panic: %v", domain.ErrSearchFailed, r)
		}
		metrics.RecordSearch(sort, outcome(err), time.Since(start), len(out))
		if err != nil && !isCanceled(err) {
			s.logger.Error("search failed", "criteria", c, "err", err)
		}
	}()

	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	key := cache.Key(c)
	if s.cache != nil {
		if res, ok := s.cache.Get(key); ok {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			s.logger.Debug("cache hit", "key", key)
			return res, nil
		}
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	catalog, err := s.repo.List(ctx)
	if err != nil {
		if isCanceled(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: load catalog: %w", domain.ErrSearchFailed, err)
	}

	res := Search(catalog, c)
	if s.cache != nil {
		s.cache.Set(key, res)
	}
	s.logger.Debug("search done", "criteria", c, "results", len(res))
	return res, nil
}

func (s *searchService) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case isCanceled(err):
		return "canceled"
	default:
		return "failed"
	}
}

var _ domain.SearchService = (*searchService)(nil)
