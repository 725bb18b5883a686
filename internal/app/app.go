package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"domainsearch/internal/cache"
	"domainsearch/internal/config"
	"domainsearch/internal/domain"
	"domainsearch/internal/metrics"
	memoryrepo "domainsearch/internal/repo/memory"
	pgrepo "domainsearch/internal/repo/postgres"
	sqliterepo "domainsearch/internal/repo/sqlite"
	"domainsearch/internal/service/query"
	"domainsearch/internal/session"
	"domainsearch/internal/web"
)

// OpenCatalog открывает и мигрирует выбранный каталог.
// Возвращаемая функция закрывает соединения.
func OpenCatalog(ctx context.Context, cfg *config.Config) (domain.CatalogRepository, func(), error) {
	var (
		repo    domain.CatalogRepository
		cleanup = func() {}
	)

	switch cfg.Catalog {
	case config.CatalogMemory:
		repo = memoryrepo.New()
	case config.CatalogSQLite:
		db, err := sqliterepo.Open(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite %s: %w", cfg.DBPath, err)
		}
		repo = sqliterepo.New(db)
		cleanup = func() { _ = db.Close() }
	case config.CatalogPostgres:
		pool, err := pgrepo.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		pg := pgrepo.New(pool)
		repo = pg
		cleanup = pg.Close
	default:
		return nil, nil, fmt.Errorf("unknown catalog backend %q", cfg.Catalog)
	}

	if err := repo.Migrate(ctx); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("migrate %s catalog: %w", cfg.Catalog, err)
	}
	return repo, cleanup, nil
}

// NewSearchService собирает сервис поиска с кэшем поверх repo.
func NewSearchService(repo domain.CatalogRepository, cfg *config.Config, lg *slog.Logger) domain.SearchService {
	var c *cache.ResultCache
	if cfg.CacheSize > 0 {
		c = cache.NewResultCache(cfg.CacheSize)
	}
	return query.NewSearchService(repo, c, cfg.SearchDelay, lg)
}

// Run запускает API, сервер метрик и уборщик сессий и блокируется,
// пока не отменён ctx или кто-то из них не упал.
func Run(ctx context.Context, cfg *config.Config, lg *slog.Logger) error {
	repo, closeRepo, err := OpenCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	svc := NewSearchService(repo, cfg, lg)
	mgr := session.NewManager(ctx, svc, session.NewStore(), lg)
	defer mgr.Close()

	h := web.NewHandler(svc, mgr, lg)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	}
	handler := web.AccessLog(lg, web.RateLimit(limiter, mux))

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return web.RunServer(ctx, cfg.HTTPAddr, handler, lg)
	})

	if cfg.MetricsAddr != "" {
		g.Go(func() error {
			return metrics.Serve(ctx, cfg.MetricsAddr, lg)
		})
	}

	g.Go(func() error {
		return mgr.RunJanitor(ctx, cfg.SessionTTL)
	})

	lg.Info("domainsearch started",
		"catalog", cfg.Catalog,
		"addr", cfg.HTTPAddr,
		"delay", cfg.SearchDelay,
	)

	if err := g.Wait(); err != nil {
		lg.Error("servers stopped with error", "err", err)
		return err
	}
	lg.Info("servers stopped gracefully")
	return nil
}
