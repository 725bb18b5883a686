package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()
	factory  = promauto.With(registry)

	SearchesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domainsearch_searches_total",
			Help: "Searches executed, by sort key and outcome",
		},
		[]string{"sort", "outcome"},
	)

	SearchDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "domainsearch_search_duration_seconds",
			Help:    "Time from search request to result, including simulated latency",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"sort"},
	)

	SearchResults = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "domainsearch_search_results",
			Help:    "Number of records returned by a search",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
		},
	)

	CacheLookups = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domainsearch_cache_lookups_total",
			Help: "Result cache lookups, by result",
		},
		[]string{"result"},
	)

	StaleDiscarded = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "domainsearch_stale_results_discarded_total",
			Help: "Search results dropped because a newer search was started",
		},
	)

	FavoriteToggles = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domainsearch_favorite_toggles_total",
			Help: "Favorite toggles, by action",
		},
		[]string{"action"},
	)

	ActiveSessions = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "domainsearch_active_sessions",
			Help: "Sessions currently held in memory",
		},
	)
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// RecordSearch обновляет счётчики по одному завершённому поиску.
func RecordSearch(sort, outcome string, d time.Duration, results int) {
	SearchesTotal.WithLabelValues(sort, outcome).Inc()
	SearchDuration.WithLabelValues(sort).Observe(d.Seconds())
	if outcome == "ok" {
		SearchResults.Observe(float64(results))
	}
}

func RecordFavorite(added bool) {
	if added {
		FavoriteToggles.WithLabelValues("add").Inc()
		return
	}
	FavoriteToggles.WithLabelValues("remove").Inc()
}

func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}

// Serve отдаёт /metrics на addr до отмены ctx.
func Serve(ctx context.Context, addr string, lg *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			lg.Error("metrics server shutdown", "err", err)
		}
	}()

	lg.Info("metrics listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
