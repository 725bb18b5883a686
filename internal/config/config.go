package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

const (
	CatalogMemory   = "memory"
	CatalogSQLite   = "sqlite"
	CatalogPostgres = "postgres"
)

type Config struct {
	HTTPAddr    string
	MetricsAddr string
	Catalog     string
	DBPath      string
	PostgresDSN string
	SearchDelay time.Duration
	CacheSize   int
	SessionTTL  time.Duration
	RateLimit   float64
	RateBurst   int
	LogLevel    string
}

// Load загружает конфиг в порядке приоритета:
// 1. Значения по умолчанию
// 2. Переменные окружения
// 3. Флаги командной строки (BindFlags, наивысший приоритет)
func Load() (*Config, error) {
	// 1. Значения по умолчанию
	cfg := &Config{
		HTTPAddr:    ":8384",
		MetricsAddr: ":9090",
		Catalog:     CatalogMemory,
		DBPath:      "./data/domainsearch.db",
		SearchDelay: time.Second,
		CacheSize:   1024,
		SessionTTL:  30 * time.Minute,
		RateLimit:   50,
		RateBurst:   100,
		LogLevel:    "info",
	}

	// 2. Переменные окружения
	if v := os.Getenv("DOMAINSEARCH_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("DOMAINSEARCH_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("DOMAINSEARCH_CATALOG"); v != "" {
		cfg.Catalog = v
	}
	if v := os.Getenv("DOMAINSEARCH_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("DOMAINSEARCH_PG_DSN"); v != "" {
		cfg.PostgresDSN = v
	}
	if v := os.Getenv("DOMAINSEARCH_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if err := envDuration("DOMAINSEARCH_SEARCH_DELAY", &cfg.SearchDelay); err != nil {
		return nil, err
	}
	if err := envDuration("DOMAINSEARCH_SESSION_TTL", &cfg.SessionTTL); err != nil {
		return nil, err
	}
	if v := os.Getenv("DOMAINSEARCH_CACHE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid DOMAINSEARCH_CACHE_SIZE=%q: %w", v, err)
		}
		cfg.CacheSize = n
	}
	if v := os.Getenv("DOMAINSEARCH_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid DOMAINSEARCH_RATE_LIMIT=%q: %w", v, err)
		}
		cfg.RateLimit = f
	}
	if v := os.Getenv("DOMAINSEARCH_RATE_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid DOMAINSEARCH_RATE_BURST=%q: %w", v, err)
		}
		cfg.RateBurst = n
	}

	return cfg, nil
}

// BindFlags регистрирует флаги; значения по умолчанию берутся из уже
// загруженного конфига, поэтому явный флаг перекрывает окружение.
func BindFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.Catalog, "catalog", cfg.Catalog, "catalog backend: memory, sqlite or postgres")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "path to the SQLite catalog database")
	fs.StringVar(&cfg.PostgresDSN, "pg-dsn", cfg.PostgresDSN, "PostgreSQL DSN for the postgres catalog")
	fs.DurationVar(&cfg.SearchDelay, "delay", cfg.SearchDelay, "simulated latency before each search result")
	fs.IntVar(&cfg.CacheSize, "cache-size", cfg.CacheSize, "number of cached search results")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
}

// BindServeFlags регистрирует флаги, нужные только HTTP-серверу.
func BindServeFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.HTTPAddr, "addr", cfg.HTTPAddr, "HTTP API listen address")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "metrics listen address, empty to disable")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "idle time before a session is dropped")
	fs.Float64Var(&cfg.RateLimit, "rate-limit", cfg.RateLimit, "API requests per second, 0 to disable")
	fs.IntVar(&cfg.RateBurst, "rate-burst", cfg.RateBurst, "API request burst size")
}

// Validate приводит адреса к виду ":port" и отклоняет негодные значения.
func (c *Config) Validate() error {
	if c.HTTPAddr != "" && !strings.Contains(c.HTTPAddr, ":") {
		c.HTTPAddr = ":" + c.HTTPAddr
	}
	if c.MetricsAddr != "" && !strings.Contains(c.MetricsAddr, ":") {
		c.MetricsAddr = ":" + c.MetricsAddr
	}

	switch c.Catalog {
	case CatalogMemory:
	case CatalogSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("sqlite catalog requires a db path")
		}
	case CatalogPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("postgres catalog requires a DSN")
		}
	default:
		return fmt.Errorf("unknown catalog backend %q", c.Catalog)
	}

	if c.SearchDelay < 0 {
		return fmt.Errorf("search delay must not be negative, got %s", c.SearchDelay)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", c.SessionTTL)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative, got %v", c.RateLimit)
	}
	// лимитер с burst 0 не пропускает ни одного запроса
	if c.RateLimit > 0 && c.RateBurst < 1 {
		return fmt.Errorf("rate burst must be at least 1 when rate limit is set, got %d", c.RateBurst)
	}
	return nil
}

func envDuration(key string, dst *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s=%q: %w", key, v, err)
	}
	*dst = d
	return nil
}
