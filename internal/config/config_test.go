package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Catalog != CatalogMemory {
		t.Errorf("Catalog = %q, want memory", cfg.Catalog)
	}
	if cfg.SearchDelay != time.Second {
		t.Errorf("SearchDelay = %s, want 1s", cfg.SearchDelay)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestLoad_EnvThenFlags(t *testing.T) {
	t.Setenv("DOMAINSEARCH_CATALOG", "sqlite")
	t.Setenv("DOMAINSEARCH_SEARCH_DELAY", "250ms")
	t.Setenv("DOMAINSEARCH_HTTP_ADDR", "8000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Catalog != CatalogSQLite || cfg.SearchDelay != 250*time.Millisecond {
		t.Fatalf("env not applied: %+v", cfg)
	}

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs, cfg)
	BindServeFlags(fs, cfg)
	if err := fs.Parse([]string{"--delay=0s", "--catalog=memory"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if cfg.Catalog != CatalogMemory || cfg.SearchDelay != 0 {
		t.Fatalf("flags did not override env: %+v", cfg)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.HTTPAddr != ":8000" {
		t.Errorf("HTTPAddr = %q, want :8000", cfg.HTTPAddr)
	}
}

func TestLoad_RateEnv(t *testing.T) {
	t.Setenv("DOMAINSEARCH_RATE_LIMIT", "20")
	t.Setenv("DOMAINSEARCH_RATE_BURST", "500")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RateLimit != 20 || cfg.RateBurst != 500 {
		t.Fatalf("RateLimit = %v, RateBurst = %d, want 20 and 500", cfg.RateLimit, cfg.RateBurst)
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"DOMAINSEARCH_SEARCH_DELAY", "soon"},
		{"DOMAINSEARCH_SESSION_TTL", "forever"},
		{"DOMAINSEARCH_CACHE_SIZE", "big"},
		{"DOMAINSEARCH_RATE_LIMIT", "fast"},
		{"DOMAINSEARCH_RATE_BURST", "many"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "ok", mutate: func(*Config) {}},
		{name: "unknown catalog", mutate: func(c *Config) { c.Catalog = "redis" }, wantErr: true},
		{name: "postgres without dsn", mutate: func(c *Config) { c.Catalog = CatalogPostgres }, wantErr: true},
		{name: "sqlite without path", mutate: func(c *Config) { c.Catalog = CatalogSQLite; c.DBPath = "" }, wantErr: true},
		{name: "negative delay", mutate: func(c *Config) { c.SearchDelay = -time.Second }, wantErr: true},
		{name: "zero ttl", mutate: func(c *Config) { c.SessionTTL = 0 }, wantErr: true},
		{name: "negative rate", mutate: func(c *Config) { c.RateLimit = -1 }, wantErr: true},
		{name: "zero burst with limit", mutate: func(c *Config) { c.RateLimit = 50; c.RateBurst = 0 }, wantErr: true},
		{name: "zero burst without limit", mutate: func(c *Config) { c.RateLimit = 0; c.RateBurst = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
