package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATA_DIR", "fixtures")
	t.Setenv("CACHE_TTL_AGGREGATES", "")
	t.Setenv("CHARTS_FILE", "")

	cfg := Load()
	if cfg.CacheTTLAggregates != 5*time.Minute {
		t.Fatalf("expected 5m aggregate ttl, got %v", cfg.CacheTTLAggregates)
	}
	if cfg.ChartsFile != "fixtures/global_charts_by_date.json" {
		t.Fatalf("unexpected charts file: %s", cfg.ChartsFile)
	}
	if cfg.DefaultPageSize != 100 || cfg.MaxPageSize != 500 {
		t.Fatalf("unexpected page sizes: %d/%d", cfg.DefaultPageSize, cfg.MaxPageSize)
	}
	if cfg.DefaultPayoutRate != 5000 {
		t.Fatalf("unexpected payout rate: %v", cfg.DefaultPayoutRate)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CACHE_TTL_AGGREGATES", "30")
	t.Setenv("RATE_LIMIT_PER_MIN", "not-a-number")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("APP_ENV", "Development")

	cfg := Load()
	if cfg.CacheTTLAggregates != 30*time.Second {
		t.Fatalf("expected 30s, got %v", cfg.CacheTTLAggregates)
	}
	if cfg.RateLimitPerMin != 240 {
		t.Fatalf("expected fallback rate limit, got %d", cfg.RateLimitPerMin)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %v", cfg.CORSOrigins)
	}
	if !cfg.IsDevelopment() {
		t.Fatal("expected development mode")
	}
}
