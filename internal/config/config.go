package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port               string
	Env                string
	DataDir            string
	ChartsFile         string
	DailyTotalsFile    string
	CatalogDir         string
	RedisURL           string
	CacheTTLAggregates time.Duration
	RequestTimeout     time.Duration
	RateLimitPerMin    int
	CircuitFailLimit   int
	CircuitCooldown    time.Duration
	DefaultPageSize    int
	MaxPageSize        int
	DefaultPayoutRate  float64
	LogLevel           string
	LogFormat          string
	CORSOrigins        []string
}

func Load() Config {
	dataDir := getEnv("DATA_DIR", "data")
	return Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("APP_ENV", "production"),
		DataDir:            dataDir,
		ChartsFile:         getEnv("CHARTS_FILE", filepath.Join(dataDir, "global_charts_by_date.json")),
		DailyTotalsFile:    getEnv("DAILY_TOTALS_FILE", filepath.Join(dataDir, "global_daily_totals.json")),
		CatalogDir:         getEnv("CATALOG_DIR", filepath.Join(dataDir, "artists-songs")),
		RedisURL:           getEnv("REDIS_URL", ""),
		CacheTTLAggregates: getEnvDuration("CACHE_TTL_AGGREGATES", 5*time.Minute),
		RequestTimeout:     getEnvDuration("REQUEST_TIMEOUT", 15*time.Second),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MIN", 240),
		CircuitFailLimit:   getEnvInt("CIRCUIT_FAIL_LIMIT", 3),
		CircuitCooldown:    getEnvDuration("CIRCUIT_COOLDOWN", 20*time.Second),
		DefaultPageSize:    getEnvInt("DEFAULT_PAGE_SIZE", 100),
		MaxPageSize:        getEnvInt("MAX_PAGE_SIZE", 500),
		DefaultPayoutRate:  getEnvFloat("DEFAULT_PAYOUT_RATE", 5000),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
		CORSOrigins:        getEnvList("CORS_ORIGINS", []string{"*"}),
	}
}

func (c Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development") || strings.EqualFold(c.Env, "dev")
}

func getEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getEnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return time.Duration(i) * time.Second
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
