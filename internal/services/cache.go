package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	gobreaker "github.com/sony/gobreaker/v2"

	"streamcharts/backend-go/internal/config"
	"streamcharts/backend-go/internal/logging"
	"streamcharts/backend-go/internal/metrics"
)

const (
	TierMemory = "memory"
	TierRedis  = "redis"

	redisBreakerName = "redis-cache"
)

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Tier() string
}

// RedisCache is the shared tier. Every call goes through a circuit breaker so
// an unreachable Redis turns into cache misses instead of slow requests.
type RedisCache struct {
	client *redis.Client
	cb     *gobreaker.CircuitBreaker[[]byte]
}

type MemoryCache struct {
	mu    sync.Mutex
	items map[string]memItem
	now   func() time.Time
}

type memItem struct {
	val []byte
	exp time.Time
}

// NewCache returns a RedisCache when REDIS_URL is set and reachable, otherwise
// a MemoryCache.
func NewCache(cfg config.Config) Cache {
	if cfg.RedisURL == "" {
		return NewMemoryCache()
	}
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logging.Warn().Err(err).Msg("invalid REDIS_URL, using memory cache")
		return NewMemoryCache()
	}
	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logging.Warn().Err(err).Msg("redis unreachable, using memory cache")
		_ = client.Close()
		return NewMemoryCache()
	}
	logging.Info().Str("addr", opt.Addr).Msg("redis cache connected")
	return NewRedisCache(client, cfg.CircuitFailLimit, cfg.CircuitCooldown)
}

func NewRedisCache(client *redis.Client, failLimit int, cooldown time.Duration) *RedisCache {
	if failLimit < 1 {
		failLimit = 1
	}
	metrics.CircuitBreakerState.WithLabelValues(redisBreakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        redisBreakerName,
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(failLimit)
		},
		// A missing key is a healthy answer.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})
	return &RedisCache{client: client, cb: cb}
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string]memItem), now: time.Now}
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := r.cb.Execute(func() ([]byte, error) {
		return r.client.Get(ctx, key).Bytes()
	})
	if err != nil {
		if !errors.Is(err, redis.Nil) && !errors.Is(err, gobreaker.ErrOpenState) {
			logging.Ctx(ctx).Debug().Err(err).Str("key", key).Msg("redis get failed")
		}
		return nil, false
	}
	return b, true
}

func (r *RedisCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	_, err := r.cb.Execute(func() ([]byte, error) {
		return nil, r.client.Set(ctx, key, val, ttl).Err()
	})
	return err
}

func (r *RedisCache) Tier() string {
	return TierRedis
}

// BreakerState is "closed", "half-open" or "open".
func (r *RedisCache) BreakerState() string {
	return r.cb.State().String()
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[key]
	if !ok {
		return nil, false
	}
	if !it.exp.IsZero() && m.now().After(it.exp) {
		delete(m.items, key)
		return nil, false
	}
	return it.val, true
}

func (m *MemoryCache) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp := time.Time{}
	if ttl > 0 {
		exp = m.now().Add(ttl)
	}
	m.items[key] = memItem{val: val, exp: exp}
	return nil
}

func (m *MemoryCache) Tier() string {
	return TierMemory
}

func MarshalCache(v any) ([]byte, error) {
	return json.Marshal(v)
}

func UnmarshalCache(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
