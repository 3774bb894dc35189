package services

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"streamcharts/backend-go/internal/config"
)

func TestMemoryCacheExpires(t *testing.T) {
	clock := newFakeClock()
	c := NewMemoryCache()
	c.now = clock.Now
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if b, ok := c.Get(ctx, "k"); !ok || string(b) != "v" {
		t.Fatalf("expected hit, got %q %v", b, ok)
	}
	clock.Advance(time.Minute + time.Second)
	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("expected entry to expire")
	}

	_ = c.Set(ctx, "forever", []byte("x"), 0)
	clock.Advance(24 * time.Hour)
	if _, ok := c.Get(ctx, "forever"); !ok {
		t.Fatal("zero ttl should not expire")
	}
	if c.Tier() != TierMemory {
		t.Fatalf("unexpected tier %q", c.Tier())
	}
}

func TestNewCacheWithoutRedisURLUsesMemory(t *testing.T) {
	if tier := NewCache(config.Config{}).Tier(); tier != TierMemory {
		t.Fatalf("expected memory tier, got %q", tier)
	}
	if tier := NewCache(config.Config{RedisURL: "::not a url::"}).Tier(); tier != TierMemory {
		t.Fatalf("expected memory tier for bad url, got %q", tier)
	}
}

func TestRedisCacheBreakerOpensOnFailures(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	rc := NewRedisCache(client, 2, time.Minute)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, ok := rc.Get(ctx, "missing"); ok {
			t.Fatal("unreachable redis must miss")
		}
	}
	if got := rc.BreakerState(); got != "open" {
		t.Fatalf("expected open breaker, got %q", got)
	}
	if _, ok := rc.Get(ctx, "missing"); ok {
		t.Fatal("open breaker must miss")
	}
	if err := rc.Set(ctx, "k", []byte("v"), time.Minute); err == nil {
		t.Fatal("expected error from open breaker")
	}
}

func TestMarshalCacheRoundTrip(t *testing.T) {
	in := aggregateCacheEntry[int]{ComputedAt: "2024-03-01T12:00:00Z", Items: []int{3, 2, 1}}
	b, err := MarshalCache(in)
	if err != nil {
		t.Fatal(err)
	}
	var out aggregateCacheEntry[int]
	if err := UnmarshalCache(b, &out); err != nil {
		t.Fatal(err)
	}
	if out.ComputedAt != in.ComputedAt || len(out.Items) != 3 || out.Items[0] != 3 {
		t.Fatalf("unexpected round trip: %+v", out)
	}
}
