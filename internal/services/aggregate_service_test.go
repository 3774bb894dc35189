package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"streamcharts/backend-go/internal/config"
)

func newTestService(t *testing.T, cache Cache, clock *fakeClock) *AggregateService {
	t.Helper()
	p := writeFixtures(t)
	cfg := config.Config{CacheTTLAggregates: 5 * time.Minute}
	repo := NewRepositoryFromPaths(p.charts, p.daily, p.catalog)
	return NewAggregateServiceWithClock(cfg, repo, cache, clock.Now)
}

func TestAggregateServiceMemoizesLists(t *testing.T) {
	clock := newFakeClock()
	svc := newTestService(t, NewMemoryCache(), clock)
	ctx := context.Background()

	items, meta, err := svc.Artists(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Cached || len(items) != 3 || items[0].Name != "Bob" {
		t.Fatalf("first call should compute: meta=%+v items=%+v", meta, items)
	}

	_, meta, _ = svc.Artists(ctx, false)
	if !meta.Cached || meta.Tier != TierMemo {
		t.Fatalf("second call should hit the memo: %+v", meta)
	}

	clock.Advance(5 * time.Minute)
	_, meta, _ = svc.Artists(ctx, false)
	if !meta.Cached || meta.Tier != TierMemory {
		t.Fatalf("expired memo should fall through to the shared cache: %+v", meta)
	}
}

func TestAggregateServiceSharesSecondTier(t *testing.T) {
	shared := NewMemoryCache()
	clock := newFakeClock()
	ctx := context.Background()

	first := newTestService(t, shared, clock)
	if _, _, err := first.Songs(ctx, false); err != nil {
		t.Fatal(err)
	}

	second := newTestService(t, shared, clock)
	items, meta, err := second.Songs(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	if !meta.Cached || meta.Tier != TierMemory {
		t.Fatalf("expected shared-tier hit, got %+v", meta)
	}
	if len(items) != 3 || items[0].TrackID != "t1" || len(items[1].PlayHistory) != 2 {
		t.Fatalf("unexpected decoded songs: %+v", items)
	}
}

type gatedCache struct {
	*MemoryCache
	release chan struct{}
}

func (c *gatedCache) Get(ctx context.Context, key string) ([]byte, bool) {
	<-c.release
	return c.MemoryCache.Get(ctx, key)
}

func TestAggregateServiceWaitersReportSharedTier(t *testing.T) {
	shared := NewMemoryCache()
	clock := newFakeClock()
	ctx := context.Background()
	if _, _, err := newTestService(t, shared, clock).Artists(ctx, false); err != nil {
		t.Fatal(err)
	}

	gate := &gatedCache{MemoryCache: shared, release: make(chan struct{})}
	svc := newTestService(t, gate, clock)

	metas := make([]AggregateMeta, 6)
	var wg sync.WaitGroup
	for i := range metas {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, meta, err := svc.Artists(ctx, false)
			if err != nil {
				t.Errorf("artists: %v", err)
			}
			metas[i] = meta
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(gate.release)
	wg.Wait()

	for i, meta := range metas {
		if !meta.Cached || meta.Tier != TierMemory {
			t.Fatalf("request %d should report the shared tier: %+v", i, meta)
		}
	}
}

func TestAggregateServiceBypassSkipsCache(t *testing.T) {
	svc := newTestService(t, NewMemoryCache(), newFakeClock())
	ctx := context.Background()
	if _, _, err := svc.DailySongs(ctx, false); err != nil {
		t.Fatal(err)
	}
	items, meta, err := svc.DailySongs(ctx, true)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Cached || len(items) != 3 {
		t.Fatalf("bypass must recompute: meta=%+v len=%d", meta, len(items))
	}
}

func TestAggregateServiceAllSlots(t *testing.T) {
	svc := newTestService(t, nil, newFakeClock())
	ctx := context.Background()

	weeks, _, err := svc.Weeks(ctx, false)
	if err != nil || len(weeks) != 2 {
		t.Fatalf("weeks: %v %+v", err, weeks)
	}
	daily, _, err := svc.DailyArtists(ctx, false)
	if err != nil || len(daily) != 2 {
		t.Fatalf("daily artists: %v %+v", err, daily)
	}
	cats, _, err := svc.CatalogArtists(ctx, false)
	if err != nil || len(cats) != 2 || cats[0].Name != "Carol" {
		t.Fatalf("catalog artists: %v %+v", err, cats)
	}
	if svc.CacheTier() != TierMemo {
		t.Fatalf("nil cache should report memo tier, got %q", svc.CacheTier())
	}
}

func TestAggregateServiceWeekChart(t *testing.T) {
	svc := newTestService(t, nil, newFakeClock())

	resp, err := svc.WeekChart("2023-01-12", 5000)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Date != "2023/01/12" || resp.TotalStreams != 90 || resp.Entries[0].TrackID != "t2" {
		t.Fatalf("unexpected week chart: %+v", resp)
	}
	if _, err := svc.WeekChart("2023/02/01", 5000); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.WeekChart("garbage", 5000); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if _, err := svc.WeekChart("2023/01/12", -1); !errors.Is(err, ErrInvalidPayout) {
		t.Fatalf("expected ErrInvalidPayout, got %v", err)
	}
}

func TestAggregateServiceChartsAndDates(t *testing.T) {
	svc := newTestService(t, nil, newFakeClock())

	charts, err := svc.Charts("2023/01/06", "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(charts.Charts) != 1 || charts.Charts["2023/01/12"] == nil {
		t.Fatalf("unexpected filtered charts: %+v", charts.Charts)
	}
	charts, _ = svc.Charts("", "", 1)
	if len(charts.Charts) != 1 || charts.Charts["2023/01/05"] == nil {
		t.Fatalf("limit should keep the earliest dates: %+v", charts.Charts)
	}

	dates, err := svc.Dates()
	if err != nil || dates.TotalDates != 2 || dates.AvailableDates[0] != "2023/01/05" {
		t.Fatalf("unexpected dates: %v %+v", err, dates)
	}
}

func TestAggregateServiceSummaryWithoutCatalog(t *testing.T) {
	p := writeFixtures(t)
	repo := NewRepositoryFromPaths(p.charts, p.daily, filepath.Join(t.TempDir(), "missing"))
	svc := NewAggregateService(config.Config{CacheTTLAggregates: time.Minute}, repo, nil)

	sum, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if sum.TotalArtists != 3 || sum.CatalogArtists != 0 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
}

func TestAggregateServiceMissingData(t *testing.T) {
	dir := t.TempDir()
	repo := NewRepositoryFromPaths(filepath.Join(dir, "a.json"), filepath.Join(dir, "b.json"), filepath.Join(dir, "c"))
	svc := NewAggregateService(config.Config{CacheTTLAggregates: time.Minute}, repo, NewMemoryCache())

	var dataErr *DataError
	if _, _, err := svc.Artists(context.Background(), false); !errors.As(err, &dataErr) {
		t.Fatalf("expected DataError, got %v", err)
	}
	if _, err := svc.ArtistSongs("Bob"); !errors.As(err, &dataErr) {
		t.Fatalf("expected DataError, got %v", err)
	}
}
