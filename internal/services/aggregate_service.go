package services

import (
	"context"
	"fmt"
	"time"

	"streamcharts/backend-go/internal/config"
	"streamcharts/backend-go/internal/logging"
	"streamcharts/backend-go/internal/metrics"
	"streamcharts/backend-go/internal/models"
)

const (
	SlotArtists        = "artists"
	SlotSongs          = "songs"
	SlotWeeks          = "weeks"
	SlotDailySongs     = "daily_songs"
	SlotDailyArtists   = "daily_artists"
	SlotCatalogArtists = "catalog_artists"

	TierMemo = "memo"
)

// AggregateMeta describes where a list came from.
type AggregateMeta struct {
	Cached     bool
	Tier       string
	ComputedAt time.Time
}

type aggregateCacheEntry[T any] struct {
	ComputedAt string `json:"computed_at"`
	Items      []T    `json:"items"`
}

// AggregateService serves ranked aggregate lists. Each list has its own memo
// slot in front of the shared Cache; search requests skip both and rebuild
// from the repository.
type AggregateService struct {
	cfg   config.Config
	repo  *Repository
	cache Cache

	artists        *Memo[[]models.ArtistAggregate]
	songs          *Memo[[]models.SongAggregate]
	weeks          *Memo[[]models.WeekAggregate]
	dailySongs     *Memo[[]models.DailySong]
	dailyArtists   *Memo[[]models.CatalogArtist]
	catalogArtists *Memo[[]models.CatalogArtist]
}

func NewAggregateService(cfg config.Config, repo *Repository, cache Cache) *AggregateService {
	return NewAggregateServiceWithClock(cfg, repo, cache, time.Now)
}

func NewAggregateServiceWithClock(cfg config.Config, repo *Repository, cache Cache, now func() time.Time) *AggregateService {
	ttl := cfg.CacheTTLAggregates
	return &AggregateService{
		cfg:            cfg,
		repo:           repo,
		cache:          cache,
		artists:        NewMemo[[]models.ArtistAggregate](ttl, now),
		songs:          NewMemo[[]models.SongAggregate](ttl, now),
		weeks:          NewMemo[[]models.WeekAggregate](ttl, now),
		dailySongs:     NewMemo[[]models.DailySong](ttl, now),
		dailyArtists:   NewMemo[[]models.CatalogArtist](ttl, now),
		catalogArtists: NewMemo[[]models.CatalogArtist](ttl, now),
	}
}

func (s *AggregateService) Repository() *Repository {
	return s.repo
}

func (s *AggregateService) Cache() Cache {
	return s.cache
}

func (s *AggregateService) CacheTier() string {
	if s.cache == nil {
		return TierMemo
	}
	return s.cache.Tier()
}

// Artists returns every chart artist ranked by total streams.
func (s *AggregateService) Artists(ctx context.Context, bypass bool) ([]models.ArtistAggregate, AggregateMeta, error) {
	return cachedList(ctx, s, SlotArtists, s.artists, bypass, func() ([]models.ArtistAggregate, error) {
		set, err := s.repo.Charts()
		if err != nil {
			return nil, err
		}
		return AggregateArtists(set.Entries), nil
	})
}

func (s *AggregateService) Songs(ctx context.Context, bypass bool) ([]models.SongAggregate, AggregateMeta, error) {
	return cachedList(ctx, s, SlotSongs, s.songs, bypass, func() ([]models.SongAggregate, error) {
		set, err := s.repo.Charts()
		if err != nil {
			return nil, err
		}
		return AggregateSongs(set.Entries), nil
	})
}

func (s *AggregateService) Weeks(ctx context.Context, bypass bool) ([]models.WeekAggregate, AggregateMeta, error) {
	return cachedList(ctx, s, SlotWeeks, s.weeks, bypass, func() ([]models.WeekAggregate, error) {
		set, err := s.repo.Charts()
		if err != nil {
			return nil, err
		}
		return AggregateWeeks(set.Entries), nil
	})
}

func (s *AggregateService) DailySongs(ctx context.Context, bypass bool) ([]models.DailySong, AggregateMeta, error) {
	return cachedList(ctx, s, SlotDailySongs, s.dailySongs, bypass, func() ([]models.DailySong, error) {
		rows, err := s.repo.DailyTotals()
		if err != nil {
			return nil, err
		}
		return DailySongs(rows), nil
	})
}

func (s *AggregateService) DailyArtists(ctx context.Context, bypass bool) ([]models.CatalogArtist, AggregateMeta, error) {
	return cachedList(ctx, s, SlotDailyArtists, s.dailyArtists, bypass, func() ([]models.CatalogArtist, error) {
		rows, err := s.repo.DailyTotals()
		if err != nil {
			return nil, err
		}
		return DailyArtists(rows), nil
	})
}

func (s *AggregateService) CatalogArtists(ctx context.Context, bypass bool) ([]models.CatalogArtist, AggregateMeta, error) {
	return cachedList(ctx, s, SlotCatalogArtists, s.catalogArtists, bypass, func() ([]models.CatalogArtist, error) {
		cats, err := s.repo.Catalog()
		if err != nil {
			return nil, err
		}
		return CatalogArtists(cats), nil
	})
}

func (s *AggregateService) ArtistSongs(artist string) (models.ArtistSongsResponse, error) {
	set, err := s.repo.Charts()
	if err != nil {
		return models.ArtistSongsResponse{}, err
	}
	return ArtistSongs(set.Entries, artist)
}

func (s *AggregateService) ArtistPercentages(artist string) (models.ArtistPercentagesResponse, error) {
	set, err := s.repo.Charts()
	if err != nil {
		return models.ArtistPercentagesResponse{}, err
	}
	return ArtistPercentages(set.Entries, artist)
}

func (s *AggregateService) SongHistory(trackID string) (models.SongHistoryResponse, error) {
	set, err := s.repo.Charts()
	if err != nil {
		return models.SongHistoryResponse{}, err
	}
	return SongHistory(set.Entries, trackID)
}

func (s *AggregateService) DailyArtistSongs(artist string) (models.ArtistSongsResponse, error) {
	rows, err := s.repo.DailyTotals()
	if err != nil {
		return models.ArtistSongsResponse{}, err
	}
	return DailyArtistSongs(rows, artist)
}

func (s *AggregateService) CatalogArtistSongs(artist string) (models.ArtistSongsResponse, error) {
	cats, err := s.repo.Catalog()
	if err != nil {
		return models.ArtistSongsResponse{}, err
	}
	return CatalogArtistSongs(cats, artist)
}

// WeekChart returns one date's chart ordered by position with a payout per entry.
func (s *AggregateService) WeekChart(date string, rate float64) (models.WeekChartResponse, error) {
	norm, err := NormalizeDate(date)
	if err != nil {
		return models.WeekChartResponse{}, err
	}
	if err := ValidatePayoutRate(rate); err != nil {
		return models.WeekChartResponse{}, err
	}
	set, err := s.repo.Charts()
	if err != nil {
		return models.WeekChartResponse{}, err
	}
	rows, ok := set.Week(norm)
	if !ok {
		return models.WeekChartResponse{}, fmt.Errorf("%w: no chart for %s", ErrNotFound, norm)
	}
	resp := models.WeekChartResponse{
		Date:       norm,
		Entries:    make([]models.WeekChartEntry, 0, len(rows)),
		PayoutRate: rate,
	}
	for _, e := range WeekChart(rows) {
		resp.TotalStreams += e.Streams
		resp.Entries = append(resp.Entries, models.WeekChartEntry{
			ChartEntry:      e,
			EstimatedPayout: RoundedPayout(e.Streams, rate),
		})
	}
	return resp, nil
}

// Charts returns the raw weekly charts between from and to (inclusive, either
// may be empty), keeping at most maxDates dates when maxDates > 0.
func (s *AggregateService) Charts(from, to string, maxDates int) (models.ChartsResponse, error) {
	set, err := s.repo.Charts()
	if err != nil {
		return models.ChartsResponse{}, err
	}
	dates := FilterDateRange(set.Dates, func(d string) string { return d }, from, to)
	if maxDates > 0 && len(dates) > maxDates {
		dates = dates[:maxDates]
	}
	charts := make(map[string][]models.ChartEntry, len(dates))
	for _, d := range dates {
		charts[d] = set.ByDate[d]
	}
	return models.ChartsResponse{Metadata: set.Metadata, Charts: charts}, nil
}

func (s *AggregateService) Dates() (models.AvailableDatesResponse, error) {
	set, err := s.repo.Charts()
	if err != nil {
		return models.AvailableDatesResponse{}, err
	}
	dates := make([]string, len(set.Dates))
	copy(dates, set.Dates)
	return models.AvailableDatesResponse{
		AvailableDates: dates,
		Metadata:       set.Metadata,
		TotalDates:     len(dates),
	}, nil
}

// Summary needs the chart file; a missing catalog only zeroes the catalog counts.
func (s *AggregateService) Summary(ctx context.Context) (models.DataSummary, error) {
	set, err := s.repo.Charts()
	if err != nil {
		return models.DataSummary{}, err
	}
	cats, err := s.repo.Catalog()
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("summary without catalog")
		cats = nil
	}
	return Summarize(set, cats), nil
}

func cachedList[T any](ctx context.Context, s *AggregateService, slot string, memo *Memo[[]T], bypass bool, build func() ([]T, error)) ([]T, AggregateMeta, error) {
	if bypass {
		start := time.Now()
		items, err := build()
		if err != nil {
			return nil, AggregateMeta{}, err
		}
		metrics.RecordAggregation(slot, time.Since(start))
		return items, AggregateMeta{ComputedAt: time.Now().UTC()}, nil
	}

	res, err := memo.GetOrCompute(func() ([]T, string, error) {
		if cached, ok := s.getShared(ctx, slot, func(b []byte) (any, bool) {
			var entry aggregateCacheEntry[T]
			if err := UnmarshalCache(b, &entry); err != nil {
				return nil, false
			}
			return entry.Items, entry.Items != nil
		}); ok {
			return cached.([]T), s.CacheTier(), nil
		}

		start := time.Now()
		built, err := build()
		if err != nil {
			return nil, "", err
		}
		elapsed := time.Since(start)
		metrics.RecordAggregation(slot, elapsed)
		logging.Ctx(ctx).Debug().
			Str("slot", slot).
			Int("items", len(built)).
			Dur("elapsed", elapsed).
			Msg("aggregates rebuilt")

		s.putShared(ctx, slot, aggregateCacheEntry[T]{
			ComputedAt: time.Now().UTC().Format(time.RFC3339),
			Items:      built,
		})
		return built, "", nil
	})
	if err != nil {
		return nil, AggregateMeta{}, err
	}
	if res.Shared {
		logging.Ctx(ctx).Debug().Str("slot", slot).Msg("joined in-flight aggregation")
	}

	meta := AggregateMeta{ComputedAt: res.At.UTC()}
	switch {
	case res.Hit:
		meta.Cached, meta.Tier = true, TierMemo
		metrics.RecordCacheHit(slot, TierMemo)
	case res.Origin != "":
		meta.Cached, meta.Tier = true, res.Origin
		metrics.RecordCacheHit(slot, res.Origin)
	default:
		metrics.RecordCacheMiss(slot)
	}
	return res.Value, meta, nil
}

func (s *AggregateService) getShared(ctx context.Context, slot string, decode func([]byte) (any, bool)) (any, bool) {
	if s.cache == nil {
		return nil, false
	}
	b, ok := s.cache.Get(ctx, aggregateCacheKey(slot))
	if !ok {
		return nil, false
	}
	return decode(b)
}

func (s *AggregateService) putShared(ctx context.Context, slot string, entry any) {
	if s.cache == nil {
		return
	}
	b, err := MarshalCache(entry)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("slot", slot).Msg("encode aggregate cache entry")
		return
	}
	if err := s.cache.Set(ctx, aggregateCacheKey(slot), b, s.cfg.CacheTTLAggregates); err != nil {
		logging.Ctx(ctx).Debug().Err(err).Str("slot", slot).Msg("store aggregate cache entry")
	}
}

func aggregateCacheKey(slot string) string {
	return "streamcharts:v1:agg:" + slot
}
