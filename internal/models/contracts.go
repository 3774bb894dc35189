package models

import (
	"strings"

	"github.com/goccy/go-json"
)

// ChartEntry is one (track, date) observation of the weekly chart.
type ChartEntry struct {
	Date       string   `json:"date"`
	Position   int      `json:"position"`
	Streams    int64    `json:"streams"`
	TrackID    string   `json:"track_id"`
	TrackName  string   `json:"track_name"`
	Artists    []string `json:"artists"`
	Genres     []string `json:"genres,omitempty"`
	DurationMs int64    `json:"duration_ms,omitempty"`
	Explicit   bool     `json:"explicit"`
}

// PrimaryArtist is the first credited artist, or "" when none is listed.
func (e ChartEntry) PrimaryArtist() string {
	if len(e.Artists) == 0 {
		return ""
	}
	return e.Artists[0]
}

// SongKey identifies the song across weeks; the track name stands in when the id is absent.
func (e ChartEntry) SongKey() string {
	if e.TrackID != "" {
		return e.TrackID
	}
	return e.TrackName
}

func (e ChartEntry) CreditsArtist(name string) bool {
	for _, a := range e.Artists {
		if strings.EqualFold(a, name) {
			return true
		}
	}
	return false
}

type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type ChartMetadata struct {
	Title        string    `json:"title,omitempty"`
	Description  string    `json:"description,omitempty"`
	Source       string    `json:"source,omitempty"`
	TotalEntries int       `json:"total_entries"`
	UniqueDates  int       `json:"unique_dates,omitempty"`
	DateRange    DateRange `json:"date_range"`
	CreatedDate  string    `json:"created_date,omitempty"`
}

// ChartFile mirrors global_charts_by_date.json.
type ChartFile struct {
	Metadata ChartMetadata           `json:"metadata"`
	Charts   map[string][]ChartEntry `json:"charts"`
}

// DailyTotal is one row of the per-song daily totals table.
type DailyTotal struct {
	Artist      string `json:"artist"`
	ArtistID    string `json:"artistId,omitempty"`
	TrackName   string `json:"trackName"`
	TrackID     string `json:"trackId"`
	Days        int    `json:"days"`
	PeakStreams int64  `json:"peakStreams,omitempty"`
	Total       int64  `json:"total"`
}

// UnmarshalJSON accepts both the trackName/trackId and the songTitle/songId spellings.
func (d *DailyTotal) UnmarshalJSON(b []byte) error {
	var raw struct {
		Artist      string `json:"artist"`
		ArtistID    string `json:"artistId"`
		TrackName   string `json:"trackName"`
		TrackID     string `json:"trackId"`
		SongTitle   string `json:"songTitle"`
		SongID      string `json:"songId"`
		Days        int    `json:"days"`
		PeakStreams int64  `json:"peakStreams"`
		Total       int64  `json:"total"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*d = DailyTotal{
		Artist:      raw.Artist,
		ArtistID:    raw.ArtistID,
		TrackName:   firstNonEmpty(raw.TrackName, raw.SongTitle),
		TrackID:     firstNonEmpty(raw.TrackID, raw.SongID),
		Days:        raw.Days,
		PeakStreams: raw.PeakStreams,
		Total:       raw.Total,
	}
	return nil
}

func (d DailyTotal) SongKey() string {
	if d.TrackID != "" {
		return d.TrackID
	}
	return d.TrackName
}

type CatalogSong struct {
	TrackID   string `json:"trackId"`
	TrackName string `json:"trackName"`
	Total     int64  `json:"total"`
	Daily     int64  `json:"daily"`
}

// ArtistCatalog mirrors one artists-songs/<artistId>.json file.
type ArtistCatalog struct {
	Artist   string        `json:"artist"`
	ArtistID string        `json:"artistId"`
	Songs    []CatalogSong `json:"songs"`
}

type ArtistAggregate struct {
	Rank            int     `json:"rank"`
	Name            string  `json:"name"`
	TotalPlays      int64   `json:"totalPlays"`
	TrackCount      int     `json:"trackCount"`
	WeeksCharted    int     `json:"weeksCharted"`
	PeakPosition    int     `json:"peakPosition"`
	FirstDate       string  `json:"firstDate"`
	LastDate        string  `json:"lastDate"`
	Percentage      float64 `json:"percentage"`
	EstimatedPayout *int64  `json:"estimatedPayout,omitempty"`
}

type PlayPoint struct {
	Date     string `json:"date"`
	Streams  int64  `json:"streams"`
	Position int    `json:"position"`
}

type SongAggregate struct {
	Rank            int         `json:"rank"`
	TrackID         string      `json:"trackId"`
	TrackName       string      `json:"trackName"`
	Artists         []string    `json:"artists"`
	ArtistNames     string      `json:"artistNames"`
	Genres          []string    `json:"genres,omitempty"`
	DurationMs      int64       `json:"durationMs,omitempty"`
	Duration        string      `json:"duration,omitempty"`
	Explicit        bool        `json:"explicit"`
	TotalPlays      int64       `json:"totalPlays"`
	PeakPosition    int         `json:"peakPosition"`
	Percentage      float64     `json:"percentage"`
	PlayHistory     []PlayPoint `json:"playHistory,omitempty"`
	EstimatedPayout *int64      `json:"estimatedPayout,omitempty"`
}

type WeekAggregate struct {
	Rank            int     `json:"rank"`
	Date            string  `json:"date"`
	TotalStreams    int64   `json:"totalStreams"`
	EntryCount      int     `json:"entryCount"`
	TopTrackID      string  `json:"topTrackId,omitempty"`
	TopTrackName    string  `json:"topTrackName,omitempty"`
	TopArtist       string  `json:"topArtist,omitempty"`
	Percentage      float64 `json:"percentage"`
	EstimatedPayout *int64  `json:"estimatedPayout,omitempty"`
}

// ArtistSong is one song inside a single artist's breakdown.
type ArtistSong struct {
	Rank            int     `json:"rank"`
	TrackID         string  `json:"trackId"`
	TrackName       string  `json:"trackName"`
	TotalPlays      int64   `json:"totalPlays"`
	Daily           *int64  `json:"daily,omitempty"`
	Percentage      float64 `json:"percentage"`
	EstimatedPayout *int64  `json:"estimatedPayout,omitempty"`
}

type ArtistSongsResponse struct {
	Artist     string       `json:"artist"`
	Songs      []ArtistSong `json:"songs"`
	TotalSongs int          `json:"totalSongs"`
	TotalPlays int64        `json:"totalPlays"`
}

type ArtistPercentagesResponse struct {
	Artist      string    `json:"artist"`
	Percentages []float64 `json:"percentages"`
	TotalSongs  int       `json:"totalSongs"`
}

type DailySong struct {
	Rank            int    `json:"rank"`
	TrackID         string `json:"trackId"`
	TrackName       string `json:"trackName"`
	ArtistNames     string `json:"artistNames"`
	Days            int    `json:"days"`
	PeakStreams     int64  `json:"peakStreams,omitempty"`
	TotalPlays      int64  `json:"totalPlays"`
	EstimatedPayout *int64 `json:"estimatedPayout,omitempty"`
}

type CatalogArtist struct {
	Rank            int    `json:"rank"`
	Name            string `json:"name"`
	ArtistID        string `json:"artistId,omitempty"`
	TotalPlays      int64  `json:"totalPlays"`
	TotalSongs      int    `json:"totalSongs"`
	EstimatedPayout *int64 `json:"estimatedPayout,omitempty"`
}

type HistoryPoint struct {
	Date          string   `json:"date"`
	Week          int      `json:"week"`
	FormattedDate string   `json:"formattedDate"`
	Streams       int64    `json:"streams"`
	Position      int      `json:"position"`
	TrackName     string   `json:"trackName"`
	Artists       []string `json:"artists"`
}

type SongHistoryResponse struct {
	TrackID    string         `json:"trackId"`
	TrackName  string         `json:"trackName"`
	Artists    []string       `json:"artists"`
	TotalWeeks int            `json:"totalWeeks"`
	TotalPlays int64          `json:"totalPlays"`
	History    []HistoryPoint `json:"history"`
}

type WeekChartEntry struct {
	ChartEntry
	EstimatedPayout int64 `json:"estimatedPayout"`
}

type WeekChartResponse struct {
	Date         string           `json:"date"`
	TotalStreams int64            `json:"totalStreams"`
	Entries      []WeekChartEntry `json:"entries"`
	PayoutRate   float64          `json:"payoutRate"`
}

type ChartsResponse struct {
	Metadata ChartMetadata           `json:"metadata"`
	Charts   map[string][]ChartEntry `json:"charts"`
}

type AvailableDatesResponse struct {
	AvailableDates []string      `json:"availableDates"`
	Metadata       ChartMetadata `json:"metadata"`
	TotalDates     int           `json:"totalDates"`
}

type DataSummary struct {
	TotalArtists   int       `json:"totalArtists"`
	TotalSongs     int       `json:"totalSongs"`
	TotalEntries   int       `json:"totalEntries"`
	TotalStreams   int64     `json:"totalStreams"`
	TotalWeeks     int       `json:"totalWeeks"`
	DateRange      DateRange `json:"dateRange"`
	CatalogArtists int       `json:"catalogArtists"`
	CatalogSongs   int       `json:"catalogSongs"`
}

type PayoutResponse struct {
	Streams        int64   `json:"streams"`
	RatePerMillion float64 `json:"ratePerMillion"`
	Estimate       float64 `json:"estimate"`
	Rounded        int64   `json:"rounded"`
	Formatted      string  `json:"formatted"`
}

// Pagination is the page metadata returned by every list endpoint.
type Pagination struct {
	CurrentPage     int  `json:"currentPage"`
	TotalPages      int  `json:"totalPages"`
	TotalItems      int  `json:"totalItems"`
	TotalSongs      *int `json:"totalSongs,omitempty"`
	Limit           int  `json:"limit"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
	StartIndex      int  `json:"startIndex"`
	EndIndex        int  `json:"endIndex"`
}

type ListMeta struct {
	Cached           bool   `json:"cached"`
	Tier             string `json:"tier,omitempty"`
	ProcessingTimeMs int64  `json:"processingTimeMs"`
	ComputedAt       string `json:"computedAt,omitempty"`
	Search           string `json:"search,omitempty"`
}

type ListResponse[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
	Meta       *ListMeta  `json:"meta,omitempty"`
}

type DepStatus struct {
	Ok      bool   `json:"ok"`
	Records int    `json:"records,omitempty"`
	Error   string `json:"error,omitempty"`
}

type HealthResponse struct {
	Ok          bool                 `json:"ok"`
	TsISO       string               `json:"tsISO"`
	Service     string               `json:"service"`
	Version     string               `json:"version"`
	CacheTier   string               `json:"cacheTier"`
	Breaker     string               `json:"breaker,omitempty"`
	DepsStatus  map[string]DepStatus `json:"deps_status"`
	DataMissing []string             `json:"data_missing"`
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
