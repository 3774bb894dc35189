package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"streamcharts/backend-go/internal/models"
)

const UnknownArtist = "Unknown Artist"

// Group is the running total for one key of GroupBy.
type Group struct {
	Key   string
	Total int64
	Count int
}

// GroupBy sums measure per key. Groups come back in first-seen order.
func GroupBy[T any](items []T, key func(T) string, measure func(T) int64) []Group {
	index := make(map[string]int, len(items))
	groups := make([]Group, 0)
	for _, it := range items {
		k := key(it)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Key: k})
		}
		groups[i].Total += measure(it)
		groups[i].Count++
	}
	return groups
}

// SortGroups orders groups by total descending, then key ascending.
func SortGroups(groups []Group) {
	sort.SliceStable(groups, func(i, j int) bool {
		return ranksBefore(groups[i].Total, groups[j].Total, groups[i].Key, groups[j].Key)
	})
}

func ranksBefore(totalA, totalB int64, keyA, keyB string) bool {
	if totalA != totalB {
		return totalA > totalB
	}
	return keyA < keyB
}

// Percentage returns part as a percentage of total, or 0 when total is 0.
func Percentage(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func artistKey(e models.ChartEntry) string {
	if name := e.PrimaryArtist(); name != "" {
		return name
	}
	return UnknownArtist
}

// AggregateArtists groups chart entries by primary artist and ranks them by total streams.
func AggregateArtists(entries []models.ChartEntry) []models.ArtistAggregate {
	type acc struct {
		agg    models.ArtistAggregate
		tracks map[string]struct{}
		weeks  map[string]struct{}
	}
	index := make(map[string]*acc)
	order := make([]*acc, 0)
	var grand int64

	for _, e := range entries {
		name := artistKey(e)
		a, ok := index[name]
		if !ok {
			a = &acc{
				agg:    models.ArtistAggregate{Name: name, FirstDate: e.Date, LastDate: e.Date, PeakPosition: e.Position},
				tracks: make(map[string]struct{}),
				weeks:  make(map[string]struct{}),
			}
			index[name] = a
			order = append(order, a)
		}
		a.agg.TotalPlays += e.Streams
		a.tracks[e.SongKey()] = struct{}{}
		a.weeks[e.Date] = struct{}{}
		if e.Position > 0 && (a.agg.PeakPosition <= 0 || e.Position < a.agg.PeakPosition) {
			a.agg.PeakPosition = e.Position
		}
		if e.Date < a.agg.FirstDate {
			a.agg.FirstDate = e.Date
		}
		if e.Date > a.agg.LastDate {
			a.agg.LastDate = e.Date
		}
		grand += e.Streams
	}

	out := make([]models.ArtistAggregate, 0, len(order))
	for _, a := range order {
		a.agg.TrackCount = len(a.tracks)
		a.agg.WeeksCharted = len(a.weeks)
		a.agg.Percentage = Percentage(a.agg.TotalPlays, grand)
		out = append(out, a.agg)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return ranksBefore(out[i].TotalPlays, out[j].TotalPlays, out[i].Name, out[j].Name)
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// AggregateSongs groups chart entries by song and ranks them by total streams.
// Each song's play history is newest first.
func AggregateSongs(entries []models.ChartEntry) []models.SongAggregate {
	index := make(map[string]int)
	out := make([]models.SongAggregate, 0)
	var grand int64

	for _, e := range entries {
		key := e.SongKey()
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, models.SongAggregate{
				TrackID:      key,
				TrackName:    e.TrackName,
				Artists:      e.Artists,
				ArtistNames:  strings.Join(e.Artists, ", "),
				Genres:       e.Genres,
				DurationMs:   e.DurationMs,
				Duration:     FormatDuration(e.DurationMs),
				Explicit:     e.Explicit,
				PeakPosition: e.Position,
			})
		}
		s := &out[i]
		s.TotalPlays += e.Streams
		s.PlayHistory = append(s.PlayHistory, models.PlayPoint{Date: e.Date, Streams: e.Streams, Position: e.Position})
		if e.Position > 0 && (s.PeakPosition <= 0 || e.Position < s.PeakPosition) {
			s.PeakPosition = e.Position
		}
		grand += e.Streams
	}

	for i := range out {
		hist := out[i].PlayHistory
		sort.SliceStable(hist, func(a, b int) bool { return hist[a].Date > hist[b].Date })
		out[i].Percentage = Percentage(out[i].TotalPlays, grand)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return ranksBefore(out[i].TotalPlays, out[j].TotalPlays, out[i].TrackID, out[j].TrackID)
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// AggregateWeeks totals streams per chart date. Rank follows total streams; the
// returned order is chronological.
func AggregateWeeks(entries []models.ChartEntry) []models.WeekAggregate {
	index := make(map[string]int)
	out := make([]models.WeekAggregate, 0)
	top := make(map[string]models.ChartEntry)
	var grand int64

	for _, e := range entries {
		i, ok := index[e.Date]
		if !ok {
			i = len(out)
			index[e.Date] = i
			out = append(out, models.WeekAggregate{Date: e.Date})
		}
		out[i].TotalStreams += e.Streams
		out[i].EntryCount++
		grand += e.Streams

		cur, seen := top[e.Date]
		if !seen || outranks(e, cur) {
			top[e.Date] = e
		}
	}

	for i := range out {
		t := top[out[i].Date]
		out[i].TopTrackID = t.TrackID
		out[i].TopTrackName = t.TrackName
		out[i].TopArtist = t.PrimaryArtist()
		out[i].Percentage = Percentage(out[i].TotalStreams, grand)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return ranksBefore(out[i].TotalStreams, out[j].TotalStreams, out[i].Date, out[j].Date)
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// outranks reports whether a sits above b on the same chart: lower position
// first, then more streams.
func outranks(a, b models.ChartEntry) bool {
	if a.Position != b.Position {
		if a.Position <= 0 {
			return false
		}
		if b.Position <= 0 {
			return true
		}
		return a.Position < b.Position
	}
	return a.Streams > b.Streams
}

// ArtistSongs breaks down the chart streams of every song crediting artist
// (any credited position, case-insensitive).
func ArtistSongs(entries []models.ChartEntry, artist string) (models.ArtistSongsResponse, error) {
	matching := make([]models.ChartEntry, 0)
	for _, e := range entries {
		if e.CreditsArtist(artist) {
			matching = append(matching, e)
		}
	}
	if len(matching) == 0 {
		return models.ArtistSongsResponse{}, fmt.Errorf("%w: artist %q", ErrNotFound, artist)
	}

	names := make(map[string]string)
	for _, e := range matching {
		if _, ok := names[e.SongKey()]; !ok {
			names[e.SongKey()] = e.TrackName
		}
	}
	groups := GroupBy(matching, models.ChartEntry.SongKey, func(e models.ChartEntry) int64 { return e.Streams })
	songs := songsFromGroups(groups, func(key string) (string, *int64) { return names[key], nil })
	return buildArtistSongs(displayArtist(matching, artist), songs), nil
}

func displayArtist(entries []models.ChartEntry, artist string) string {
	for _, e := range entries {
		for _, a := range e.Artists {
			if strings.EqualFold(a, artist) {
				return a
			}
		}
	}
	return artist
}

func songsFromGroups(groups []Group, lookup func(key string) (string, *int64)) []models.ArtistSong {
	SortGroups(groups)
	songs := make([]models.ArtistSong, 0, len(groups))
	for i, g := range groups {
		name, daily := lookup(g.Key)
		songs = append(songs, models.ArtistSong{
			Rank:       i + 1,
			TrackID:    g.Key,
			TrackName:  name,
			TotalPlays: g.Total,
			Daily:      daily,
		})
	}
	return songs
}

func buildArtistSongs(artist string, songs []models.ArtistSong) models.ArtistSongsResponse {
	var total int64
	for _, s := range songs {
		total += s.TotalPlays
	}
	for i := range songs {
		songs[i].Percentage = Percentage(songs[i].TotalPlays, total)
	}
	return models.ArtistSongsResponse{
		Artist:     artist,
		Songs:      songs,
		TotalSongs: len(songs),
		TotalPlays: total,
	}
}

// ArtistPercentages returns only the per-song share of the artist's streams, highest first.
func ArtistPercentages(entries []models.ChartEntry, artist string) (models.ArtistPercentagesResponse, error) {
	breakdown, err := ArtistSongs(entries, artist)
	if err != nil {
		return models.ArtistPercentagesResponse{}, err
	}
	pcts := make([]float64, len(breakdown.Songs))
	for i, s := range breakdown.Songs {
		pcts[i] = s.Percentage
	}
	return models.ArtistPercentagesResponse{
		Artist:      breakdown.Artist,
		Percentages: pcts,
		TotalSongs:  breakdown.TotalSongs,
	}, nil
}

// SongHistory returns every chart appearance of trackID, oldest first. trackID
// is the song key published by AggregateSongs, so id-less songs match by name.
func SongHistory(entries []models.ChartEntry, trackID string) (models.SongHistoryResponse, error) {
	hist := make([]models.ChartEntry, 0)
	for _, e := range entries {
		if e.SongKey() == trackID {
			hist = append(hist, e)
		}
	}
	if len(hist) == 0 {
		return models.SongHistoryResponse{}, fmt.Errorf("%w: track %q", ErrNotFound, trackID)
	}
	sort.SliceStable(hist, func(i, j int) bool { return hist[i].Date < hist[j].Date })

	resp := models.SongHistoryResponse{
		TrackID:    trackID,
		TrackName:  hist[0].TrackName,
		Artists:    hist[0].Artists,
		TotalWeeks: len(hist),
		History:    make([]models.HistoryPoint, 0, len(hist)),
	}
	for i, e := range hist {
		resp.TotalPlays += e.Streams
		resp.History = append(resp.History, models.HistoryPoint{
			Date:          e.Date,
			Week:          i + 1,
			FormattedDate: FormatChartDate(e.Date),
			Streams:       e.Streams,
			Position:      e.Position,
			TrackName:     e.TrackName,
			Artists:       e.Artists,
		})
	}
	return resp, nil
}

// WeekChart returns one date's entries ordered by chart position.
func WeekChart(entries []models.ChartEntry) []models.ChartEntry {
	out := make([]models.ChartEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool { return outranks(out[i], out[j]) })
	return out
}

// DailySongs ranks the daily-totals table by total streams.
func DailySongs(rows []models.DailyTotal) []models.DailySong {
	index := make(map[string]int)
	out := make([]models.DailySong, 0, len(rows))
	for _, r := range rows {
		key := r.SongKey()
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, models.DailySong{TrackID: key, TrackName: r.TrackName, ArtistNames: r.Artist})
		}
		s := &out[i]
		s.TotalPlays += r.Total
		if r.Days > s.Days {
			s.Days = r.Days
		}
		if r.PeakStreams > s.PeakStreams {
			s.PeakStreams = r.PeakStreams
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return ranksBefore(out[i].TotalPlays, out[j].TotalPlays, out[i].TrackID, out[j].TrackID)
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// DailyArtists groups the daily-totals table by artist.
func DailyArtists(rows []models.DailyTotal) []models.CatalogArtist {
	type acc struct {
		artist models.CatalogArtist
		songs  map[string]struct{}
	}
	index := make(map[string]*acc)
	order := make([]*acc, 0)
	for _, r := range rows {
		name := r.Artist
		if name == "" {
			name = UnknownArtist
		}
		a, ok := index[name]
		if !ok {
			a = &acc{artist: models.CatalogArtist{Name: name, ArtistID: r.ArtistID}, songs: make(map[string]struct{})}
			index[name] = a
			order = append(order, a)
		}
		a.artist.TotalPlays += r.Total
		a.songs[r.SongKey()] = struct{}{}
	}
	out := make([]models.CatalogArtist, 0, len(order))
	for _, a := range order {
		a.artist.TotalSongs = len(a.songs)
		out = append(out, a.artist)
	}
	rankCatalogArtists(out)
	return out
}

// DailyArtistSongs breaks down one artist's daily-totals rows by song.
func DailyArtistSongs(rows []models.DailyTotal, artist string) (models.ArtistSongsResponse, error) {
	matching := make([]models.DailyTotal, 0)
	display := artist
	for _, r := range rows {
		if strings.EqualFold(r.Artist, artist) {
			if len(matching) == 0 {
				display = r.Artist
			}
			matching = append(matching, r)
		}
	}
	if len(matching) == 0 {
		return models.ArtistSongsResponse{}, fmt.Errorf("%w: artist %q", ErrNotFound, artist)
	}
	names := make(map[string]string)
	for _, r := range matching {
		if _, ok := names[r.SongKey()]; !ok {
			names[r.SongKey()] = r.TrackName
		}
	}
	groups := GroupBy(matching, models.DailyTotal.SongKey, func(r models.DailyTotal) int64 { return r.Total })
	songs := songsFromGroups(groups, func(key string) (string, *int64) { return names[key], nil })
	return buildArtistSongs(display, songs), nil
}

// CatalogArtists ranks the per-artist catalog files. Files naming the same
// artist are merged.
func CatalogArtists(catalogs []models.ArtistCatalog) []models.CatalogArtist {
	index := make(map[string]int)
	out := make([]models.CatalogArtist, 0, len(catalogs))
	for _, c := range catalogs {
		if c.Artist == "" {
			continue
		}
		i, ok := index[c.Artist]
		if !ok {
			i = len(out)
			index[c.Artist] = i
			out = append(out, models.CatalogArtist{Name: c.Artist, ArtistID: c.ArtistID})
		}
		for _, s := range c.Songs {
			out[i].TotalPlays += s.Total
		}
		out[i].TotalSongs += len(c.Songs)
	}
	rankCatalogArtists(out)
	return out
}

func rankCatalogArtists(out []models.CatalogArtist) {
	sort.SliceStable(out, func(i, j int) bool {
		return ranksBefore(out[i].TotalPlays, out[j].TotalPlays, out[i].Name, out[j].Name)
	})
	for i := range out {
		out[i].Rank = i + 1
	}
}

// CatalogArtistSongs returns the catalog breakdown for artist, matched case-insensitively.
func CatalogArtistSongs(catalogs []models.ArtistCatalog, artist string) (models.ArtistSongsResponse, error) {
	var found []models.CatalogSong
	display := ""
	for _, c := range catalogs {
		if strings.EqualFold(c.Artist, artist) {
			if display == "" {
				display = c.Artist
			}
			found = append(found, c.Songs...)
		}
	}
	if display == "" {
		return models.ArtistSongsResponse{}, fmt.Errorf("%w: artist %q", ErrNotFound, artist)
	}

	songs := make([]models.ArtistSong, 0, len(found))
	for _, s := range found {
		daily := s.Daily
		id := s.TrackID
		if id == "" {
			id = s.TrackName
		}
		songs = append(songs, models.ArtistSong{TrackID: id, TrackName: s.TrackName, TotalPlays: s.Total, Daily: &daily})
	}
	sort.SliceStable(songs, func(i, j int) bool {
		return ranksBefore(songs[i].TotalPlays, songs[j].TotalPlays, songs[i].TrackID, songs[j].TrackID)
	})
	for i := range songs {
		songs[i].Rank = i + 1
	}
	return buildArtistSongs(display, songs), nil
}

// Summarize counts distinct artists and songs across the loaded sources.
func Summarize(charts *ChartSet, catalogs []models.ArtistCatalog) models.DataSummary {
	var sum models.DataSummary
	if charts != nil {
		artists := make(map[string]struct{})
		songs := make(map[string]struct{})
		for _, e := range charts.Entries {
			artists[artistKey(e)] = struct{}{}
			songs[e.SongKey()] = struct{}{}
			sum.TotalStreams += e.Streams
		}
		sum.TotalArtists = len(artists)
		sum.TotalSongs = len(songs)
		sum.TotalEntries = len(charts.Entries)
		sum.TotalWeeks = len(charts.Dates)
		if n := len(charts.Dates); n > 0 {
			sum.DateRange = models.DateRange{Start: charts.Dates[0], End: charts.Dates[n-1]}
		}
	}

	catalogArtists := make(map[string]struct{})
	catalogSongs := make(map[string]struct{})
	for _, c := range catalogs {
		catalogArtists[c.Artist] = struct{}{}
		for _, s := range c.Songs {
			if s.TrackID != "" {
				catalogSongs[s.TrackID] = struct{}{}
			}
		}
	}
	sum.CatalogArtists = len(catalogArtists)
	sum.CatalogSongs = len(catalogSongs)
	return sum
}

// FilterDateRange keeps entries whose date falls in [from, to]. Empty bounds are open.
func FilterDateRange[T any](items []T, date func(T) string, from, to string) []T {
	if from == "" && to == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		d := date(it)
		if from != "" && d < from {
			continue
		}
		if to != "" && d > to {
			continue
		}
		out = append(out, it)
	}
	return out
}

// FormatDuration renders milliseconds as m:ss; zero or negative yields "".
func FormatDuration(ms int64) string {
	if ms <= 0 {
		return ""
	}
	minutes := ms / 60000
	seconds := (ms % 60000) / 1000
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// FormatChartDate renders a YYYY/MM/DD date as "Jan 2, 2006"; unparseable input is returned as is.
func FormatChartDate(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("Jan 2, 2006")
}
