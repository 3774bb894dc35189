package services

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"streamcharts/backend-go/internal/config"
	"streamcharts/backend-go/internal/logging"
	"streamcharts/backend-go/internal/metrics"
	"streamcharts/backend-go/internal/models"
)

// DateLayout is the canonical chart date format. Dates in this layout sort
// correctly as plain strings.
const DateLayout = "2006/01/02"

const (
	SourceCharts      = "charts"
	SourceDailyTotals = "daily_totals"
	SourceCatalog     = "catalog"
)

var dateLayouts = []string{DateLayout, "2006-01-02", time.RFC3339}

// NormalizeDate converts a YYYY/MM/DD or YYYY-MM-DD date to DateLayout.
func NormalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DateLayout), nil
		}
	}
	return "", fmt.Errorf("%w: %q (want YYYY/MM/DD)", ErrInvalidDate, s)
}

// ChartSet is the weekly chart file after normalization. Entries holds every
// row in date order; ByDate indexes the same rows per date.
type ChartSet struct {
	Metadata  models.ChartMetadata
	Dates     []string
	ByDate    map[string][]models.ChartEntry
	Entries   []models.ChartEntry
	Collapsed int
}

// Week returns the rows charted on date, which must already be normalized.
func (c *ChartSet) Week(date string) ([]models.ChartEntry, bool) {
	rows, ok := c.ByDate[date]
	return rows, ok
}

// CollapseDuplicates keeps one row per (song, position) within a single date,
// the one with the most streams. It returns the surviving rows in first-seen
// order and the number of rows dropped.
func CollapseDuplicates(rows []models.ChartEntry) ([]models.ChartEntry, int) {
	type dupKey struct {
		song     string
		position int
	}
	index := make(map[dupKey]int, len(rows))
	out := make([]models.ChartEntry, 0, len(rows))
	for _, r := range rows {
		k := dupKey{song: r.SongKey(), position: r.Position}
		if i, ok := index[k]; ok {
			if r.Streams > out[i].Streams {
				out[i] = r
			}
			continue
		}
		index[k] = len(out)
		out = append(out, r)
	}
	return out, len(rows) - len(out)
}

func buildChartSet(file models.ChartFile) (*ChartSet, error) {
	byDate := make(map[string][]models.ChartEntry, len(file.Charts))
	for raw, rows := range file.Charts {
		date, err := NormalizeDate(raw)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			r.Date = date
			byDate[date] = append(byDate[date], r)
		}
	}

	set := &ChartSet{
		Metadata: file.Metadata,
		Dates:    make([]string, 0, len(byDate)),
		ByDate:   byDate,
	}
	for date := range byDate {
		set.Dates = append(set.Dates, date)
	}
	sort.Strings(set.Dates)

	for _, date := range set.Dates {
		rows, dropped := CollapseDuplicates(byDate[date])
		byDate[date] = rows
		set.Collapsed += dropped
		set.Entries = append(set.Entries, rows...)
	}

	set.Metadata.TotalEntries = len(set.Entries)
	set.Metadata.UniqueDates = len(set.Dates)
	if n := len(set.Dates); n > 0 {
		set.Metadata.DateRange = models.DateRange{Start: set.Dates[0], End: set.Dates[n-1]}
	}
	return set, nil
}

// lazySource loads a value on first successful use. Failed loads are not
// remembered, so the next call tries again.
type lazySource[T any] struct {
	mu      sync.Mutex
	loaded  bool
	val     T
	records int
	lastErr error
	load    func() (T, int, error)
}

func (l *lazySource[T]) get() (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.loaded {
		return l.val, nil
	}
	v, n, err := l.load()
	if err != nil {
		l.lastErr = err
		var zero T
		return zero, err
	}
	l.val, l.records, l.loaded, l.lastErr = v, n, true, nil
	return v, nil
}

func (l *lazySource[T]) status() models.DepStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	st := models.DepStatus{Ok: l.loaded, Records: l.records}
	if !l.loaded && l.lastErr != nil {
		st.Error = l.lastErr.Error()
	}
	return st
}

// Repository gives read-only access to the three backing data sources.
type Repository struct {
	charts  lazySource[*ChartSet]
	daily   lazySource[[]models.DailyTotal]
	catalog lazySource[[]models.ArtistCatalog]
}

func NewRepository(cfg config.Config) *Repository {
	return NewRepositoryFromPaths(cfg.ChartsFile, cfg.DailyTotalsFile, cfg.CatalogDir)
}

func NewRepositoryFromPaths(chartsFile, dailyFile, catalogDir string) *Repository {
	r := &Repository{}
	r.charts.load = func() (*ChartSet, int, error) {
		set, err := loadCharts(chartsFile)
		if err != nil {
			return nil, 0, err
		}
		return set, len(set.Entries), nil
	}
	r.daily.load = func() ([]models.DailyTotal, int, error) {
		rows, err := loadDailyTotals(dailyFile)
		return rows, len(rows), err
	}
	r.catalog.load = func() ([]models.ArtistCatalog, int, error) {
		cats, err := loadCatalog(catalogDir)
		return cats, len(cats), err
	}
	return r
}

func (r *Repository) Charts() (*ChartSet, error) {
	return r.charts.get()
}

func (r *Repository) DailyTotals() ([]models.DailyTotal, error) {
	return r.daily.get()
}

func (r *Repository) Catalog() ([]models.ArtistCatalog, error) {
	return r.catalog.get()
}

// Preload attempts every source once and returns the names of those that failed.
func (r *Repository) Preload() []string {
	var missing []string
	if _, err := r.Charts(); err != nil {
		missing = append(missing, SourceCharts)
	}
	if _, err := r.DailyTotals(); err != nil {
		missing = append(missing, SourceDailyTotals)
	}
	if _, err := r.Catalog(); err != nil {
		missing = append(missing, SourceCatalog)
	}
	return missing
}

// Status reports each source without triggering a load.
func (r *Repository) Status() map[string]models.DepStatus {
	return map[string]models.DepStatus{
		SourceCharts:      r.charts.status(),
		SourceDailyTotals: r.daily.status(),
		SourceCatalog:     r.catalog.status(),
	}
}

func loadCharts(path string) (*ChartSet, error) {
	var file models.ChartFile
	if err := readJSON(path, &file); err != nil {
		metrics.RecordDatasetLoad(SourceCharts, 0, err)
		return nil, &DataError{Source: SourceCharts, Path: path, Err: err}
	}
	set, err := buildChartSet(file)
	if err != nil {
		metrics.RecordDatasetLoad(SourceCharts, 0, err)
		return nil, &DataError{Source: SourceCharts, Path: path, Err: err}
	}
	if set.Collapsed > 0 {
		logging.Warn().
			Str("source", SourceCharts).
			Int("collapsed", set.Collapsed).
			Msg("collapsed duplicate chart rows")
	}
	metrics.RecordDatasetLoad(SourceCharts, len(set.Entries), nil)
	logging.Info().
		Str("source", SourceCharts).
		Int("entries", len(set.Entries)).
		Int("dates", len(set.Dates)).
		Msg("dataset loaded")
	return set, nil
}

func loadDailyTotals(path string) ([]models.DailyTotal, error) {
	var rows []models.DailyTotal
	if err := readJSON(path, &rows); err != nil {
		metrics.RecordDatasetLoad(SourceDailyTotals, 0, err)
		return nil, &DataError{Source: SourceDailyTotals, Path: path, Err: err}
	}
	metrics.RecordDatasetLoad(SourceDailyTotals, len(rows), nil)
	logging.Info().Str("source", SourceDailyTotals).Int("entries", len(rows)).Msg("dataset loaded")
	return rows, nil
}

// loadCatalog reads every *.json file in dir. A file that cannot be read or
// decoded is logged and skipped; only an unreadable directory is an error.
func loadCatalog(dir string) ([]models.ArtistCatalog, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		metrics.RecordDatasetLoad(SourceCatalog, 0, err)
		return nil, &DataError{Source: SourceCatalog, Path: dir, Err: err}
	}

	out := make([]models.ArtistCatalog, 0, len(dirEntries))
	skipped := 0
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, de.Name())
		var cat models.ArtistCatalog
		if err := readJSON(path, &cat); err != nil {
			skipped++
			logging.Warn().Err(err).Str("file", path).Msg("skipping unreadable catalog file")
			continue
		}
		if cat.Artist == "" {
			skipped++
			logging.Warn().Str("file", path).Msg("skipping catalog file without artist")
			continue
		}
		out = append(out, cat)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Artist < out[j].Artist })

	metrics.RecordDatasetLoad(SourceCatalog, len(out), nil)
	logging.Info().
		Str("source", SourceCatalog).
		Int("artists", len(out)).
		Int("skipped", skipped).
		Msg("dataset loaded")
	return out, nil
}

func readJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
