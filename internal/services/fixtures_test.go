package services

import (
	"os"
	"path/filepath"
	"testing"

	"streamcharts/backend-go/internal/models"
)

const chartsFixture = `{
  "metadata": {"title": "Global Weekly", "source": "fixture", "total_entries": 99},
  "charts": {
    "2023/01/05": [
      {"position": 1, "streams": 300, "track_id": "t1", "track_name": "Song One", "artists": ["Bob"], "duration_ms": 215000},
      {"position": 2, "streams": 100, "track_id": "t2", "track_name": "Song Two", "artists": ["Alice", "Bob"]},
      {"position": 2, "streams": 90, "track_id": "t2", "track_name": "Song Two", "artists": ["Alice", "Bob"]}
    ],
    "2023-01-12": [
      {"position": 2, "streams": 40, "track_id": "t3", "track_name": "Song Three", "artists": ["Carol"]},
      {"position": 1, "streams": 50, "track_id": "t2", "track_name": "Song Two", "artists": ["Alice", "Bob"]}
    ]
  }
}`

const dailyFixture = `[
  {"artist": "Bob", "artistId": "a-bob", "trackName": "Song One", "trackId": "t1", "days": 30, "total": 1000},
  {"artist": "Alice", "artistId": "a-alice", "songTitle": "Song Two", "songId": "t2", "days": 12, "total": 2500},
  {"artist": "Bob", "artistId": "a-bob", "trackName": "Song Four", "trackId": "t4", "days": 3, "total": 200}
]`

var catalogFixtures = map[string]string{
	"a-bob.json":   `{"artist": "Bob", "artistId": "a-bob", "songs": [{"trackId": "t1", "trackName": "Song One", "total": 5000, "daily": 120}, {"trackId": "t4", "trackName": "Song Four", "total": 700, "daily": 5}]}`,
	"a-carol.json": `{"artist": "Carol", "artistId": "a-carol", "songs": [{"trackId": "t3", "trackName": "Song Three", "total": 9000, "daily": 300}]}`,
	"broken.json":  `{"artist": `,
	"notes.txt":    `ignored`,
}

type fixturePaths struct {
	charts  string
	daily   string
	catalog string
}

func writeFixtures(t *testing.T) fixturePaths {
	t.Helper()
	dir := t.TempDir()
	p := fixturePaths{
		charts:  filepath.Join(dir, "global_charts_by_date.json"),
		daily:   filepath.Join(dir, "global_daily_totals.json"),
		catalog: filepath.Join(dir, "artists-songs"),
	}
	mustWrite(t, p.charts, chartsFixture)
	mustWrite(t, p.daily, dailyFixture)
	if err := os.MkdirAll(p.catalog, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for name, body := range catalogFixtures {
		mustWrite(t, filepath.Join(p.catalog, name), body)
	}
	return p
}

func mustWrite(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func entry(date string, pos int, streams int64, id string, artists ...string) models.ChartEntry {
	return models.ChartEntry{
		Date:      date,
		Position:  pos,
		Streams:   streams,
		TrackID:   id,
		TrackName: "Track " + id,
		Artists:   artists,
	}
}
