package handlers

import (
	"net/http"
	"sort"
	"time"

	"streamcharts/backend-go/internal/models"
	"streamcharts/backend-go/internal/services"
)

// Weeks lists per-date totals. sort=streams orders by rank, the default is chronological.
func (a *API) Weeks(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	req, err := a.parseWeekRequest(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	items, meta, err := a.aggs.Weeks(r.Context(), req.searchTerm() != "")
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	items = services.FilterDateRange(items, func(x models.WeekAggregate) string { return x.Date }, req.DateFrom, req.DateTo)
	if req.Sort == "streams" {
		byRank := make([]models.WeekAggregate, len(items))
		copy(byRank, items)
		sort.SliceStable(byRank, func(i, j int) bool { return byRank[i].Rank < byRank[j].Rank })
		items = byRank
	}

	out := servePage(req, items, meta, started,
		func(x models.WeekAggregate) []string { return []string{x.Date, x.TopTrackName, x.TopArtist} },
		func(x *models.WeekAggregate, rate float64) { x.EstimatedPayout = payoutPtr(x.TotalStreams, rate) },
	)
	writeJSON(w, http.StatusOK, out)
}
