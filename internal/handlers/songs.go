package handlers

import (
	"net/http"
	"time"

	"streamcharts/backend-go/internal/models"
)

func (a *API) Songs(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	req, err := a.parseListRequest(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	items, meta, err := a.aggs.Songs(r.Context(), req.searchTerm() != "")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	out := servePage(req, items, meta, started,
		func(x models.SongAggregate) []string { return []string{x.TrackName, x.ArtistNames} },
		func(x *models.SongAggregate, rate float64) { x.EstimatedPayout = payoutPtr(x.TotalPlays, rate) },
	)
	writeJSON(w, http.StatusOK, out)
}

func (a *API) SongHistory(w http.ResponseWriter, r *http.Request) {
	resp, err := a.aggs.SongHistory(pathParam(r, "trackId"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
