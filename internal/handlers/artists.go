package handlers

import (
	"net/http"
	"time"

	"streamcharts/backend-go/internal/models"
)

func (a *API) Artists(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	req, err := a.parseListRequest(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	items, meta, err := a.aggs.Artists(r.Context(), req.searchTerm() != "")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	out := servePage(req, items, meta, started,
		func(x models.ArtistAggregate) []string { return []string{x.Name} },
		func(x *models.ArtistAggregate, rate float64) { x.EstimatedPayout = payoutPtr(x.TotalPlays, rate) },
	)
	writeJSON(w, http.StatusOK, out)
}

func (a *API) ArtistSongs(w http.ResponseWriter, r *http.Request) {
	req, err := a.parseListRequest(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	resp, err := a.aggs.ArtistSongs(pathParam(r, "artist"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	applySongPayouts(resp.Songs, req.Rate)
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) ArtistPercentages(w http.ResponseWriter, r *http.Request) {
	resp, err := a.aggs.ArtistPercentages(pathParam(r, "artist"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func applySongPayouts(songs []models.ArtistSong, rate *float64) {
	if rate == nil {
		return
	}
	for i := range songs {
		songs[i].EstimatedPayout = payoutPtr(songs[i].TotalPlays, *rate)
	}
}
