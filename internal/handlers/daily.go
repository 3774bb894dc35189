package handlers

import (
	"net/http"
	"time"

	"streamcharts/backend-go/internal/models"
)

func (a *API) DailySongs(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	req, err := a.parseListRequest(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	items, meta, err := a.aggs.DailySongs(r.Context(), req.searchTerm() != "")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	out := servePage(req, items, meta, started,
		func(x models.DailySong) []string { return []string{x.TrackName, x.ArtistNames} },
		func(x *models.DailySong, rate float64) { x.EstimatedPayout = payoutPtr(x.TotalPlays, rate) },
	)
	writeJSON(w, http.StatusOK, out)
}

func (a *API) DailyArtists(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	req, err := a.parseListRequest(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	items, meta, err := a.aggs.DailyArtists(r.Context(), req.searchTerm() != "")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	out := servePage(req, items, meta, started, catalogArtistNames, catalogArtistPayout)
	writeJSON(w, http.StatusOK, out)
}

func (a *API) DailyArtistSongs(w http.ResponseWriter, r *http.Request) {
	req, err := a.parseListRequest(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	resp, err := a.aggs.DailyArtistSongs(pathParam(r, "artist"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	applySongPayouts(resp.Songs, req.Rate)
	writeJSON(w, http.StatusOK, resp)
}

func catalogArtistNames(x models.CatalogArtist) []string {
	return []string{x.Name}
}

func catalogArtistPayout(x *models.CatalogArtist, rate float64) {
	x.EstimatedPayout = payoutPtr(x.TotalPlays, rate)
}
