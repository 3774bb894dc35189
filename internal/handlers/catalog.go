package handlers

import (
	"net/http"
	"time"
)

// CatalogArtists lists the full-catalog artists. pagination.totalSongs sums the
// songs of every artist in the (possibly searched) list.
func (a *API) CatalogArtists(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	req, err := a.parseListRequest(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	items, meta, err := a.aggs.CatalogArtists(r.Context(), req.searchTerm() != "")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	out := servePage(req, items, meta, started, catalogArtistNames, catalogArtistPayout)

	scope := items
	if req.searchTerm() != "" {
		scope = out.Items
	}
	total := 0
	for _, x := range scope {
		total += x.TotalSongs
	}
	out.Pagination.TotalSongs = &total
	writeJSON(w, http.StatusOK, out)
}

func (a *API) CatalogArtistSongs(w http.ResponseWriter, r *http.Request) {
	req, err := a.parseListRequest(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	resp, err := a.aggs.CatalogArtistSongs(pathParam(r, "artist"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	applySongPayouts(resp.Songs, req.Rate)
	writeJSON(w, http.StatusOK, resp)
}
