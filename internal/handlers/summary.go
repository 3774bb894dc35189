package handlers

import "net/http"

func (a *API) Summary(w http.ResponseWriter, r *http.Request) {
	resp, err := a.aggs.Summary(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
