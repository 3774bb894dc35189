package handlers

import (
	"errors"
	"net/http"

	"streamcharts/backend-go/internal/logging"
	"streamcharts/backend-go/internal/services"
)

// writeError maps service and parameter errors to a status code and JSON body.
func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var pe *paramError
	if errors.As(err, &pe) {
		writeJSON(w, http.StatusBadRequest, pe.body())
		return
	}

	switch {
	case errors.Is(err, services.ErrInvalidPage):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid page number"})
		return
	case errors.Is(err, services.ErrInvalidLimit):
		writeJSON(w, http.StatusBadRequest, a.invalidLimit().(*paramError).body())
		return
	case errors.Is(err, services.ErrInvalidPayout), errors.Is(err, services.ErrInvalidDate):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid request", "details": err.Error()})
		return
	case errors.Is(err, services.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Not found", "details": err.Error()})
		return
	}

	var dataErr *services.DataError
	if errors.As(err, &dataErr) {
		logging.Ctx(r.Context()).Error().
			Err(dataErr.Err).
			Str("source", dataErr.Source).
			Str("path", dataErr.Path).
			Msg("backing data unavailable")
	} else {
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}

	msg := "Something went wrong"
	if a.cfg.IsDevelopment() {
		msg = err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, map[string]any{
		"error":   "Internal server error",
		"message": msg,
	})
}

func (e *paramError) body() map[string]any {
	body := map[string]any{"error": e.msg}
	if e.details != nil {
		body["details"] = e.details
	}
	return body
}
