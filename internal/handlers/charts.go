package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"streamcharts/backend-go/internal/services"
)

// Charts returns the raw weekly chart map. Here limit counts dates, not rows,
// and is optional.
func (a *API) Charts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to := strings.TrimSpace(q.Get("dateFrom")), strings.TrimSpace(q.Get("dateTo"))
	var err error
	if from != "" {
		if from, err = services.NormalizeDate(from); err != nil {
			a.writeError(w, r, err)
			return
		}
	}
	if to != "" {
		if to, err = services.NormalizeDate(to); err != nil {
			a.writeError(w, r, err)
			return
		}
	}
	maxDates := 0
	if v := strings.TrimSpace(q.Get("limit")); v != "" {
		n, convErr := strconv.Atoi(v)
		if convErr != nil || n < 1 {
			a.writeError(w, r, &paramError{msg: "Invalid limit (must be a positive number of dates)"})
			return
		}
		maxDates = n
	}

	resp, err := a.aggs.Charts(from, to, maxDates)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// WeekChart returns one date's chart; {date} may use dashes or be URL-escaped.
func (a *API) WeekChart(w http.ResponseWriter, r *http.Request) {
	rate := a.cfg.DefaultPayoutRate
	if v := strings.TrimSpace(r.URL.Query().Get("rate")); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			a.writeError(w, r, &paramError{msg: "Invalid rate", details: "rate must be a number"})
			return
		}
		rate = parsed
	}
	resp, err := a.aggs.WeekChart(pathParam(r, "date"), rate)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) Dates(w http.ResponseWriter, r *http.Request) {
	resp, err := a.aggs.Dates()
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
