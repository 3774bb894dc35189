package handlers

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"streamcharts/backend-go/internal/models"
	"streamcharts/backend-go/internal/services"
)

// Payout estimates earnings for ?streams=N at ?rate= per million (default from config).
func (a *API) Payout(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	raw := strings.TrimSpace(q.Get("streams"))
	if raw == "" {
		a.writeError(w, r, &paramError{msg: "Invalid request", details: "streams is required"})
		return
	}
	streams, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		a.writeError(w, r, &paramError{msg: "Invalid request", details: "streams must be an integer"})
		return
	}
	rate := a.cfg.DefaultPayoutRate
	if v := strings.TrimSpace(q.Get("rate")); v != "" {
		if rate, err = strconv.ParseFloat(v, 64); err != nil {
			a.writeError(w, r, &paramError{msg: "Invalid rate", details: "rate must be a number"})
			return
		}
	}

	estimate, err := services.EstimatePayout(streams, rate)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	rounded := int64(math.Round(estimate))
	writeJSON(w, http.StatusOK, models.PayoutResponse{
		Streams:        streams,
		RatePerMillion: rate,
		Estimate:       estimate,
		Rounded:        rounded,
		Formatted:      services.FormatCurrency(rounded),
	})
}
