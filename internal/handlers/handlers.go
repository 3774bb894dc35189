package handlers

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"streamcharts/backend-go/internal/config"
	"streamcharts/backend-go/internal/logging"
	"streamcharts/backend-go/internal/models"
	"streamcharts/backend-go/internal/services"
)

type API struct {
	cfg  config.Config
	aggs *services.AggregateService
}

func New(cfg config.Config, aggs *services.AggregateService) *API {
	return &API{cfg: cfg, aggs: aggs}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn().Err(err).Msg("encode response")
	}
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// listMeta converts service metadata for the response; search results are never cached.
func listMeta(meta services.AggregateMeta, search string, started time.Time) *models.ListMeta {
	out := &models.ListMeta{
		Cached:           meta.Cached,
		Tier:             meta.Tier,
		ProcessingTimeMs: time.Since(started).Milliseconds(),
		Search:           search,
	}
	if !meta.ComputedAt.IsZero() {
		out.ComputedAt = meta.ComputedAt.Format(time.RFC3339)
	}
	return out
}

// servePage applies search then pagination to a ranked list.
// With an active search every match is returned as a single page.
func servePage[T any](req listRequest, items []T, meta services.AggregateMeta, started time.Time, names func(T) []string, payout func(*T, float64)) models.ListResponse[T] {
	var (
		page []T
		pg   models.Pagination
	)
	if services.SearchActive(req.Search) {
		page = services.FilterByName(items, req.Search, names)
		pg = services.SinglePage(page)
	} else {
		var err error
		page, pg, err = services.Paginate(items, req.Page, req.Limit)
		if err != nil {
			// listRequest already bounds page and limit.
			page, pg = []T{}, services.SinglePage([]T{})
		}
	}
	if page == nil {
		page = []T{}
	}
	if req.Rate != nil && payout != nil {
		for i := range page {
			payout(&page[i], *req.Rate)
		}
	}
	return models.ListResponse[T]{
		Items:      page,
		Pagination: pg,
		Meta:       listMeta(meta, req.searchTerm(), started),
	}
}

func payoutPtr(streams int64, rate float64) *int64 {
	v := services.RoundedPayout(streams, rate)
	return &v
}
