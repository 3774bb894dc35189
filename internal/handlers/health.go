package handlers

import (
	"net/http"
	"os"

	"streamcharts/backend-go/internal/models"
	"streamcharts/backend-go/internal/services"
)

func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	repo := a.aggs.Repository()
	missing := repo.Preload()
	if missing == nil {
		missing = []string{}
	}

	resp := models.HealthResponse{
		Ok:          len(missing) == 0,
		TsISO:       nowISO(),
		Service:     "backend-go",
		Version:     os.Getenv("SERVICE_VERSION"),
		CacheTier:   a.aggs.CacheTier(),
		DepsStatus:  repo.Status(),
		DataMissing: missing,
	}
	if rc, ok := a.aggs.Cache().(*services.RedisCache); ok {
		resp.Breaker = rc.BreakerState()
	}
	writeJSON(w, http.StatusOK, resp)
}
