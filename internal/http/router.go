package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"streamcharts/backend-go/internal/config"
	"streamcharts/backend-go/internal/handlers"
	"streamcharts/backend-go/internal/services"
)

func NewRouter(cfg config.Config, aggs *services.AggregateService) http.Handler {
	api := handlers.New(cfg, aggs)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(withRequestID)
	r.Use(withLogging)
	r.Use(withRecovery)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", api.Health)

		r.Group(func(r chi.Router) {
			if cfg.RateLimitPerMin > 0 {
				r.Use(httprate.Limit(
					cfg.RateLimitPerMin,
					time.Minute,
					httprate.WithKeyFuncs(httprate.KeyByIP),
					httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
						writeError(w, http.StatusTooManyRequests, "Too many requests")
					}),
				))
			}

			r.Get("/summary", api.Summary)
			r.Get("/dates", api.Dates)
			r.Get("/charts", api.Charts)
			r.Get("/charts/{date}", api.WeekChart)
			r.Get("/weeks", api.Weeks)

			r.Get("/artists", api.Artists)
			r.Get("/artists/{artist}/songs", api.ArtistSongs)
			r.Get("/artists/{artist}/percentages", api.ArtistPercentages)

			r.Get("/songs", api.Songs)
			r.Get("/songs/{trackId}/history", api.SongHistory)

			r.Get("/daily/songs", api.DailySongs)
			r.Get("/daily/artists", api.DailyArtists)
			r.Get("/daily/artists/{artist}/songs", api.DailyArtistSongs)

			r.Get("/catalog/artists", api.CatalogArtists)
			r.Get("/catalog/artists/{artist}/songs", api.CatalogArtistSongs)

			r.Get("/payout", api.Payout)
		})
	})

	return r
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
