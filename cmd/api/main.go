package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"streamcharts/backend-go/internal/config"
	internalhttp "streamcharts/backend-go/internal/http"
	"streamcharts/backend-go/internal/logging"
	"streamcharts/backend-go/internal/services"
)

func main() {
	for _, f := range []string{".env", ".env.local", "../.env", "../.env.local"} {
		_ = godotenv.Load(f)
	}
	cfg := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	repo := services.NewRepository(cfg)
	if missing := repo.Preload(); len(missing) > 0 {
		logging.Warn().Strs("sources", missing).Msg("some datasets failed to load; retrying on request")
	}
	cache := services.NewCache(cfg)
	aggs := services.NewAggregateService(cfg, repo, cache)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           internalhttp.NewRouter(cfg, aggs),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logging.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Str("cache", cache.Tier()).Msg("streamcharts backend listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("graceful shutdown failed")
	}
	logging.Info().Msg("server stopped")
}
