package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Brownie44l1/agro-api/internal/config"
	"github.com/Brownie44l1/agro-api/internal/handlers"
	"github.com/Brownie44l1/agro-api/internal/metrics"
	"github.com/Brownie44l1/agro-api/internal/model"
	"github.com/Brownie44l1/agro-api/internal/weather"
)

// app holds the long-lived resources shared by the commands.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	models  *model.Models
	weather *weather.Client
	cache   *weather.RedisCache
	runtime bool
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, withModels bool) (*app, error) {
	a := &app{cfg: cfg, logger: logger, models: &model.Models{}}

	if withModels {
		if err := model.InitRuntime(cfg.OnnxRuntimeLib); err != nil {
			logger.Warn("ONNX runtime unavailable, models disabled", "lib", cfg.OnnxRuntimeLib, "error", err)
		} else {
			a.runtime = true
			logger.Info("Loading models", "dir", cfg.ModelsDir)
			a.models = model.LoadModels(cfg.ModelsDir, logger)
		}
	}

	opts := []weather.Option{
		weather.WithBaseURL(cfg.Weather.BaseURL),
		weather.WithEntries(cfg.Weather.Entries),
		weather.WithHTTPClient(&http.Client{Timeout: cfg.Weather.Timeout}),
		weather.WithLogger(logger),
	}
	if cfg.Cache.RedisAddr != "" {
		a.cache = weather.NewRedisCache(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB,
			weather.WithTTL(cfg.Cache.TTL))

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := a.cache.Ping(pingCtx); err != nil {
			logger.Warn("Forecast cache unreachable, continuing without it", "addr", cfg.Cache.RedisAddr, "error", err)
		}
		opts = append(opts, weather.WithCache(a.cache))
	}
	if cfg.Weather.APIKey == "" {
		logger.Warn("OWM_API_KEY is not set, forecast requests will be rejected by the API")
	}
	a.weather = weather.NewClient(cfg.Weather.APIKey, opts...)

	return a, nil
}

func (a *app) handler() http.Handler {
	deps := handlers.Deps{
		Weather:        a.weather,
		Metrics:        metrics.New(),
		Logger:         a.logger,
		MaxUploadBytes: a.cfg.MaxUploadBytes,
	}
	// Typed nil pointers must not reach Deps.
	if a.models.Disease != nil {
		deps.Disease = a.models.Disease
	}
	if a.models.Species != nil {
		deps.Species = a.models.Species
	}
	if a.models.Yield != nil {
		deps.Yield = a.models.Yield
	}
	return handlers.NewHandler(deps).Routes()
}

func (a *app) Close() {
	a.models.Close()
	if a.cache != nil {
		a.cache.Close()
	}
	if a.runtime {
		model.DestroyRuntime()
	}
}
