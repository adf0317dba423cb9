// Package app wires configuration, clients and services into the graph shared
// by the HTTP server and the CLI.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aicaremanager/backend/internal/adapters/cache"
	"github.com/aicaremanager/backend/internal/adapters/facilities"
	"github.com/aicaremanager/backend/internal/api/handlers"
	"github.com/aicaremanager/backend/internal/api/routes"
	"github.com/aicaremanager/backend/internal/application/services"
	"github.com/aicaremanager/backend/internal/domain/entities"
	"github.com/aicaremanager/backend/internal/domain/providers"
	"github.com/aicaremanager/backend/internal/infrastructure/clients/datagokr"
	"github.com/aicaremanager/backend/internal/infrastructure/clients/openai"
	"github.com/aicaremanager/backend/internal/infrastructure/clients/redis"
	"github.com/aicaremanager/backend/internal/infrastructure/observability"
	"github.com/aicaremanager/backend/pkg/config"
)

// recordCacheClock times record cache entries. It must keep the monotonic
// reading of time.Now; converting to a location drops it.
var recordCacheClock = time.Now

// App holds the wired services
type App struct {
	Config    *config.Config
	Metrics   *observability.Metrics
	Source    providers.FacilitySource
	Pharmacy  *services.PharmacyStatusService
	Nearby    *services.NearbyService
	Triage    *services.TriageService
	VoiceTurn *services.VoiceTurnService

	closers []func()
}

// New builds the service graph. A nil metrics is allowed.
func New(ctx context.Context, cfg *config.Config, metrics *observability.Metrics) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	logger := observability.GetLogger()
	a := &App{Config: cfg, Metrics: metrics}

	recordCache := a.recordCache(ctx)
	upstream := datagokr.NewClient(&cfg.DataGoKr, metrics)
	a.Source = facilities.NewCachedSource(upstream, recordCache, metrics)

	keywords := services.DefaultTriageKeywords()
	if cfg.Triage.KeywordsPath != "" {
		loaded, err := services.LoadTriageKeywords(cfg.Triage.KeywordsPath)
		if err != nil {
			return nil, err
		}
		keywords = loaded
		logger.Info().Str("path", cfg.Triage.KeywordsPath).Msg("triage keywords loaded")
	}

	a.Pharmacy = services.NewPharmacyStatusService(a.Source)
	a.Nearby = services.NewNearbyService(a.Source)
	a.Triage = services.NewTriageService(keywords, metrics)

	var advisor providers.AdvisoryProvider
	if cfg.OpenAI.APIKey != "" {
		client, err := openai.NewClient(&cfg.OpenAI)
		if err != nil {
			logger.Warn().Err(err).Msg("openai advisor disabled")
		} else {
			advisor = client
			a.closers = append(a.closers, client.Close)
			logger.Info().Str("model", cfg.OpenAI.Model).Msg("openai advisor enabled")
		}
	}

	a.VoiceTurn = services.NewVoiceTurnService(
		a.Triage,
		a.Nearby,
		services.NewRankingService(),
		services.NewAdvisoryComposer(),
		advisor,
		entities.RegionScope{Province: cfg.Region.DefaultProvince, District: cfg.Region.DefaultDistrict},
	)

	return a, nil
}

// recordCache selects the raw record cache backend. An unreachable Redis
// degrades to the in-process cache.
func (a *App) recordCache(ctx context.Context) providers.RecordCache {
	cfg := a.Config
	logger := observability.GetLogger()

	if cfg.Cache.Backend == "redis" {
		client, err := redis.NewClient(ctx, &cfg.Redis)
		if err == nil {
			a.closers = append(a.closers, func() { _ = client.Close() })
			logger.Info().Dur("ttl", cfg.Cache.TTL()).Msg("record cache backed by redis")
			return cache.NewRedisRecordCache(cache.NewRedisAdapter(client), cfg.Cache.TTL())
		}
		logger.Warn().Err(err).Msg("redis unavailable, using in-memory record cache")
	}

	return cache.NewMemoryRecordCache(cfg.Cache.TTL(), recordCacheClock)
}

// Handler returns the HTTP handler with all routes and middleware
func (a *App) Handler() http.Handler {
	configured := a.Config.DataGoKr.Configured()
	router := routes.NewRouter(
		handlers.NewPharmacyHandler(a.Pharmacy, configured),
		handlers.NewNearbyHandler(a.Nearby, configured),
		handlers.NewVoiceTurnHandler(a.VoiceTurn),
		a.Config.Server.AllowedOrigins,
		a.Metrics,
	)
	return router.SetupRoutes()
}

// Close releases clients opened by New
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
