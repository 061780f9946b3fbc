package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/travelblogr/placemedia/internal/acquire"
	"github.com/travelblogr/placemedia/internal/cache"
	"github.com/travelblogr/placemedia/internal/config"
	"github.com/travelblogr/placemedia/internal/model"
	"github.com/travelblogr/placemedia/internal/provider"
	"github.com/travelblogr/placemedia/internal/quality"
	"github.com/travelblogr/placemedia/internal/rank"
	"github.com/travelblogr/placemedia/internal/ratelimit"
	"github.com/travelblogr/placemedia/pkg/flickr"
	"github.com/travelblogr/placemedia/pkg/opentripmap"
	"github.com/travelblogr/placemedia/pkg/overpass"
	"github.com/travelblogr/placemedia/pkg/pexels"
	"github.com/travelblogr/placemedia/pkg/pinterest"
	"github.com/travelblogr/placemedia/pkg/reddit"
	"github.com/travelblogr/placemedia/pkg/unsplash"
)

// engine bundles the wired acquisition stack shared by the commands.
type engine struct {
	Facade   *acquire.Facade
	Registry *provider.Registry
	Tracker  *ratelimit.Tracker
	Store    cache.Store
}

// Close releases the cache backend.
func (e *engine) Close() {
	if err := e.Store.Close(); err != nil {
		zap.L().Warn("closing cache store", zap.Error(err))
	}
}

// buildEngine assembles the facade from configuration.
func buildEngine(ctx context.Context) (*engine, error) {
	store, err := buildStore(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}

	registry := provider.NewRegistry()
	if err := registerProviders(registry, cfg.Providers); err != nil {
		_ = store.Close()
		return nil, err
	}

	rules, err := loadRules(cfg.Quality)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	tracker := ratelimit.NewTracker(budgets(cfg.RateLimit))
	ranker := rank.New(rules)
	orch := acquire.NewOrchestrator(registry, tracker, ranker)
	facade := acquire.NewFacade(orch, store, ranker)

	zap.L().Info("engine ready",
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.Strings("providers", registry.IDs()))

	return &engine{
		Facade:   facade,
		Registry: registry,
		Tracker:  tracker,
		Store:    store,
	}, nil
}

func buildStore(ctx context.Context, c config.CacheConfig) (cache.Store, error) {
	switch c.Backend {
	case "", "memory":
		return cache.NewMemory(), nil
	case "redis":
		return cache.NewRedis(ctx, cache.RedisOptions{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		})
	case "sqlite":
		return cache.NewSQLite(c.SQLitePath)
	case "postgres":
		return cache.NewPostgres(ctx, c.DatabaseURL)
	default:
		return nil, eris.Errorf("config: unknown cache backend %q", c.Backend)
	}
}

// registerProviders wires every configured adapter. Providers missing their
// credentials are skipped, not errored: a deployment with only the keyless
// community sources is valid.
func registerProviders(registry *provider.Registry, pc config.ProvidersConfig) error {
	var regs []provider.Registration

	if pc.UnsplashKey != "" {
		regs = append(regs, provider.Registration{
			Adapter:  provider.NewUnsplash(unsplash.NewClient(pc.UnsplashKey)),
			Kind:     model.KindImage,
			Priority: 1,
			Trust:    model.TrustOfficial,
		})
	}
	if pc.PexelsKey != "" {
		regs = append(regs, provider.Registration{
			Adapter:  provider.NewPexels(pexels.NewClient(pc.PexelsKey)),
			Kind:     model.KindImage,
			Priority: 2,
			Trust:    model.TrustCurated,
		})
	}
	if pc.FlickrEnabled {
		regs = append(regs, provider.Registration{
			Adapter:  provider.NewFlickr(flickr.NewClient(pc.UserAgent)),
			Kind:     model.KindImage,
			Priority: 3,
			Trust:    model.TrustCommunity,
		})
	}
	if pc.RedditEnabled {
		regs = append(regs, provider.Registration{
			Adapter:  provider.NewReddit(reddit.NewClient(pc.UserAgent)),
			Kind:     model.KindImage,
			Priority: 4,
			Trust:    model.TrustCommunity,
		})
	}
	if pc.PinterestEnabled {
		regs = append(regs, provider.Registration{
			Adapter:  provider.NewPinterest(pinterest.NewClient(pc.UserAgent)),
			Kind:     model.KindImage,
			Priority: 5,
			Trust:    model.TrustCommunity,
		})
	}

	if pc.OpenTripMapKey != "" {
		regs = append(regs, provider.Registration{
			Adapter:  provider.NewOpenTripMap(opentripmap.NewClient(pc.OpenTripMapKey)),
			Kind:     model.KindPOI,
			Priority: 1,
			Trust:    model.TrustCurated,
		})
	}
	regs = append(regs, provider.Registration{
		Adapter:  provider.NewOverpass(overpass.NewClient(pc.UserAgent, overpass.WithBaseURL(pc.OverpassURL))),
		Kind:     model.KindPOI,
		Priority: 2,
		Trust:    model.TrustCommunity,
	})

	for _, reg := range regs {
		if err := registry.Register(reg); err != nil {
			return err
		}
	}
	return nil
}

func loadRules(qc config.QualityConfig) (*quality.RuleSet, error) {
	if qc.RulesPath == "" {
		return quality.DefaultRules(), nil
	}
	return quality.LoadRules(qc.RulesPath)
}

func budgets(rc config.RateLimitConfig) map[string]ratelimit.Budget {
	if rc.DefaultLimit > 0 {
		ratelimit.DefaultBudget = ratelimit.Budget{
			Limit:  rc.DefaultLimit,
			Window: time.Duration(rc.DefaultWindowSecs) * time.Second,
		}
	}
	out := make(map[string]ratelimit.Budget, len(rc.Providers))
	for id, b := range rc.Providers {
		out[id] = ratelimit.Budget{
			Limit:  b.Limit,
			Window: time.Duration(b.WindowSecs) * time.Second,
		}
	}
	return out
}
