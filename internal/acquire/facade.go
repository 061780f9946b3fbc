package acquire

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/travelblogr/placemedia/internal/cache"
	"github.com/travelblogr/placemedia/internal/hierarchy"
	"github.com/travelblogr/placemedia/internal/metrics"
	"github.com/travelblogr/placemedia/internal/model"
	"github.com/travelblogr/placemedia/internal/rank"
)

// Invalidator is notified after a refetch swaps a fresh entry into the
// cache, so downstream layers holding derived artifacts can drop them.
type Invalidator interface {
	Invalidate(ctx context.Context, keys ...string) error
}

// Facade is the engine's entry point: cache-aside reads in front of the
// orchestrator, with concurrent identical requests collapsed onto a single
// ladder walk.
type Facade struct {
	orch        *Orchestrator
	store       cache.Store
	ranker      *rank.Ranker
	group       singleflight.Group
	invalidator Invalidator
	now         func() time.Time
}

// FacadeOption customizes a Facade.
type FacadeOption func(*Facade)

// WithInvalidator registers a downstream invalidation hook fired on refetch.
func WithInvalidator(inv Invalidator) FacadeOption {
	return func(f *Facade) { f.invalidator = inv }
}

// WithNow sets a fixed clock for testing.
func WithNow(now func() time.Time) FacadeOption {
	return func(f *Facade) { f.now = now }
}

// NewFacade assembles the facade.
func NewFacade(orch *Orchestrator, store cache.Store, ranker *rank.Ranker, opts ...FacadeOption) *Facade {
	f := &Facade{
		orch:   orch,
		store:  store,
		ranker: ranker,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Acquire returns ranked candidates for the request, from cache when a live
// entry exists. Cache backend failures degrade to a direct ladder walk; they
// never fail the request.
func (f *Facade) Acquire(ctx context.Context, req model.AcquisitionRequest) (*model.AcquisitionResult, error) {
	req = req.Normalize()
	if err := validate(req); err != nil {
		return nil, err
	}
	key := cache.RequestKey(req)

	entry, ok, err := f.store.Get(ctx, key)
	if err != nil {
		metrics.CacheErrors.WithLabelValues("get").Inc()
		zap.L().Warn("cache read failed, degrading to direct fetch",
			zap.String("key", key), zap.Error(err))
	}
	if ok {
		metrics.CacheHits.WithLabelValues(string(req.Kind)).Inc()
		return &model.AcquisitionResult{
			Candidates: entry.Candidates,
			LevelsUsed: entry.LevelsUsed,
			CacheHit:   true,
		}, nil
	}
	metrics.CacheMisses.WithLabelValues(string(req.Kind)).Inc()

	v, err, _ := f.group.Do(key, func() (any, error) {
		return f.fetch(ctx, req, key)
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.AcquisitionResult), nil
}

// fetch runs the ladder, ranks the pool, and writes the entry back. Empty
// outcomes are returned but not cached, so a later request can retry once
// providers recover.
func (f *Facade) fetch(ctx context.Context, req model.AcquisitionRequest, key string) (*model.AcquisitionResult, error) {
	outcome, err := f.orch.Run(ctx, req)
	if err != nil {
		return nil, err
	}

	ranked := f.ranker.Rank(outcome.Candidates, resultLimit(req))
	result := &model.AcquisitionResult{
		Candidates:      ranked,
		LevelsUsed:      outcome.LevelsUsed,
		ProvidersCalled: outcome.ProvidersCalled,
	}
	if len(ranked) == 0 {
		return result, nil
	}

	ttl := cache.TTLFor(req.Kind)
	entry := &cache.Entry{
		Key:        key,
		Candidates: ranked,
		LevelsUsed: outcome.LevelsUsed,
		CreatedAt:  f.now(),
		TTL:        ttl,
	}
	if err := f.store.Set(ctx, key, entry, ttl); err != nil {
		metrics.CacheErrors.WithLabelValues("set").Inc()
		zap.L().Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return result, nil
}

// Refetch forces a fresh ladder walk and swaps the result into the cache.
// The walk runs first, against the still-live cache entry: only once fresh
// candidates exist is the old entry deleted and replaced, so a failing
// refetch never destroys the last known good data. On an empty outcome the
// cached entry is kept untouched.
func (f *Facade) Refetch(ctx context.Context, req model.AcquisitionRequest) (*model.AcquisitionResult, error) {
	req = req.Normalize()
	if err := validate(req); err != nil {
		return nil, err
	}
	key := cache.RequestKey(req)

	outcome, err := f.orch.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	ranked := f.ranker.Rank(outcome.Candidates, resultLimit(req))
	result := &model.AcquisitionResult{
		Candidates:      ranked,
		LevelsUsed:      outcome.LevelsUsed,
		ProvidersCalled: outcome.ProvidersCalled,
	}
	if len(ranked) == 0 {
		zap.L().Warn("refetch yielded no candidates, keeping cached entry",
			zap.String("key", key))
		return result, nil
	}

	related := cache.RelatedKey(key)
	if err := f.store.Delete(ctx, key, related); err != nil {
		metrics.CacheErrors.WithLabelValues("delete").Inc()
		return nil, eris.Wrapf(err, "acquire: evicting %s", key)
	}

	ttl := cache.TTLFor(req.Kind)
	entry := &cache.Entry{
		Key:        key,
		Candidates: ranked,
		LevelsUsed: outcome.LevelsUsed,
		CreatedAt:  f.now(),
		TTL:        ttl,
	}
	if err := f.store.Set(ctx, key, entry, ttl); err != nil {
		metrics.CacheErrors.WithLabelValues("set").Inc()
		return nil, eris.Wrapf(err, "acquire: storing %s", key)
	}

	if f.invalidator != nil {
		if err := f.invalidator.Invalidate(ctx, key, related); err != nil {
			zap.L().Warn("downstream invalidation failed",
				zap.String("key", key), zap.Error(err))
		}
	}
	return result, nil
}

func validate(req model.AcquisitionRequest) error {
	if req.EntityKey == "" {
		return eris.Wrap(hierarchy.ErrInvalidLocation, "acquire: empty entity key")
	}
	if len(req.Hierarchy.Ordered()) == 0 {
		return eris.Wrap(hierarchy.ErrInvalidLocation, "acquire: hierarchy has no populated levels")
	}
	if _, err := model.ParseKind(string(req.Kind)); err != nil {
		return err
	}
	return nil
}

func resultLimit(req model.AcquisitionRequest) int {
	if req.Bulk() {
		return req.BulkQuota
	}
	return req.MaxResultsPerLevel
}
