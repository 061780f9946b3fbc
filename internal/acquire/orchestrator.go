// Package acquire implements the acquisition engine: the level-by-level
// fallback ladder over registered providers, and the cache-aside facade
// collaborators call.
package acquire

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/travelblogr/placemedia/internal/hierarchy"
	"github.com/travelblogr/placemedia/internal/metrics"
	"github.com/travelblogr/placemedia/internal/model"
	"github.com/travelblogr/placemedia/internal/provider"
	"github.com/travelblogr/placemedia/internal/ratelimit"
	"github.com/travelblogr/placemedia/internal/rank"
)

// Orchestrator walks the hierarchy ladder, most specific level first, until
// the accumulated candidate pool satisfies the request target. Providers at
// the same level are queried in parallel; levels are strictly sequential so
// a broad query never fires when a narrow one would have sufficed.
type Orchestrator struct {
	registry *provider.Registry
	tracker  *ratelimit.Tracker
	ranker   *rank.Ranker
}

// NewOrchestrator assembles an orchestrator from its collaborators.
func NewOrchestrator(registry *provider.Registry, tracker *ratelimit.Tracker, ranker *rank.Ranker) *Orchestrator {
	return &Orchestrator{registry: registry, tracker: tracker, ranker: ranker}
}

// Outcome is one ladder walk's merged pool before final ranking. LevelsUsed
// lists the levels that contributed at least one surviving candidate; when
// the whole ladder comes back empty it instead lists every level tried, so
// callers can see how far the walk escalated.
type Outcome struct {
	Candidates      []model.Candidate
	LevelsUsed      []hierarchy.Level
	ProvidersCalled []string
}

// Run executes the ladder for a normalized request. Provider failures and
// budget rejections are absorbed level by level; Run only errors when the
// request itself is unusable. An exhausted ladder yields an Outcome with no
// candidates, not an error.
func (o *Orchestrator) Run(ctx context.Context, req model.AcquisitionRequest) (*Outcome, error) {
	req = req.Normalize()

	levels := req.Hierarchy.Ordered()
	if len(levels) == 0 {
		return nil, eris.Wrap(hierarchy.ErrInvalidLocation, "acquire: hierarchy has no populated levels")
	}

	regs := o.registry.ForKind(req.Kind)
	if len(regs) == 0 {
		return nil, eris.Errorf("acquire: no providers registered for kind %q", req.Kind)
	}

	target := req.MinResults
	if req.Bulk() {
		target = req.BulkQuota
	}

	timer := time.Now()
	out := &Outcome{}
	var tried []hierarchy.Level
	for _, level := range levels {
		if len(out.Candidates) >= target {
			break
		}
		tried = append(tried, level)

		query := req.Hierarchy.Query(level)
		var fetched []model.Candidate
		if req.Bulk() {
			fetched = o.runBulkLevel(ctx, req, level, query, regs, out)
		} else {
			fetched = o.runLevel(ctx, req, level, query, regs, out)
		}
		if len(fetched) == 0 {
			continue
		}

		pool := make([]model.Candidate, 0, len(out.Candidates)+len(fetched))
		pool = append(pool, out.Candidates...)
		pool = append(pool, fetched...)
		merged := o.ranker.Accumulate(pool)
		if len(merged) > len(out.Candidates) {
			out.LevelsUsed = append(out.LevelsUsed, level)
		}
		out.Candidates = merged
	}

	if len(out.Candidates) == 0 {
		out.LevelsUsed = tried
		zap.L().Warn("all levels exhausted",
			zap.String("entity", req.EntityKey),
			zap.String("kind", string(req.Kind)),
			zap.Int("levels_tried", len(tried)))
	}

	metrics.AcquireDuration.WithLabelValues(string(req.Kind)).Observe(time.Since(timer).Seconds())
	zap.L().Debug("ladder walk complete",
		zap.String("entity", req.EntityKey),
		zap.String("kind", string(req.Kind)),
		zap.Int("candidates", len(out.Candidates)),
		zap.Int("levels_used", len(out.LevelsUsed)),
		zap.Strings("providers", out.ProvidersCalled))
	return out, nil
}

// runLevel fans out to every admissible provider at one level. Results are
// collected per provider slot and flattened in registration-priority order,
// so within-level dedupe deterministically keeps the higher-priority copy.
func (o *Orchestrator) runLevel(ctx context.Context, req model.AcquisitionRequest, level hierarchy.Level, query string, regs []provider.Registration, out *Outcome) []model.Candidate {
	results := make([][]model.Candidate, len(regs))

	g := new(errgroup.Group)
	for i, reg := range regs {
		id := reg.Adapter.ID()
		if !o.tracker.Admit(id) {
			metrics.RateLimitRejections.WithLabelValues(id).Inc()
			zap.L().Debug("provider budget exhausted", zap.String("provider", id))
			continue
		}
		out.ProvidersCalled = append(out.ProvidersCalled, id)

		i, reg := i, reg
		g.Go(func() error {
			cands, err := o.search(ctx, reg, query, level, req)
			if err != nil {
				return nil
			}
			results[i] = cands
			return nil
		})
	}
	_ = g.Wait()

	var fetched []model.Candidate
	for _, r := range results {
		fetched = append(fetched, r...)
	}
	return fetched
}

// runBulkLevel is the gallery-mode fast path: only the highest-priority
// admissible provider is consulted, falling through on failure or an empty
// answer.
func (o *Orchestrator) runBulkLevel(ctx context.Context, req model.AcquisitionRequest, level hierarchy.Level, query string, regs []provider.Registration, out *Outcome) []model.Candidate {
	for _, reg := range regs {
		id := reg.Adapter.ID()
		if !o.tracker.Admit(id) {
			metrics.RateLimitRejections.WithLabelValues(id).Inc()
			zap.L().Debug("provider budget exhausted", zap.String("provider", id))
			continue
		}
		out.ProvidersCalled = append(out.ProvidersCalled, id)

		cands, err := o.search(ctx, reg, query, level, req)
		if err != nil || len(cands) == 0 {
			continue
		}
		return cands
	}
	return nil
}

// search runs one provider call under the request's per-provider timeout and
// stamps the level and trust tier onto each returned candidate.
func (o *Orchestrator) search(ctx context.Context, reg provider.Registration, query string, level hierarchy.Level, req model.AcquisitionRequest) ([]model.Candidate, error) {
	id := reg.Adapter.ID()
	metrics.ProviderCalls.WithLabelValues(id).Inc()

	cctx, cancel := context.WithTimeout(ctx, req.ProviderTimeout)
	defer cancel()

	limit := req.MaxResultsPerLevel
	if req.Bulk() {
		limit = req.BulkQuota
	}

	cands, err := reg.Adapter.Search(cctx, query, req.Kind, limit)
	if err != nil {
		err = provider.Classify(err)
		metrics.ProviderErrors.WithLabelValues(id, errorClass(err)).Inc()
		zap.L().Warn("provider search failed",
			zap.String("provider", id),
			zap.Stringer("level", level),
			zap.Error(err))
		return nil, err
	}

	for i := range cands {
		cands[i].SourceLevel = level
		cands[i].Trust = reg.Trust
		if cands[i].ProviderID == "" {
			cands[i].ProviderID = id
		}
	}
	if len(cands) > limit {
		cands = cands[:limit]
	}
	return cands, nil
}

func errorClass(err error) string {
	switch {
	case errors.Is(err, provider.ErrTimeout):
		return "timeout"
	case errors.Is(err, provider.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, provider.ErrMalformed):
		return "malformed"
	default:
		return "transport"
	}
}
