package rank

import (
	"sort"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"

	"github.com/travelblogr/placemedia/internal/model"
	"github.com/travelblogr/placemedia/internal/quality"
)

// poiProximityDegrees is the coordinate distance under which two POI
// candidates are treated as the same place (~50m at mid latitudes).
const poiProximityDegrees = 0.0005

// Ranker applies the quality rule set to merge candidates.
type Ranker struct {
	rules *quality.RuleSet
}

// New creates a Ranker. A nil rule set falls back to the built-in defaults.
func New(rules *quality.RuleSet) *Ranker {
	if rules == nil {
		rules = quality.DefaultRules()
	}
	return &Ranker{rules: rules}
}

// Accumulate deduplicates and quality-filters candidates without sorting or
// truncating. The orchestrator evaluates its per-level stop-condition on the
// length of this result, so a level never "satisfies" the minimum with
// candidates that the final pass would reject anyway.
func (r *Ranker) Accumulate(candidates []model.Candidate) []model.Candidate {
	seen := make(map[string]bool, len(candidates))
	var kept []model.Candidate

	for _, c := range candidates {
		c.CanonicalURL = CanonicalURL(c.CanonicalURL)
		if c.CanonicalURL == "" || seen[c.CanonicalURL] {
			continue
		}
		if !r.rules.Evaluate(c).Accepted {
			continue
		}
		if c.HasCoords && nearExisting(kept, c) {
			continue
		}
		seen[c.CanonicalURL] = true
		kept = append(kept, c)
	}
	return kept
}

// Rank produces the final ordered candidate list: canonicalize, filter,
// dedupe keeping the first-seen (highest provider priority) occurrence,
// sort by (source level ascending, score descending), truncate to limit.
func (r *Ranker) Rank(candidates []model.Candidate, limit int) []model.Candidate {
	kept := r.Accumulate(candidates)

	scores := make(map[string]float64, len(kept))
	for _, c := range kept {
		scores[c.CanonicalURL] = r.rules.Evaluate(c).Score
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].SourceLevel != kept[j].SourceLevel {
			return kept[i].SourceLevel < kept[j].SourceLevel
		}
		return scores[kept[i].CanonicalURL] > scores[kept[j].CanonicalURL]
	})

	if limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}
	return kept
}

// nearExisting reports whether a coordinate-bearing candidate sits within
// the proximity threshold of an already-kept one. Different providers list
// the same POI at slightly different coordinates and URLs.
func nearExisting(kept []model.Candidate, c model.Candidate) bool {
	p := geom.Coord{c.Longitude, c.Latitude}
	for _, k := range kept {
		if !k.HasCoords {
			continue
		}
		if xy.Distance(p, geom.Coord{k.Longitude, k.Latitude}) < poiProximityDegrees {
			return true
		}
	}
	return false
}
