package model

import (
	"time"

	"github.com/travelblogr/placemedia/internal/hierarchy"
)

// Defaults applied by AcquisitionRequest.Normalize.
const (
	DefaultMinResults         = 3
	DefaultMaxResultsPerLevel = 5
	DefaultBulkQuota          = 20
	DefaultProviderTimeout    = 3 * time.Second
)

// AcquisitionRequest describes one acquisition run for a named place.
type AcquisitionRequest struct {
	EntityKey          string              `json:"entity_key"`
	Kind               Kind                `json:"kind"`
	Hierarchy          hierarchy.Hierarchy `json:"hierarchy"`
	MinResults         int                 `json:"min_results,omitempty"`
	MaxResultsPerLevel int                 `json:"max_results_per_level,omitempty"`
	BulkQuota          int                 `json:"bulk_quota,omitempty"`
	ProviderTimeout    time.Duration       `json:"provider_timeout,omitempty"`
}

// Normalize returns a copy with defaults filled in for unset fields.
func (r AcquisitionRequest) Normalize() AcquisitionRequest {
	if r.MinResults <= 0 {
		r.MinResults = DefaultMinResults
	}
	if r.MaxResultsPerLevel <= 0 {
		r.MaxResultsPerLevel = DefaultMaxResultsPerLevel
	}
	if r.BulkQuota <= 0 {
		r.BulkQuota = DefaultBulkQuota
	}
	if r.ProviderTimeout <= 0 {
		r.ProviderTimeout = DefaultProviderTimeout
	}
	return r
}

// Bulk reports whether the request runs in gallery mode: the per-level
// ceiling has been raised to the bulk quota, enabling the orchestrator's
// single-provider fast path.
func (r AcquisitionRequest) Bulk() bool {
	return r.MaxResultsPerLevel >= r.BulkQuota
}

// AcquisitionResult is what the facade hands back to collaborators.
type AcquisitionResult struct {
	Candidates      []Candidate       `json:"candidates"`
	LevelsUsed      []hierarchy.Level `json:"levels_used"`
	CacheHit        bool              `json:"cache_hit"`
	ProvidersCalled []string          `json:"providers_called,omitempty"`
}
