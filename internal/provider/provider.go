// Package provider defines the uniform adapter contract for upstream media
// sources and the priority-ordered registry the orchestrator fans out over.
package provider

import (
	"context"

	"github.com/travelblogr/placemedia/internal/model"
)

// Adapter is the uniform client for one upstream source. Search returns an
// empty slice (not an error) when the upstream legitimately has zero
// matches, and one of the typed errors in errors.go on failure. Adapters
// never panic into the caller.
type Adapter interface {
	// ID returns the stable provider identifier used in budgets, logs,
	// metrics, and Candidate.ProviderID.
	ID() string
	// Search queries the upstream for candidates matching query.
	Search(ctx context.Context, query string, kind model.Kind, limit int) ([]model.Candidate, error)
}

// Registration binds an adapter to its static metadata: the kind it serves,
// its priority rank within that kind (lower rank queried first), and the
// publisher trust tier stamped onto its candidates. Registrations happen at
// startup; there is no dynamic provider discovery at request time.
type Registration struct {
	Adapter  Adapter
	Kind     model.Kind
	Priority int
	Trust    model.TrustTier
}
