package provider

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/travelblogr/placemedia/internal/model"
)

// Registry holds the static provider registrations, ordered by priority
// within each kind. It is assembled once at startup and read-only afterwards.
type Registry struct {
	byKind map[model.Kind][]Registration
	byID   map[string]Registration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byKind: make(map[model.Kind][]Registration),
		byID:   make(map[string]Registration),
	}
}

// Register adds an adapter registration. Duplicate IDs are rejected so a
// misconfigured provider list fails at startup, not at request time.
func (r *Registry) Register(reg Registration) error {
	id := reg.Adapter.ID()
	if _, exists := r.byID[id]; exists {
		return eris.Errorf("provider: duplicate registration %q", id)
	}
	r.byID[id] = reg

	regs := append(r.byKind[reg.Kind], reg)
	sort.SliceStable(regs, func(i, j int) bool {
		return regs[i].Priority < regs[j].Priority
	})
	r.byKind[reg.Kind] = regs
	return nil
}

// ForKind returns registrations serving kind, highest priority first.
func (r *Registry) ForKind(kind model.Kind) []Registration {
	regs := r.byKind[kind]
	out := make([]Registration, len(regs))
	copy(out, regs)
	return out
}

// Get returns the registration for a provider ID.
func (r *Registry) Get(id string) (Registration, bool) {
	reg, ok := r.byID[id]
	return reg, ok
}

// IDs returns every registered provider ID, grouped by kind priority order.
func (r *Registry) IDs() []string {
	var out []string
	for _, kind := range []model.Kind{model.KindImage, model.KindPOI} {
		for _, reg := range r.byKind[kind] {
			out = append(out, reg.Adapter.ID())
		}
	}
	return out
}
