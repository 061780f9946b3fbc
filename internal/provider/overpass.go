package provider

import (
	"context"
	"time"

	"github.com/travelblogr/placemedia/internal/model"
	"github.com/travelblogr/placemedia/pkg/overpass"
)

// OverpassAdapter serves POI searches from OpenStreetMap via Overpass,
// community tier.
type OverpassAdapter struct {
	client overpass.Client
}

// NewOverpass wraps an Overpass client.
func NewOverpass(client overpass.Client) *OverpassAdapter {
	return &OverpassAdapter{client: client}
}

// ID implements Adapter.
func (a *OverpassAdapter) ID() string { return "overpass" }

// Search implements Adapter.
func (a *OverpassAdapter) Search(ctx context.Context, query string, kind model.Kind, limit int) ([]model.Candidate, error) {
	if kind != model.KindPOI {
		return nil, nil
	}

	// Overpass matches area names exactly; strip the country suffix the
	// resolver appends for the search-engine providers.
	area := query
	if idx := lastSpace(query); idx > 0 {
		area = query[:idx]
	}

	elements, err := a.client.Search(ctx, area, limit)
	if err != nil {
		return nil, Classify(err)
	}

	now := time.Now().UTC()
	candidates := make([]model.Candidate, 0, len(elements))
	for _, e := range elements {
		name := e.Tags["name"]
		if name == "" {
			continue
		}
		candidates = append(candidates, model.Candidate{
			CanonicalURL: overpass.NodeURL(e.ID),
			Title:        name,
			Description:  e.Tags["tourism"],
			ProviderID:   a.ID(),
			FetchedAt:    now,
			Latitude:     e.Lat,
			Longitude:    e.Lon,
			HasCoords:    true,
		})
	}
	return candidates, nil
}

func lastSpace(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == ' ' {
			return i
		}
	}
	return -1
}
