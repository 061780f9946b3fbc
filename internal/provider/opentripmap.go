package provider

import (
	"context"
	"strings"
	"time"

	"github.com/travelblogr/placemedia/internal/model"
	"github.com/travelblogr/placemedia/pkg/opentripmap"
)

// OpenTripMapAdapter serves POI searches from OpenTripMap, curated tier.
type OpenTripMapAdapter struct {
	client opentripmap.Client
}

// NewOpenTripMap wraps an OpenTripMap client.
func NewOpenTripMap(client opentripmap.Client) *OpenTripMapAdapter {
	return &OpenTripMapAdapter{client: client}
}

// ID implements Adapter.
func (a *OpenTripMapAdapter) ID() string { return "opentripmap" }

// Search implements Adapter.
func (a *OpenTripMapAdapter) Search(ctx context.Context, query string, kind model.Kind, limit int) ([]model.Candidate, error) {
	if kind != model.KindPOI {
		return nil, nil
	}

	places, err := a.client.Search(ctx, query, limit)
	if err != nil {
		return nil, Classify(err)
	}

	now := time.Now().UTC()
	candidates := make([]model.Candidate, 0, len(places))
	for _, p := range places {
		candidates = append(candidates, model.Candidate{
			CanonicalURL: opentripmap.CardURL(p.XID),
			Title:        p.Name,
			Description:  strings.ReplaceAll(p.Kinds, ",", ", "),
			ProviderID:   a.ID(),
			FetchedAt:    now,
			SourceScore:  p.Rate,
			Latitude:     p.Lat,
			Longitude:    p.Lon,
			HasCoords:    true,
		})
	}
	return candidates, nil
}
