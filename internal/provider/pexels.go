package provider

import (
	"context"
	"time"

	"github.com/travelblogr/placemedia/internal/model"
	"github.com/travelblogr/placemedia/pkg/pexels"
)

// PexelsAdapter serves image searches from Pexels, the curated-tier image
// source.
type PexelsAdapter struct {
	client pexels.Client
}

// NewPexels wraps a Pexels client.
func NewPexels(client pexels.Client) *PexelsAdapter {
	return &PexelsAdapter{client: client}
}

// ID implements Adapter.
func (a *PexelsAdapter) ID() string { return "pexels" }

// Search implements Adapter.
func (a *PexelsAdapter) Search(ctx context.Context, query string, kind model.Kind, limit int) ([]model.Candidate, error) {
	if kind != model.KindImage {
		return nil, nil
	}

	photos, err := a.client.Search(ctx, query, limit)
	if err != nil {
		return nil, Classify(err)
	}

	now := time.Now().UTC()
	candidates := make([]model.Candidate, 0, len(photos))
	for _, p := range photos {
		u := p.Src.Large
		if u == "" {
			u = p.Src.Original
		}
		if u == "" {
			continue
		}
		candidates = append(candidates, model.Candidate{
			CanonicalURL: u,
			Title:        p.Alt,
			ProviderID:   a.ID(),
			FetchedAt:    now,
			Author:       p.Photographer,
			AuthorURL:    p.PhotographerURL,
			SourceURL:    p.URL,
		})
	}
	return candidates, nil
}
