package provider

import (
	"context"
	"time"

	"github.com/travelblogr/placemedia/internal/model"
	"github.com/travelblogr/placemedia/pkg/unsplash"
)

// UnsplashAdapter serves image searches from Unsplash, the official-tier
// image source.
type UnsplashAdapter struct {
	client unsplash.Client
}

// NewUnsplash wraps an Unsplash client.
func NewUnsplash(client unsplash.Client) *UnsplashAdapter {
	return &UnsplashAdapter{client: client}
}

// ID implements Adapter.
func (a *UnsplashAdapter) ID() string { return "unsplash" }

// Search implements Adapter.
func (a *UnsplashAdapter) Search(ctx context.Context, query string, kind model.Kind, limit int) ([]model.Candidate, error) {
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
		u := p.URLs.Regular
		if u == "" {
			u = p.URLs.Full
		}
		if u == "" {
			continue
		}
		desc := p.Description
		if desc == "" {
			desc = p.AltDescription
		}
		candidates = append(candidates, model.Candidate{
			CanonicalURL: u,
			Title:        desc,
			Description:  p.AltDescription,
			ProviderID:   a.ID(),
			FetchedAt:    now,
			Author:       p.User.Name,
			AuthorURL:    p.User.Links.HTML,
			SourceURL:    p.Links.HTML,
			SourceScore:  p.Likes,
		})
	}
	return candidates, nil
}
