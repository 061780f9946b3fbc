package provider

import (
	"context"
	"time"

	"github.com/travelblogr/placemedia/internal/model"
	"github.com/travelblogr/placemedia/pkg/pinterest"
)

// PinterestAdapter serves image searches from Pinterest's public pin search,
// community tier.
type PinterestAdapter struct {
	client pinterest.Client
}

// NewPinterest wraps a Pinterest client.
func NewPinterest(client pinterest.Client) *PinterestAdapter {
	return &PinterestAdapter{client: client}
}

// ID implements Adapter.
func (a *PinterestAdapter) ID() string { return "pinterest" }

// Search implements Adapter.
func (a *PinterestAdapter) Search(ctx context.Context, query string, kind model.Kind, limit int) ([]model.Candidate, error) {
	if kind != model.KindImage {
		return nil, nil
	}

	pins, err := a.client.Search(ctx, query, limit)
	if err != nil {
		return nil, Classify(err)
	}

	now := time.Now().UTC()
	candidates := make([]model.Candidate, 0, len(pins))
	for _, p := range pins {
		img := pinterest.BestImageURL(p)
		if img == "" {
			continue
		}
		candidates = append(candidates, model.Candidate{
			CanonicalURL: img,
			Title:        pinterest.DisplayTitle(p),
			ProviderID:   a.ID(),
			FetchedAt:    now,
			Author:       p.Pinner.Username,
			AuthorURL:    p.Pinner.ProfileURL,
			SourceScore:  p.Aggregated.Stats.Saves,
		})
	}
	return candidates, nil
}
