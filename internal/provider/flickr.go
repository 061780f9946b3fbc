package provider

import (
	"context"
	"time"

	"github.com/travelblogr/placemedia/internal/model"
	"github.com/travelblogr/placemedia/pkg/flickr"
)

// FlickrAdapter serves image searches from the Flickr public feed,
// community tier.
type FlickrAdapter struct {
	client flickr.Client
}

// NewFlickr wraps a Flickr client.
func NewFlickr(client flickr.Client) *FlickrAdapter {
	return &FlickrAdapter{client: client}
}

// ID implements Adapter.
func (a *FlickrAdapter) ID() string { return "flickr" }

// Search implements Adapter.
func (a *FlickrAdapter) Search(ctx context.Context, query string, kind model.Kind, limit int) ([]model.Candidate, error) {
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
		if p.Media.M == "" {
			continue
		}
		candidates = append(candidates, model.Candidate{
			CanonicalURL: flickr.LargeURL(p.Media.M),
			Title:        p.Title,
			Description:  p.Tags,
			ProviderID:   a.ID(),
			FetchedAt:    now,
			Author:       flickr.AuthorName(p.Author),
			SourceURL:    p.Link,
		})
	}
	return candidates, nil
}
