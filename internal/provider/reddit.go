package provider

import (
	"context"
	"time"

	"github.com/travelblogr/placemedia/internal/model"
	"github.com/travelblogr/placemedia/pkg/reddit"
)

// RedditAdapter serves image searches from the photography subreddits,
// community tier.
type RedditAdapter struct {
	client reddit.Client
}

// NewReddit wraps a Reddit client.
func NewReddit(client reddit.Client) *RedditAdapter {
	return &RedditAdapter{client: client}
}

// ID implements Adapter.
func (a *RedditAdapter) ID() string { return "reddit" }

// Search implements Adapter.
func (a *RedditAdapter) Search(ctx context.Context, query string, kind model.Kind, limit int) ([]model.Candidate, error) {
	if kind != model.KindImage {
		return nil, nil
	}

	posts, err := a.client.Search(ctx, query, limit)
	if err != nil {
		return nil, Classify(err)
	}

	now := time.Now().UTC()
	candidates := make([]model.Candidate, 0, len(posts))
	for _, p := range posts {
		candidates = append(candidates, model.Candidate{
			CanonicalURL: p.URL,
			Title:        p.Title,
			ProviderID:   a.ID(),
			FetchedAt:    now,
			Author:       p.Author,
			AuthorURL:    "https://reddit.com/u/" + p.Author,
			SourceURL:    "https://reddit.com" + p.Permalink,
			SourceScore:  p.Score,
		})
	}
	return candidates, nil
}
