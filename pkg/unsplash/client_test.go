package unsplash

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/photos", r.URL.Path)
		assert.Equal(t, "Amizmiz Morocco", r.URL.Query().Get("query"))
		assert.Equal(t, "5", r.URL.Query().Get("per_page"))
		assert.Equal(t, "landscape", r.URL.Query().Get("orientation"))
		assert.Equal(t, "Client-ID test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "v1", r.Header.Get("Accept-Version"))

		w.Write([]byte(`{
			"total": 1,
			"results": [{
				"id": "abc",
				"description": "Valley panorama",
				"alt_description": "mountains under blue sky",
				"likes": 42,
				"urls": {"regular": "https://images.unsplash.com/abc?w=1080", "full": "https://images.unsplash.com/abc"},
				"links": {"html": "https://unsplash.com/photos/abc"},
				"user": {"name": "A. Photographer", "links": {"html": "https://unsplash.com/@aphotographer"}}
			}]
		}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	photos, err := c.Search(context.Background(), "Amizmiz Morocco", 5)
	require.NoError(t, err)

	require.Len(t, photos, 1)
	assert.Equal(t, "Valley panorama", photos[0].Description)
	assert.Equal(t, 42, photos[0].Likes)
	assert.Equal(t, "https://images.unsplash.com/abc?w=1080", photos[0].URLs.Regular)
	assert.Equal(t, "A. Photographer", photos[0].User.Name)
}

func TestSearchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient("bad-key", WithBaseURL(srv.URL))
	_, err := c.Search(context.Background(), "x", 5)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode())
}

func TestSearchMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>rate limited</html>`))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := c.Search(context.Background(), "x", 5)
	assert.Error(t, err)
}
