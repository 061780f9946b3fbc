package reddit

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listingBody(posts ...string) string {
	children := ""
	for i, p := range posts {
		if i > 0 {
			children += ","
		}
		children += p
	}
	return fmt.Sprintf(`{"data":{"children":[%s]}}`, children)
}

func post(title, url string, score int) string {
	return fmt.Sprintf(`{"data":{"title":%q,"url":%q,"author":"u1","score":%d,"permalink":"/r/x/comments/1/","subreddit":"x"}}`, title, url, score)
}

func TestSearchCollectsImagePosts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/r/earthporn/search.json", r.URL.Path)
		assert.Equal(t, "amizmiz", r.URL.Query().Get("q"))
		assert.Equal(t, "1", r.URL.Query().Get("restrict_sr"))
		assert.Equal(t, "top", r.URL.Query().Get("sort"))
		w.Write([]byte(listingBody(
			post("Valley panorama", "https://i.redd.it/abc.jpg", 120),
			post("Self post", "https://www.reddit.com/r/earthporn/comments/2/", 50),
			post("Imgur shot", "https://i.imgur.com/def", 30),
		)))
	}))
	defer srv.Close()

	c := NewClient("test-agent",
		WithBaseURL(srv.URL),
		WithSubreddits([]string{"earthporn"}))

	posts, err := c.Search(context.Background(), "amizmiz", 10)
	require.NoError(t, err)

	require.Len(t, posts, 2, "non-image posts are skipped")
	assert.Equal(t, "Valley panorama", posts[0].Title)
	assert.Equal(t, 120, posts[0].Score)
	assert.Equal(t, "/r/x/comments/1/", posts[0].Permalink)
}

func TestSearchSkipsNSFW(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"children":[
			{"data":{"title":"ok","url":"https://i.redd.it/a.jpg","over_18":false}},
			{"data":{"title":"nope","url":"https://i.redd.it/b.jpg","over_18":true}}
		]}}`))
	}))
	defer srv.Close()

	c := NewClient("test-agent",
		WithBaseURL(srv.URL),
		WithSubreddits([]string{"earthporn"}))

	posts, err := c.Search(context.Background(), "x", 10)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "ok", posts[0].Title)
}

func TestSearchSkipsFailedSubreddits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/r/broken/search.json" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(listingBody(post("Skyline", "https://i.redd.it/c.jpg", 10))))
	}))
	defer srv.Close()

	c := NewClient("test-agent",
		WithBaseURL(srv.URL),
		WithSubreddits([]string{"broken", "cityporn"}))

	posts, err := c.Search(context.Background(), "x", 10)
	require.NoError(t, err, "one failing subreddit must not fail the search")
	require.Len(t, posts, 1)
	assert.Equal(t, "Skyline", posts[0].Title)
}

func TestSearchAllSubredditsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("test-agent",
		WithBaseURL(srv.URL),
		WithSubreddits([]string{"a", "b"}))

	_, err := c.Search(context.Background(), "x", 10)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode())
}

func TestSearchStopsAtLimit(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(listingBody(
			post("One", "https://i.redd.it/1.jpg", 1),
			post("Two", "https://i.redd.it/2.jpg", 2),
		)))
	}))
	defer srv.Close()

	c := NewClient("test-agent",
		WithBaseURL(srv.URL),
		WithSubreddits([]string{"a", "b", "c"}))

	posts, err := c.Search(context.Background(), "x", 2)
	require.NoError(t, err)
	assert.Len(t, posts, 2)
	assert.Equal(t, 1, hits, "later subreddits are skipped once the limit is met")
}

func TestIsImageURL(t *testing.T) {
	assert.True(t, IsImageURL("https://example.com/a.JPG"))
	assert.True(t, IsImageURL("https://i.redd.it/xyz"))
	assert.True(t, IsImageURL("https://i.imgur.com/xyz"))
	assert.False(t, IsImageURL("https://www.reddit.com/r/pics/comments/1/"))
	assert.False(t, IsImageURL("https://example.com/page.html"))
}
