package pixabay

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.Handler, opts Options) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	if opts.BaseURL == "" {
		opts.BaseURL = server.URL + "/api/"
	}
	if opts.Key == "" {
		opts.Key = "test-key"
	}
	opts.RequestsPerSec = 1000 // don't rate limit tests

	client, err := NewClient(opts, zap.NewNop())
	require.NoError(t, err)
	return client, server
}

func hitsJSON(totalHits int, ids ...int) string {
	hits := ""
	for i, id := range ids {
		if i > 0 {
			hits += ","
		}
		hits += fmt.Sprintf(`{"id":%d,"tags":"tag%d","user":"user%d","likes":%d}`, id, id, id, id*10)
	}
	return fmt.Sprintf(`{"totalHits":%d,"hits":[%s]}`, totalHits, hits)
}

func TestSearchPhotosMapsResponse(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "cat", r.URL.Query().Get("q"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		fmt.Fprint(w, hitsJSON(45, 7, 8))
	})
	client, _ := newTestClient(t, handler, Options{PerPage: 20})

	page, err := client.SearchPhotos(context.Background(), "cat", 2)
	require.NoError(t, err)

	require.Len(t, page.Photos, 2)
	assert.Equal(t, int64(7), page.Photos[0].ID)
	assert.Equal(t, "tag7", page.Photos[0].Tags)
	assert.Equal(t, "user7", page.Photos[0].User)
	assert.Equal(t, 70, page.Photos[0].Likes)
	assert.Equal(t, 3, page.TotalPages, "45 hits at 20 per page is 3 pages")
}

func TestSearchPhotosZeroHitsMeansZeroPages(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, hitsJSON(0))
	})
	client, _ := newTestClient(t, handler, Options{})

	page, err := client.SearchPhotos(context.Background(), "xyzzy", 1)
	require.NoError(t, err)
	assert.Empty(t, page.Photos)
	assert.Equal(t, 0, page.TotalPages)
}

func TestSearchPhotosCapsPagesAtResultWindow(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, hitsJSON(120000, 1))
	})
	client, _ := newTestClient(t, handler, Options{PerPage: 20})

	page, err := client.SearchPhotos(context.Background(), "cat", 1)
	require.NoError(t, err)
	assert.Equal(t, 25, page.TotalPages, "pages past the 500-result window are unreachable")
}

func TestSearchPhotosAPIErrorIsTyped(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `[ERROR 400] "page" is out of valid range.`)
	})
	client, _ := newTestClient(t, handler, Options{})

	_, err := client.SearchPhotos(context.Background(), "cat", 99)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "out of valid range")
}

func TestSearchPhotosPassesThroughCancellation(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	defer close(release)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
	})
	client, _ := newTestClient(t, handler, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := client.SearchPhotos(ctx, "cat", 1)
		errCh <- err
	}()

	<-started
	cancel()

	err := <-errCh
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestSearchPhotosCachesPages(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		fmt.Fprint(w, hitsJSON(5, 1, 2))
	})
	client, _ := newTestClient(t, handler, Options{})

	first, err := client.SearchPhotos(context.Background(), "cat", 1)
	require.NoError(t, err)
	second, err := client.SearchPhotos(context.Background(), "cat", 1)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), requests.Load(), "second lookup must be served from cache")

	// A different page is a different cache entry.
	_, err = client.SearchPhotos(context.Background(), "cat", 2)
	require.NoError(t, err)
	assert.Equal(t, int32(2), requests.Load())
}

func TestFetchKeywords(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `["sunset","mountains","coffee"]`)
	})
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Options{
		Key:            "test-key",
		KeywordsURL:    server.URL + "/keywords.json",
		RequestsPerSec: 1000,
	}, zap.NewNop())
	require.NoError(t, err)

	keywords, err := client.FetchKeywords(context.Background())
	require.NoError(t, err)
	require.Len(t, keywords, 3)
	assert.Equal(t, "sunset", keywords[0].Word)
	assert.False(t, keywords[0].Selected)
}

func TestFetchKeywordsFailsWhenUnconfigured(t *testing.T) {
	t.Parallel()

	client, err := NewClient(Options{Key: "test-key"}, zap.NewNop())
	require.NoError(t, err)

	_, err = client.FetchKeywords(context.Background())
	assert.Error(t, err)
}
