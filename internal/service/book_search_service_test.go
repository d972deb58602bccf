package service

import (
	"bookgraph_backend/internal/config"
	"bookgraph_backend/internal/util"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const volumesFixture = `{
	"totalItems": 5,
	"items": [
		{
			"id": "ok1",
			"volumeInfo": {
				"title": "The Rust Programming Language",
				"authors": ["Steve Klabnik", "Carol Nichols"],
				"description": "The official book.",
				"pageCount": 560,
				"language": "en",
				"categories": ["Computers"],
				"imageLinks": {"thumbnail": "http://example.com/t1.jpg"}
			}
		},
		{
			"id": "no-desc",
			"volumeInfo": {
				"title": "Incomplete Book",
				"authors": ["Someone"],
				"pageCount": 100,
				"language": "en"
			}
		},
		{
			"id": "no-pages",
			"volumeInfo": {
				"title": "Pageless",
				"authors": ["Someone"],
				"description": "No page count.",
				"language": "en"
			}
		},
		{
			"id": "wrong-lang",
			"volumeInfo": {
				"title": "Un Libro",
				"authors": ["Alguien"],
				"description": "No es inglés.",
				"pageCount": 200,
				"language": "es"
			}
		},
		{
			"id": "ok2",
			"volumeInfo": {
				"title": "Programming Rust",
				"authors": ["Jim Blandy"],
				"description": "Fast, safe systems development.",
				"pageCount": 700,
				"language": "en"
			}
		}
	]
}`

func newSearchService(t *testing.T, handler http.HandlerFunc) *BookSearchService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewBookSearchService(config.BooksConfig{
		BaseURL:    srv.URL,
		APIKey:     "test-key",
		MaxResults: 40,
	}, nil)
}

func TestSearchFiltersIncompleteEntries(t *testing.T) {
	svc := newSearchService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(volumesFixture))
	})

	result, err := svc.Search(context.Background(), "rust")
	require.NoError(t, err)

	// 缺描述、缺页数、非英文的条目都被过滤
	require.Len(t, result.Items, 2)
	assert.Equal(t, "ok1", result.Items[0].ID)
	assert.Equal(t, "ok2", result.Items[1].ID)
	assert.Equal(t, 2, result.TotalItems)
	assert.Equal(t, []string{"Steve Klabnik", "Carol Nichols"}, result.Items[0].Authors)
	assert.Equal(t, "http://example.com/t1.jpg", result.Items[0].Thumbnail)
}

func TestSearchRequestParameters(t *testing.T) {
	svc := newSearchService(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "rust async", q.Get("q"))
		assert.Equal(t, "test-key", q.Get("key"))
		assert.Equal(t, "40", q.Get("maxResults"))
		assert.Equal(t, "books", q.Get("printType"))
		assert.Equal(t, "en", q.Get("langRestrict"))
		w.Write([]byte(`{"items": []}`))
	})

	result, err := svc.Search(context.Background(), "rust async")
	require.NoError(t, err)
	assert.Empty(t, result.Items)
}

func TestSearchUpstreamError(t *testing.T) {
	svc := newSearchService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := svc.Search(context.Background(), "rust")
	require.Error(t, err)
	assert.ErrorIs(t, err, util.ErrBooksUpstream)
}

func TestSearchUpstreamBadJSON(t *testing.T) {
	svc := newSearchService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	})

	_, err := svc.Search(context.Background(), "rust")
	require.Error(t, err)
	assert.ErrorIs(t, err, util.ErrBooksUpstream)
}
