// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const sampleResponse = `{
  "items": [
    {"title": "Cat", "link": "https://a.example/cat", "snippet": "a cat",
     "pagemap": {"cse_image": [{"src": "https://img/cat.png"}], "cse_thumbnail": [{"src": "https://img/cat-thumb.png"}]}},
    {"title": "Dog", "link": "https://a.example/dog", "snippet": "a dog",
     "pagemap": {"cse_thumbnail": [{"src": "https://img/dog-thumb.png"}]}},
    {"title": "Fish", "link": "https://a.example/fish", "snippet": "a fish"}
  ]
}`

func TestClient_Search(t *testing.T) {
	var query atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query.Store(r.URL.Query())
		w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	c := NewClient("key", "cx").WithBaseURL(srv.URL).WithLimiter(nil)
	results, err := c.Search(context.Background(), "  pets ")
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "https://img/cat.png", results[0].ImageURL, "cse_image wins over thumbnail")
	assert.Equal(t, "https://img/dog-thumb.png", results[1].ImageURL)
	assert.Empty(t, results[2].ImageURL)
	assert.Equal(t, "Fish", results[2].Title)

	q := query.Load().(url.Values)
	assert.Equal(t, "pets", q.Get("q"))
	assert.Equal(t, "image", q.Get("searchType"))
	assert.Equal(t, "cx", q.Get("cx"))
}

func TestClient_NoItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	results, err := NewClient("k", "cx").WithBaseURL(srv.URL).WithLimiter(nil).Search(context.Background(), "x")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestClient_PlaceholderFallbacks(t *testing.T) {
	t.Run("missing credentials", func(t *testing.T) {
		results, err := NewClient("", "cx").Search(context.Background(), "go")
		require.NoError(t, err)
		assert.Equal(t, Placeholder("go"), results)
	})

	t.Run("api error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"quota"}`, http.StatusForbidden)
		}))
		defer srv.Close()

		results, err := NewClient("k", "cx").WithBaseURL(srv.URL).WithLimiter(nil).Search(context.Background(), "go")
		require.NoError(t, err)
		require.Len(t, results, 4)
		assert.Equal(t, "Search result 1 for go", results[0].Title)
	})
}

func TestClient_ErrorBodyLogKeepsRunes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(strings.Repeat("é", 3*maxLoggedBody)))
	}))
	defer srv.Close()

	core, logs := observer.New(zap.WarnLevel)
	c := NewClient("k", "cx").WithBaseURL(srv.URL).WithLimiter(nil).WithLogger(zap.New(core))
	_, err := c.Search(context.Background(), "q")
	require.NoError(t, err)

	entries := logs.FilterMessage("search API error, using placeholder results").All()
	require.Len(t, entries, 1)
	body := entries[0].ContextMap()["body"].(string)
	assert.True(t, utf8.ValidString(body), "logged body must not end mid-rune")
	assert.Equal(t, maxLoggedBody, utf8.RuneCountInString(body))
	assert.True(t, strings.HasSuffix(body, "..."))
}

func TestClient_Errors(t *testing.T) {
	_, err := NewClient("k", "cx").Search(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items": [`))
	}))
	defer srv.Close()
	_, err = NewClient("k", "cx").WithBaseURL(srv.URL).WithLimiter(nil).Search(context.Background(), "q")
	assert.Error(t, err)
}

func TestPlaceholder(t *testing.T) {
	results := Placeholder("tea")
	require.Len(t, results, 4)
	assert.Empty(t, results[2].ImageURL)
	for _, r := range results {
		assert.Contains(t, r.Title, "tea")
		assert.NotEmpty(t, r.Link)
	}
}
