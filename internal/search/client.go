// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/jeranaias/plates/internal/offline"
	"github.com/jeranaias/plates/internal/util"
)

const (
	// DefaultBaseURL is the Custom Search JSON API endpoint.
	DefaultBaseURL = "https://www.googleapis.com/customsearch/v1"

	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 15 * time.Second

	// DefaultRate is the sustained number of requests per second.
	DefaultRate = 1.0

	// DefaultBurst is the number of requests allowed back to back.
	DefaultBurst = 3

	// MaxResponseSize caps the body read from the API.
	MaxResponseSize = 2 << 20

	maxLoggedBody = 200

	placeholderImage = "https://via.placeholder.com/120x90"
)

// ErrEmptyQuery is returned for a blank query.
var ErrEmptyQuery = errors.New("search query is empty")

// Result is a single search hit.
type Result struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
	ImageURL string `json:"image_url,omitempty"`
}

type apiResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
		Pagemap *struct {
			CseImage     []struct{ Src string } `json:"cse_image"`
			CseThumbnail []struct{ Src string } `json:"cse_thumbnail"`
		} `json:"pagemap"`
	} `json:"items"`
}

// Client is a Custom Search client. The zero value is not usable; use
// NewClient.
type Client struct {
	apiKey     string
	engineID   string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewClient creates a client. Empty credentials put it in placeholder mode.
func NewClient(apiKey, engineID string) *Client {
	return &Client{
		apiKey:     strings.TrimSpace(apiKey),
		engineID:   strings.TrimSpace(engineID),
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRate), DefaultBurst),
		logger:     zap.NewNop(),
	}
}

// WithBaseURL sets a custom endpoint.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

// WithHTTPClient replaces the HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// WithLimiter replaces the request limiter. Nil disables limiting.
func (c *Client) WithLimiter(l *rate.Limiter) *Client {
	if l == nil {
		l = rate.NewLimiter(rate.Inf, 1)
	}
	c.limiter = l
	return c
}

// WithLogger sets the logger.
func (c *Client) WithLogger(l *zap.Logger) *Client {
	if l != nil {
		c.logger = l
	}
	return c
}

// IsConfigured reports whether both credentials are present.
func (c *Client) IsConfigured() bool {
	return c.apiKey != "" && c.engineID != ""
}

// Search runs an image search for query.
//
// Missing credentials and API errors fall back to placeholder results.
// Transport and decoding failures are returned.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if !c.IsConfigured() {
		c.logger.Warn("search credentials missing, using placeholder results")
		return Placeholder(query), nil
	}
	if err := offline.CheckNetworkAllowed(); err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("search rate limit: %w", err)
	}

	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("cx", c.engineID)
	q.Set("q", query)
	q.Set("searchType", "image")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send search request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("search API error, using placeholder results",
			zap.Int("status", resp.StatusCode),
			zap.String("body", logBody(body)))
		return Placeholder(query), nil
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	results := make([]Result, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		r := Result{Title: item.Title, Link: item.Link, Snippet: item.Snippet}
		if pm := item.Pagemap; pm != nil {
			switch {
			case len(pm.CseImage) > 0:
				r.ImageURL = pm.CseImage[0].Src
			case len(pm.CseThumbnail) > 0:
				r.ImageURL = pm.CseThumbnail[0].Src
			}
		}
		results = append(results, r)
	}
	return results, nil
}

// Placeholder returns the fixed results used when the API is unavailable.
func Placeholder(query string) []Result {
	return []Result{
		{
			Title:    fmt.Sprintf("Search result 1 for %s", query),
			Link:     "https://example.com/result1",
			Snippet:  "This is a description of the first search result. It provides a brief overview of what the page contains.",
			ImageURL: placeholderImage,
		},
		{
			Title:    fmt.Sprintf("Search result 2 for %s", query),
			Link:     "https://example.com/result2",
			Snippet:  "Another search result with different information. This one might be more relevant to your query.",
			ImageURL: placeholderImage,
		},
		{
			Title:   fmt.Sprintf("Search result 3 for %s", query),
			Link:    "https://example.com/result3",
			Snippet: "A third search result with additional information about the topic you searched for.",
		},
		{
			Title:    fmt.Sprintf("Search result 4 for %s", query),
			Link:     "https://example.com/result4",
			Snippet:  "This result contains more detailed information about your search query and related topics.",
			ImageURL: placeholderImage,
		},
	}
}

// logBody shortens an error body for the log without splitting a rune.
func logBody(body []byte) string {
	return util.TruncateRunes(string(body), maxLoggedBody)
}
