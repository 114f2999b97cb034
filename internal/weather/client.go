// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jeranaias/plates/internal/offline"
)

// Configuration constants for the OpenWeather API.
const (
	// DefaultBaseURL is the OpenWeather current-weather endpoint root.
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

	// IconURLFormat turns an OpenWeather icon code into an image URL.
	IconURLFormat = "https://openweathermap.org/img/wn/%s@2x.png"

	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 10 * time.Second

	// DefaultMinInterval is the minimum spacing between two API requests.
	DefaultMinInterval = 30 * time.Second

	// MaxResponseSize caps the body read from the API.
	MaxResponseSize = 1 << 20
)

// Units selects the measurement system.
type Units string

const (
	Imperial Units = "imperial"
	Metric   Units = "metric"
	Standard Units = "standard"
)

// Symbol returns the temperature suffix for the units.
func (u Units) Symbol() string {
	switch u {
	case Metric:
		return "°C"
	case Standard:
		return "K"
	default:
		return "°F"
	}
}

var (
	// ErrNotConfigured indicates the API key is not set.
	ErrNotConfigured = errors.New("OpenWeather API key not configured")

	// ErrNoConditions indicates the API answered without a weather entry.
	ErrNoConditions = errors.New("weather response has no conditions")
)

// APIError is a non-2xx answer from OpenWeather.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("OpenWeather error (HTTP %d): %s", e.Status, e.Message)
}

// Conditions is what the home screen displays.
type Conditions struct {
	Temperature string `json:"temperature"`
	Icon        string `json:"icon"`
}

type currentResponse struct {
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Icon string `json:"icon"`
	} `json:"weather"`
	Message string `json:"message"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the OpenWeather API.
type Client struct {
	apiKey     string
	baseURL    string
	units      Units
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a client using apiKey.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    DefaultBaseURL,
		units:      Imperial,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Every(DefaultMinInterval), 1),
	}
}

// WithBaseURL sets a custom base URL for the API.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimSuffix(u, "/")
	return c
}

// WithUnits sets the measurement system. Unknown values keep imperial.
func (c *Client) WithUnits(u Units) *Client {
	switch u {
	case Imperial, Metric, Standard:
		c.units = u
	}
	return c
}

// WithMinInterval sets the minimum spacing between requests. Zero disables
// rate limiting.
func (c *Client) WithMinInterval(d time.Duration) *Client {
	if d <= 0 {
		c.limiter = rate.NewLimiter(rate.Inf, 1)
	} else {
		c.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
	return c
}

// WithHTTPClient replaces the HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// IsConfigured returns true if the client has an API key.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// Current fetches the current conditions at (lat, lon).
func (c *Client) Current(ctx context.Context, lat, lon float64) (Conditions, error) {
	if !c.IsConfigured() {
		return Conditions{}, ErrNotConfigured
	}
	if err := offline.CheckNetworkAllowed(); err != nil {
		return Conditions{}, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return Conditions{}, fmt.Errorf("weather rate limit: %w", err)
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("appid", c.apiKey)
	q.Set("units", string(c.units))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/weather?"+q.Encode(), nil)
	if err != nil {
		return Conditions{}, fmt.Errorf("failed to build weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Conditions{}, fmt.Errorf("failed to send weather request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return Conditions{}, fmt.Errorf("failed to read weather response: %w", err)
	}

	var parsed currentResponse
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(body))
		if json.Unmarshal(body, &parsed) == nil && parsed.Message != "" {
			msg = parsed.Message
		}
		return Conditions{}, &APIError{Status: resp.StatusCode, Message: msg}
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Conditions{}, fmt.Errorf("failed to parse weather response: %w", err)
	}
	if len(parsed.Weather) == 0 {
		return Conditions{}, ErrNoConditions
	}

	return Conditions{
		Temperature: FormatTemperature(parsed.Main.Temp, c.units),
		Icon:        fmt.Sprintf(IconURLFormat, parsed.Weather[0].Icon),
	}, nil
}

// FormatTemperature rounds to whole degrees and appends the unit symbol.
func FormatTemperature(temp float64, units Units) string {
	return fmt.Sprintf("%.0f%s", temp, units.Symbol())
}
