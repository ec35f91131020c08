package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrNoMatch signals the address search produced no usable result. Callers
// should ask for a more specific address rather than treat this as fatal.
var ErrNoMatch = errors.New("no matching address")

const defaultBaseURL = "https://nominatim.openstreetmap.org"

// Resolved is a forward-geocoded address.
type Resolved struct {
	Lat            float64
	Lng            float64
	DisplayAddress string
}

// Client talks to a Nominatim-compatible address search API.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewClient creates a geocoding client. An empty baseURL selects the public
// Nominatim endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: "branchout/1.0",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

type reverseResult struct {
	DisplayName string `json:"display_name"`
}

// Forward resolves a free-text address to coordinates. Every failure mode,
// whether a blank address, zero results, a transport error, or a malformed
// payload, reports ErrNoMatch so callers have a single recoverable outcome.
func (c *Client) Forward(ctx context.Context, address string) (Resolved, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Resolved{}, ErrNoMatch
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", address)
	params.Set("limit", "1")

	var results []searchResult
	if err := c.get(ctx, "/search", params, &results); err != nil {
		return Resolved{}, ErrNoMatch
	}
	if len(results) == 0 {
		return Resolved{}, ErrNoMatch
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Resolved{}, ErrNoMatch
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Resolved{}, ErrNoMatch
	}

	return Resolved{Lat: lat, Lng: lng, DisplayAddress: results[0].DisplayName}, nil
}

// Reverse resolves coordinates to a display address. It returns the empty
// string on any failure; callers treat that as "no address available".
func (c *Client) Reverse(ctx context.Context, lat, lng float64) string {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))

	var result reverseResult
	if err := c.get(ctx, "/reverse", params, &result); err != nil {
		return ""
	}
	return result.DisplayName
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geocode request failed: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
