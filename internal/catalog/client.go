// Package catalog talks to the external movie metadata provider (TMDB).
// All identifiers returned by the provider are treated as opaque; the rest
// of the system only ever compares them for string equality.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

// Result is one entry of the provider's mixed-type search page. Movies carry
// title/release_date, TV shows name/first_air_date, people name/profile_path.
type Result struct {
	ID           int64    `json:"id"`
	MediaType    string   `json:"media_type"`
	Title        string   `json:"title,omitempty"`
	Name         string   `json:"name,omitempty"`
	PosterPath   *string  `json:"poster_path,omitempty"`
	ProfilePath  *string  `json:"profile_path,omitempty"`
	Overview     string   `json:"overview,omitempty"`
	Popularity   float64  `json:"popularity,omitempty"`
	ReleaseDate  string   `json:"release_date,omitempty"`
	FirstAirDate string   `json:"first_air_date,omitempty"`
	GenreIDs     []int64  `json:"genre_ids,omitempty"`
	VoteAverage  *float64 `json:"vote_average,omitempty"`
}

type searchResponse struct {
	Page         int      `json:"page"`
	Results      []Result `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

// Client is an HTTP client for the catalog provider with a circuit breaker
// in front, so a flapping upstream sheds load instead of tying up request
// goroutines in timeouts.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	breaker    *gobreaker.CircuitBreaker[[]Result]
}

// NewClient builds a catalog client for the given base URL and API key.
func NewClient(baseURL, apiKey string) *Client {
	settings := gobreaker.Settings{
		Name:        "catalog",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("[Catalog] Circuit breaker %s: %s -> %s", name, from, to)
		},
	}

	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		breaker:    gobreaker.NewCircuitBreaker[[]Result](settings),
	}
}

// SearchMulti runs the provider's mixed search (movies, TV, people in one
// ranked page) and returns page 1 in the provider's own order.
func (c *Client) SearchMulti(ctx context.Context, query string) ([]Result, error) {
	return c.breaker.Execute(func() ([]Result, error) {
		return c.searchMulti(ctx, query)
	})
}

func (c *Client) searchMulti(ctx context.Context, query string) ([]Result, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("language", "en-US")
	params.Set("query", query)
	params.Set("page", "1")
	params.Set("include_adult", "false")

	endpoint := c.baseURL + "/search/multi?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog responded with status %d", resp.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}

	return payload.Results, nil
}

// DisplayName returns the human name of a result regardless of media type.
func (r Result) DisplayName() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Name
}

// CatalogID renders the provider id in the opaque string form the rest of
// the system stores.
func (r Result) CatalogID() string {
	return strconv.FormatInt(r.ID, 10)
}
