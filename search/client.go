// Package search wraps the Tavily web-search API, the collaborator
// behind the extracted ingestion path.
package search

import (
	"context"
	"errors"
	"fmt"

	"card-price-agent/config"

	"github.com/go-resty/resty/v2"
)

// ErrMissingAPIKey is returned when the collaborator is invoked without a
// credential. Callers treat it as a configuration failure, not as an
// empty result.
var ErrMissingAPIKey = errors.New("search: missing TAVILY_API_KEY")

const (
	maxResultsCeiling = 20
	titleLimit        = 200
	contentLimit      = 400
)

// Result is one web search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content,omitempty"`
}

// Client calls the Tavily search API.
type Client struct {
	apiKey         string
	includeDomains []string
	http           *resty.Client
}

// NewClient builds a search client from cfg.
func NewClient(cfg *config.Config) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.TavilyBaseURL).
		SetTimeout(cfg.Timeout)
	return &Client{
		apiKey:         cfg.TavilyAPIKey,
		includeDomains: cfg.IncludeDomains,
		http:           httpClient,
	}
}

// HTTPClient exposes the underlying client so tests can install a mock
// transport.
func (c *Client) HTTPClient() *resty.Client {
	return c.http
}

// Search runs one query. maxResults is clamped to [1, 20]; zero or
// negative picks the API default of 8. domains, when nil, falls back to
// the configured trusted-domain allowlist.
func (c *Client) Search(ctx context.Context, query string, maxResults int, domains []string) ([]Result, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if maxResults <= 0 {
		maxResults = 8
	}
	if maxResults > maxResultsCeiling {
		maxResults = maxResultsCeiling
	}
	if domains == nil {
		domains = c.includeDomains
	}

	// Tavily wants the key in the request body, not a header.
	body := map[string]any{
		"api_key":      c.apiKey,
		"query":        query,
		"max_results":  maxResults,
		"search_depth": "advanced",
	}
	if len(domains) > 0 {
		body["include_domains"] = domains
	}

	var payload struct {
		Results []Result `json:"results"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&payload).
		Post("/search")
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("search: tavily returned %s", resp.Status())
	}

	results := make([]Result, 0, len(payload.Results))
	for _, r := range payload.Results {
		if r.URL == "" {
			continue
		}
		results = append(results, Result{
			Title:   truncate(r.Title, titleLimit),
			URL:     r.URL,
			Content: truncate(r.Content, contentLimit),
		})
	}
	return results, nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
