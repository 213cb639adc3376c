// Package models defines the data structures exchanged by the service.
package models

// Source tags the origin of a sale record.
type Source string

const (
	// SourceEbay marks comps scraped from eBay sold-listings pages.
	SourceEbay Source = "ebay"
	// SourceWeb marks comps extracted from general web search results.
	SourceWeb Source = "web"
)

// USD is the only currency retained downstream; listings priced in
// anything else are rejected rather than converted.
const USD = "USD"

// Sale represents one observed completed transaction.
type Sale struct {
	Source   Source  `json:"source"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	URL      string  `json:"url"`
	SoldAt   string  `json:"soldAt"` // RFC3339 instant, empty when unknown
	Shipping float64 `json:"shipping,omitempty"`
}

// Total returns the full cost of the transaction, price plus shipping.
func (s *Sale) Total() float64 {
	return s.Price + s.Shipping
}

// RawCandidate is a listing-like object of unknown shape, as produced by
// an upstream extraction step. Every field is loosely typed until the
// normalizer has coerced or rejected it.
type RawCandidate struct {
	Source   any `json:"source"`
	Title    any `json:"title"`
	Price    any `json:"price"`
	Currency any `json:"currency"`
	URL      any `json:"url"`
	SoldAt   any `json:"soldAt"`
	Shipping any `json:"shipping"`
}

// WorthEstimate is the point estimate and spread for one query. Nil
// median and range signal that too few trustworthy comps survived.
type WorthEstimate struct {
	Median *float64    `json:"median"`
	Range  *[2]float64 `json:"range"`
	Count  int         `json:"count"`
}

// WeeklyBucket is one point of the charting timeseries.
type WeeklyBucket struct {
	Week   string  `json:"week"` // zero-padded "YYYY-WW" UTC ISO week key
	Median float64 `json:"median"`
	N      int     `json:"n"`
}

// Query is the search context supplied by the caller.
type Query struct {
	Query    string `json:"query"`
	DateFrom string `json:"dateFrom,omitempty"` // ISO date, inclusive
	DateTo   string `json:"dateTo,omitempty"`   // ISO date, inclusive
	Grade    string `json:"grade,omitempty"`
}

// AgentResponse is the full payload returned for one estimation request.
type AgentResponse struct {
	Worth      WorthEstimate  `json:"worth"`
	Sales      []*Sale        `json:"sales"`
	Timeseries []WeeklyBucket `json:"timeseries"`
	Citations  []string       `json:"citations"`
	Notes      string         `json:"notes,omitempty"`
}

// Card is the resolved identity of a queried card.
type Card struct {
	ID     string `json:"cardId"`
	Name   string `json:"name"`
	Number string `json:"number,omitempty"`
	Grade  string `json:"grade,omitempty"`
}
