// Package comps turns noisy sale candidates into trustworthy comparables
// and derives robust price statistics from them. Everything here is pure
// data transformation over already-fetched records; no I/O.
package comps

import (
	"strings"
	"time"

	"card-price-agent/models"
	"card-price-agent/parser"
)

// Candidate pairs a normalized sale with the raw price text it came from.
// The currency filter still needs the text: "US $199.99" and "EUR 199,99"
// normalize to the same number but only one of them is usable.
type Candidate struct {
	Sale      *models.Sale
	PriceText string
}

// Filter is a pure predicate over a candidate. Filters must be free of
// side effects so the chain stays idempotent.
type Filter func(c *Candidate) bool

// Chain is an ordered, short-circuiting sequence of filters: the first
// rejecting filter drops the candidate and no later stage runs.
type Chain []Filter

// Keep reports whether every filter in the chain accepts c.
func (ch Chain) Keep(c *Candidate) bool {
	if c == nil || c.Sale == nil {
		return false
	}
	for _, f := range ch {
		if !f(c) {
			return false
		}
	}
	return true
}

// Apply returns the candidates that pass the whole chain, preserving
// input order.
func (ch Chain) Apply(cands []*Candidate) []*Candidate {
	out := make([]*Candidate, 0, len(cands))
	for _, c := range cands {
		if ch.Keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// DefaultChain assembles the standard filter order for the scraping path:
// currency, price bounds, grade, date range, junk-title exclusion.
func DefaultChain(q models.Query, maxPrice float64, junkTerms []string) Chain {
	return Chain{
		USDOnly(),
		PriceBounds(0, maxPrice),
		GradeMatch(q.Grade),
		DateRange(q.DateFrom, q.DateTo),
		ExcludeJunk(junkTerms),
	}
}

// USDOnly rejects listings without a recognizable US-dollar marker in
// their price text. Candidates that carry no price text (the extracted
// ingestion path, where currency was coerced during normalization) pass
// on the normalized currency code instead.
func USDOnly() Filter {
	return func(c *Candidate) bool {
		if c.PriceText != "" {
			return parser.ContainsUSD(c.PriceText)
		}
		return c.Sale.Currency == models.USD
	}
}

// PriceBounds rejects sales whose base price falls outside (min, max).
// The scraping path uses a tighter bound than the estimator's own guard
// because scraped junk is noisier.
func PriceBounds(min, max float64) Filter {
	return func(c *Candidate) bool {
		return c.Sale.Price > min && c.Sale.Price < max
	}
}

// GradeMatch requires the listing title to contain the grade filter as a
// case-insensitive substring. An empty grade always passes.
func GradeMatch(grade string) Filter {
	g := strings.ToLower(strings.TrimSpace(grade))
	return func(c *Candidate) bool {
		if g == "" {
			return true
		}
		return strings.Contains(strings.ToLower(c.Sale.Title), g)
	}
}

// DateRange keeps sales whose date falls within [from, to] inclusive.
// Unknown or unparseable dates always pass: an unknown date is not the
// same as an out-of-range one, and possibly-relevant data is preferred
// over certainty here. Bounds that fail to parse impose no constraint.
func DateRange(from, to string) Filter {
	fromT, hasFrom := parseInstant(from)
	toT, hasTo := parseInstant(to)
	return func(c *Candidate) bool {
		t, ok := parseInstant(c.Sale.SoldAt)
		if !ok {
			return true
		}
		if hasFrom && t.Before(fromT) {
			return false
		}
		if hasTo && t.After(toT) {
			return false
		}
		return true
	}
}

// ExcludeJunk rejects titles containing any denylisted quality-degrading
// term (bundle sales, proxies, damage). The list is policy, not law;
// config owns it.
func ExcludeJunk(terms []string) Filter {
	lowered := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			lowered = append(lowered, t)
		}
	}
	return func(c *Candidate) bool {
		title := strings.ToLower(c.Sale.Title)
		for _, term := range lowered {
			if strings.Contains(title, term) {
				return false
			}
		}
		return true
	}
}

var instantLayouts = []string{time.RFC3339, "2006-01-02"}

func parseInstant(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
