package search

import (
	"strings"

	"card-price-agent/models"
	"card-price-agent/parser"
)

// MineCandidates lifts raw sale candidates out of search hits whose
// snippet text carries a dollar-marked amount. The price field stays a
// raw text fragment; coercion and validation belong to the normalizer,
// not to this mining step.
func MineCandidates(results []Result) []*models.RawCandidate {
	cands := make([]*models.RawCandidate, 0, len(results))
	for _, r := range results {
		fragment, ok := priceFragment(Snippet(r))
		if !ok {
			continue
		}
		cands = append(cands, &models.RawCandidate{
			Source: string(models.SourceWeb),
			Title:  r.Title,
			URL:    r.URL,
			Price:  fragment,
		})
	}
	return cands
}

// Snippet joins the price-bearing text of a search hit.
func Snippet(r Result) string {
	if r.Content == "" {
		return r.Title
	}
	return r.Title + " " + r.Content
}

// priceFragment returns the snippet from its first dollar sign onward.
// Anchoring at the marker keeps stray numbers earlier in the text (card
// numbers, grades) from being mistaken for the price.
func priceFragment(snippet string) (string, bool) {
	idx := strings.Index(snippet, "$")
	if idx < 0 {
		return "", false
	}
	fragment := snippet[idx:]
	if _, ok := parser.ParsePrice(fragment); !ok {
		return "", false
	}
	return fragment, true
}
