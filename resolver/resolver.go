// Package resolver guesses the identity of a queried card from free
// text. It is a heuristic convenience for the UI, not part of the
// estimation pipeline's correctness.
package resolver

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"

	"card-price-agent/models"

	lru "github.com/hashicorp/golang-lru/v2"
)

var (
	numberRe = regexp.MustCompile(`\b\d{1,3}/\d{1,3}\b`)
	gradeRe  = regexp.MustCompile(`(?i)\b(PSA|BGS|CGC|SGC)\s*\d{1,2}(\.\d)?\b`)
)

// Resolver extracts card number and grade tokens from queries and caches
// the result; identical queries from the UI arrive in bursts.
type Resolver struct {
	cache *lru.Cache[string, *models.Card]
}

// New builds a resolver with a bounded identity cache.
func New(cacheSize int) (*Resolver, error) {
	cache, err := lru.New[string, *models.Card](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("resolver cache: %w", err)
	}
	return &Resolver{cache: cache}, nil
}

// Resolve parses a free-text query into a card identity. Unrecognized
// queries still resolve: the whole query becomes the name.
func (r *Resolver) Resolve(query string) *models.Card {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	if card, ok := r.cache.Get(query); ok {
		return card
	}

	number := numberRe.FindString(query)
	grade := strings.ToUpper(strings.Join(strings.Fields(gradeRe.FindString(query)), " "))

	name := query
	name = numberRe.ReplaceAllString(name, "")
	name = gradeRe.ReplaceAllString(name, "")
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		name = query
	}

	card := &models.Card{
		ID:     cardID(query),
		Name:   name,
		Number: number,
		Grade:  grade,
	}
	r.cache.Add(query, card)
	return card
}

func cardID(query string) string {
	h := fnv.New64a()
	h.Write([]byte(strings.ToLower(query)))
	return fmt.Sprintf("card-%x", h.Sum64())
}
