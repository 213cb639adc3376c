package comps

import (
	"strings"

	"card-price-agent/models"
)

// DedupeByURL collapses records that refer to the same listing. The URL
// with its query string stripped is the identity key; the first-seen
// occurrence wins and later ones are dropped. Records without a URL are
// dropped outright: they can be neither deduplicated nor cited.
// Order of survivors matches input order.
func DedupeByURL(sales []*models.Sale) []*models.Sale {
	seen := make(map[string]struct{}, len(sales))
	out := make([]*models.Sale, 0, len(sales))
	for _, s := range sales {
		if s == nil || s.URL == "" {
			continue
		}
		key, _, _ := strings.Cut(s.URL, "?")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
