package parser

import (
	"regexp"
	"time"
)

// Marketplaces caption sold items as "Sold Oct 10, 2025" or "Sold 10/10/25".
var soldDateRe = regexp.MustCompile(`(?i)Sold\s+([A-Za-z]{3}\s+\d{1,2},\s+\d{4}|\d{1,2}/\d{1,2}/\d{2,4})`)

var soldDateLayouts = []string{
	"Jan 2, 2006",
	"1/2/2006",
	"1/2/06",
}

// ParseSoldDate searches caption text for a sale-date marker and returns
// it as an RFC3339 UTC instant, or the empty string when no parseable
// date is present. An unknown date never fails the record: downstream
// range filters keep records with unknown dates rather than dropping
// possibly-relevant comps on ambiguous provenance.
func ParseSoldDate(text string) string {
	m := soldDateRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	for _, layout := range soldDateLayouts {
		if t, err := time.Parse(layout, m[1]); err == nil {
			return t.UTC().Format(time.RFC3339)
		}
	}
	return ""
}
