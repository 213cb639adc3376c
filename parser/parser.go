// Package parser extracts prices, currency markers, and sale dates from
// the free-form text fragments that marketplace pages expose.
package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	priceRe      = regexp.MustCompile(`\$?\s*([\d,]+(\.\d{1,2})?)`)
	usdMarkerRe  = regexp.MustCompile(`\bUS\b|\$`)
)

// ParsePrice locates the first currency-marked amount in text ("$199.99",
// "US $1,299", "$1,299.50") and returns its numeric value with thousands
// separators removed. The second return is false when the text carries no
// recognizable amount; that is a normal outcome meaning "price unknown",
// not a malformed record.
func ParsePrice(text string) (float64, bool) {
	if text == "" {
		return 0, false
	}
	m := priceRe.FindStringSubmatch(whitespaceRe.ReplaceAllString(text, " "))
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// ContainsUSD reports whether text carries a US-dollar marker. Listings
// without one are treated as foreign-currency and dropped upstream to
// avoid FX guesswork.
func ContainsUSD(text string) bool {
	if text == "" {
		return false
	}
	return usdMarkerRe.MatchString(text)
}
