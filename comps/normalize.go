package comps

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"card-price-agent/models"
	"card-price-agent/parser"
)

// NormalizeExtracted converts a loosely-typed candidate produced by an
// upstream extraction step into a validated Sale, or rejects it by
// returning nil. Rejection, not panic: arbitrary-shape input is expected
// here.
//
// Defaults differ deliberately from the scraping path: an absent or
// unparseable sale date becomes now, because on this path an approximate
// but present date degrades estimation more gracefully than an unknown
// one. Scraped candidates keep ambiguous dates unknown instead.
func NormalizeExtracted(raw *models.RawCandidate, now time.Time) *models.Sale {
	if raw == nil {
		return nil
	}

	title := coerceString(raw.Title)
	url := coerceString(raw.URL)
	if title == "" || url == "" {
		return nil
	}

	price, ok := coerceNumber(raw.Price)
	if !ok {
		return nil
	}

	shipping, ok := coerceNumber(raw.Shipping)
	if !ok || shipping < 0 {
		shipping = 0
	}

	currency := coerceString(raw.Currency)
	if currency == "" {
		currency = models.USD
	}

	source := models.Source(coerceString(raw.Source))
	if source == "" {
		source = models.SourceWeb
	}

	soldAt := coerceString(raw.SoldAt)
	if t, ok := parseInstant(soldAt); ok {
		soldAt = t.UTC().Format(time.RFC3339)
	} else {
		soldAt = now.UTC().Format(time.RFC3339)
	}

	return &models.Sale{
		Source:   source,
		Title:    title,
		Price:    price,
		Currency: currency,
		URL:      url,
		SoldAt:   soldAt,
		Shipping: shipping,
	}
}

func coerceString(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// coerceNumber accepts the numeric shapes JSON decoding and extraction
// realistically produce, including price-bearing strings like "US $42.50".
func coerceNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case string:
		return parser.ParsePrice(n)
	default:
		return 0, false
	}
}
