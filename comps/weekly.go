package comps

import (
	"fmt"
	"sort"
	"time"

	"card-price-agent/models"
)

// PricePoint is one dated total-cost observation.
type PricePoint struct {
	SoldAt string
	Price  float64
}

// GroupByWeek buckets dated price points into UTC ISO week groups for
// charting. Points with unparseable instants are discarded, so a week
// with no valid-date sales produces no bucket. Each bucket carries the
// lower-middle median (no averaging on even counts) and the sample
// count. Buckets come back sorted ascending by week key; the zero-padded
// "YYYY-WW" key sorts lexicographically in chronological order.
func GroupByWeek(points []PricePoint) []models.WeeklyBucket {
	grouped := make(map[string][]float64)
	for _, p := range points {
		t, err := time.Parse(time.RFC3339, p.SoldAt)
		if err != nil {
			continue
		}
		year, week := t.UTC().ISOWeek()
		key := fmt.Sprintf("%d-%02d", year, week)
		grouped[key] = append(grouped[key], p.Price)
	}

	out := make([]models.WeeklyBucket, 0, len(grouped))
	for key, prices := range grouped {
		sort.Float64s(prices)
		out = append(out, models.WeeklyBucket{
			Week:   key,
			Median: prices[len(prices)/2],
			N:      len(prices),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Week < out[j].Week })
	return out
}
