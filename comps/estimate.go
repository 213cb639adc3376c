package comps

import (
	"sort"

	"card-price-agent/models"
)

const (
	// MinComps is the smallest sample an estimate may be computed from.
	MinComps = 3

	// DefaultTrim is the fraction discarded from each end of the sorted
	// sample before taking the median.
	DefaultTrim = 0.1

	// The estimator's own sanity bound. Wider than the scraping path's
	// bound on purpose: records may arrive from either ingestion path,
	// so validity is re-checked here regardless of upstream filtering.
	maxSanePrice = 1_000_000
)

// InsufficientMsg explains a degraded estimate to the caller.
const InsufficientMsg = "Not enough comps"

// Result is the outcome of one estimation. Nil Median and Range signal
// insufficient data; Samples is the count of values that survived the
// sanity re-check.
type Result struct {
	Median  *float64
	Range   *[2]float64
	Samples int
	Message string
}

// Estimate computes a robust worth estimate over total cost (price plus
// shipping) of the given sales.
//
// The median is taken from the sample after trimming the given fraction
// from each end (floor-indexed midpoint of the trimmed core, no averaging
// on even counts). The reported range is the 20th/80th nearest-rank
// percentile of the FULL untrimmed sorted sample: the median should
// resist outliers, the range should still show real market spread
// including the tails. Because of that split the median is not
// arithmetically guaranteed to sit inside the range on pathological
// distributions; that behavior is deliberate and kept as-is.
func Estimate(sales []*models.Sale, trim float64) Result {
	totals := make([]float64, 0, len(sales))
	for _, s := range sales {
		if s == nil || s.Price <= 0 || s.Price >= maxSanePrice {
			continue
		}
		totals = append(totals, s.Total())
	}

	if len(totals) < MinComps {
		return Result{Samples: len(totals), Message: InsufficientMsg}
	}

	sort.Float64s(totals)
	n := len(totals)

	if trim < 0 {
		trim = 0
	}
	k := int(float64(n) * trim)
	if 2*k >= n {
		// Degenerate trim would empty the core; fall back to untrimmed.
		k = 0
	}
	core := totals[k : n-k]
	median := core[len(core)/2]

	lo := totals[int(0.2*float64(n-1))]
	hi := totals[int(0.8*float64(n-1))]

	return Result{
		Median:  &median,
		Range:   &[2]float64{lo, hi},
		Samples: n,
	}
}
