package comps

import (
	"testing"
)

func TestGroupByWeekSingleSale(t *testing.T) {
	buckets := GroupByWeek([]PricePoint{
		{SoldAt: "2025-10-08T12:00:00Z", Price: 120},
	})
	if len(buckets) != 1 {
		t.Fatalf("buckets = %d, want 1", len(buckets))
	}
	b := buckets[0]
	if b.Week != "2025-41" {
		t.Errorf("week key = %q, want %q", b.Week, "2025-41")
	}
	if b.Median != 120 || b.N != 1 {
		t.Errorf("bucket = {median: %v, n: %d}, want {120, 1}", b.Median, b.N)
	}
}

func TestGroupByWeekBucketsAndSorts(t *testing.T) {
	buckets := GroupByWeek([]PricePoint{
		// Week 2025-42
		{SoldAt: "2025-10-15T00:00:00Z", Price: 140},
		// Week 2025-41, three sales
		{SoldAt: "2025-10-06T00:00:00Z", Price: 100},
		{SoldAt: "2025-10-07T00:00:00Z", Price: 140},
		{SoldAt: "2025-10-08T00:00:00Z", Price: 120},
		// Unparseable instants never produce a bucket
		{SoldAt: "", Price: 999},
		{SoldAt: "yesterday", Price: 999},
	})

	if len(buckets) != 2 {
		t.Fatalf("buckets = %d, want 2", len(buckets))
	}
	if buckets[0].Week != "2025-41" || buckets[1].Week != "2025-42" {
		t.Fatalf("bucket order = [%s %s], want ascending by week", buckets[0].Week, buckets[1].Week)
	}
	if buckets[0].Median != 120 || buckets[0].N != 3 {
		t.Errorf("week 41 = {median: %v, n: %d}, want {120, 3}", buckets[0].Median, buckets[0].N)
	}
}

func TestGroupByWeekLowerMiddleMedian(t *testing.T) {
	// Four sales in one week: the median is the lower-middle element of
	// the sorted bucket, not an average.
	buckets := GroupByWeek([]PricePoint{
		{SoldAt: "2025-10-06T00:00:00Z", Price: 10},
		{SoldAt: "2025-10-07T00:00:00Z", Price: 20},
		{SoldAt: "2025-10-08T00:00:00Z", Price: 30},
		{SoldAt: "2025-10-09T00:00:00Z", Price: 40},
	})
	if len(buckets) != 1 {
		t.Fatalf("buckets = %d, want 1", len(buckets))
	}
	if buckets[0].Median != 30 {
		t.Errorf("median = %v, want 30", buckets[0].Median)
	}
}

func TestGroupByWeekEmptyInput(t *testing.T) {
	if got := GroupByWeek(nil); len(got) != 0 {
		t.Fatalf("expected no buckets, got %d", len(got))
	}
}
