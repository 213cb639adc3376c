// Package agent orchestrates one worth-estimation request end to end:
// candidate sources, normalization, filtering, deduplication, robust
// estimation, and payload assembly. All state is request-scoped.
package agent

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"card-price-agent/comps"
	"card-price-agent/config"
	"card-price-agent/models"
	"card-price-agent/search"
)

const (
	maxSalesInPayload = 50
	maxCitations      = 6

	emptyQueryNote = "Please enter a specific card (e.g., 'Giratina V 186/196 Lost Origin PSA 10')."
	sparseNote     = "Not enough trustworthy SOLD comps. Try adding set & number (e.g., 'Giratina V 186/196'), relaxing grade, or widening the date range."
)

// CandidateSource produces raw sale candidates for a query. The scraper
// implements it; tests substitute fakes.
type CandidateSource interface {
	FetchSold(ctx context.Context, q models.Query) ([]*comps.Candidate, error)
}

// Searcher is the optional web-search collaborator behind the extracted
// ingestion path.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int, domains []string) ([]search.Result, error)
}

// Agent runs the comp aggregation pipeline for incoming queries.
type Agent struct {
	cfg      *config.Config
	source   CandidateSource
	searcher Searcher // nil disables the extracted path
	now      func() time.Time
}

// New builds an agent. searcher may be nil.
func New(cfg *config.Config, source CandidateSource, searcher Searcher) *Agent {
	return &Agent{
		cfg:      cfg,
		source:   source,
		searcher: searcher,
		now:      time.Now,
	}
}

// Run handles one query. It always returns a structured payload; upstream
// failures degrade the result instead of failing it.
func (a *Agent) Run(ctx context.Context, q models.Query) *models.AgentResponse {
	q.Query = strings.TrimSpace(q.Query)
	if q.Query == "" {
		// No collaborator is contacted for an empty query.
		return &models.AgentResponse{
			Sales:      []*models.Sale{},
			Timeseries: []models.WeeklyBucket{},
			Citations:  []string{},
			Notes:      emptyQueryNote,
		}
	}

	cands, err := a.source.FetchSold(ctx, q)
	if err != nil {
		// Partial-failure tolerance: one bad source never fails the
		// whole estimate.
		slog.Error("sold-listings fetch failed",
			slog.String("query", q.Query),
			slog.Any("error", err),
		)
		cands = nil
	}

	chain := comps.DefaultChain(q, a.cfg.MaxSalePrice, a.cfg.JunkTerms)
	sales := comps.DedupeByURL(salesOf(chain.Apply(cands)))

	if a.searcher != nil && len(sales) < comps.MinComps {
		sales = a.mergeExtracted(ctx, q, chain, sales)
	}

	resp := &models.AgentResponse{
		Worth:      models.WorthEstimate{Count: len(sales)},
		Sales:      sales,
		Timeseries: []models.WeeklyBucket{},
		Citations:  citations(sales),
	}

	if len(sales) < comps.MinComps {
		// Short-circuit before the estimator; this is a degraded
		// result, not an error.
		resp.Notes = sparseNote
		return resp
	}

	result := comps.Estimate(sales, a.cfg.TrimFraction)
	resp.Worth.Median = result.Median
	resp.Worth.Range = result.Range

	points := make([]comps.PricePoint, 0, len(sales))
	for _, s := range sales {
		points = append(points, comps.PricePoint{SoldAt: s.SoldAt, Price: s.Total()})
	}
	resp.Timeseries = comps.GroupByWeek(points)

	if len(resp.Sales) > maxSalesInPayload {
		resp.Sales = resp.Sales[:maxSalesInPayload]
	}
	return resp
}

// mergeExtracted consults the search collaborator when scraped comps are
// sparse, pushes its hits through the extracted-path normalizer and the
// same filter chain, and re-deduplicates the merged set.
func (a *Agent) mergeExtracted(ctx context.Context, q models.Query, chain comps.Chain, sales []*models.Sale) []*models.Sale {
	results, err := a.searcher.Search(ctx, q.Query+" sold price", a.cfg.SearchMaxResults, nil)
	if err != nil {
		if errors.Is(err, search.ErrMissingAPIKey) {
			slog.Error("search collaborator misconfigured", slog.Any("error", err))
		} else {
			slog.Error("search fallback failed",
				slog.String("query", q.Query),
				slog.Any("error", err),
			)
		}
		return sales
	}

	now := a.now()
	extracted := make([]*comps.Candidate, 0, len(results))
	for _, raw := range search.MineCandidates(results) {
		sale := comps.NormalizeExtracted(raw, now)
		if sale == nil {
			continue
		}
		snippet, _ := raw.Price.(string)
		extracted = append(extracted, &comps.Candidate{Sale: sale, PriceText: snippet})
	}

	merged := append(sales, salesOf(chain.Apply(extracted))...)
	return comps.DedupeByURL(merged)
}

func salesOf(cands []*comps.Candidate) []*models.Sale {
	out := make([]*models.Sale, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.Sale)
	}
	return out
}

// citations collects up to maxCitations distinct listing URLs, in sale
// order.
func citations(sales []*models.Sale) []string {
	seen := make(map[string]struct{}, len(sales))
	out := make([]string, 0, maxCitations)
	for _, s := range sales {
		if _, dup := seen[s.URL]; dup {
			continue
		}
		seen[s.URL] = struct{}{}
		out = append(out, s.URL)
		if len(out) == maxCitations {
			break
		}
	}
	return out
}
