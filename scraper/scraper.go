// Package scraper fetches completed-sale listings from eBay search pages
// and turns them into sale candidates for the comp pipeline.
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"card-price-agent/comps"
	"card-price-agent/config"
	"card-price-agent/models"
	"card-price-agent/parser"

	"github.com/gocolly/colly/v2"
)

// Scraper wraps a colly collector configured for eBay sold-listings
// search pages. The base collector is built once; each fetch runs on a
// clone so requests stay isolated.
type Scraper struct {
	cfg     *config.Config
	base    *colly.Collector
	Metrics *Metrics

	// test hook, nil in production
	transport http.RoundTripper
}

// New builds a scraper from cfg.
func New(cfg *config.Config) (*Scraper, error) {
	parsed, err := url.Parse(cfg.EbayBaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("base url must include a host")
	}

	collector := colly.NewCollector(
		colly.AllowedDomains(parsed.Host),
		colly.UserAgent(cfg.UserAgent),
	)
	collector.SetRequestTimeout(cfg.Timeout)
	collector.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	})

	if err := collector.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: cfg.Parallelism,
	}); err != nil {
		return nil, fmt.Errorf("configure rate limits: %w", err)
	}

	return &Scraper{
		cfg:     cfg,
		base:    collector,
		Metrics: NewMetrics(),
	}, nil
}

// WithTransport swaps the HTTP transport used by subsequent fetches.
// Tests use this to serve canned HTML.
func (s *Scraper) WithTransport(rt http.RoundTripper) {
	s.transport = rt
}

// SoldURL builds the completed-plus-sold listings search URL for a query.
func (s *Scraper) SoldURL(q models.Query) string {
	kw := q.Query
	if q.Grade != "" {
		kw = kw + " " + q.Grade
	}
	params := url.Values{}
	params.Set("_nkw", kw)
	params.Set("LH_Sold", "1")
	params.Set("LH_Complete", "1")
	return strings.TrimSuffix(s.cfg.EbayBaseURL, "/") + "/sch/i.html?" + params.Encode()
}

// FetchSold fetches one sold-listings results page and extracts raw sale
// candidates from it. Extraction is permissive: currency, bounds, grade,
// date, and junk filtering happen downstream in the comp pipeline. A
// transport failure returns an error; the caller treats it as a degraded
// (empty) candidate set, not a fatal one.
func (s *Scraper) FetchSold(ctx context.Context, q models.Query) ([]*comps.Candidate, error) {
	collector := s.base.Clone()
	if s.transport != nil {
		collector.WithTransport(s.transport)
	}

	var (
		mu         sync.Mutex
		candidates []*comps.Candidate
		fetchErr   error
	)
	var requestCount int64

	collector.OnRequest(func(r *colly.Request) {
		if err := ctx.Err(); err != nil {
			r.Abort()
			return
		}
		r.Ctx.Put("start", time.Now())
		atomic.AddInt64(&requestCount, 1)
		s.Metrics.IncRequest("started")
	})

	collector.OnResponse(func(r *colly.Response) {
		if start, ok := r.Request.Ctx.GetAny("start").(time.Time); ok {
			s.Metrics.ObserveDuration(time.Since(start))
		}
		if r.StatusCode >= http.StatusBadRequest {
			slog.Error("non-200 sold-listings response",
				slog.Int("status", r.StatusCode),
				slog.String("url", r.Request.URL.String()),
			)
		}
	})

	collector.OnError(func(r *colly.Response, err error) {
		status := 0
		pageURL := ""
		if r != nil {
			status = r.StatusCode
			if r.Request != nil && r.Request.URL != nil {
				pageURL = r.Request.URL.String()
			}
		}
		classified := classify(err, status)
		label := errorLabel(classified)
		s.Metrics.IncError(label)
		slog.Error("sold-listings fetch error",
			slog.String("url", pageURL),
			slog.String("category", label),
			slog.Any("error", err),
		)
		mu.Lock()
		if fetchErr == nil {
			fetchErr = classified
		}
		mu.Unlock()
	})

	collector.OnHTML("li.s-item", func(e *colly.HTMLElement) {
		cand := extractCandidate(e)
		if cand == nil {
			return
		}
		s.Metrics.IncItems()
		mu.Lock()
		candidates = append(candidates, cand)
		mu.Unlock()
	})

	if err := collector.Visit(s.SoldURL(q)); err != nil {
		return nil, fmt.Errorf("visit sold listings: %w", err)
	}
	collector.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(candidates) == 0 && fetchErr != nil {
		return nil, fetchErr
	}
	return candidates, nil
}

// extractCandidate pulls the title, link, price, shipping, and caption
// fragments out of one result row. Rows without a title, link, or
// parseable price are not listings worth carrying.
func extractCandidate(e *colly.HTMLElement) *comps.Candidate {
	title := strings.TrimSpace(e.DOM.Find(".s-item__title").First().Text())
	if title == "" {
		return nil
	}

	link, _ := e.DOM.Find("a.s-item__link").First().Attr("href")
	if link == "" {
		return nil
	}

	priceText := strings.TrimSpace(e.DOM.Find(".s-item__price").First().Text())
	price, ok := parser.ParsePrice(priceText)
	if !ok {
		return nil
	}

	shipText := strings.TrimSpace(e.DOM.Find(".s-item__shipping, .s-item__logisticsCost").First().Text())
	shipping, _ := parser.ParsePrice(shipText)

	// The sold date hides in assorted caption nodes; unknown stays
	// unknown on this path.
	captionText := e.DOM.Find(".s-item__caption--time-end, .s-item__title--tag, .s-item__caption").Text()
	soldAt := parser.ParseSoldDate(captionText)

	return &comps.Candidate{
		Sale: &models.Sale{
			Source:   models.SourceEbay,
			Title:    title,
			Price:    price,
			Currency: models.USD,
			URL:      link,
			SoldAt:   soldAt,
			Shipping: shipping,
		},
		PriceText: priceText,
	}
}
