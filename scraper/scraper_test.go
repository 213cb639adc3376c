package scraper

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"testing"

	"card-price-agent/config"
	"card-price-agent/models"

	"github.com/jarcoal/httpmock"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.EbayBaseURL = "http://ebay.test"
	return cfg
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		expected string
	}{
		{name: "nil", err: nil, status: 0, expected: "unknown"},
		{name: "context timeout", err: context.DeadlineExceeded, status: 0, expected: "timeout"},
		{name: "net timeout", err: &net.DNSError{IsTimeout: true}, status: 0, expected: "timeout"},
		{name: "connection", err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, status: 0, expected: "connection"},
		{name: "forbidden", err: nil, status: http.StatusForbidden, expected: "blocked"},
		{name: "rate limited", err: nil, status: http.StatusTooManyRequests, expected: "blocked"},
		{name: "not found", err: nil, status: http.StatusNotFound, expected: "http_status"},
		{name: "other", err: errors.New("some other error"), status: 0, expected: "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorLabel(classify(tt.err, tt.status)); got != tt.expected {
				t.Fatalf("classify(%v, %d) = %q, want %q", tt.err, tt.status, got, tt.expected)
			}
		})
	}
}

func TestSoldURL(t *testing.T) {
	s, err := New(testConfig())
	if err != nil {
		t.Fatalf("new scraper: %v", err)
	}

	got := s.SoldURL(models.Query{Query: "Giratina V 186/196", Grade: "PSA 10"})
	for _, want := range []string{"LH_Sold=1", "LH_Complete=1", "_nkw=Giratina+V+186%2F196+PSA+10"} {
		if !strings.Contains(got, want) {
			t.Errorf("SoldURL() = %q, missing %q", got, want)
		}
	}
}

func TestFetchSoldExtractsCandidates(t *testing.T) {
	cfg := testConfig()
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("new scraper: %v", err)
	}

	q := models.Query{Query: "charizard"}
	page := buildSoldPage([]soldRow{
		{
			title:   "Charizard PSA 9",
			href:    "http://ebay.test/itm/1?hash=abc",
			price:   "US $250.00",
			ship:    "+$4.99 shipping",
			caption: "Sold Oct 10, 2025",
		},
		{
			title:   "Charizard raw",
			href:    "http://ebay.test/itm/2",
			price:   "US $99.99",
			caption: "Best offer accepted",
		},
		{
			// no price, dropped at extraction
			title: "Shop on eBay",
			href:  "http://ebay.test/itm/3",
			price: "",
		},
	})

	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", s.SoldURL(q), htmlResponder(page))
	s.WithTransport(transport)

	cands, err := s.FetchSold(context.Background(), q)
	if err != nil {
		t.Fatalf("fetch sold: %v", err)
	}
	if len(cands) != 2 {
		t.Fatalf("candidates = %d, want 2", len(cands))
	}

	first := cands[0].Sale
	if first.Title != "Charizard PSA 9" {
		t.Errorf("title = %q, want %q", first.Title, "Charizard PSA 9")
	}
	if first.Price != 250 {
		t.Errorf("price = %v, want 250", first.Price)
	}
	if first.Shipping != 4.99 {
		t.Errorf("shipping = %v, want 4.99", first.Shipping)
	}
	if first.SoldAt != "2025-10-10T00:00:00Z" {
		t.Errorf("soldAt = %q, want %q", first.SoldAt, "2025-10-10T00:00:00Z")
	}
	if first.URL != "http://ebay.test/itm/1?hash=abc" {
		t.Errorf("url = %q", first.URL)
	}
	if cands[0].PriceText != "US $250.00" {
		t.Errorf("price text = %q, want raw fragment", cands[0].PriceText)
	}

	second := cands[1].Sale
	if second.SoldAt != "" {
		t.Errorf("soldAt = %q, want unknown for dateless caption", second.SoldAt)
	}
	if second.Shipping != 0 {
		t.Errorf("shipping = %v, want 0 default", second.Shipping)
	}
}

func TestFetchSoldErrorStatus(t *testing.T) {
	cfg := testConfig()
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("new scraper: %v", err)
	}

	q := models.Query{Query: "charizard"}
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", s.SoldURL(q), httpmock.NewStringResponder(http.StatusForbidden, ""))
	s.WithTransport(transport)

	_, err = s.FetchSold(context.Background(), q)
	if err == nil {
		t.Fatalf("expected error for 403 response")
	}
	var blocked ErrBlocked
	if !errors.As(err, &blocked) {
		t.Fatalf("error = %v, want ErrBlocked", err)
	}
}

type soldRow struct {
	title   string
	href    string
	price   string
	ship    string
	caption string
}

func buildSoldPage(rows []soldRow) string {
	var b strings.Builder
	b.WriteString(`<html><body><ul class="srp-results">`)
	for _, r := range rows {
		b.WriteString(`<li class="s-item">`)
		fmt.Fprintf(&b, `<a class="s-item__link" href=%q>`, r.href)
		fmt.Fprintf(&b, `<span class="s-item__title">%s</span></a>`, r.title)
		fmt.Fprintf(&b, `<span class="s-item__price">%s</span>`, r.price)
		if r.ship != "" {
			fmt.Fprintf(&b, `<span class="s-item__shipping">%s</span>`, r.ship)
		}
		if r.caption != "" {
			fmt.Fprintf(&b, `<span class="s-item__caption">%s</span>`, r.caption)
		}
		b.WriteString(`</li>`)
	}
	b.WriteString(`</ul></body></html>`)
	return b.String()
}

func htmlResponder(body string) httpmock.Responder {
	resp := httpmock.NewStringResponse(200, body)
	resp.Header.Set("Content-Type", "text/html")
	return httpmock.ResponderFromResponse(resp)
}
