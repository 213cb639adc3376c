// Package config holds process-wide configuration. A Config is built
// once at startup, validated, and passed by reference to the components
// that need it; nothing reads the environment after that.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs for one process lifetime.
type Config struct {
	Addr        string
	EbayBaseURL string
	UserAgent   string
	Timeout     time.Duration
	Parallelism int

	// Estimation policy.
	TrimFraction float64
	MaxSalePrice float64 // scraping-path upper price bound
	JunkTerms    []string

	// Search collaborator (optional extracted ingestion path).
	SearchFallback   bool
	TavilyAPIKey     string
	TavilyBaseURL    string
	SearchMaxResults int
	IncludeDomains   []string

	ResolverCacheSize int
	Verbose           bool
}

// DefaultConfig returns the defaults the service ships with.
func DefaultConfig() *Config {
	return &Config{
		Addr:              ":8080",
		EbayBaseURL:       "https://www.ebay.com",
		UserAgent:         "Mozilla/5.0 card-price-agent",
		Timeout:           10 * time.Second,
		Parallelism:       4,
		TrimFraction:      0.1,
		MaxSalePrice:      100_000,
		JunkTerms:         []string{"lot of", "bundle", "proxy", "damaged"},
		SearchFallback:    false,
		TavilyBaseURL:     "https://api.tavily.com",
		SearchMaxResults:  8,
		IncludeDomains:    []string{"ebay.com", "pricecharting.com", "130point.com"},
		ResolverCacheSize: 256,
		Verbose:           false,
	}
}

// Load builds a Config from defaults overridden by the environment.
// A .env file is honored when present, missing is fine.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if v, ok := EnvString("AGENT_ADDR"); ok {
		cfg.Addr = v
	}
	if v, ok := EnvString("AGENT_EBAY_BASE_URL"); ok {
		cfg.EbayBaseURL = v
	}
	if v, ok := EnvString("AGENT_USER_AGENT"); ok {
		cfg.UserAgent = v
	}
	if v, ok, err := EnvInt("AGENT_TIMEOUT_MS"); err != nil {
		return nil, err
	} else if ok {
		cfg.Timeout = time.Duration(v) * time.Millisecond
	}
	if v, ok, err := EnvInt("AGENT_PARALLELISM"); err != nil {
		return nil, err
	} else if ok {
		cfg.Parallelism = v
	}
	if v, ok := EnvString("AGENT_JUNK_TERMS"); ok {
		cfg.JunkTerms = splitList(v)
	}
	if v, ok := EnvString("TAVILY_API_KEY"); ok {
		cfg.TavilyAPIKey = v
	}
	if v, ok := EnvString("AGENT_SEARCH_FALLBACK"); ok {
		cfg.SearchFallback = v == "true" || v == "1"
	}
	if v, ok := EnvString("AGENT_INCLUDE_DOMAINS"); ok {
		cfg.IncludeDomains = splitList(v)
	}
	if v, ok, err := EnvInt("AGENT_SEARCH_MAX_RESULTS"); err != nil {
		return nil, err
	} else if ok {
		cfg.SearchMaxResults = v
	}
	if v, ok := EnvString("AGENT_VERBOSE"); ok {
		cfg.Verbose = v == "true" || v == "1"
	}
	return cfg, nil
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("listen address cannot be empty")
	}
	if c.EbayBaseURL == "" {
		return fmt.Errorf("ebay base URL cannot be empty")
	}
	parsed, err := url.Parse(c.EbayBaseURL)
	if err != nil {
		return fmt.Errorf("invalid ebay base URL: %w", err)
	}
	if parsed.Host == "" {
		return fmt.Errorf("ebay base URL must include a host")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.Parallelism <= 0 {
		return fmt.Errorf("parallelism must be positive")
	}
	if c.TrimFraction < 0 || c.TrimFraction >= 0.5 {
		return fmt.Errorf("trim fraction must be in [0, 0.5)")
	}
	if c.MaxSalePrice <= 0 {
		return fmt.Errorf("max sale price must be positive")
	}
	if c.SearchMaxResults <= 0 {
		return fmt.Errorf("search max results must be positive")
	}
	if c.ResolverCacheSize <= 0 {
		return fmt.Errorf("resolver cache size must be positive")
	}
	if c.SearchFallback && c.TavilyAPIKey == "" {
		// Missing credential for an enabled collaborator is a fatal
		// configuration error, not a runtime "insufficient data" state.
		return fmt.Errorf("search fallback enabled but TAVILY_API_KEY is missing")
	}
	return nil
}

// EnvString reads a non-empty environment string.
func EnvString(key string) (string, bool) {
	v := os.Getenv(key)
	if v == "" {
		return "", false
	}
	return v, true
}

// EnvInt reads an integer environment variable; the error names the key.
func EnvInt(key string) (int, bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, true, nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
