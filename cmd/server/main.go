package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"card-price-agent/agent"
	"card-price-agent/api"
	"card-price-agent/config"
	"card-price-agent/resolver"
	"card-price-agent/scraper"
	"card-price-agent/search"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	addr := flag.String("addr", cfg.Addr, "HTTP listen address")
	verbose := flag.Bool("v", cfg.Verbose, "Enable verbose logging")
	searchFallback := flag.Bool("search-fallback", cfg.SearchFallback, "Consult web search when scraped comps are sparse")
	flag.Parse()

	cfg.Addr = *addr
	cfg.Verbose = *verbose
	cfg.SearchFallback = *searchFallback

	logger, level := newLogger(cfg.Verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	s, err := scraper.New(cfg)
	if err != nil {
		slog.Error("initialising scraper", slog.Any("error", err))
		os.Exit(1)
	}

	res, err := resolver.New(cfg.ResolverCacheSize)
	if err != nil {
		slog.Error("initialising resolver", slog.Any("error", err))
		os.Exit(1)
	}

	var searchClient *search.Client
	if cfg.TavilyAPIKey != "" {
		searchClient = search.NewClient(cfg)
	}

	var agentSearcher agent.Searcher
	if cfg.SearchFallback && searchClient != nil {
		agentSearcher = searchClient
	}
	a := agent.New(cfg, s, agentSearcher)

	var apiSearcher agent.Searcher
	if searchClient != nil {
		apiSearcher = searchClient
	}
	server := api.NewServer(cfg, a, apiSearcher, res, s.Metrics.Registry)

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: server.Router(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("listening",
			slog.String("addr", cfg.Addr),
			slog.Bool("search_fallback", cfg.SearchFallback),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown signal received, draining in-flight requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stdout) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
