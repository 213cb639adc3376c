// Package api exposes the estimation pipeline over HTTP.
package api

import (
	"card-price-agent/agent"
	"card-price-agent/config"
	"card-price-agent/resolver"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server bundles the handlers and their collaborators.
type Server struct {
	cfg      *config.Config
	agent    *agent.Agent
	searcher agent.Searcher
	resolver *resolver.Resolver
	registry *prometheus.Registry
}

// NewServer wires the API surface. searcher may be nil when the search
// collaborator is not configured; registry may be nil to skip /metrics.
func NewServer(cfg *config.Config, a *agent.Agent, searcher agent.Searcher, res *resolver.Resolver, registry *prometheus.Registry) *Server {
	return &Server{
		cfg:      cfg,
		agent:    a,
		searcher: searcher,
		resolver: res,
		registry: registry,
	}
}

// Router builds the gin engine with the full route table and the
// outermost error boundary.
func (s *Server) Router() *gin.Engine {
	if !s.cfg.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(RequestID(), RequestLogger(), Recovery())

	api := r.Group("/api")
	{
		api.POST("/agent", s.handleAgent)
		api.POST("/estimate", s.handleEstimate)
		api.POST("/search", s.handleSearch)
		api.POST("/resolve", s.handleResolve)
	}

	r.GET("/healthz", s.handleHealth)
	if s.registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	}
	return r
}
