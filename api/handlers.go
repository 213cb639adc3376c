package api

import (
	"errors"
	"log/slog"
	"net/http"

	"card-price-agent/comps"
	"card-price-agent/models"
	"card-price-agent/search"

	"github.com/gin-gonic/gin"
)

// handleAgent runs the full estimation pipeline for one query.
func (s *Server) handleAgent(c *gin.Context) {
	var q models.Query
	if err := c.ShouldBindJSON(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	c.JSON(http.StatusOK, s.agent.Run(c.Request.Context(), q))
}

// handleEstimate computes robust statistics over caller-supplied sales.
// Insufficient data is a success-status degraded result, not an error.
func (s *Server) handleEstimate(c *gin.Context) {
	var body struct {
		Sales []*models.Sale `json:"sales"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result := comps.Estimate(body.Sales, s.cfg.TrimFraction)
	if result.Median == nil {
		c.JSON(http.StatusOK, gin.H{
			"message": result.Message,
			"median":  nil,
			"range":   nil,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"median": result.Median,
		"range":  result.Range,
	})
}

// handleSearch proxies the web-search collaborator. A missing credential
// is a server-side configuration failure, distinct from "no results".
func (s *Server) handleSearch(c *gin.Context) {
	var body struct {
		Query          string   `json:"query"`
		MaxResults     int      `json:"maxResults"`
		IncludeDomains []string `json:"includeDomains"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if body.Query == "" {
		c.JSON(http.StatusOK, gin.H{"results": []search.Result{}})
		return
	}
	if s.searcher == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Missing TAVILY_API_KEY"})
		return
	}

	results, err := s.searcher.Search(c.Request.Context(), body.Query, body.MaxResults, body.IncludeDomains)
	if err != nil {
		if errors.Is(err, search.ErrMissingAPIKey) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Missing TAVILY_API_KEY"})
			return
		}
		slog.Error("search failed",
			slog.String("query", body.Query),
			slog.String("request_id", c.GetString(requestIDKey)),
			slog.Any("error", err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// handleResolve guesses the card identity behind a query.
func (s *Server) handleResolve(c *gin.Context) {
	var body struct {
		Query string `json:"query"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	card := s.resolver.Resolve(body.Query)
	if card == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty query"})
		return
	}
	c.JSON(http.StatusOK, card)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
