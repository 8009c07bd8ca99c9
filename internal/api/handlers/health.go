// Package handlers provides HTTP handlers for the API.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/techrehub/chatbot-service/internal/core/cache"
	"github.com/techrehub/chatbot-service/internal/core/docdb"
)

// HealthHandler reports service health from the cache and document database
// connections.
type HealthHandler struct {
	cacheClient cache.Cache
	docDBClient docdb.Client
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(cacheClient cache.Cache, docDBClient docdb.Client) *HealthHandler {
	return &HealthHandler{
		cacheClient: cacheClient,
		docDBClient: docDBClient,
	}
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components,omitempty"`
}

func (h *HealthHandler) checks() map[string]func(context.Context) error {
	return map[string]func(context.Context) error{
		"cache": h.cacheClient.Ping,
		"docdb": h.docDBClient.Ping,
	}
}

// Health handles the /health endpoint with per-component statuses.
func (h *HealthHandler) Health(c *gin.Context) {
	components := make(map[string]string)
	status := "healthy"
	statusCode := http.StatusOK

	for name, ping := range h.checks() {
		if err := ping(c.Request.Context()); err != nil {
			components[name] = "unhealthy"
			status = "unhealthy"
			statusCode = http.StatusServiceUnavailable
		} else {
			components[name] = "healthy"
		}
	}

	c.JSON(statusCode, HealthResponse{
		Status:     status,
		Components: components,
	})
}

// Ready handles the /ready endpoint, naming the first dependency that is
// not reachable.
func (h *HealthHandler) Ready(c *gin.Context) {
	for _, name := range []string{"cache", "docdb"} {
		if err := h.checks()[name](c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"reason": name + " unavailable",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// Live handles the /live endpoint.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
