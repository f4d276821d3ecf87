package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ezwallet/pkg/database"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db *database.PostgresDB
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db *database.PostgresDB) *HealthHandler {
	return &HealthHandler{db: db}
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// ReadyResponse represents readiness check response
type ReadyResponse struct {
	Status     string            `json:"status"`
	Timestamp  string            `json:"timestamp"`
	Components map[string]string `json:"components"`
}

// Health returns a simple health check (liveness probe)
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready returns a readiness check (readiness probe)
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	components := make(map[string]string)
	status := http.StatusOK

	if err := h.db.HealthCheck(ctx); err != nil {
		components["database"] = "unhealthy: " + err.Error()
		status = http.StatusServiceUnavailable
	} else {
		components["database"] = "healthy"
	}

	label := "ready"
	if status != http.StatusOK {
		label = "not ready"
	}
	c.JSON(status, ReadyResponse{
		Status:     label,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Components: components,
	})
}
