// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthChecker reports whether a dependency is reachable.
type HealthChecker func() bool

// HealthController handles health check endpoints.
type HealthController struct {
	dbHealthChecker HealthChecker
	dependencies    map[string]HealthChecker
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
	Timestamp    string            `json:"timestamp"`
}

// NewHealthController creates a new health controller instance.
// dependencies holds optional checks, e.g. the redis lock backend.
func NewHealthController(dbHealthChecker HealthChecker, dependencies map[string]HealthChecker) *HealthController {
	return &HealthController{
		dbHealthChecker: dbHealthChecker,
		dependencies:    dependencies,
	}
}

// Check handles GET /health requests.
// Status is "degraded" when any dependency is unreachable.
func (h *HealthController) Check(c *gin.Context) {
	status := "ok"

	dbStatus := "disconnected"
	if h.dbHealthChecker != nil && h.dbHealthChecker() {
		dbStatus = "connected"
	} else {
		status = "degraded"
	}

	var dependencies map[string]string
	if len(h.dependencies) > 0 {
		dependencies = make(map[string]string, len(h.dependencies))
		for name, check := range h.dependencies {
			if check != nil && check() {
				dependencies[name] = "connected"
				continue
			}
			dependencies[name] = "disconnected"
			status = "degraded"
		}
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:       status,
		Database:     dbStatus,
		Dependencies: dependencies,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	})
}
