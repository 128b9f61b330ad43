package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/brandlens/brandlens/models"
)

// PoolReporter exposes browser health for the probe.
type PoolReporter interface {
	Ready() bool
	Stats() models.PoolStats
}

// Health returns a handler for GET /api/v1/health.
//
// Reports per-collaborator readiness. Status degrades when the browser is
// down or more than 80% of pool pages are active. A missing detector or
// summarizer is reported but does not degrade the service: those tasks have
// documented fallbacks.
func Health(pool PoolReporter, detectorReady, summarizerReady bool, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats := pool.Stats()
		browserReady := pool.Ready()

		status := "healthy"
		if !browserReady {
			status = "degraded"
		}
		if stats.MaxPages > 0 && stats.ActivePages > int(float64(stats.MaxPages)*0.8) {
			status = "degraded"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:          status,
			BrowserReady:    browserReady,
			DetectorReady:   detectorReady,
			SummarizerReady: summarizerReady,
			Uptime:          time.Since(startTime).Round(time.Second).String(),
			PoolStats:       stats,
			Version:         "0.1.0",
		})
	}
}
