package handlers

import (
	"net/http"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"elora/analysis"
	"elora/service"
)

// AnalysisHandler runs the LLM fleet commentary on demand. The nightly
// cron hits this endpoint rather than carrying its own scheduler.
type AnalysisHandler struct {
	batcher *analysis.Batcher
	api     service.TelemetryFetcher
}

func NewAnalysisHandler(batcher *analysis.Batcher, api service.TelemetryFetcher) *AnalysisHandler {
	return &AnalysisHandler{batcher: batcher, api: api}
}

func (h *AnalysisHandler) AnalyzeFleetHandler(c *gin.Context) {
	vehicles, err := h.api.Vehicles(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("failed to fetch vehicles for analysis")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch vehicles"})
		return
	}

	summary, err := h.batcher.Run(c.Request.Context(), vehicles)
	if err != nil {
		log.WithError(err).Error("fleet analysis failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": len(vehicles), "summary": summary})
}
