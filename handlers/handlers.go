package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"elora/service"
)

// ReportHandler exposes the report pipeline over HTTP.
type ReportHandler struct {
	service *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// HealthHandler responds to /health.
func (h *ReportHandler) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "elora-reports",
	})
}

// TankLevelsHandler computes current levels for all active tanks.
func (h *ReportHandler) TankLevelsHandler(c *gin.Context) {
	results, err := h.service.TankLevels(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("tank level computation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute tank levels"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tanks": results})
}

// GenerateReportHandler generates a fleet report. The optional "days"
// query parameter bounds the scan window (default 30).
func (h *ReportHandler) GenerateReportHandler(c *gin.Context) {
	days := 30
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive number"})
			return
		}
		days = n
	}

	since := time.Now().AddDate(0, 0, -days)
	report, err := h.service.GenerateReport(c.Request.Context(), since)
	if err != nil {
		log.WithError(err).Error("report generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate report"})
		return
	}
	c.JSON(http.StatusOK, report)
}
