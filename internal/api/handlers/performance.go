package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/Shriiii01/investment-agent/internal/services"
)

// PerformanceReporter snapshots operation timings and resource usage.
type PerformanceReporter interface {
	Report(ctx context.Context) services.PerformanceReport
	Reset()
}

// PerformanceHandler exposes runtime performance data.
type PerformanceHandler struct {
	monitor PerformanceReporter
}

// NewPerformanceHandler creates a new performance handler.
func NewPerformanceHandler(monitor PerformanceReporter) *PerformanceHandler {
	return &PerformanceHandler{monitor: monitor}
}

// GetPerformance returns per-operation timings plus a system snapshot.
func (h *PerformanceHandler) GetPerformance(c *gin.Context) {
	respondOK(c, h.monitor.Report(c.Request.Context()))
}

// ResetPerformance discards the collected timings.
func (h *PerformanceHandler) ResetPerformance(c *gin.Context) {
	h.monitor.Reset()
	respondOK(c, gin.H{"reset": true})
}
