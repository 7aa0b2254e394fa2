package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Shriiii01/investment-agent/internal/models"
)

// HistoryReader provides read and clear access to stored analysis runs.
type HistoryReader interface {
	Load() []models.HistoryRecord
	Clear() error
	Stats() models.HistoryStats
}

// HistoryHandler exposes the persisted analysis history.
type HistoryHandler struct {
	history HistoryReader
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(history HistoryReader) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// GetHistory returns all stored analysis records, oldest first.
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	records := h.history.Load()
	respondOK(c, gin.H{
		"records": records,
		"count":   len(records),
	})
}

// ClearHistory removes all stored analysis records.
func (h *HistoryHandler) ClearHistory(c *gin.Context) {
	if err := h.history.Clear(); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"cleared": true})
}

// GetHistoryStats returns aggregate statistics over the stored records.
func (h *HistoryHandler) GetHistoryStats(c *gin.Context) {
	respondOK(c, h.history.Stats())
}
