package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Shriiii01/investment-agent/internal/export"
	"github.com/Shriiii01/investment-agent/internal/models"
	"github.com/Shriiii01/investment-agent/internal/utils"
)

// Exporter writes analysis data to files and lists previous exports.
type Exporter interface {
	ExportReportJSON(models.AnalysisResult) (string, error)
	ExportComparisonCSV(models.AnalysisResult) (string, error)
	ExportHistoryCSV([]models.HistoryRecord) (string, error)
	List() ([]export.File, error)
}

// ExportHandler exposes file exports of reports and history.
type ExportHandler struct {
	exporter Exporter
	history  HistoryReader
}

// NewExportHandler creates a new export handler.
func NewExportHandler(exporter Exporter, history HistoryReader) *ExportHandler {
	return &ExportHandler{exporter: exporter, history: history}
}

// ListExports returns previously exported files, newest first.
func (h *ExportHandler) ListExports(c *gin.Context) {
	files, err := h.exporter.List()
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"files": files, "count": len(files)})
}

// ExportHistory writes the full history as a CSV file.
func (h *ExportHandler) ExportHistory(c *gin.Context) {
	name, err := h.exporter.ExportHistoryCSV(h.history.Load())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"file": name})
}

// ExportReport writes one stored analysis as a JSON file.
func (h *ExportHandler) ExportReport(c *gin.Context) {
	record, err := h.findRecord(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	name, err := h.exporter.ExportReportJSON(recordToResult(record))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"file": name})
}

// ExportComparison writes one stored metric table as a CSV file.
func (h *ExportHandler) ExportComparison(c *gin.Context) {
	record, err := h.findRecord(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	name, err := h.exporter.ExportComparisonCSV(recordToResult(record))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"file": name})
}

func (h *ExportHandler) findRecord(id string) (models.HistoryRecord, error) {
	if id == "" {
		return models.HistoryRecord{}, utils.NewValidationError("record id is required")
	}
	for _, record := range h.history.Load() {
		if record.ID == id {
			return record, nil
		}
	}
	return models.HistoryRecord{}, utils.NewValidationErrorf("no analysis record with id %s", id)
}

func recordToResult(record models.HistoryRecord) models.AnalysisResult {
	return models.AnalysisResult{
		ID:           record.ID,
		Symbols:      record.Symbols,
		AnalysisType: record.AnalysisType,
		GeneratedAt:  record.Timestamp,
		Report:       record.Report,
		Comparison:   record.Comparison,
	}
}
