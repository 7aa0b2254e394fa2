package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shriiii01/investment-agent/internal/cache"
	"github.com/Shriiii01/investment-agent/internal/export"
	"github.com/Shriiii01/investment-agent/internal/models"
	"github.com/Shriiii01/investment-agent/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAnalyzer struct {
	result *models.AnalysisResult
	err    error
}

func (s *stubAnalyzer) Analyze(ctx context.Context, req models.AnalyzeRequest) (*models.AnalysisResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubHistory struct {
	records  []models.HistoryRecord
	clearErr error
}

func (s *stubHistory) Load() []models.HistoryRecord { return s.records }
func (s *stubHistory) Clear() error                 { return s.clearErr }
func (s *stubHistory) Stats() models.HistoryStats {
	return models.HistoryStats{Count: len(s.records)}
}

type stubSettings struct {
	stored  models.Settings
	saveErr error
}

func (s *stubSettings) Load() models.Settings { return s.stored }
func (s *stubSettings) Save(settings models.Settings) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.stored = settings
	return nil
}

type stubCache struct {
	stats    cache.Stats
	clearErr error
}

func (s *stubCache) Stats() cache.Stats { return s.stats }
func (s *stubCache) Clear() error       { return s.clearErr }

type stubExporter struct {
	name  string
	files []export.File
	err   error
}

func (s *stubExporter) ExportReportJSON(models.AnalysisResult) (string, error) {
	return s.name, s.err
}
func (s *stubExporter) ExportComparisonCSV(models.AnalysisResult) (string, error) {
	return s.name, s.err
}
func (s *stubExporter) ExportHistoryCSV([]models.HistoryRecord) (string, error) {
	return s.name, s.err
}
func (s *stubExporter) List() ([]export.File, error) { return s.files, s.err }

func performRequest(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestCreateAnalysis(t *testing.T) {
	result := &models.AnalysisResult{
		ID:      "abc",
		Symbols: [2]string{"AAPL", "MSFT"},
		Report:  "report text",
	}
	handler := NewAnalysisHandler(&stubAnalyzer{result: result})
	router := gin.New()
	router.POST("/analysis", handler.CreateAnalysis)

	w := performRequest(router, http.MethodPost, "/analysis", models.AnalyzeRequest{
		Symbol1: "AAPL", Symbol2: "MSFT",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "abc", data["id"])
}

func TestCreateAnalysisErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			"validation error keeps message",
			utils.NewValidationError("invalid symbol \"123\""),
			http.StatusBadRequest,
			"invalid symbol \"123\"",
		},
		{
			"stock data error maps to fixed message",
			utils.NewStockDataError("alpha vantage 500", errors.New("boom")),
			http.StatusBadGateway,
			"Unable to retrieve stock data. Please check the stock symbol and try again.",
		},
		{
			"api error maps to fixed message",
			utils.NewAPIError("model overloaded", errors.New("529")),
			http.StatusBadGateway,
			"The analysis service is currently unavailable. Please try again later.",
		},
		{
			"unknown error maps to internal message",
			utils.NewInternalError("disk failure", errors.New("io")),
			http.StatusInternalServerError,
			"Something went wrong. The details have been logged.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAnalysisHandler(&stubAnalyzer{err: tt.err})
			router := gin.New()
			router.POST("/analysis", handler.CreateAnalysis)

			w := performRequest(router, http.MethodPost, "/analysis", models.AnalyzeRequest{
				Symbol1: "AAPL", Symbol2: "MSFT",
			})

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decodeBody(t, w)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantMsg, body["error"])
		})
	}
}

func TestCreateAnalysisRejectsMissingSymbols(t *testing.T) {
	handler := NewAnalysisHandler(&stubAnalyzer{})
	router := gin.New()
	router.POST("/analysis", handler.CreateAnalysis)

	w := performRequest(router, http.MethodPost, "/analysis", gin.H{"symbol1": "AAPL"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHistoryEndpoints(t *testing.T) {
	history := &stubHistory{records: []models.HistoryRecord{
		{ID: "1", Symbols: [2]string{"AAPL", "MSFT"}, Timestamp: time.Now()},
	}}
	handler := NewHistoryHandler(history)
	router := gin.New()
	router.GET("/history", handler.GetHistory)
	router.DELETE("/history", handler.ClearHistory)
	router.GET("/history/stats", handler.GetHistoryStats)

	w := performRequest(router, http.MethodGet, "/history", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, float64(1), data["count"])

	w = performRequest(router, http.MethodDelete, "/history", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(router, http.MethodGet, "/history/stats", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSettingsEndpoints(t *testing.T) {
	settings := &stubSettings{stored: models.DefaultSettings()}
	handler := NewSettingsHandler(settings)
	router := gin.New()
	router.GET("/settings", handler.GetSettings)
	router.PUT("/settings", handler.UpdateSettings)

	w := performRequest(router, http.MethodGet, "/settings", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, "detailed", data["default_analysis_type"])

	update := models.Settings{
		DefaultAnalysisType: models.AnalysisQuick,
		DefaultPeriod:       "6M",
		RiskFreeRate:        0.02,
	}
	w = performRequest(router, http.MethodPut, "/settings", update)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, update, settings.stored)
}

func TestSettingsUpdateValidationFailure(t *testing.T) {
	settings := &stubSettings{saveErr: utils.NewValidationError("invalid period \"9Y\"")}
	handler := NewSettingsHandler(settings)
	router := gin.New()
	router.PUT("/settings", handler.UpdateSettings)

	w := performRequest(router, http.MethodPut, "/settings", models.Settings{DefaultPeriod: "9Y"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid period \"9Y\"", decodeBody(t, w)["error"])
}

func TestCacheEndpoints(t *testing.T) {
	stub := &stubCache{stats: cache.Stats{Hits: 5, Misses: 2}}
	handler := NewCacheHandler(stub)
	router := gin.New()
	router.GET("/cache/stats", handler.GetCacheStats)
	router.POST("/cache/clear", handler.ClearCache)

	w := performRequest(router, http.MethodGet, "/cache/stats", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, float64(5), data["hits"])

	w = performRequest(router, http.MethodPost, "/cache/clear", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExportEndpoints(t *testing.T) {
	history := &stubHistory{records: []models.HistoryRecord{{ID: "rec-1"}}}
	exporter := &stubExporter{name: "report_aapl_vs_msft.json"}
	handler := NewExportHandler(exporter, history)
	router := gin.New()
	router.GET("/export", handler.ListExports)
	router.POST("/export/history", handler.ExportHistory)
	router.POST("/export/report/:id", handler.ExportReport)

	w := performRequest(router, http.MethodPost, "/export/report/rec-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, "report_aapl_vs_msft.json", data["file"])

	w = performRequest(router, http.MethodPost, "/export/report/missing", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(router, http.MethodPost, "/export/history", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(router, http.MethodGet, "/export", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
