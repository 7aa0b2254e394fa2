package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shriiii01/investment-agent/internal/models"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	m, err := NewManager(t.TempDir(), logger)
	require.NoError(t, err)
	return m
}

func sampleResult() models.AnalysisResult {
	return models.AnalysisResult{
		ID:           "test-id",
		Symbols:      [2]string{"AAPL", "MSFT"},
		AnalysisType: models.AnalysisDetailed,
		Period:       "1Y",
		GeneratedAt:  time.Now().UTC(),
		Report:       "# Comparison\nAAPL looks stronger.",
		Comparison: []models.ComparisonRow{
			{Metric: "Volatility (Ann.)", Value1: "22.10%", Value2: "19.80%"},
			{Metric: "Sharpe Ratio", Value1: "1.34", Value2: "N/A"},
		},
	}
}

func TestExportReportJSON(t *testing.T) {
	m := newTestManager(t)

	name, err := m.ExportReportJSON(sampleResult())
	require.NoError(t, err)
	assert.Contains(t, name, "report_aapl_vs_msft_")

	data, err := os.ReadFile(filepath.Join(m.dir, name))
	require.NoError(t, err)

	var envelope reportEnvelope
	require.NoError(t, json.Unmarshal(data, &envelope))
	assert.Equal(t, "json", envelope.Format)
	assert.Equal(t, "test-id", envelope.Analysis.ID)
	assert.Len(t, envelope.Analysis.Comparison, 2)
}

func TestExportComparisonCSV(t *testing.T) {
	m := newTestManager(t)

	name, err := m.ExportComparisonCSV(sampleResult())
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(m.dir, name))
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"metric", "AAPL", "MSFT"}, rows[0])
	assert.Equal(t, []string{"Sharpe Ratio", "1.34", "N/A"}, rows[2])
}

func TestExportHistoryCSV(t *testing.T) {
	m := newTestManager(t)

	records := []models.HistoryRecord{
		{
			ID:           "rec-1",
			Symbols:      [2]string{"AAPL", "MSFT"},
			AnalysisType: models.AnalysisQuick,
			Timestamp:    time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
			Report:       "short report",
		},
	}

	name, err := m.ExportHistoryCSV(records)
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(m.dir, name))
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "rec-1", rows[1][0])
	assert.Equal(t, "quick", rows[1][3])
	assert.Equal(t, "2026-08-01T12:00:00Z", rows[1][4])
}

func TestListNewestFirst(t *testing.T) {
	m := newTestManager(t)

	require.NoError(t, os.WriteFile(filepath.Join(m.dir, "old.csv"), []byte("a"), 0o644))
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(m.dir, "old.csv"), old, old))
	require.NoError(t, os.WriteFile(filepath.Join(m.dir, "new.csv"), []byte("b"), 0o644))

	files, err := m.List()
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "new.csv", files[0].Name)
	assert.Equal(t, "old.csv", files[1].Name)
}
