package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Shriiii01/investment-agent/internal/models"
	"github.com/Shriiii01/investment-agent/internal/utils"
)

// reportEnvelope wraps an exported analysis with export metadata.
type reportEnvelope struct {
	ExportedAt time.Time             `json:"exported_at"`
	Format     string                `json:"format"`
	Analysis   models.AnalysisResult `json:"analysis"`
}

// File describes one previously exported file.
type File struct {
	Name       string    `json:"name"`
	SizeBytes  int64     `json:"size_bytes"`
	ModifiedAt time.Time `json:"modified_at"`
}

// Manager writes analysis reports and history to files under a single
// export directory.
type Manager struct {
	dir    string
	logger *logrus.Logger
}

// NewManager creates the export directory if needed.
func NewManager(dir string, logger *logrus.Logger) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory %s: %w", dir, err)
	}
	return &Manager{dir: dir, logger: logger}, nil
}

// ExportReportJSON writes a single analysis result as a JSON document and
// returns the file name.
func (m *Manager) ExportReportJSON(result models.AnalysisResult) (string, error) {
	name := exportName("report", result.Symbols[:], "json")
	envelope := reportEnvelope{
		ExportedAt: time.Now().UTC(),
		Format:     "json",
		Analysis:   result,
	}

	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return "", utils.NewInternalError("failed to encode report export", err)
	}
	if err := os.WriteFile(filepath.Join(m.dir, name), data, 0o644); err != nil {
		return "", utils.NewInternalError("failed to write report export", err)
	}

	m.logger.WithField("file", name).Info("Exported analysis report")
	return name, nil
}

// ExportComparisonCSV writes the metric comparison table of one analysis as
// CSV and returns the file name.
func (m *Manager) ExportComparisonCSV(result models.AnalysisResult) (string, error) {
	name := exportName("comparison", result.Symbols[:], "csv")

	rows := [][]string{{"metric", result.Symbols[0], result.Symbols[1]}}
	for _, row := range result.Comparison {
		rows = append(rows, []string{row.Metric, row.Value1, row.Value2})
	}

	if err := m.writeCSV(name, rows); err != nil {
		return "", err
	}
	m.logger.WithField("file", name).Info("Exported comparison table")
	return name, nil
}

// ExportHistoryCSV writes all history records as CSV and returns the file
// name. The report text is included as the final column.
func (m *Manager) ExportHistoryCSV(records []models.HistoryRecord) (string, error) {
	name := fmt.Sprintf("history_%s.csv", time.Now().UTC().Format("20060102_150405"))

	rows := [][]string{{"id", "symbol_1", "symbol_2", "analysis_type", "timestamp", "report"}}
	for _, rec := range records {
		rows = append(rows, []string{
			rec.ID,
			rec.Symbols[0],
			rec.Symbols[1],
			string(rec.AnalysisType),
			rec.Timestamp.UTC().Format(time.RFC3339),
			rec.Report,
		})
	}

	if err := m.writeCSV(name, rows); err != nil {
		return "", err
	}
	m.logger.WithFields(logrus.Fields{"file": name, "records": len(records)}).Info("Exported history")
	return name, nil
}

// List returns the exported files, newest first.
func (m *Manager) List() ([]File, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, utils.NewInternalError("failed to read export directory", err)
	}

	files := make([]File, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, File{
			Name:       entry.Name(),
			SizeBytes:  info.Size(),
			ModifiedAt: info.ModTime(),
		})
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].ModifiedAt.After(files[j].ModifiedAt)
	})
	return files, nil
}

func (m *Manager) writeCSV(name string, rows [][]string) error {
	f, err := os.Create(filepath.Join(m.dir, name))
	if err != nil {
		return utils.NewInternalError("failed to create export file", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return utils.NewInternalError("failed to write export file", err)
	}
	return nil
}

func exportName(kind string, symbols []string, ext string) string {
	return fmt.Sprintf("%s_%s_%s.%s",
		kind,
		strings.ToLower(strings.Join(symbols, "_vs_")),
		time.Now().UTC().Format("20060102_150405"),
		ext,
	)
}
