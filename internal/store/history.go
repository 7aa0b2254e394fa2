package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Shriiii01/investment-agent/internal/models"
)

const historyFileName = "history.json"

// historyDocument is the on-disk envelope around the record list.
type historyDocument struct {
	History     []models.HistoryRecord `json:"history"`
	LastUpdated time.Time              `json:"last_updated"`
	Count       int                    `json:"count"`
}

// HistoryStore persists a bounded, insertion-ordered list of analysis
// records as a single JSON document. The document is rewritten in full on
// every append; a missing or corrupt document loads as empty state.
type HistoryStore struct {
	path       string
	maxRecords int
	logger     *logrus.Logger

	mu      sync.Mutex
	records []models.HistoryRecord
}

// NewHistoryStore opens (or initializes) the history document under dataDir.
// maxRecords bounds the list; the oldest records are dropped first.
func NewHistoryStore(dataDir string, maxRecords int, logger *logrus.Logger) (*HistoryStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dataDir, err)
	}

	s := &HistoryStore{
		path:       filepath.Join(dataDir, historyFileName),
		maxRecords: maxRecords,
		logger:     logger,
	}
	s.records = s.read()
	return s, nil
}

// read loads the backing document. Absent, malformed or empty documents
// yield an empty list; history is a convenience, not a system of record.
func (s *HistoryStore) read() []models.HistoryRecord {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.WithField("path", s.path).Warnf("Failed to read history document: %v", err)
		}
		return nil
	}

	var doc historyDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.WithField("path", s.path).Warnf("Corrupt history document treated as empty: %v", err)
		return nil
	}
	return doc.History
}

// write rewrites the whole backing document from the in-memory list.
func (s *HistoryStore) write() error {
	doc := historyDocument{
		History:     s.records,
		LastUpdated: time.Now(),
		Count:       len(s.records),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize history document: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write history document: %w", err)
	}
	return nil
}

// Append validates and stores a record. Both symbols must match the ticker
// pattern and the analysis type must be known. When the bound is exceeded
// the oldest records are dropped first.
func (s *HistoryStore) Append(record models.HistoryRecord) error {
	for _, symbol := range record.Symbols {
		if err := models.ValidateSymbol(symbol); err != nil {
			return err
		}
	}
	if err := models.ValidateAnalysisType(record.AnalysisType); err != nil {
		return err
	}

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, record)
	if overflow := len(s.records) - s.maxRecords; overflow > 0 {
		s.records = s.records[overflow:]
	}

	if err := s.write(); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"id":      record.ID,
		"symbols": record.Symbols,
		"count":   len(s.records),
	}).Info("Appended analysis history record")
	return nil
}

// Load returns a copy of the stored records, oldest first.
func (s *HistoryStore) Load() []models.HistoryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.HistoryRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Clear empties the in-memory list and the backing document.
func (s *HistoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	if err := s.write(); err != nil {
		return err
	}
	s.logger.Info("Cleared analysis history")
	return nil
}

// Stats aggregates the stored records: total count, symbol frequency and
// the covered date range.
func (s *HistoryStore) Stats() models.HistoryStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := models.HistoryStats{
		Count:         len(s.records),
		AnalysisTypes: make(map[models.AnalysisType]int),
	}
	if len(s.records) == 0 {
		return stats
	}

	symbolCounts := make(map[string]int)
	earliest := s.records[0].Timestamp
	latest := s.records[0].Timestamp
	for _, record := range s.records {
		for _, symbol := range record.Symbols {
			symbolCounts[symbol]++
		}
		stats.AnalysisTypes[record.AnalysisType]++
		if record.Timestamp.Before(earliest) {
			earliest = record.Timestamp
		}
		if record.Timestamp.After(latest) {
			latest = record.Timestamp
		}
	}

	for symbol, count := range symbolCounts {
		stats.SymbolCounts = append(stats.SymbolCounts, models.SymbolCount{Symbol: symbol, Count: count})
	}
	sort.Slice(stats.SymbolCounts, func(i, j int) bool {
		if stats.SymbolCounts[i].Count != stats.SymbolCounts[j].Count {
			return stats.SymbolCounts[i].Count > stats.SymbolCounts[j].Count
		}
		return stats.SymbolCounts[i].Symbol < stats.SymbolCounts[j].Symbol
	})

	stats.DateRange = &models.DateRange{Earliest: earliest, Latest: latest}
	return stats
}

// HealthCheck verifies the data directory is still writable.
func (s *HistoryStore) HealthCheck() error {
	dir := filepath.Dir(s.path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("data directory inaccessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data path %s is not a directory", dir)
	}
	return nil
}
