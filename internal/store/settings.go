package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Shriiii01/investment-agent/internal/models"
)

const settingsFileName = "settings.json"

// settingsDocument is the on-disk envelope around the settings mapping.
type settingsDocument struct {
	Settings    models.Settings `json:"settings"`
	LastUpdated time.Time       `json:"last_updated"`
}

// SettingsStore persists the flat user settings mapping as a single JSON
// document. Saves are wholesale overwrites; a crash mid-write leaves either
// the old or the new complete document, never a torn one.
type SettingsStore struct {
	path   string
	logger *logrus.Logger
}

// NewSettingsStore opens the settings document under dataDir.
func NewSettingsStore(dataDir string, logger *logrus.Logger) (*SettingsStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dataDir, err)
	}
	return &SettingsStore{
		path:   filepath.Join(dataDir, settingsFileName),
		logger: logger,
	}, nil
}

// Load returns the stored settings, or the defaults when the document is
// absent or cannot be read. It never fails.
func (s *SettingsStore) Load() models.Settings {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.WithField("path", s.path).Warnf("Failed to read settings document: %v", err)
		}
		return models.DefaultSettings()
	}

	var doc settingsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.WithField("path", s.path).Warnf("Corrupt settings document, using defaults: %v", err)
		return models.DefaultSettings()
	}
	if err := doc.Settings.Validate(); err != nil {
		s.logger.WithField("path", s.path).Warnf("Invalid stored settings, using defaults: %v", err)
		return models.DefaultSettings()
	}
	return doc.Settings
}

// Save validates and overwrites the settings document. The new document is
// written to a temporary file in the same directory and renamed into place.
func (s *SettingsStore) Save(settings models.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	doc := settingsDocument{
		Settings:    settings,
		LastUpdated: time.Now(),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize settings document: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, settingsFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary settings file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temporary settings file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary settings file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace settings document: %w", err)
	}

	s.logger.Info("User settings saved")
	return nil
}
