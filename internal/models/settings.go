package models

import "github.com/Shriiii01/investment-agent/internal/utils"

// Settings is the flat user settings mapping. It is loaded once at startup
// and overwritten wholesale on save; there are no partial updates.
type Settings struct {
	DefaultAnalysisType AnalysisType `json:"default_analysis_type"`
	DefaultPeriod       string       `json:"default_period"`
	RiskFreeRate        float64      `json:"risk_free_rate"`
}

// DefaultSettings returns the settings used when no settings document
// exists or the stored one cannot be read.
func DefaultSettings() Settings {
	return Settings{
		DefaultAnalysisType: AnalysisDetailed,
		DefaultPeriod:       "1Y",
		RiskFreeRate:        0.0,
	}
}

// Validate checks the enumerated settings fields.
func (s Settings) Validate() error {
	if err := ValidateAnalysisType(s.DefaultAnalysisType); err != nil {
		return err
	}
	if !ValidatePeriod(s.DefaultPeriod) {
		return utils.NewValidationErrorf("invalid period %q: expected one of %v", s.DefaultPeriod, ValidPeriods)
	}
	return nil
}
