package models

import (
	"time"

	"github.com/Shriiii01/investment-agent/internal/utils"
)

// AnalysisType tags the depth and focus of a comparison run.
type AnalysisType string

const (
	AnalysisQuick     AnalysisType = "quick"
	AnalysisDetailed  AnalysisType = "detailed"
	AnalysisPortfolio AnalysisType = "portfolio"
	AnalysisTrend     AnalysisType = "trend"
)

// Valid reports whether t is one of the known analysis types.
func (t AnalysisType) Valid() bool {
	switch t {
	case AnalysisQuick, AnalysisDetailed, AnalysisPortfolio, AnalysisTrend:
		return true
	}
	return false
}

// ValidateAnalysisType returns a validation error for unknown analysis types.
func ValidateAnalysisType(t AnalysisType) error {
	if !t.Valid() {
		return utils.NewValidationErrorf("invalid analysis type %q: expected quick, detailed, portfolio or trend", string(t))
	}
	return nil
}

// AnalyzeRequest carries the user input for one comparison run.
type AnalyzeRequest struct {
	Symbol1      string       `json:"symbol1" binding:"required"`
	Symbol2      string       `json:"symbol2" binding:"required"`
	AnalysisType AnalysisType `json:"analysis_type"`
	Period       string       `json:"period"`
}

// ComparisonRow is one metric compared side by side for the two symbols.
// Values are pre-formatted strings so that non-computable metrics render
// as "N/A" instead of a misleading zero.
type ComparisonRow struct {
	Metric string `json:"metric"`
	Value1 string `json:"value1"`
	Value2 string `json:"value2"`
}

// AnalysisResult is the outcome of one comparison run: the generated
// narrative report plus the computed metric table.
type AnalysisResult struct {
	ID           string          `json:"id"`
	Symbols      [2]string       `json:"symbols"`
	AnalysisType AnalysisType    `json:"analysis_type"`
	Period       string          `json:"period"`
	GeneratedAt  time.Time       `json:"generated_at"`
	Report       string          `json:"report"`
	Comparison   []ComparisonRow `json:"comparison"`
}

// CompareRequest is the input handed to the narrative generator.
type CompareRequest struct {
	Symbol1      string
	Symbol2      string
	AnalysisType AnalysisType
	Comparison   []ComparisonRow
}
