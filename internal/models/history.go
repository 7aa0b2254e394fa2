package models

import "time"

// HistoryRecord is one persisted analysis run. Records are stored oldest
// first in the history document.
type HistoryRecord struct {
	ID           string          `json:"id"`
	Symbols      [2]string       `json:"symbols"`
	AnalysisType AnalysisType    `json:"analysis_type"`
	Timestamp    time.Time       `json:"timestamp"`
	Report       string          `json:"report"`
	Comparison   []ComparisonRow `json:"comparison,omitempty"`
}

// HistoryStats summarizes the persisted history.
type HistoryStats struct {
	Count         int                  `json:"count"`
	SymbolCounts  []SymbolCount        `json:"most_common_symbols"`
	AnalysisTypes map[AnalysisType]int `json:"analysis_types"`
	DateRange     *DateRange           `json:"date_range,omitempty"`
}

// SymbolCount pairs a ticker symbol with how often it appears in history.
type SymbolCount struct {
	Symbol string `json:"symbol"`
	Count  int    `json:"count"`
}

// DateRange spans the earliest and latest record timestamps.
type DateRange struct {
	Earliest time.Time `json:"earliest"`
	Latest   time.Time `json:"latest"`
}
