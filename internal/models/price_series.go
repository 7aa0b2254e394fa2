package models

import "time"

// PriceSeries holds a chronological daily closing-price series for one symbol.
// Dates and Closes are parallel slices ordered oldest first.
type PriceSeries struct {
	Symbol string      `json:"symbol"`
	Period string      `json:"period"`
	Dates  []time.Time `json:"dates"`
	Closes []float64   `json:"closes"`
}

// Len returns the number of data points in the series.
func (s *PriceSeries) Len() int {
	return len(s.Closes)
}

// Latest returns the most recent closing price, or 0 if the series is empty.
func (s *PriceSeries) Latest() float64 {
	if len(s.Closes) == 0 {
		return 0
	}
	return s.Closes[len(s.Closes)-1]
}

// ValidPeriods lists the accepted history window identifiers, shortest first.
var ValidPeriods = []string{"1M", "3M", "6M", "1Y", "2Y", "5Y"}

// periodTradingDays maps a period identifier to its approximate number of
// trading days (21 per month, 252 per year).
var periodTradingDays = map[string]int{
	"1M": 21,
	"3M": 63,
	"6M": 126,
	"1Y": 252,
	"2Y": 504,
	"5Y": 1260,
}

// ValidatePeriod reports whether period is one of the accepted identifiers.
func ValidatePeriod(period string) bool {
	_, ok := periodTradingDays[period]
	return ok
}

// PeriodTradingDays returns the number of trading days for a period
// identifier, defaulting to one year for unknown values.
func PeriodTradingDays(period string) int {
	if days, ok := periodTradingDays[period]; ok {
		return days
	}
	return periodTradingDays["1Y"]
}
