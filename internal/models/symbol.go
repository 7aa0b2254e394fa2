package models

import (
	"regexp"
	"strings"

	"github.com/Shriiii01/investment-agent/internal/utils"
)

// symbolPattern matches ticker symbols: 1-5 uppercase letters.
var symbolPattern = regexp.MustCompile(`^[A-Z]{1,5}$`)

// NormalizeSymbol uppercases a ticker symbol and strips surrounding whitespace.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// ValidateSymbol checks that a ticker symbol is 1-5 uppercase letters.
// The symbol is expected to be normalized already.
func ValidateSymbol(symbol string) error {
	if symbol == "" {
		return utils.NewValidationError("ticker symbol is empty")
	}
	if !symbolPattern.MatchString(symbol) {
		return utils.NewValidationErrorf("invalid ticker symbol %q: expected 1-5 uppercase letters", symbol)
	}
	return nil
}
