package shared

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseOrZero parses a user-entered number. Blank or malformed input yields 0 so
// that no NaN ever enters a recalculation.
func ParseOrZero(value string) float64 {
	cleaned := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if cleaned == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0
	}
	return parsed
}

// ParseBoolOrFalse parses a user-entered flag; anything unrecognised is false
func ParseBoolOrFalse(value string) bool {
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	return err == nil && parsed
}

// Round2 rounds half away from zero at two decimals
func Round2(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return decimal.NewFromFloat(value).Round(2).InexactFloat64()
}

// NonNegative clamps negative values to zero
func NonNegative(value float64) float64 {
	if value < 0 {
		return 0
	}
	return value
}
