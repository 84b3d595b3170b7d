package util

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// SafeDivision returns x / y, or fallback when y is zero
func SafeDivision(x, y, fallback float64) float64 {
	if y == 0 {
		return fallback
	}
	return x / y
}

// Divide returns x / y and true, or 0 and false when y is zero
func Divide(x, y float64) (float64, bool) {
	if y == 0 {
		return 0, false
	}
	return x / y, true
}

// EvaluateFraction evaluates a fractional price such as "11/10"
// Each side is read with ConvertToInt so stray characters are ignored
// A missing side or a zero denominator is an error
func EvaluateFraction(fraction string) (decimal.Decimal, error) {
	parts := strings.Split(fraction, "/")
	if len(parts) != 2 {
		return decimal.Zero, fmt.Errorf("fraction %q does not have the form num/den", fraction)
	}
	num := decimal.NewFromInt(int64(ConvertToInt(parts[0])))
	den := decimal.NewFromInt(int64(ConvertToInt(parts[1])))
	if den.IsZero() {
		return decimal.Zero, fmt.Errorf("fraction %q has a zero denominator", fraction)
	}
	return num.Div(den), nil
}
