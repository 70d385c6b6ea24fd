package domain

import (
	"fmt"
	"strconv"
)

// FormatCarbs renders grams of carbohydrate with one decimal.
func FormatCarbs(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

// FormatUnits renders insulin units with two decimals.
func FormatUnits(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// FormatAmount renders a user-entered quantity without trailing zeros.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// String renders the reading or "-" when absent.
func (g Glucose) String() string {
	if !g.Valid {
		return "-"
	}
	return FormatAmount(g.Value)
}
