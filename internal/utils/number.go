package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseNumber parses user-typed decimal text. A comma is accepted as the
// decimal separator and surrounding spaces are ignored.
func ParseNumber(text string) (float64, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, fmt.Errorf("empty number")
	}
	s = strings.Replace(s, ",", ".", 1)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", text, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", text)
	}
	return v, nil
}

// ParseIndex parses a 1-based position as shown to users and returns the 0-based index.
func ParseIndex(text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("parse position %q: %w", text, err)
	}
	return n - 1, nil
}
