package utils

import "strings"

// SplitNameAndNumber splits "Brown rice 28" into "Brown rice" and "28".
// The last space-separated word is taken as the number.
func SplitNameAndNumber(text string) (name, number string, ok bool) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return "", "", false
	}
	return strings.Join(fields[:len(fields)-1], " "), fields[len(fields)-1], true
}
