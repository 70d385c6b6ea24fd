package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitNameAndNumber(t *testing.T) {
	tests := []struct {
		in        string
		name, num string
		ok        bool
	}{
		{"Rice 28", "Rice", "28", true},
		{"  Brown   rice  23,5 ", "Brown rice", "23,5", true},
		{"Rice", "", "", false},
		{"   ", "", "", false},
	}
	for _, tt := range tests {
		name, num, ok := SplitNameAndNumber(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.name, name, tt.in)
		assert.Equal(t, tt.num, num, tt.in)
	}
}
