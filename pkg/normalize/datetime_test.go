package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"iso date passes through", "2024-12-25", "2024-12-25"},
		{"iso datetime truncated", "2024-12-25 10:00:00", "2024-12-25"},
		{"legacy day first rearranged", "25-12-2024", "2024-12-25"},
		{"whitespace trimmed", "  2024-01-02  ", "2024-01-02"},
		{"garbage yields empty", "next tuesday", ""},
		{"partial date yields empty", "12-2024", ""},
		{"non numeric triplet yields empty", "aa-bb-cccc", ""},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDate(tt.input))
		})
	}
}

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"afternoon converted", "02:30 PM", "14:30"},
		{"midnight zeroed", "12:00 AM", "00:00"},
		{"noon stays noon", "12:00 PM", "12:00"},
		{"morning padded", "9:15 AM", "09:15"},
		{"lowercase marker", "2:30 pm", "14:30"},
		{"24 hour passes through", "14:30", "14:30"},
		{"seconds pass through", "14:30:00", "14:30:00"},
		{"empty input", "", ""},
		{"marker without clock passes through", "PM", "PM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTime(tt.input))
		})
	}
}
