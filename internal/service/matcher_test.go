package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchConditions(t *testing.T) {
	tests := []struct {
		name     string
		symptoms []string
		history  []string
		want     []string
	}{
		{
			name:     "fever matches infection cluster",
			symptoms: []string{"fever"},
			want:     []string{"cold", "flu", "infection", "virus"},
		},
		{
			name:     "case insensitive lookup",
			symptoms: []string{"FEVER"},
			want:     []string{"cold", "flu", "infection", "virus"},
		},
		{
			name:    "history terms match too",
			history: []string{"diabetes"},
			want:    []string{"blood sugar", "diabetes"},
		},
		{
			name:     "symptoms and history merge without duplicates",
			symptoms: []string{"cough"},
			history:  []string{"asthma"},
			want:     []string{"asthma", "breathing", "bronchial", "bronchitis", "cold", "flu", "infection"},
		},
		{
			name:     "unknown terms match nothing",
			symptoms: []string{"toe cramp"},
			want:     []string{},
		},
		{
			name: "empty input matches nothing",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchConditions(tt.symptoms, tt.history)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultConditions(t *testing.T) {
	defaults := DefaultConditions()
	assert.Equal(t, []string{"general", "pain", "infection"}, defaults)

	// Mutating the returned slice must not affect later calls.
	defaults[0] = "mutated"
	assert.Equal(t, []string{"general", "pain", "infection"}, DefaultConditions())
}
