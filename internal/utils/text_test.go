package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenizeWords(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
		excludes []string
	}{
		{
			name:     "drops stopwords and digits",
			input:    "The engineer improved 3 services and the team",
			contains: []string{"engineer", "improved", "services", "team"},
			excludes: []string{"the", "and", "3"},
		},
		{
			name:     "lowercases",
			input:    "Kubernetes EXPERIENCE",
			contains: []string{"kubernetes", "experience"},
		},
		{
			name:     "strips punctuation",
			input:    "python, sql; docker!",
			contains: []string{"python", "sql", "docker"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := TokenizeWords(tt.input)
			for _, want := range tt.contains {
				assert.Contains(t, tokens, want)
			}
			for _, not := range tt.excludes {
				assert.NotContains(t, tokens, not)
			}
		})
	}
}

func TestTokenizeWordsEmpty(t *testing.T) {
	assert.Empty(t, TokenizeWords(""))
	assert.Empty(t, TokenizeWords("the and of"))
}
