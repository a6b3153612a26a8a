package formatters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerpilot/internal/types"
)

func TestFormatMatchResultText(t *testing.T) {
	registry := NewFormatterRegistry()
	result := types.MatchResult{
		Score: 0.823,
		Insights: types.MatchInsights{
			Summary:   "Solid backend fit",
			Strengths: []string{"Go experience", "Distributed systems"},
			Gaps:      []string{"No Kubernetes"},
		},
	}

	out, err := registry.Format(result, "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Match Score: 82.3/100")
	assert.Contains(t, out, "Solid backend fit")
	assert.Contains(t, out, "- No Kubernetes")
}

func TestFormatATSReportMarkdown(t *testing.T) {
	registry := NewFormatterRegistry()
	report := types.ATSReport{
		OverallScore: 74.5,
		Categories: map[string]types.ATSCategoryScore{
			"keyword_optimization": {Score: 0.6, Weight: 0.30, Findings: []string{"few industry keywords"}},
			"format_compatibility": {Score: 0.9, Weight: 0.25},
		},
		Recommendations: []string{"Add more role keywords"},
	}

	out, err := registry.Format(report, "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "**Overall Score:** 74.5/100")
	assert.Contains(t, out, "| Keyword Optimization | 60/100 | 30% |")
	assert.Contains(t, out, "## Keyword Optimization Findings")
	assert.Contains(t, out, "- Add more role keywords")
}

func TestFormatFallsBackToJSON(t *testing.T) {
	registry := NewFormatterRegistry()

	out, err := registry.Format(map[string]int{"answer": 42}, "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"answer": 42`)
}

func TestFormatUnknownFormat(t *testing.T) {
	registry := NewFormatterRegistry()

	_, err := registry.Format(types.MatchResult{}, "yaml")
	require.Error(t, err)
}

func TestFormatQuestionSetText(t *testing.T) {
	registry := NewFormatterRegistry()
	set := types.QuestionSet{Questions: []types.Question{
		{Question: "Explain goroutine scheduling", Type: "technical", Difficulty: "hard", FocusArea: "concurrency"},
	}}

	out, err := registry.Format(set, "text")
	require.NoError(t, err)
	assert.Contains(t, out, "1. Explain goroutine scheduling")
	assert.Contains(t, out, "[technical, hard, focus: concurrency]")
}
