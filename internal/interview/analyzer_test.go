package interview

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerpilot/internal/ai"
	"careerpilot/internal/types"
)

type fakeAssessor struct {
	assessment types.AnswerAssessment
	err        error
}

func (f *fakeAssessor) AssessAnswer(ctx context.Context, input types.AssessAnswerInput) (types.AnswerAssessment, *ai.TokenUsage, error) {
	if f.err != nil {
		return types.AnswerAssessment{}, nil, f.err
	}
	return f.assessment, nil, nil
}

func uniformAssessment(score float64) types.AnswerAssessment {
	detail := types.ScoreDetail{Score: score, Details: "test"}
	return types.AnswerAssessment{
		Clarity:      detail,
		Confidence:   detail,
		Fluency:      detail,
		Relevance:    detail,
		Sentiment:    detail,
		KeywordMatch: detail,
	}
}

func TestComputeDeliveryMetrics(t *testing.T) {
	transcript := "Um, I think I like building distributed systems. Well, actually I led a team."
	metrics := ComputeDeliveryMetrics(transcript, 30)

	assert.Equal(t, 14, metrics.WordCount)
	assert.InDelta(t, 28.0, metrics.WordsPerMinute, 1e-9)
	// um, like, well, actually
	assert.Equal(t, 4, metrics.FillerWordCount)
	assert.InDelta(t, 4.0/14.0*100, metrics.FillerRate, 1e-9)
	// "i think"
	assert.Equal(t, 1, metrics.HedgeWordCount)
}

func TestComputeDeliveryMetricsNoDuration(t *testing.T) {
	metrics := ComputeDeliveryMetrics("short answer here", 0)

	assert.Equal(t, 3, metrics.WordCount)
	assert.Zero(t, metrics.WordsPerMinute)
	assert.Zero(t, metrics.FillerRate)
}

func TestOverallScoreWeights(t *testing.T) {
	// All dimensions at the same score collapse to that score since the
	// weights sum to 1.
	assert.InDelta(t, 0.8, overallScore(uniformAssessment(0.8)), 1e-9)

	assessment := uniformAssessment(0)
	assessment.Clarity.Score = 1.0
	assert.InDelta(t, 0.20, overallScore(assessment), 1e-9)
}

func TestAnalyzeAnswer(t *testing.T) {
	analyzer := NewAnalyzer(&fakeAssessor{assessment: uniformAssessment(0.75)}, testLogger(t))

	analysis, err := analyzer.AnalyzeAnswer(context.Background(), AnswerInput{
		Question:        "Tell me about a project you led",
		Transcript:      "I led the migration of our monolith to services over two quarters",
		DurationSeconds: 25,
	}, "Looking for a backend lead")
	require.NoError(t, err)

	assert.InDelta(t, 0.75, analysis.OverallScore, 1e-9)
	assert.Equal(t, 12, analysis.Delivery.WordCount)
	assert.Greater(t, analysis.Delivery.WordsPerMinute, 0.0)
}

func TestAnalyzeAnswerEmptyTranscript(t *testing.T) {
	analyzer := NewAnalyzer(&fakeAssessor{}, testLogger(t))

	_, err := analyzer.AnalyzeAnswer(context.Background(), AnswerInput{Transcript: "  "}, "")
	require.Error(t, err)
}

func TestAnalyzeSessionAggregates(t *testing.T) {
	analyzer := NewAnalyzer(&fakeAssessor{assessment: uniformAssessment(0.9)}, testLogger(t))

	report, err := analyzer.AnalyzeSession(context.Background(), []AnswerInput{
		{Question: "q1", Transcript: "I designed and shipped the billing system end to end"},
		{Question: "q2", Transcript: "I mentored two junior engineers on testing practices"},
	}, "")
	require.NoError(t, err)

	require.Len(t, report.Analyses, 2)
	assert.InDelta(t, 0.9, report.OverallScore, 1e-9)
	require.Len(t, report.Recommendations, 1)
	assert.Contains(t, report.Recommendations[0], "Strong performance")
}

func TestAnalyzeSessionWeakDimensions(t *testing.T) {
	assessment := uniformAssessment(0.9)
	assessment.Confidence.Score = 0.3
	analyzer := NewAnalyzer(&fakeAssessor{assessment: assessment}, testLogger(t))

	report, err := analyzer.AnalyzeSession(context.Background(), []AnswerInput{
		{Question: "q1", Transcript: "I worked on some projects with various technologies"},
	}, "")
	require.NoError(t, err)

	found := false
	for _, rec := range report.Recommendations {
		if rec == "Project more confidence: use assertive language and avoid hedging" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestAnalyzeSessionFlagsFillerHeavySpeech(t *testing.T) {
	analyzer := NewAnalyzer(&fakeAssessor{assessment: uniformAssessment(0.9)}, testLogger(t))

	report, err := analyzer.AnalyzeSession(context.Background(), []AnswerInput{
		{Question: "q1", Transcript: "um so well um like I did um some stuff"},
	}, "")
	require.NoError(t, err)

	found := false
	for _, rec := range report.Recommendations {
		if rec == "Reduce filler words: pause silently instead of saying um, uh or like" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestAnalyzeSessionEmpty(t *testing.T) {
	analyzer := NewAnalyzer(&fakeAssessor{}, testLogger(t))

	_, err := analyzer.AnalyzeSession(context.Background(), nil, "")
	require.Error(t, err)
}
