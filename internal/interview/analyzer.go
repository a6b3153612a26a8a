package interview

import (
	"context"
	"fmt"
	"strings"

	"careerpilot/internal/ai"
	"careerpilot/internal/errors"
	"careerpilot/internal/types"
)

// Weights of the assessment dimensions in an answer's overall score
var assessmentWeights = map[string]float64{
	"clarity":       0.20,
	"confidence":    0.20,
	"sentiment":     0.10,
	"keyword_match": 0.15,
	"fluency":       0.15,
	"relevance":     0.20,
}

var fillerWords = map[string]struct{}{
	"um": {}, "uh": {}, "like": {}, "so": {}, "well": {}, "actually": {}, "basically": {},
}

// hedgePhrases are matched as substrings of the lowercased transcript
var hedgePhrases = []string{
	"i think", "i guess", "maybe", "perhaps", "possibly", "kind of", "sort of", "i'm not sure",
}

// AnswerInput is one recorded mock interview answer
type AnswerInput struct {
	Question        string  `json:"question"`
	Transcript      string  `json:"transcript"`
	DurationSeconds float64 `json:"durationSeconds,omitempty"`
}

// Assessor scores an answer transcript. ai.Provider satisfies it.
type Assessor interface {
	AssessAnswer(ctx context.Context, input types.AssessAnswerInput) (types.AnswerAssessment, *ai.TokenUsage, error)
}

// Analyzer combines AI assessment with deterministic delivery metrics
type Analyzer struct {
	assessor Assessor
	logger   *errors.Logger
}

func NewAnalyzer(assessor Assessor, logger *errors.Logger) *Analyzer {
	return &Analyzer{assessor: assessor, logger: logger}
}

// AnalyzeAnswer scores one answer against its question and an optional
// job description.
func (a *Analyzer) AnalyzeAnswer(ctx context.Context, input AnswerInput, jobDescription string) (types.AnswerAnalysis, error) {
	if strings.TrimSpace(input.Transcript) == "" {
		return types.AnswerAnalysis{}, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"answer transcript is empty", nil)
	}

	assessment, _, err := a.assessor.AssessAnswer(ctx, types.AssessAnswerInput{
		Question:       input.Question,
		Transcript:     input.Transcript,
		JobDescription: jobDescription,
	})
	if err != nil {
		return types.AnswerAnalysis{}, err
	}

	analysis := types.AnswerAnalysis{
		Question:     input.Question,
		Assessment:   assessment,
		Delivery:     ComputeDeliveryMetrics(input.Transcript, input.DurationSeconds),
		OverallScore: overallScore(assessment),
	}
	return analysis, nil
}

// AnalyzeSession scores every answer of a mock interview and aggregates a
// report with recommendations.
func (a *Analyzer) AnalyzeSession(ctx context.Context, answers []AnswerInput, jobDescription string) (types.InterviewReport, error) {
	if len(answers) == 0 {
		return types.InterviewReport{}, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"no answers to analyze", nil)
	}

	report := types.InterviewReport{Analyses: make([]types.AnswerAnalysis, 0, len(answers))}
	total := 0.0
	for _, answer := range answers {
		analysis, err := a.AnalyzeAnswer(ctx, answer, jobDescription)
		if err != nil {
			return types.InterviewReport{}, err
		}
		report.Analyses = append(report.Analyses, analysis)
		total += analysis.OverallScore
	}
	report.OverallScore = total / float64(len(report.Analyses))
	report.Recommendations = buildRecommendations(report.Analyses)

	a.logger.Info("Mock interview analyzed",
		"answers", len(report.Analyses),
		"overall_score", report.OverallScore)
	return report, nil
}

// ComputeDeliveryMetrics derives speech-delivery measurements from the
// transcript and, when known, the answer duration.
func ComputeDeliveryMetrics(transcript string, durationSeconds float64) types.DeliveryMetrics {
	lower := strings.ToLower(transcript)
	words := strings.Fields(lower)

	metrics := types.DeliveryMetrics{
		WordCount:       len(words),
		DurationSeconds: durationSeconds,
	}
	if durationSeconds > 0 {
		metrics.WordsPerMinute = float64(len(words)) / (durationSeconds / 60)
	}

	for _, word := range words {
		trimmed := strings.Trim(word, ".,!?;:'\"")
		if _, ok := fillerWords[trimmed]; ok {
			metrics.FillerWordCount++
		}
	}
	if len(words) > 0 {
		metrics.FillerRate = float64(metrics.FillerWordCount) / float64(len(words)) * 100
	}

	for _, phrase := range hedgePhrases {
		metrics.HedgeWordCount += strings.Count(lower, phrase)
	}
	return metrics
}

func overallScore(assessment types.AnswerAssessment) float64 {
	return assessment.Clarity.Score*assessmentWeights["clarity"] +
		assessment.Confidence.Score*assessmentWeights["confidence"] +
		assessment.Sentiment.Score*assessmentWeights["sentiment"] +
		assessment.KeywordMatch.Score*assessmentWeights["keyword_match"] +
		assessment.Fluency.Score*assessmentWeights["fluency"] +
		assessment.Relevance.Score*assessmentWeights["relevance"]
}

// buildRecommendations flags the dimensions that averaged weak across the
// session, plus delivery problems the metrics expose.
func buildRecommendations(analyses []types.AnswerAnalysis) []string {
	n := float64(len(analyses))
	sums := map[string]float64{}
	var fillerRate, wpmSum float64
	timed := 0
	for _, analysis := range analyses {
		sums["clarity"] += analysis.Assessment.Clarity.Score
		sums["confidence"] += analysis.Assessment.Confidence.Score
		sums["fluency"] += analysis.Assessment.Fluency.Score
		sums["relevance"] += analysis.Assessment.Relevance.Score
		sums["keyword_match"] += analysis.Assessment.KeywordMatch.Score
		fillerRate += analysis.Delivery.FillerRate
		if analysis.Delivery.WordsPerMinute > 0 {
			wpmSum += analysis.Delivery.WordsPerMinute
			timed++
		}
	}

	advice := []struct {
		dimension string
		text      string
	}{
		{"clarity", "Work on clarity: structure answers with a clear beginning, middle and end"},
		{"confidence", "Project more confidence: use assertive language and avoid hedging"},
		{"fluency", "Improve fluency: practice answers aloud to reduce repetition and incomplete sentences"},
		{"relevance", "Stay on topic: tie every answer back to the question and the role"},
		{"keyword_match", "Use the role's vocabulary: mirror key terms from the job description"},
	}

	var recommendations []string
	for _, item := range advice {
		if sums[item.dimension]/n < 0.6 {
			recommendations = append(recommendations, item.text)
		}
	}

	if fillerRate/n > 5 {
		recommendations = append(recommendations,
			"Reduce filler words: pause silently instead of saying um, uh or like")
	}
	if timed > 0 {
		avgWPM := wpmSum / float64(timed)
		if avgWPM > 180 {
			recommendations = append(recommendations,
				fmt.Sprintf("Slow down: you averaged %.0f words per minute; aim for 120-160", avgWPM))
		} else if avgWPM > 0 && avgWPM < 100 {
			recommendations = append(recommendations,
				fmt.Sprintf("Pick up the pace: you averaged %.0f words per minute; aim for 120-160", avgWPM))
		}
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations, "Strong performance across the board. Keep practicing with harder questions.")
	}
	return recommendations
}
