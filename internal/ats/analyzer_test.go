package ats

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerpilot/internal/types"
)

const strongResume = `
Jane Smith
jane@example.com | 555-123-4567 | linkedin.com/in/janesmith | github.com/janesmith

Summary
Backend engineer who developed and optimized cloud services on AWS.

Experience
Senior Engineer, Acme Corp
- Developed a python api that improved throughput by 40%
- Led a team of 5 and managed migration to kubernetes and docker
- Implemented sql database tuning that reduced by 30 the query latency
- Created data analysis pipelines and delivered machine learning features
- Designed react dashboards and built git-based agile workflows
- Achieved $2M in cost savings over 3 years

Education
BSc Computer Science, State University

Skills
python, sql, javascript, react, node, aws, azure, cloud, api, git, agile
`

const weakResume = `I want a job. I am hardworking and passionate.`

func TestAnalyzeStrongResume(t *testing.T) {
	report := NewAnalyzer().Analyze(strings.Repeat(strongResume, 2), "")

	assert.Greater(t, report.OverallScore, 70.0)
	assert.LessOrEqual(t, report.OverallScore, 100.0)
	require.Len(t, report.Categories, 4)

	totalWeight := 0.0
	for name, category := range report.Categories {
		assert.GreaterOrEqual(t, category.Score, 0.0, name)
		assert.LessOrEqual(t, category.Score, 1.0, name)
		assert.InDelta(t, category.Score*category.Weight, category.WeightedScore, 1e-9, name)
		totalWeight += category.Weight
	}
	assert.InDelta(t, 1.0, totalWeight, 1e-9)
}

func TestAnalyzeWeakResume(t *testing.T) {
	report := NewAnalyzer().Analyze(weakResume, "")

	assert.Less(t, report.OverallScore, 50.0)
	require.NotEmpty(t, report.Recommendations)
	assert.Contains(t, report.Recommendations,
		"Optimize keywords: include more industry-specific terms and action verbs")
	assert.Contains(t, report.Recommendations,
		"Improve structure: ensure contact, summary, experience, education and skills sections are all present")
	assert.Contains(t, report.Recommendations,
		"Enhance content: add quantified achievements and maintain a professional tone")

	structure := report.Categories[CategoryStructure]
	assert.Contains(t, structure.Findings, "no contact information detected")
}

func TestAnalyzeStrongBeatsWeak(t *testing.T) {
	analyzer := NewAnalyzer()
	strong := analyzer.Analyze(strings.Repeat(strongResume, 2), "")
	weak := analyzer.Analyze(weakResume, "")

	assert.Greater(t, strong.OverallScore, weak.OverallScore)
	for _, category := range []string{CategoryFormat, CategoryKeywords, CategoryStructure, CategoryContent} {
		assert.GreaterOrEqual(t, strong.Categories[category].Score, weak.Categories[category].Score, category)
	}
}

func TestJobDescriptionOverlapRaisesKeywordScore(t *testing.T) {
	analyzer := NewAnalyzer()

	matching := analyzer.Analyze(strongResume, "Looking for a python engineer with kubernetes, docker, sql and aws experience")
	unrelated := analyzer.Analyze(strongResume, "Seeking a pastry chef experienced with laminated dough and chocolate tempering")

	assert.Greater(t,
		matching.Categories[CategoryKeywords].Score,
		unrelated.Categories[CategoryKeywords].Score)
}

func TestRecommendationsForCleanReport(t *testing.T) {
	categories := map[string]types.ATSCategoryScore{
		CategoryFormat:    {Score: 0.9},
		CategoryKeywords:  {Score: 0.85},
		CategoryStructure: {Score: 0.95},
		CategoryContent:   {Score: 0.8},
	}
	recs := recommendations(categories)
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0], "Great job")
}

func TestContainsAny(t *testing.T) {
	assert.True(t, containsAny("work experience section", "experience", "employment"))
	assert.False(t, containsAny("hobbies", "experience", "employment"))
}
