// Package ats scores a resume's compatibility with applicant tracking
// systems. Scoring is fully deterministic: four weighted categories, each
// built from plain-text heuristics, no AI calls.
package ats

import (
	"math"
	"regexp"
	"strings"

	"careerpilot/internal/types"
	"careerpilot/internal/utils"
)

// Scoring categories and their weights in the overall score.
const (
	CategoryFormat    = "format_compatibility"
	CategoryKeywords  = "keyword_optimization"
	CategoryStructure = "structure_quality"
	CategoryContent   = "content_quality"
)

var categoryWeights = map[string]float64{
	CategoryFormat:    0.25,
	CategoryKeywords:  0.30,
	CategoryStructure: 0.25,
	CategoryContent:   0.20,
}

var (
	problematicPattern = regexp.MustCompile(`<table>|<img>|<graphic>|<image>|columns?|table|graphic|image`)
	fontPattern        = regexp.MustCompile(`arial|times|calibri|helvetica`)
	fontMention        = regexp.MustCompile(`font`)
	emailPattern       = regexp.MustCompile(`@\w+\.\w+`)
	phonePattern       = regexp.MustCompile(`\(\d{3}\)\s*\d{3}-\d{4}|\d{3}-\d{3}-\d{4}`)
	quantifiedPattern  = regexp.MustCompile(`\d+%|\$\d+|\d+x|\d+\+|\d+ years?|increased by \d+|reduced by \d+|improved by \d+`)
)

var standardSections = []string{"experience", "education", "skills", "summary", "objective"}

var industryKeywords = []string{
	"python", "machine learning", "ai", "data analysis", "sql",
	"javascript", "react", "node", "api", "database", "cloud",
	"aws", "azure", "docker", "kubernetes", "git", "agile",
}

var actionVerbs = []string{
	"developed", "implemented", "managed", "led", "created",
	"designed", "built", "optimized", "improved", "delivered",
}

var professionalKeywords = []string{"achieved", "developed", "implemented", "managed", "led"}

// Analyzer computes ATS compatibility reports from plain resume text.
type Analyzer struct{}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze scores resumeText against the four ATS categories. jobDescription
// is optional; when present, keyword overlap with it contributes to the
// keyword-optimization category.
func (a *Analyzer) Analyze(resumeText, jobDescription string) types.ATSReport {
	lower := strings.ToLower(resumeText)
	tokens := utils.TokenizeWords(resumeText)

	categories := map[string]types.ATSCategoryScore{}
	total := 0.0
	for category, weight := range categoryWeights {
		var score float64
		var findings []string
		switch category {
		case CategoryFormat:
			score, findings = a.checkFormatCompatibility(lower)
		case CategoryKeywords:
			score, findings = a.checkKeywordOptimization(lower, tokens, jobDescription)
		case CategoryStructure:
			score, findings = a.checkStructureQuality(lower)
		case CategoryContent:
			score, findings = a.checkContentQuality(resumeText, lower, tokens)
		}
		weighted := score * weight
		categories[category] = types.ATSCategoryScore{
			Score:         score,
			Weight:        weight,
			WeightedScore: weighted,
			Findings:      findings,
		}
		total += weighted
	}

	return types.ATSReport{
		OverallScore:    math.Round(total*1000) / 10,
		Categories:      categories,
		Recommendations: recommendations(categories),
	}
}

func (a *Analyzer) checkFormatCompatibility(lower string) (float64, []string) {
	var score float64
	var findings []string

	found := 0
	for _, section := range standardSections {
		if strings.Contains(lower, section) {
			found++
		}
	}
	score += float64(found) / float64(len(standardSections)) * 0.3
	if found < len(standardSections) {
		findings = append(findings, "some standard section headers are missing")
	}

	if !problematicPattern.MatchString(lower) {
		score += 0.3
	} else {
		findings = append(findings, "tables, columns or graphics detected; these confuse ATS parsers")
	}

	if fontPattern.MatchString(lower) || !fontMention.MatchString(lower) {
		score += 0.2
	} else {
		findings = append(findings, "non-standard font references found")
	}

	// Plain-text input is already in an ATS-friendly format.
	score += 0.2

	return math.Min(score, 1.0), findings
}

func (a *Analyzer) checkKeywordOptimization(lower string, tokens []string, jobDescription string) (float64, []string) {
	var score float64
	var findings []string

	foundKeywords := 0
	for _, keyword := range industryKeywords {
		if strings.Contains(lower, keyword) {
			foundKeywords++
		}
	}
	score += math.Min(float64(foundKeywords)/10, 1.0) * 0.4
	if foundKeywords < 5 {
		findings = append(findings, "few industry keywords present")
	}

	foundVerbs := 0
	for _, verb := range actionVerbs {
		if strings.Contains(lower, verb) {
			foundVerbs++
		}
	}
	score += math.Min(float64(foundVerbs)/5, 1.0) * 0.3
	if foundVerbs < 3 {
		findings = append(findings, "few action verbs describing accomplishments")
	}

	if jobDescription != "" {
		jdTokens := utils.TokenizeWords(jobDescription)
		if len(jdTokens) > 0 {
			resumeSet := make(map[string]struct{}, len(tokens))
			for _, token := range tokens {
				resumeSet[token] = struct{}{}
			}
			common := 0
			seen := map[string]struct{}{}
			for _, token := range jdTokens {
				if _, dup := seen[token]; dup {
					continue
				}
				seen[token] = struct{}{}
				if _, ok := resumeSet[token]; ok {
					common++
				}
			}
			ratio := float64(common) / float64(len(seen))
			score += math.Min(ratio*2, 1.0) * 0.3
			if ratio < 0.2 {
				findings = append(findings, "low keyword overlap with the job description")
			}
		}
	} else {
		score += 0.3
	}

	return math.Min(score, 1.0), findings
}

func (a *Analyzer) checkStructureQuality(lower string) (float64, []string) {
	var score float64
	var findings []string

	contactFound := 0
	if emailPattern.MatchString(lower) {
		contactFound++
	}
	if phonePattern.MatchString(lower) {
		contactFound++
	}
	if strings.Contains(lower, "linkedin.com") {
		contactFound++
	}
	if strings.Contains(lower, "github.com") {
		contactFound++
	}
	score += math.Min(float64(contactFound)/3, 1.0) * 0.25
	if contactFound == 0 {
		findings = append(findings, "no contact information detected")
	}

	if containsAny(lower, "summary", "profile", "objective", "about") {
		score += 0.2
	} else {
		findings = append(findings, "no professional summary section")
	}

	if containsAny(lower, "experience", "employment", "work history", "career") {
		score += 0.2
	} else {
		findings = append(findings, "no work experience section")
	}

	if containsAny(lower, "education", "degree", "university", "college", "bachelor", "master") {
		score += 0.2
	} else {
		findings = append(findings, "no education section")
	}

	if containsAny(lower, "skills", "technical skills", "competencies", "expertise") {
		score += 0.15
	} else {
		findings = append(findings, "no skills section")
	}

	return math.Min(score, 1.0), findings
}

func (a *Analyzer) checkContentQuality(raw, lower string, tokens []string) (float64, []string) {
	var score float64
	var findings []string

	quantified := len(quantifiedPattern.FindAllString(lower, 4))
	score += math.Min(float64(quantified)/3, 1.0) * 0.3
	if quantified == 0 {
		findings = append(findings, "no quantified achievements (percentages, dollar amounts, multipliers)")
	}

	wordCount := len(tokens)
	switch {
	case wordCount >= 200 && wordCount <= 800:
		score += 0.3
	case (wordCount >= 100 && wordCount < 200) || (wordCount > 800 && wordCount <= 1200):
		score += 0.15
		findings = append(findings, "resume length is outside the ideal range")
	default:
		findings = append(findings, "resume is far too short or too long")
	}

	nonEmpty := 0
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) != "" {
			nonEmpty++
		}
	}
	if nonEmpty > 10 {
		score += 0.2
	}

	professionalFound := 0
	for _, keyword := range professionalKeywords {
		if strings.Contains(lower, keyword) {
			professionalFound++
		}
	}
	score += math.Min(float64(professionalFound)/3, 1.0) * 0.2
	if professionalFound == 0 {
		findings = append(findings, "tone reads passive; lead bullets with accomplishment verbs")
	}

	return math.Min(score, 1.0), findings
}

// recommendations maps weak categories (score < 0.7) to improvement advice.
func recommendations(categories map[string]types.ATSCategoryScore) []string {
	advice := map[string]string{
		CategoryFormat:    "Improve format compatibility: use standard fonts, avoid tables and graphics, keep a simple single-column layout",
		CategoryKeywords:  "Optimize keywords: include more industry-specific terms and action verbs",
		CategoryStructure: "Improve structure: ensure contact, summary, experience, education and skills sections are all present",
		CategoryContent:   "Enhance content: add quantified achievements and maintain a professional tone",
	}

	var recs []string
	// Stable order matching the weight table, not map iteration order.
	for _, category := range []string{CategoryFormat, CategoryKeywords, CategoryStructure, CategoryContent} {
		if data, ok := categories[category]; ok && data.Score < 0.7 {
			recs = append(recs, advice[category])
		}
	}
	if len(recs) == 0 {
		recs = append(recs, "Great job! Your resume has good ATS compatibility.")
	}
	return recs
}

func containsAny(haystack string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
