package formatters

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"careerpilot/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "MatchResult", &MatchTextFormatter{})
	registry.RegisterFormatter("markdown", "MatchResult", &MatchMarkdownFormatter{})
	registry.RegisterFormatter("text", "ATSReport", &ATSTextFormatter{})
	registry.RegisterFormatter("markdown", "ATSReport", &ATSMarkdownFormatter{})
	registry.RegisterFormatter("text", "QuestionSet", &QuestionsTextFormatter{})
	registry.RegisterFormatter("markdown", "QuestionSet", &QuestionsMarkdownFormatter{})
	registry.RegisterFormatter("text", "InterviewReport", &InterviewTextFormatter{})
	registry.RegisterFormatter("markdown", "InterviewReport", &InterviewMarkdownFormatter{})
	registry.RegisterFormatter("text", "PortfolioResult", &PortfolioTextFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.MatchResult:
		return "MatchResult"
	case types.ATSReport:
		return "ATSReport"
	case types.QuestionSet:
		return "QuestionSet"
	case types.InterviewReport:
		return "InterviewReport"
	case types.PortfolioResult:
		return "PortfolioResult"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

func writeList(output *strings.Builder, items []string) {
	for _, item := range items {
		output.WriteString(fmt.Sprintf("- %s\n", item))
	}
	output.WriteString("\n")
}

// MatchTextFormatter handles text formatting for match results
type MatchTextFormatter struct{}

func (mtf *MatchTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.MatchResult)
	if !ok {
		return "", fmt.Errorf("expected MatchResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== RESUME-JOB MATCH ===\n\n")
	output.WriteString(fmt.Sprintf("Match Score: %.1f/100\n\n", result.Score*100))
	output.WriteString("Summary:\n")
	output.WriteString(result.Insights.Summary)
	output.WriteString("\n\n")

	if len(result.Insights.Strengths) > 0 {
		output.WriteString("Strengths:\n")
		writeList(&output, result.Insights.Strengths)
	}
	if len(result.Insights.Gaps) > 0 {
		output.WriteString("Gaps:\n")
		writeList(&output, result.Insights.Gaps)
	}
	if len(result.Insights.Suggestions) > 0 {
		output.WriteString("Suggestions:\n")
		writeList(&output, result.Insights.Suggestions)
	}

	return output.String(), nil
}

func (mtf *MatchTextFormatter) SupportedType() string {
	return "MatchResult"
}

// MatchMarkdownFormatter handles markdown formatting for match results
type MatchMarkdownFormatter struct{}

func (mmf *MatchMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.MatchResult)
	if !ok {
		return "", fmt.Errorf("expected MatchResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Resume-Job Match\n\n")
	output.WriteString(fmt.Sprintf("**Match Score:** %.1f/100\n\n", result.Score*100))
	output.WriteString("## Summary\n\n")
	output.WriteString(result.Insights.Summary)
	output.WriteString("\n\n")

	if len(result.Insights.Strengths) > 0 {
		output.WriteString("## Strengths\n")
		writeList(&output, result.Insights.Strengths)
	}
	if len(result.Insights.Gaps) > 0 {
		output.WriteString("## Gaps\n")
		writeList(&output, result.Insights.Gaps)
	}
	if len(result.Insights.Suggestions) > 0 {
		output.WriteString("## Suggestions\n")
		writeList(&output, result.Insights.Suggestions)
	}

	return output.String(), nil
}

func (mmf *MatchMarkdownFormatter) SupportedType() string {
	return "MatchResult"
}

func sortedCategories(categories map[string]types.ATSCategoryScore) []string {
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func categoryTitle(name string) string {
	words := strings.Split(name, "_")
	for i, word := range words {
		if word != "" {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}

// ATSTextFormatter handles text formatting for ATS reports
type ATSTextFormatter struct{}

func (atf *ATSTextFormatter) Format(data any) (string, error) {
	report, ok := data.(types.ATSReport)
	if !ok {
		return "", fmt.Errorf("expected ATSReport, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== ATS COMPATIBILITY REPORT ===\n\n")
	output.WriteString(fmt.Sprintf("Overall Score: %.1f/100\n\n", report.OverallScore))

	for _, name := range sortedCategories(report.Categories) {
		category := report.Categories[name]
		output.WriteString(fmt.Sprintf("%s: %.0f/100 (weight %.0f%%)\n",
			categoryTitle(name), category.Score*100, category.Weight*100))
		for _, finding := range category.Findings {
			output.WriteString(fmt.Sprintf("  - %s\n", finding))
		}
	}
	output.WriteString("\n")

	if len(report.Recommendations) > 0 {
		output.WriteString("Recommendations:\n")
		writeList(&output, report.Recommendations)
	}

	return output.String(), nil
}

func (atf *ATSTextFormatter) SupportedType() string {
	return "ATSReport"
}

// ATSMarkdownFormatter handles markdown formatting for ATS reports
type ATSMarkdownFormatter struct{}

func (amf *ATSMarkdownFormatter) Format(data any) (string, error) {
	report, ok := data.(types.ATSReport)
	if !ok {
		return "", fmt.Errorf("expected ATSReport, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# ATS Compatibility Report\n\n")
	output.WriteString(fmt.Sprintf("**Overall Score:** %.1f/100\n\n", report.OverallScore))

	output.WriteString("| Category | Score | Weight |\n")
	output.WriteString("|----------|-------|--------|\n")
	for _, name := range sortedCategories(report.Categories) {
		category := report.Categories[name]
		output.WriteString(fmt.Sprintf("| %s | %.0f/100 | %.0f%% |\n",
			categoryTitle(name), category.Score*100, category.Weight*100))
	}
	output.WriteString("\n")

	for _, name := range sortedCategories(report.Categories) {
		category := report.Categories[name]
		if len(category.Findings) == 0 {
			continue
		}
		output.WriteString(fmt.Sprintf("## %s Findings\n", categoryTitle(name)))
		writeList(&output, category.Findings)
	}

	if len(report.Recommendations) > 0 {
		output.WriteString("## Recommendations\n\n")
		writeList(&output, report.Recommendations)
	}

	return output.String(), nil
}

func (amf *ATSMarkdownFormatter) SupportedType() string {
	return "ATSReport"
}

// QuestionsTextFormatter handles text formatting for generated question sets
type QuestionsTextFormatter struct{}

func (qtf *QuestionsTextFormatter) Format(data any) (string, error) {
	set, ok := data.(types.QuestionSet)
	if !ok {
		return "", fmt.Errorf("expected QuestionSet, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== INTERVIEW QUESTIONS ===\n\n")
	for i, question := range set.Questions {
		output.WriteString(fmt.Sprintf("%d. %s\n", i+1, question.Question))
		output.WriteString(fmt.Sprintf("   [%s, %s", question.Type, question.Difficulty))
		if question.FocusArea != "" {
			output.WriteString(fmt.Sprintf(", focus: %s", question.FocusArea))
		}
		output.WriteString("]\n\n")
	}

	return output.String(), nil
}

func (qtf *QuestionsTextFormatter) SupportedType() string {
	return "QuestionSet"
}

// QuestionsMarkdownFormatter handles markdown formatting for generated question sets
type QuestionsMarkdownFormatter struct{}

func (qmf *QuestionsMarkdownFormatter) Format(data any) (string, error) {
	set, ok := data.(types.QuestionSet)
	if !ok {
		return "", fmt.Errorf("expected QuestionSet, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Interview Questions\n\n")
	for i, question := range set.Questions {
		output.WriteString(fmt.Sprintf("%d. **%s**\n", i+1, question.Question))
		output.WriteString(fmt.Sprintf("   *%s, %s*", question.Type, question.Difficulty))
		if question.FocusArea != "" {
			output.WriteString(fmt.Sprintf(" — focus: %s", question.FocusArea))
		}
		output.WriteString("\n\n")
	}

	return output.String(), nil
}

func (qmf *QuestionsMarkdownFormatter) SupportedType() string {
	return "QuestionSet"
}

// InterviewTextFormatter handles text formatting for mock interview reports
type InterviewTextFormatter struct{}

func (itf *InterviewTextFormatter) Format(data any) (string, error) {
	report, ok := data.(types.InterviewReport)
	if !ok {
		return "", fmt.Errorf("expected InterviewReport, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== MOCK INTERVIEW REPORT ===\n\n")
	output.WriteString(fmt.Sprintf("Overall Score: %.0f/100\n\n", report.OverallScore*100))

	for i, analysis := range report.Analyses {
		output.WriteString(fmt.Sprintf("--- Answer %d ---\n", i+1))
		if analysis.Question != "" {
			output.WriteString(fmt.Sprintf("Question: %s\n", analysis.Question))
		}
		output.WriteString(fmt.Sprintf("Score: %.0f/100\n", analysis.OverallScore*100))
		output.WriteString(fmt.Sprintf("Clarity: %.0f  Confidence: %.0f  Fluency: %.0f  Relevance: %.0f\n",
			analysis.Assessment.Clarity.Score*100,
			analysis.Assessment.Confidence.Score*100,
			analysis.Assessment.Fluency.Score*100,
			analysis.Assessment.Relevance.Score*100))
		output.WriteString(fmt.Sprintf("Delivery: %d words", analysis.Delivery.WordCount))
		if analysis.Delivery.WordsPerMinute > 0 {
			output.WriteString(fmt.Sprintf(", %.0f wpm", analysis.Delivery.WordsPerMinute))
		}
		output.WriteString(fmt.Sprintf(", %d fillers\n\n", analysis.Delivery.FillerWordCount))
	}

	if len(report.Recommendations) > 0 {
		output.WriteString("Recommendations:\n")
		writeList(&output, report.Recommendations)
	}

	return output.String(), nil
}

func (itf *InterviewTextFormatter) SupportedType() string {
	return "InterviewReport"
}

// InterviewMarkdownFormatter handles markdown formatting for mock interview reports
type InterviewMarkdownFormatter struct{}

func (imf *InterviewMarkdownFormatter) Format(data any) (string, error) {
	report, ok := data.(types.InterviewReport)
	if !ok {
		return "", fmt.Errorf("expected InterviewReport, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Mock Interview Report\n\n")
	output.WriteString(fmt.Sprintf("**Overall Score:** %.0f/100\n\n", report.OverallScore*100))

	for i, analysis := range report.Analyses {
		output.WriteString(fmt.Sprintf("## Answer %d\n\n", i+1))
		if analysis.Question != "" {
			output.WriteString(fmt.Sprintf("**Question:** %s\n\n", analysis.Question))
		}
		output.WriteString(fmt.Sprintf("**Score:** %.0f/100\n\n", analysis.OverallScore*100))
		output.WriteString("| Dimension | Score |\n|-----------|-------|\n")
		output.WriteString(fmt.Sprintf("| Clarity | %.0f |\n", analysis.Assessment.Clarity.Score*100))
		output.WriteString(fmt.Sprintf("| Confidence | %.0f |\n", analysis.Assessment.Confidence.Score*100))
		output.WriteString(fmt.Sprintf("| Fluency | %.0f |\n", analysis.Assessment.Fluency.Score*100))
		output.WriteString(fmt.Sprintf("| Relevance | %.0f |\n", analysis.Assessment.Relevance.Score*100))
		output.WriteString(fmt.Sprintf("| Sentiment | %.0f |\n", analysis.Assessment.Sentiment.Score*100))
		output.WriteString(fmt.Sprintf("| Keyword Match | %.0f |\n\n", analysis.Assessment.KeywordMatch.Score*100))
	}

	if len(report.Recommendations) > 0 {
		output.WriteString("## Recommendations\n\n")
		writeList(&output, report.Recommendations)
	}

	return output.String(), nil
}

func (imf *InterviewMarkdownFormatter) SupportedType() string {
	return "InterviewReport"
}

// PortfolioTextFormatter handles text formatting for portfolio build results
type PortfolioTextFormatter struct{}

func (ptf *PortfolioTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.PortfolioResult)
	if !ok {
		return "", fmt.Errorf("expected PortfolioResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== PORTFOLIO BUILD ===\n\n")
	output.WriteString(fmt.Sprintf("Project: %s\n", result.ProjectID))
	output.WriteString(fmt.Sprintf("Status: %s\n", result.Status))
	if result.OutputPath != "" {
		output.WriteString(fmt.Sprintf("Output: %s\n", result.OutputPath))
	}
	if result.ZipPath != "" {
		output.WriteString(fmt.Sprintf("Archive: %s\n", result.ZipPath))
	}
	output.WriteString(fmt.Sprintf("Files: %d\n", result.FileCount))
	if len(result.Sections) > 0 {
		output.WriteString(fmt.Sprintf("Sections: %s\n", strings.Join(result.Sections, ", ")))
	}
	output.WriteString(fmt.Sprintf("Validation attempts: %d\n\n", result.Attempts))

	if len(result.Errors) > 0 {
		output.WriteString("Errors:\n")
		writeList(&output, result.Errors)
	}
	if len(result.Warnings) > 0 {
		output.WriteString("Warnings:\n")
		writeList(&output, result.Warnings)
	}

	return output.String(), nil
}

func (ptf *PortfolioTextFormatter) SupportedType() string {
	return "PortfolioResult"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
