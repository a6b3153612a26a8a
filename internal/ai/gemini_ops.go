package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"careerpilot/internal/config"
	"careerpilot/internal/types"
)

// ParseResume extracts structured candidate data from raw resume text
func (g *GeminiProvider) ParseResume(ctx context.Context, input types.ParseResumeInput) (types.ParseResumeOutput, *TokenUsage, error) {
	systemPrompt := g.systemPrompt(config.OpParseResume)
	userPrompt := fmt.Sprintf(g.userPrompt(config.OpParseResume), input.ResumeText)

	output, tokenUsage, err := executeAIOperation[types.ParseResumeOutput](
		g, ctx, "parse_resume", userPrompt, systemPrompt, g.buildParseSchema(),
		attribute.Int("input.resume_length", len(input.ResumeText)),
	)
	if err != nil {
		return types.ParseResumeOutput{}, nil, err
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.Float64("parse.confidence", output.Confidence),
			attribute.Int("parse.skills_count", len(output.Resume.Skills)),
		)
	}

	return output, tokenUsage, nil
}

// PlanSite produces a site design plan from parsed resume data
func (g *GeminiProvider) PlanSite(ctx context.Context, input types.PlanSiteInput) (types.PlanSiteOutput, *TokenUsage, error) {
	resumeJSON, err := json.Marshal(input.Resume)
	if err != nil {
		return types.PlanSiteOutput{}, nil, fmt.Errorf("failed to encode resume data: %w", err)
	}

	userPrompt := fmt.Sprintf(g.userPrompt(config.OpPlanSite),
		string(resumeJSON),
		input.UserPrompt,
		strings.Join(input.AvailableSections, ", "))

	output, tokenUsage, err := executeAIOperation[types.PlanSiteOutput](
		g, ctx, "plan_site", userPrompt, g.systemPrompt(config.OpPlanSite), g.buildPlanSchema(),
		attribute.Int("input.available_sections", len(input.AvailableSections)),
	)
	if err != nil {
		return types.PlanSiteOutput{}, nil, err
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.String("plan.style", output.Plan.Style),
			attribute.Int("plan.sections_count", len(output.Plan.Sections)),
		)
	}

	return output, tokenUsage, nil
}

// GenerateSection produces the content object for one planned site section
func (g *GeminiProvider) GenerateSection(ctx context.Context, input types.GenerateSectionInput) (types.GenerateSectionOutput, *TokenUsage, error) {
	resumeJSON, err := json.Marshal(input.Resume)
	if err != nil {
		return types.GenerateSectionOutput{}, nil, fmt.Errorf("failed to encode resume data: %w", err)
	}
	planJSON, err := json.Marshal(input.Plan)
	if err != nil {
		return types.GenerateSectionOutput{}, nil, fmt.Errorf("failed to encode site plan: %w", err)
	}

	userPrompt := fmt.Sprintf(g.userPrompt(config.OpSection),
		input.SectionName, string(resumeJSON), string(planJSON))

	return executeAIOperation[types.GenerateSectionOutput](
		g, ctx, "generate_section", userPrompt, g.systemPrompt(config.OpSection), g.buildSectionSchema(),
		attribute.String("section.name", input.SectionName),
	)
}

// GenerateCode produces the full React file set for the planned site.
// On regeneration passes PriorIssues carries the validator findings to fix.
func (g *GeminiProvider) GenerateCode(ctx context.Context, input types.GenerateCodeInput) (types.GenerateCodeOutput, *TokenUsage, error) {
	planJSON, err := json.Marshal(input.Plan)
	if err != nil {
		return types.GenerateCodeOutput{}, nil, fmt.Errorf("failed to encode site plan: %w", err)
	}
	sectionsJSON, err := json.Marshal(input.Sections)
	if err != nil {
		return types.GenerateCodeOutput{}, nil, fmt.Errorf("failed to encode section content: %w", err)
	}

	issuesText := "none"
	if len(input.PriorIssues) > 0 {
		issuesJSON, err := json.Marshal(input.PriorIssues)
		if err != nil {
			return types.GenerateCodeOutput{}, nil, fmt.Errorf("failed to encode validation findings: %w", err)
		}
		issuesText = string(issuesJSON)
	}

	userPrompt := fmt.Sprintf(g.userPrompt(config.OpCodegen),
		string(planJSON), string(sectionsJSON), issuesText)

	output, tokenUsage, err := executeAIOperation[types.GenerateCodeOutput](
		g, ctx, "generate_code", userPrompt, g.systemPrompt(config.OpCodegen), g.buildCodegenSchema(),
		attribute.Int("input.sections_count", len(input.Sections)),
		attribute.Int("input.prior_issues", len(input.PriorIssues)),
	)
	if err != nil {
		return types.GenerateCodeOutput{}, nil, err
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(attribute.Int("codegen.files_count", len(output.Files)))
	}

	return output, tokenUsage, nil
}

// ReviewCode runs an AI review over a generated file set
func (g *GeminiProvider) ReviewCode(ctx context.Context, input types.ReviewCodeInput) (types.ReviewCodeOutput, *TokenUsage, error) {
	userPrompt := fmt.Sprintf(g.userPrompt(config.OpReview), formatFilesForReview(input.Files))

	output, tokenUsage, err := executeAIOperation[types.ReviewCodeOutput](
		g, ctx, "review_code", userPrompt, g.systemPrompt(config.OpReview), g.buildReviewSchema(),
		attribute.Int("input.files_count", len(input.Files)),
	)
	if err != nil {
		return types.ReviewCodeOutput{}, nil, err
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.Bool("review.valid", output.Valid),
			attribute.Int("review.errors_count", len(output.Errors)),
			attribute.Int("review.warnings_count", len(output.Warnings)),
		)
	}

	return output, tokenUsage, nil
}

// MatchAdvice generates fit insights for a resume against a job description
func (g *GeminiProvider) MatchAdvice(ctx context.Context, input types.MatchAdviceInput) (types.MatchInsights, *TokenUsage, error) {
	userPrompt := fmt.Sprintf(g.userPrompt(config.OpMatchAdvice),
		fmt.Sprintf("%.2f", input.Score), input.ResumeText, input.JobDescription)

	return executeAIOperation[types.MatchInsights](
		g, ctx, "match_advice", userPrompt, g.systemPrompt(config.OpMatchAdvice), g.buildAdviceSchema(),
		attribute.Float64("match.score", input.Score),
		attribute.Int("input.resume_length", len(input.ResumeText)),
		attribute.Int("input.job_length", len(input.JobDescription)),
	)
}

// GenerateQuestions produces interview questions for a job description
func (g *GeminiProvider) GenerateQuestions(ctx context.Context, input types.GenerateQuestionsInput) (types.QuestionSet, *TokenUsage, error) {
	questionTypes := input.QuestionTypes
	if len(questionTypes) == 0 {
		questionTypes = []string{"technical", "behavioral", "situational"}
	}

	userPrompt := fmt.Sprintf(g.userPrompt(config.OpQuestions),
		input.NumQuestions, strings.Join(questionTypes, ", "), input.JobDescription)

	output, tokenUsage, err := executeAIOperation[types.QuestionSet](
		g, ctx, "generate_questions", userPrompt, g.systemPrompt(config.OpQuestions), g.buildQuestionsSchema(),
		attribute.Int("questions.requested", input.NumQuestions),
	)
	if err != nil {
		return types.QuestionSet{}, nil, err
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(attribute.Int("questions.generated", len(output.Questions)))
	}

	return output, tokenUsage, nil
}

// ClassifyIntent decides whether a chat question needs knowledge retrieval
// or is conversational chit-chat. Runs under the respond operation's breaker.
func (g *GeminiProvider) ClassifyIntent(ctx context.Context, input types.ChatClassifyInput) (types.ChatClassifyOutput, *TokenUsage, error) {
	userPrompt := fmt.Sprintf(classifyIntentUserTemplate, formatHistory(input.History), input.Question)

	return executeAIOperation[types.ChatClassifyOutput](
		g, ctx, "classify_intent", userPrompt, classifyIntentSystemPrompt, g.buildClassifySchema(),
	)
}

// CondenseQuestion rewrites a follow-up question as a standalone one using
// the conversation history
func (g *GeminiProvider) CondenseQuestion(ctx context.Context, input types.ChatCondenseInput) (types.ChatCondenseOutput, *TokenUsage, error) {
	userPrompt := fmt.Sprintf(condenseQuestionUserTemplate, formatHistory(input.History), input.Question)

	return executeAIOperation[types.ChatCondenseOutput](
		g, ctx, "condense_question", userPrompt, condenseQuestionSystemPrompt, g.buildCondenseSchema(),
	)
}

// ChatRespond produces the final chat answer, grounded in retrieved context
// when present
func (g *GeminiProvider) ChatRespond(ctx context.Context, input types.ChatRespondInput) (types.ChatRespondOutput, *TokenUsage, error) {
	contextText := "none"
	if len(input.Context) > 0 {
		contextText = strings.Join(input.Context, "\n---\n")
	}

	userPrompt := fmt.Sprintf(g.userPrompt(config.OpChatRespond),
		input.Question, contextText, formatHistory(input.History))

	return executeAIOperation[types.ChatRespondOutput](
		g, ctx, "chat_respond", userPrompt, g.systemPrompt(config.OpChatRespond), g.buildRespondSchema(),
		attribute.Int("chat.context_chunks", len(input.Context)),
		attribute.Int("chat.history_messages", len(input.History)),
	)
}

// AssessAnswer evaluates a mock interview answer transcript
func (g *GeminiProvider) AssessAnswer(ctx context.Context, input types.AssessAnswerInput) (types.AnswerAssessment, *TokenUsage, error) {
	userPrompt := fmt.Sprintf(g.userPrompt(config.OpAssessAnswer),
		input.Question, input.Transcript, input.JobDescription)

	return executeAIOperation[types.AnswerAssessment](
		g, ctx, "assess_answer", userPrompt, g.systemPrompt(config.OpAssessAnswer), g.buildAssessSchema(),
		attribute.Int("input.transcript_length", len(input.Transcript)),
	)
}

// formatFilesForReview renders a file set as fenced blocks for the reviewer
func formatFilesForReview(files []types.GeneratedFile) string {
	var b strings.Builder
	for _, f := range files {
		fmt.Fprintf(&b, "=== %s ===\n%s\n\n", f.Filepath, f.Content)
	}
	return b.String()
}

// formatHistory renders conversation history as alternating role-tagged lines
func formatHistory(history []types.ChatMessage) string {
	if len(history) == 0 {
		return "none"
	}
	var b strings.Builder
	for _, m := range history {
		fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
	}
	return b.String()
}
