package ai

import (
	"context"

	"careerpilot/internal/types"
)

// Provider is the interface AI backends implement. Every generation method
// returns token usage information; callers can ignore it if not needed.
//
// A provider instance is configured for one operation (its timeouts, model,
// and circuit breakers), but implements the full method set so callers hold
// a single interface.
type Provider interface {
	ParseResume(ctx context.Context, input types.ParseResumeInput) (types.ParseResumeOutput, *TokenUsage, error)
	PlanSite(ctx context.Context, input types.PlanSiteInput) (types.PlanSiteOutput, *TokenUsage, error)
	GenerateSection(ctx context.Context, input types.GenerateSectionInput) (types.GenerateSectionOutput, *TokenUsage, error)
	GenerateCode(ctx context.Context, input types.GenerateCodeInput) (types.GenerateCodeOutput, *TokenUsage, error)
	ReviewCode(ctx context.Context, input types.ReviewCodeInput) (types.ReviewCodeOutput, *TokenUsage, error)
	MatchAdvice(ctx context.Context, input types.MatchAdviceInput) (types.MatchInsights, *TokenUsage, error)
	GenerateQuestions(ctx context.Context, input types.GenerateQuestionsInput) (types.QuestionSet, *TokenUsage, error)
	ClassifyIntent(ctx context.Context, input types.ChatClassifyInput) (types.ChatClassifyOutput, *TokenUsage, error)
	CondenseQuestion(ctx context.Context, input types.ChatCondenseInput) (types.ChatCondenseOutput, *TokenUsage, error)
	ChatRespond(ctx context.Context, input types.ChatRespondInput) (types.ChatRespondOutput, *TokenUsage, error)
	AssessAnswer(ctx context.Context, input types.AssessAnswerInput) (types.AnswerAssessment, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	GetCircuitBreakerStats() map[string]any
	Close() error
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}
