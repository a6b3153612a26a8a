package ai

import (
	"context"

	"careerpilot/internal/config"
	"careerpilot/internal/observability"
	"careerpilot/internal/types"
)

// instrumentedProvider wraps a Provider with tracing and metrics. Each call
// is recorded under its operation name so per-model latency, error rates,
// and token usage show up in the exported metrics.
type instrumentedProvider struct {
	next Provider
	om   *observability.ObservabilityManager
}

// InstrumentProvider wraps p with observability instrumentation. Returns p
// unchanged when om is nil.
func InstrumentProvider(p Provider, om *observability.ObservabilityManager) Provider {
	if om == nil {
		return p
	}
	return &instrumentedProvider{next: p, om: om}
}

// Instrument wraps every operation's provider with observability
// instrumentation. Call after NewServices and before serving requests.
func (s *Services) Instrument(om *observability.ObservabilityManager) {
	if om == nil {
		return
	}
	for _, svc := range s.byOperation {
		svc.Provider = InstrumentProvider(svc.Provider, om)
	}
}

// track runs fn under the instrumented span for operation, converting the
// provider's token usage into the observability representation.
func (ip *instrumentedProvider) track(ctx context.Context, operation string, fn func(context.Context) (*TokenUsage, error)) error {
	return ip.om.GetMetrics().TrackAIOperationWithTokens(ctx, operation,
		func(ctx context.Context) *observability.AIOperationResult {
			usage, err := fn(ctx)
			return &observability.AIOperationResult{
				Error:      err,
				TokenUsage: (*observability.TokenUsage)(usage),
			}
		}, ip.om)
}

func (ip *instrumentedProvider) ParseResume(ctx context.Context, input types.ParseResumeInput) (types.ParseResumeOutput, *TokenUsage, error) {
	var out types.ParseResumeOutput
	var usage *TokenUsage
	err := ip.track(ctx, config.OpParseResume, func(ctx context.Context) (*TokenUsage, error) {
		var err error
		out, usage, err = ip.next.ParseResume(ctx, input)
		return usage, err
	})
	return out, usage, err
}

func (ip *instrumentedProvider) PlanSite(ctx context.Context, input types.PlanSiteInput) (types.PlanSiteOutput, *TokenUsage, error) {
	var out types.PlanSiteOutput
	var usage *TokenUsage
	err := ip.track(ctx, config.OpPlanSite, func(ctx context.Context) (*TokenUsage, error) {
		var err error
		out, usage, err = ip.next.PlanSite(ctx, input)
		return usage, err
	})
	return out, usage, err
}

func (ip *instrumentedProvider) GenerateSection(ctx context.Context, input types.GenerateSectionInput) (types.GenerateSectionOutput, *TokenUsage, error) {
	var out types.GenerateSectionOutput
	var usage *TokenUsage
	err := ip.track(ctx, config.OpSection, func(ctx context.Context) (*TokenUsage, error) {
		var err error
		out, usage, err = ip.next.GenerateSection(ctx, input)
		return usage, err
	})
	return out, usage, err
}

func (ip *instrumentedProvider) GenerateCode(ctx context.Context, input types.GenerateCodeInput) (types.GenerateCodeOutput, *TokenUsage, error) {
	var out types.GenerateCodeOutput
	var usage *TokenUsage
	err := ip.track(ctx, config.OpCodegen, func(ctx context.Context) (*TokenUsage, error) {
		var err error
		out, usage, err = ip.next.GenerateCode(ctx, input)
		return usage, err
	})
	return out, usage, err
}

func (ip *instrumentedProvider) ReviewCode(ctx context.Context, input types.ReviewCodeInput) (types.ReviewCodeOutput, *TokenUsage, error) {
	var out types.ReviewCodeOutput
	var usage *TokenUsage
	err := ip.track(ctx, config.OpReview, func(ctx context.Context) (*TokenUsage, error) {
		var err error
		out, usage, err = ip.next.ReviewCode(ctx, input)
		return usage, err
	})
	return out, usage, err
}

func (ip *instrumentedProvider) MatchAdvice(ctx context.Context, input types.MatchAdviceInput) (types.MatchInsights, *TokenUsage, error) {
	var out types.MatchInsights
	var usage *TokenUsage
	err := ip.track(ctx, config.OpMatchAdvice, func(ctx context.Context) (*TokenUsage, error) {
		var err error
		out, usage, err = ip.next.MatchAdvice(ctx, input)
		return usage, err
	})
	return out, usage, err
}

func (ip *instrumentedProvider) GenerateQuestions(ctx context.Context, input types.GenerateQuestionsInput) (types.QuestionSet, *TokenUsage, error) {
	var out types.QuestionSet
	var usage *TokenUsage
	err := ip.track(ctx, config.OpQuestions, func(ctx context.Context) (*TokenUsage, error) {
		var err error
		out, usage, err = ip.next.GenerateQuestions(ctx, input)
		return usage, err
	})
	return out, usage, err
}

func (ip *instrumentedProvider) ClassifyIntent(ctx context.Context, input types.ChatClassifyInput) (types.ChatClassifyOutput, *TokenUsage, error) {
	var out types.ChatClassifyOutput
	var usage *TokenUsage
	err := ip.track(ctx, "classify", func(ctx context.Context) (*TokenUsage, error) {
		var err error
		out, usage, err = ip.next.ClassifyIntent(ctx, input)
		return usage, err
	})
	return out, usage, err
}

func (ip *instrumentedProvider) CondenseQuestion(ctx context.Context, input types.ChatCondenseInput) (types.ChatCondenseOutput, *TokenUsage, error) {
	var out types.ChatCondenseOutput
	var usage *TokenUsage
	err := ip.track(ctx, "condense", func(ctx context.Context) (*TokenUsage, error) {
		var err error
		out, usage, err = ip.next.CondenseQuestion(ctx, input)
		return usage, err
	})
	return out, usage, err
}

func (ip *instrumentedProvider) ChatRespond(ctx context.Context, input types.ChatRespondInput) (types.ChatRespondOutput, *TokenUsage, error) {
	var out types.ChatRespondOutput
	var usage *TokenUsage
	err := ip.track(ctx, config.OpChatRespond, func(ctx context.Context) (*TokenUsage, error) {
		var err error
		out, usage, err = ip.next.ChatRespond(ctx, input)
		return usage, err
	})
	return out, usage, err
}

func (ip *instrumentedProvider) AssessAnswer(ctx context.Context, input types.AssessAnswerInput) (types.AnswerAssessment, *TokenUsage, error) {
	var out types.AnswerAssessment
	var usage *TokenUsage
	err := ip.track(ctx, config.OpAssessAnswer, func(ctx context.Context) (*TokenUsage, error) {
		var err error
		out, usage, err = ip.next.AssessAnswer(ctx, input)
		return usage, err
	})
	return out, usage, err
}

func (ip *instrumentedProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	return ip.next.GetModelInfo(ctx)
}

func (ip *instrumentedProvider) GetCircuitBreakerStats() map[string]any {
	return ip.next.GetCircuitBreakerStats()
}

func (ip *instrumentedProvider) Close() error {
	return ip.next.Close()
}
