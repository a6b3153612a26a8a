// Package match scores how well a resume fits a job description. The score
// is the cosine similarity of the two documents' embeddings; an AI advisor
// turns the score and both texts into actionable insights.
package match

import (
	"context"
	"math"
	"strings"

	"careerpilot/internal/ai"
	"careerpilot/internal/errors"
	"careerpilot/internal/rag"
	"careerpilot/internal/types"
	"careerpilot/internal/utils"
	"careerpilot/internal/workflow"
)

// Embedder produces document embeddings. *ai.Embedder satisfies this.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

// Advisor generates match insights. ai.Provider satisfies this.
type Advisor interface {
	MatchAdvice(ctx context.Context, input types.MatchAdviceInput) (types.MatchInsights, *ai.TokenUsage, error)
}

type matchState struct {
	resumeText     string
	jobDescription string

	cleanedResume string
	cleanedJob    string

	score    float64
	insights types.MatchInsights
}

// Pipeline runs the ingest -> embed -> advise match workflow.
type Pipeline struct {
	embedder Embedder
	advisor  Advisor
	runner   *workflow.Runner[matchState]
	logger   *errors.Logger
}

func NewPipeline(embedder Embedder, advisor Advisor, logger *errors.Logger) (*Pipeline, error) {
	p := &Pipeline{embedder: embedder, advisor: advisor, logger: logger}

	runner, err := workflow.NewGraph[matchState]("match").
		AddNode("ingest", p.ingest).
		AddNode("embed", p.embed).
		AddNode("advise", p.advise).
		SetEntryPoint("ingest").
		AddEdge("ingest", "embed").
		AddEdge("embed", "advise").
		AddEdge("advise", workflow.End).
		Compile()
	if err != nil {
		return nil, err
	}
	p.runner = runner
	return p, nil
}

// Run scores resumeText against jobDescription and generates insights
func (p *Pipeline) Run(ctx context.Context, resumeText, jobDescription string) (types.MatchResult, error) {
	state, err := p.runner.Run(ctx, matchState{
		resumeText:     resumeText,
		jobDescription: jobDescription,
	})
	if err != nil {
		return types.MatchResult{}, err
	}
	return types.MatchResult{Score: state.score, Insights: state.insights}, nil
}

// ingest validates both documents and normalizes them for embedding
func (p *Pipeline) ingest(ctx context.Context, state matchState) (matchState, error) {
	if strings.TrimSpace(state.resumeText) == "" {
		return state, errors.NewValidationError(errors.ErrCodeInvalidRequest, "resume text is empty", nil)
	}
	if strings.TrimSpace(state.jobDescription) == "" {
		return state, errors.NewValidationError(errors.ErrCodeInvalidRequest, "job description is empty", nil)
	}

	state.cleanedResume = strings.Join(utils.TokenizeWords(state.resumeText), " ")
	state.cleanedJob = strings.Join(utils.TokenizeWords(state.jobDescription), " ")
	if state.cleanedResume == "" || state.cleanedJob == "" {
		return state, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"documents contain no scoreable content", nil)
	}

	p.logger.Debug("Match documents ingested",
		"resume_tokens", len(strings.Fields(state.cleanedResume)),
		"job_tokens", len(strings.Fields(state.cleanedJob)))
	return state, nil
}

// embed embeds both documents in one batch and computes their similarity
func (p *Pipeline) embed(ctx context.Context, state matchState) (matchState, error) {
	vectors, err := p.embedder.EmbedDocuments(ctx, []string{state.cleanedResume, state.cleanedJob})
	if err != nil {
		return state, err
	}
	if len(vectors) != 2 {
		return state, errors.NewAIError(errors.ErrCodeAIResponseInvalid,
			"embedding call returned an unexpected vector count", nil)
	}

	// Embeddings of natural-language documents occasionally dip slightly
	// below zero; clamp so the reported score stays in [0, 1].
	state.score = math.Max(0, rag.CosineSimilarity(vectors[0], vectors[1]))

	p.logger.Info("Match score computed", "score", state.score)
	return state, nil
}

// advise asks the AI advisor for insights grounded in the raw documents
func (p *Pipeline) advise(ctx context.Context, state matchState) (matchState, error) {
	insights, _, err := p.advisor.MatchAdvice(ctx, types.MatchAdviceInput{
		ResumeText:     state.resumeText,
		JobDescription: state.jobDescription,
		Score:          state.score,
	})
	if err != nil {
		return state, err
	}
	state.insights = insights
	return state, nil
}
