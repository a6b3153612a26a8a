package portfolio

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"careerpilot/internal/ai"
	"careerpilot/internal/config"
	"careerpilot/internal/errors"
	"careerpilot/internal/types"
	"careerpilot/internal/utils"
	"careerpilot/internal/workflow"
)

// The builder depends on one narrow interface per AI stage so each stage
// can run on its own configured provider and tests can fake them
// independently.
type (
	ResumeParser interface {
		ParseResume(ctx context.Context, input types.ParseResumeInput) (types.ParseResumeOutput, *ai.TokenUsage, error)
	}
	SitePlanner interface {
		PlanSite(ctx context.Context, input types.PlanSiteInput) (types.PlanSiteOutput, *ai.TokenUsage, error)
	}
	SectionGenerator interface {
		GenerateSection(ctx context.Context, input types.GenerateSectionInput) (types.GenerateSectionOutput, *ai.TokenUsage, error)
	}
	CodeGenerator interface {
		GenerateCode(ctx context.Context, input types.GenerateCodeInput) (types.GenerateCodeOutput, *ai.TokenUsage, error)
	}
	CodeReviewer interface {
		ReviewCode(ctx context.Context, input types.ReviewCodeInput) (types.ReviewCodeOutput, *ai.TokenUsage, error)
	}
)

// Generators bundles the AI stages the build pipeline calls
type Generators struct {
	Parser   ResumeParser
	Planner  SitePlanner
	Sections SectionGenerator
	Codegen  CodeGenerator
	Reviewer CodeReviewer
}

// GeneratorsFromServices wires each stage to its operation's provider
func GeneratorsFromServices(services *ai.Services) Generators {
	return Generators{
		Parser:   services.Provider(config.OpParseResume),
		Planner:  services.Provider(config.OpPlanSite),
		Sections: services.Provider(config.OpSection),
		Codegen:  services.Provider(config.OpCodegen),
		Reviewer: services.Provider(config.OpReview),
	}
}

// Builder runs the portfolio build workflow
type Builder struct {
	gen       Generators
	assembler *Assembler
	cfg       config.PortfolioConfig
	runner    *workflow.Runner[buildState]
	logger    *errors.Logger
}

func NewBuilder(gen Generators, cfg config.PortfolioConfig, logger *errors.Logger) (*Builder, error) {
	b := &Builder{
		gen:       gen,
		assembler: NewAssembler(cfg.OutputDir, logger),
		cfg:       cfg,
		logger:    logger,
	}

	runner, err := workflow.NewGraph[buildState]("portfolio").
		AddNode("parse", b.parseNode).
		AddNode("fail", b.failNode).
		AddNode("plan", b.planNode).
		AddNode("sections", b.sectionsNode).
		AddNode("codegen", b.codegenNode).
		AddNode("validate", b.validateNode).
		AddNode("assemble", b.assembleNode).
		SetEntryPoint("parse").
		AddConditionalEdge("parse", b.afterParse, "plan", "fail").
		AddEdge("fail", workflow.End).
		AddEdge("plan", "sections").
		AddEdge("sections", "codegen").
		AddEdge("codegen", "validate").
		AddConditionalEdge("validate", b.afterValidate, "codegen", "assemble").
		AddEdge("assemble", workflow.End).
		Compile()
	if err != nil {
		return nil, err
	}
	runner.MaxSteps = cfg.MaxWorkflowSteps
	b.runner = runner
	return b, nil
}

// Assembler exposes the builder's assembler for download-path lookups
func (b *Builder) Assembler() *Assembler {
	return b.assembler
}

// Build runs the full workflow for one request. A failed confidence gate
// returns a failed result, not an error; errors are reserved for stages
// that abort the run.
func (b *Builder) Build(ctx context.Context, req BuildRequest) (types.PortfolioResult, error) {
	if strings.TrimSpace(req.ResumeText) == "" {
		return types.PortfolioResult{}, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"resume text is empty", nil)
	}

	projectID := newProjectID(req.ProjectName)
	b.logger.Info("Portfolio build started", "project_id", projectID)

	state, err := b.runner.Run(ctx, buildState{
		projectID:  projectID,
		resumeText: req.ResumeText,
		userPrompt: req.UserPrompt,
	})
	if err != nil {
		return types.PortfolioResult{ProjectID: projectID, Status: StatusFailed}, err
	}

	result := types.PortfolioResult{
		ProjectID:  state.projectID,
		Status:     state.status,
		OutputPath: state.outputPath,
		ZipPath:    state.zipPath,
		Sections:   state.plan.Sections,
		FileCount:  len(state.files),
		Attempts:   state.attempts,
		Warnings:   state.warnings,
		Errors:     state.failures,
	}
	b.logger.Info("Portfolio build finished",
		"project_id", result.ProjectID,
		"status", result.Status,
		"files", result.FileCount,
		"attempts", result.Attempts)
	return result, nil
}

func newProjectID(projectName string) string {
	slug := utils.SanitizeProjectName(projectName)
	return fmt.Sprintf("%s-%s", slug, uuid.NewString()[:8])
}
