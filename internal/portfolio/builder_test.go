package portfolio

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerpilot/internal/ai"
	"careerpilot/internal/config"
	"careerpilot/internal/types"
)

type fakeParser struct {
	output types.ParseResumeOutput
	err    error
}

func (f *fakeParser) ParseResume(ctx context.Context, input types.ParseResumeInput) (types.ParseResumeOutput, *ai.TokenUsage, error) {
	return f.output, nil, f.err
}

type fakePlanner struct {
	plan      types.SitePlan
	lastInput types.PlanSiteInput
}

func (f *fakePlanner) PlanSite(ctx context.Context, input types.PlanSiteInput) (types.PlanSiteOutput, *ai.TokenUsage, error) {
	f.lastInput = input
	return types.PlanSiteOutput{Plan: f.plan}, nil, nil
}

type fakeSections struct {
	failFor map[string]error
}

func (f *fakeSections) GenerateSection(ctx context.Context, input types.GenerateSectionInput) (types.GenerateSectionOutput, *ai.TokenUsage, error) {
	if err, ok := f.failFor[input.SectionName]; ok {
		return types.GenerateSectionOutput{}, nil, err
	}
	return types.GenerateSectionOutput{
		Content: map[string]any{"title": input.SectionName},
	}, nil, nil
}

// fakeCodegen returns fileSets[i] on the i-th call, repeating the last set
type fakeCodegen struct {
	fileSets   [][]types.GeneratedFile
	calls      int
	lastIssues []types.ValidationIssue
}

func (f *fakeCodegen) GenerateCode(ctx context.Context, input types.GenerateCodeInput) (types.GenerateCodeOutput, *ai.TokenUsage, error) {
	f.lastIssues = input.PriorIssues
	idx := f.calls
	if idx >= len(f.fileSets) {
		idx = len(f.fileSets) - 1
	}
	f.calls++
	return types.GenerateCodeOutput{Files: f.fileSets[idx]}, nil, nil
}

type fakeReviewer struct {
	output types.ReviewCodeOutput
	err    error
}

func (f *fakeReviewer) ReviewCode(ctx context.Context, input types.ReviewCodeInput) (types.ReviewCodeOutput, *ai.TokenUsage, error) {
	return f.output, nil, f.err
}

func parsedResume() types.ParseResumeOutput {
	return types.ParseResumeOutput{
		Resume:     testResumeData(),
		Confidence: 0.9,
	}
}

func sitePlan() types.SitePlan {
	return types.SitePlan{
		Style:    "minimal",
		Sections: []string{"hero", "about", "skills", "contact"},
		Layout:   "single_page",
	}
}

func brokenFileSet() []types.GeneratedFile {
	files := validFileSet()
	files[2].Content = "function App() { return (<div>x</div>) }" // no export
	return files
}

func testBuilder(t *testing.T, gen Generators) *Builder {
	t.Helper()
	builder, err := NewBuilder(gen, config.PortfolioConfig{
		OutputDir:             t.TempDir(),
		MaxValidationAttempts: 3,
		MaxWorkflowSteps:      50,
	}, testLogger(t))
	require.NoError(t, err)
	return builder
}

func okGenerators() Generators {
	return Generators{
		Parser:   &fakeParser{output: parsedResume()},
		Planner:  &fakePlanner{plan: sitePlan()},
		Sections: &fakeSections{},
		Codegen:  &fakeCodegen{fileSets: [][]types.GeneratedFile{validFileSet()}},
		Reviewer: &fakeReviewer{output: types.ReviewCodeOutput{Valid: true}},
	}
}

func TestBuildHappyPath(t *testing.T) {
	gen := okGenerators()
	builder := testBuilder(t, gen)

	result, err := builder.Build(context.Background(), BuildRequest{ResumeText: "resume", ProjectName: "Jane Smith"})
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, result.Status)
	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, []string{"hero", "about", "skills", "contact"}, result.Sections)
	assert.NotEmpty(t, result.OutputPath)
	assert.NotEmpty(t, result.ZipPath)
	// Scaffolding raises the count above the three generated files
	assert.Greater(t, result.FileCount, 3)

	// The planner was told which sections the resume supports
	planner := gen.Planner.(*fakePlanner)
	assert.Contains(t, planner.lastInput.AvailableSections, "skills")
	assert.NotContains(t, planner.lastInput.AvailableSections, "projects")
}

func TestBuildConfidenceGate(t *testing.T) {
	gen := okGenerators()
	gen.Parser = &fakeParser{output: types.ParseResumeOutput{Confidence: 0.05}}
	builder := testBuilder(t, gen)

	result, err := builder.Build(context.Background(), BuildRequest{ResumeText: "garbage"})
	require.NoError(t, err)

	assert.Equal(t, StatusFailed, result.Status)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "confidence")
	assert.Empty(t, result.OutputPath)
}

func TestBuildRetryLoopRecovers(t *testing.T) {
	codegen := &fakeCodegen{fileSets: [][]types.GeneratedFile{brokenFileSet(), validFileSet()}}
	gen := okGenerators()
	gen.Codegen = codegen
	builder := testBuilder(t, gen)

	result, err := builder.Build(context.Background(), BuildRequest{ResumeText: "resume"})
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, result.Status)
	assert.Equal(t, 2, result.Attempts)
	assert.Equal(t, 2, codegen.calls)
	// The regeneration pass saw the validator findings
	require.NotEmpty(t, codegen.lastIssues)
	assert.Equal(t, "missing-export", codegen.lastIssues[0].Rule)
}

func TestBuildExhaustedAttemptsAssemblesWithWarnings(t *testing.T) {
	codegen := &fakeCodegen{fileSets: [][]types.GeneratedFile{brokenFileSet()}}
	gen := okGenerators()
	gen.Codegen = codegen
	builder := testBuilder(t, gen)

	result, err := builder.Build(context.Background(), BuildRequest{ResumeText: "resume"})
	require.NoError(t, err)

	assert.Equal(t, StatusWithWarnings, result.Status)
	assert.Equal(t, 3, result.Attempts)
	assert.NotEmpty(t, result.Warnings)
	// The site still ships despite validation failures
	assert.NotEmpty(t, result.ZipPath)
}

func TestBuildSectionFallback(t *testing.T) {
	gen := okGenerators()
	gen.Sections = &fakeSections{failFor: map[string]error{
		"skills": context.DeadlineExceeded,
	}}
	builder := testBuilder(t, gen)

	result, err := builder.Build(context.Background(), BuildRequest{ResumeText: "resume"})
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, result.Status)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "skills")
}

func TestBuildReviewFailureDoesNotBlock(t *testing.T) {
	gen := okGenerators()
	gen.Reviewer = &fakeReviewer{err: context.DeadlineExceeded}
	builder := testBuilder(t, gen)

	result, err := builder.Build(context.Background(), BuildRequest{ResumeText: "resume"})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, result.Status)
}

func TestBuildReviewErrorsTriggerRetry(t *testing.T) {
	reviewer := &fakeReviewer{output: types.ReviewCodeOutput{
		Valid:  false,
		Errors: []types.ValidationIssue{{File: "src/App.jsx", Message: "undefined variable", Severity: "error"}},
	}}
	codegen := &fakeCodegen{fileSets: [][]types.GeneratedFile{validFileSet()}}
	gen := okGenerators()
	gen.Reviewer = reviewer
	gen.Codegen = codegen
	builder := testBuilder(t, gen)

	result, err := builder.Build(context.Background(), BuildRequest{ResumeText: "resume"})
	require.NoError(t, err)

	// Review errors persist each round, so attempts exhaust and the build
	// completes with warnings.
	assert.Equal(t, StatusWithWarnings, result.Status)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, 3, codegen.calls)
}

func TestBuildRejectsEmptyResume(t *testing.T) {
	builder := testBuilder(t, okGenerators())

	_, err := builder.Build(context.Background(), BuildRequest{ResumeText: "   "})
	require.Error(t, err)
}

func TestBuildPlannerSectionsFiltered(t *testing.T) {
	planner := &fakePlanner{plan: types.SitePlan{
		Sections: []string{"hero", "projects", "testimonials"},
	}}
	gen := okGenerators()
	gen.Planner = planner
	builder := testBuilder(t, gen)

	result, err := builder.Build(context.Background(), BuildRequest{ResumeText: "resume"})
	require.NoError(t, err)

	// No project data on the resume and no such section as testimonials
	assert.Equal(t, []string{"hero"}, result.Sections)
}
