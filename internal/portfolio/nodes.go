package portfolio

import (
	"context"
	"fmt"
	"strings"

	"careerpilot/internal/types"
)

func (b *Builder) parseNode(ctx context.Context, state buildState) (buildState, error) {
	output, _, err := b.gen.Parser.ParseResume(ctx, types.ParseResumeInput{ResumeText: state.resumeText})
	if err != nil {
		return state, err
	}
	state.resume = output.Resume
	state.confidence = output.Confidence
	b.logger.Debug("Resume parsed",
		"project_id", state.projectID,
		"name", state.resume.Name,
		"confidence", state.confidence)
	return state, nil
}

// afterParse gates the build on parse quality: the resume must yield at
// least a name and minimal confidence.
func (b *Builder) afterParse(state buildState) string {
	if state.resume.Name != "" && state.confidence > 0.1 {
		return "plan"
	}
	return "fail"
}

func (b *Builder) failNode(ctx context.Context, state buildState) (buildState, error) {
	state.status = StatusFailed
	state.failures = append(state.failures,
		fmt.Sprintf("resume parsing produced no usable data (confidence %.2f)", state.confidence))
	b.logger.Warn("Portfolio build rejected at parse gate",
		"project_id", state.projectID,
		"confidence", state.confidence)
	return state, nil
}

func (b *Builder) planNode(ctx context.Context, state buildState) (buildState, error) {
	available := availableSections(state.resume)
	output, _, err := b.gen.Planner.PlanSite(ctx, types.PlanSiteInput{
		Resume:            state.resume,
		UserPrompt:        state.userPrompt,
		AvailableSections: available,
	})
	if err != nil {
		return state, err
	}
	state.plan = output.Plan

	// The planner may propose sections the resume has no data for; keep
	// only those the resume supports, in the planner's order.
	allowed := make(map[string]struct{}, len(available))
	for _, name := range available {
		allowed[name] = struct{}{}
	}
	var sections []string
	for _, name := range state.plan.Sections {
		if _, ok := allowed[strings.ToLower(name)]; ok {
			sections = append(sections, strings.ToLower(name))
		}
	}
	if len(sections) == 0 {
		sections = []string{"hero", "about", "contact"}
	}
	state.plan.Sections = sections

	b.logger.Debug("Site planned",
		"project_id", state.projectID,
		"style", state.plan.Style,
		"sections", strings.Join(sections, ","))
	return state, nil
}

// sectionsNode generates content for each planned section in order. A
// failed section gets a minimal stub so one bad generation never sinks the
// whole build.
func (b *Builder) sectionsNode(ctx context.Context, state buildState) (buildState, error) {
	state.sections = make([]types.SectionContent, 0, len(state.plan.Sections))
	for i, name := range state.plan.Sections {
		output, _, err := b.gen.Sections.GenerateSection(ctx, types.GenerateSectionInput{
			SectionName: name,
			Resume:      state.resume,
			Plan:        state.plan,
		})
		if err != nil {
			b.logger.Warn("Section generation failed, using fallback",
				"project_id", state.projectID,
				"section", name,
				"error", err.Error())
			state.warnings = append(state.warnings,
				fmt.Sprintf("section %q used fallback content", name))
			state.sections = append(state.sections, fallbackSection(name, i))
			continue
		}
		state.sections = append(state.sections, types.SectionContent{
			SectionName: name,
			Content:     output.Content,
			Generated:   true,
			Order:       i,
		})
	}
	return state, nil
}

func fallbackSection(name string, order int) types.SectionContent {
	return types.SectionContent{
		SectionName: name,
		Content:     map[string]any{"title": titleCase(name), "subtitle": ""},
		Generated:   false,
		Order:       order,
	}
}

func titleCase(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func (b *Builder) codegenNode(ctx context.Context, state buildState) (buildState, error) {
	input := types.GenerateCodeInput{
		Plan:     state.plan,
		Sections: state.sections,
	}
	if state.attempts > 0 {
		input.PriorIssues = state.report.Errors
	}

	output, _, err := b.gen.Codegen.GenerateCode(ctx, input)
	if err != nil {
		return state, err
	}
	state.files = output.Files
	b.logger.Debug("Code generated",
		"project_id", state.projectID,
		"files", len(state.files),
		"attempt", state.attempts+1)
	return state, nil
}

// validateNode combines the deterministic checks with a best-effort AI
// review. A review call failure downgrades to a warning; the deterministic
// result alone then decides the route.
func (b *Builder) validateNode(ctx context.Context, state buildState) (buildState, error) {
	report := staticValidate(state.files)

	review, _, err := b.gen.Reviewer.ReviewCode(ctx, types.ReviewCodeInput{Files: state.files})
	if err != nil {
		b.logger.Warn("AI review unavailable, using static validation only",
			"project_id", state.projectID,
			"error", err.Error())
	} else {
		report.Errors = append(report.Errors, review.Errors...)
		report.Warnings = append(report.Warnings, review.Warnings...)
	}
	report.Valid = len(report.Errors) == 0

	state.report = report
	state.attempts++
	b.logger.Info("Validation pass complete",
		"project_id", state.projectID,
		"valid", report.Valid,
		"errors", len(report.Errors),
		"warnings", len(report.Warnings),
		"attempt", state.attempts)
	return state, nil
}

// afterValidate routes the repair loop: regenerate while attempts remain
// and errors exist, otherwise assemble (with warnings when exhausted).
func (b *Builder) afterValidate(state buildState) string {
	if state.report.Valid {
		return "assemble"
	}
	if state.attempts < b.cfg.MaxValidationAttempts && len(state.report.Errors) > 0 {
		return "codegen"
	}
	return "assemble"
}

func (b *Builder) assembleNode(ctx context.Context, state buildState) (buildState, error) {
	outputPath, zipPath, err := b.assembler.Assemble(state.projectID, state.files, state.resume, state.plan)
	if err != nil {
		return state, err
	}
	state.outputPath = outputPath
	state.zipPath = zipPath

	for _, warning := range state.report.Warnings {
		state.warnings = append(state.warnings, issueString(warning))
	}
	if state.report.Valid {
		state.status = StatusCompleted
	} else {
		state.status = StatusWithWarnings
		for _, issue := range state.report.Errors {
			state.warnings = append(state.warnings, issueString(issue))
		}
	}
	return state, nil
}

func issueString(issue types.ValidationIssue) string {
	if issue.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", issue.File, issue.Line, issue.Message)
	}
	return fmt.Sprintf("%s: %s", issue.File, issue.Message)
}
