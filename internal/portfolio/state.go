// Package portfolio generates a deployable React/Tailwind portfolio site
// from raw resume text. A workflow graph drives the stages: parse the
// resume, plan the site, generate section content, generate code, validate
// it (with a bounded repair loop), and assemble the project on disk.
package portfolio

import "careerpilot/internal/types"

// Build statuses reported in PortfolioResult.Status
const (
	StatusCompleted    = "completed"
	StatusWithWarnings = "completed_with_warnings"
	StatusFailed       = "failed"
)

// BuildRequest is the input to a portfolio build
type BuildRequest struct {
	ResumeText  string `json:"resumeText"`
	UserPrompt  string `json:"userPrompt,omitempty"`
	ProjectName string `json:"projectName,omitempty"`
}

// buildState is the workflow state threaded through the graph nodes
type buildState struct {
	projectID  string
	resumeText string
	userPrompt string

	resume     types.ResumeData
	confidence float64

	plan     types.SitePlan
	sections []types.SectionContent

	files    []types.GeneratedFile
	report   types.ValidationReport
	attempts int

	outputPath string
	zipPath    string
	status     string
	warnings   []string
	failures   []string
}

// availableSections returns the sections the resume data can support.
// Hero, about and contact render from basics; the rest need their data.
func availableSections(resume types.ResumeData) []string {
	available := []string{"hero", "about", "contact"}
	if len(resume.Skills) > 0 {
		available = append(available, "skills")
	}
	if len(resume.Projects) > 0 {
		available = append(available, "projects")
	}
	if len(resume.Experience) > 0 {
		available = append(available, "experience")
	}
	if len(resume.Education) > 0 {
		available = append(available, "education")
	}
	if len(resume.Certifications) > 0 {
		available = append(available, "certifications")
	}
	return available
}
