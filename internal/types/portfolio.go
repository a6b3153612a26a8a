package types

// ResumeData is the structured data extracted from a resume by the parse stage
type ResumeData struct {
	Name           string          `json:"name"`
	Email          string          `json:"email,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	LinkedIn       string          `json:"linkedin,omitempty"`
	GitHub         string          `json:"github,omitempty"`
	Website        string          `json:"website,omitempty"`
	Summary        string          `json:"summary,omitempty"`
	Skills         []string        `json:"skills,omitempty"`
	Projects       []Project       `json:"projects,omitempty"`
	Experience     []Experience    `json:"experience,omitempty"`
	Education      []Education     `json:"education,omitempty"`
	Certifications []Certification `json:"certifications,omitempty"`
	Languages      []string        `json:"languages,omitempty"`
	Interests      []string        `json:"interests,omitempty"`
}

// Project represents a project entry on a resume
type Project struct {
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	Link         string   `json:"link,omitempty"`
	GitHubLink   string   `json:"githubLink,omitempty"`
}

// Experience represents a work experience entry
type Experience struct {
	Company     string   `json:"company"`
	Role        string   `json:"role"`
	Duration    string   `json:"duration,omitempty"`
	Description string   `json:"description,omitempty"`
	Highlights  []string `json:"highlights,omitempty"`
}

// Education represents an education entry
type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree,omitempty"`
	Field       string `json:"field,omitempty"`
	Year        string `json:"year,omitempty"`
}

// Certification represents a certification entry
type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
	Date   string `json:"date,omitempty"`
	Link   string `json:"link,omitempty"`
}

// ColorScheme holds the palette chosen by the site planner
type ColorScheme struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
	Text       string `json:"text"`
}

// SitePlan is the design plan produced by the planner stage
type SitePlan struct {
	Style           string      `json:"style"` // minimal, modern, creative, professional, bold
	ColorScheme     ColorScheme `json:"colorScheme"`
	Sections        []string    `json:"sections"`
	Layout          string      `json:"layout"` // single_page or multi_section
	UseAnimations   bool        `json:"useAnimations"`
	FontFamily      string      `json:"fontFamily"`
	DarkMode        bool        `json:"darkMode"`
	NavigationStyle string      `json:"navigationStyle"` // fixed, sticky, static
	TechStack       []string    `json:"techStack"`
}

// SectionContent is the generated content for one site section
type SectionContent struct {
	SectionName string         `json:"sectionName"`
	Content     map[string]any `json:"content"`
	Generated   bool           `json:"generated"`
	Order       int            `json:"order"`
}

// GeneratedFile is one generated source file of the site
type GeneratedFile struct {
	Filename      string `json:"filename"`
	Filepath      string `json:"filepath"` // relative path from the project root
	Content       string `json:"content"`
	ComponentType string `json:"componentType"` // component, page, style, config, util
}

// ValidationIssue is a single finding from the validation stage
type ValidationIssue struct {
	File     string `json:"file"`
	Line     int    `json:"line,omitempty"`
	Message  string `json:"message"`
	Severity string `json:"severity"` // error, warning, info
	Rule     string `json:"rule,omitempty"`
}

// ValidationReport is the combined result of deterministic and AI validation
type ValidationReport struct {
	Valid    bool              `json:"valid"`
	Errors   []ValidationIssue `json:"errors"`
	Warnings []ValidationIssue `json:"warnings"`
}

// PortfolioResult is the final output of a portfolio build
type PortfolioResult struct {
	ProjectID  string   `json:"projectId"`
	Status     string   `json:"status"` // completed, completed_with_warnings, failed
	OutputPath string   `json:"outputPath,omitempty"`
	ZipPath    string   `json:"zipPath,omitempty"`
	Sections   []string `json:"sections,omitempty"`
	FileCount  int      `json:"fileCount"`
	Attempts   int      `json:"validationAttempts"`
	Warnings   []string `json:"warnings,omitempty"`
	Errors     []string `json:"errors,omitempty"`
}
