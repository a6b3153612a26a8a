package types

// ParseResumeInput is the input for the resume parsing operation
type ParseResumeInput struct {
	ResumeText string `json:"resumeText"`
}

// ParseResumeOutput is the structured result of resume parsing
type ParseResumeOutput struct {
	Resume     ResumeData `json:"resume"`
	Confidence float64    `json:"confidence"` // 0.0 to 1.0
}

// PlanSiteInput is the input for the site planning operation
type PlanSiteInput struct {
	Resume            ResumeData `json:"resume"`
	UserPrompt        string     `json:"userPrompt"`
	AvailableSections []string   `json:"availableSections"`
}

// PlanSiteOutput is the result of site planning
type PlanSiteOutput struct {
	Plan SitePlan `json:"plan"`
}

// GenerateSectionInput is the input for generating one section's content
type GenerateSectionInput struct {
	SectionName string     `json:"sectionName"`
	Resume      ResumeData `json:"resume"`
	Plan        SitePlan   `json:"plan"`
}

// GenerateSectionOutput is the generated content for one section
type GenerateSectionOutput struct {
	Content map[string]any `json:"content"`
}

// GenerateCodeInput is the input for the code generation operation.
// PriorIssues is non-empty on regeneration passes and carries the
// validator findings the model should fix.
type GenerateCodeInput struct {
	Plan        SitePlan          `json:"plan"`
	Sections    []SectionContent  `json:"sections"`
	PriorIssues []ValidationIssue `json:"priorIssues,omitempty"`
}

// GenerateCodeOutput is the generated file set
type GenerateCodeOutput struct {
	Files []GeneratedFile `json:"files"`
}

// ReviewCodeInput is the input for the AI code review operation
type ReviewCodeInput struct {
	Files []GeneratedFile `json:"files"`
}

// ReviewCodeOutput is the AI review verdict
type ReviewCodeOutput struct {
	Valid    bool              `json:"valid"`
	Errors   []ValidationIssue `json:"errors"`
	Warnings []ValidationIssue `json:"warnings"`
}

// MatchAdviceInput is the input for match insight generation
type MatchAdviceInput struct {
	ResumeText     string  `json:"resumeText"`
	JobDescription string  `json:"jobDescription"`
	Score          float64 `json:"score"`
}

// GenerateQuestionsInput is the input for interview question generation
type GenerateQuestionsInput struct {
	JobDescription string   `json:"jobDescription"`
	NumQuestions   int      `json:"numQuestions"`
	QuestionTypes  []string `json:"questionTypes,omitempty"`
}

// AssessAnswerInput is the input for mock interview answer assessment
type AssessAnswerInput struct {
	Question       string `json:"question"`
	Transcript     string `json:"transcript"`
	JobDescription string `json:"jobDescription,omitempty"`
}

// ChatClassifyInput is the input for chat intent classification
type ChatClassifyInput struct {
	History  []ChatMessage `json:"history"`
	Question string        `json:"question"`
}

// ChatClassifyOutput is the classified intent of a chat question
type ChatClassifyOutput struct {
	Intent string `json:"intent"` // chit_chat or kb_query
}

// ChatCondenseInput is the input for condensing a follow-up question into a
// standalone one using the conversation history
type ChatCondenseInput struct {
	History  []ChatMessage `json:"history"`
	Question string        `json:"question"`
}

// ChatCondenseOutput is the standalone reformulation of a follow-up question
type ChatCondenseOutput struct {
	Question string `json:"question"`
}

// ChatRespondInput is the input for producing the final chat answer
type ChatRespondInput struct {
	Question string        `json:"question"`
	Context  []string      `json:"context,omitempty"` // retrieved chunks, empty for chit-chat
	History  []ChatMessage `json:"history,omitempty"`
}

// ChatRespondOutput is the chat answer text
type ChatRespondOutput struct {
	Answer string `json:"answer"`
}
