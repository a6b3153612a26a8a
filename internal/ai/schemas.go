package ai

import "google.golang.org/genai"

// jsonConfig wraps a response schema into a GenerateContentConfig with the
// operation's temperature applied.
func (g *GeminiProvider) jsonConfig(schema *genai.Schema) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}
	if *g.config.Temperature > 0 {
		cfg.Temperature = g.config.Temperature
	}
	return cfg
}

// scoreDetailSchema is the shared shape for scored assessment dimensions
func scoreDetailSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"score":   {Type: genai.TypeNumber},
			"details": {Type: genai.TypeString},
		},
		Required: []string{"score", "details"},
	}
}

// validationIssueSchema is the shared shape for review findings
func validationIssueSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"file":     {Type: genai.TypeString},
			"line":     {Type: genai.TypeInteger},
			"message":  {Type: genai.TypeString},
			"severity": {Type: genai.TypeString},
			"rule":     {Type: genai.TypeString},
		},
		Required: []string{"file", "message", "severity"},
	}
}

func stringArraySchema() *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}
}

// buildParseSchema creates the schema for resume parsing responses
func (g *GeminiProvider) buildParseSchema() *genai.GenerateContentConfig {
	return g.jsonConfig(&genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"resume": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name":     {Type: genai.TypeString},
					"email":    {Type: genai.TypeString},
					"phone":    {Type: genai.TypeString},
					"linkedin": {Type: genai.TypeString},
					"github":   {Type: genai.TypeString},
					"website":  {Type: genai.TypeString},
					"summary":  {Type: genai.TypeString},
					"skills":   stringArraySchema(),
					"projects": {
						Type: genai.TypeArray,
						Items: &genai.Schema{
							Type: genai.TypeObject,
							Properties: map[string]*genai.Schema{
								"title":        {Type: genai.TypeString},
								"description":  {Type: genai.TypeString},
								"technologies": stringArraySchema(),
								"link":         {Type: genai.TypeString},
								"githubLink":   {Type: genai.TypeString},
							},
							Required: []string{"title"},
						},
					},
					"experience": {
						Type: genai.TypeArray,
						Items: &genai.Schema{
							Type: genai.TypeObject,
							Properties: map[string]*genai.Schema{
								"company":     {Type: genai.TypeString},
								"role":        {Type: genai.TypeString},
								"duration":    {Type: genai.TypeString},
								"description": {Type: genai.TypeString},
								"highlights":  stringArraySchema(),
							},
							Required: []string{"company", "role"},
						},
					},
					"education": {
						Type: genai.TypeArray,
						Items: &genai.Schema{
							Type: genai.TypeObject,
							Properties: map[string]*genai.Schema{
								"institution": {Type: genai.TypeString},
								"degree":      {Type: genai.TypeString},
								"field":       {Type: genai.TypeString},
								"year":        {Type: genai.TypeString},
							},
							Required: []string{"institution"},
						},
					},
					"certifications": {
						Type: genai.TypeArray,
						Items: &genai.Schema{
							Type: genai.TypeObject,
							Properties: map[string]*genai.Schema{
								"name":   {Type: genai.TypeString},
								"issuer": {Type: genai.TypeString},
								"date":   {Type: genai.TypeString},
								"link":   {Type: genai.TypeString},
							},
							Required: []string{"name"},
						},
					},
					"languages": stringArraySchema(),
					"interests": stringArraySchema(),
				},
				Required: []string{"name"},
			},
			"confidence": {Type: genai.TypeNumber},
		},
		Required: []string{"resume", "confidence"},
	})
}

// buildPlanSchema creates the schema for site planning responses
func (g *GeminiProvider) buildPlanSchema() *genai.GenerateContentConfig {
	return g.jsonConfig(&genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"plan": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"style": {Type: genai.TypeString},
					"colorScheme": {
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"primary":    {Type: genai.TypeString},
							"secondary":  {Type: genai.TypeString},
							"accent":     {Type: genai.TypeString},
							"background": {Type: genai.TypeString},
							"text":       {Type: genai.TypeString},
						},
						Required: []string{"primary", "secondary", "accent", "background", "text"},
					},
					"sections":        stringArraySchema(),
					"layout":          {Type: genai.TypeString},
					"useAnimations":   {Type: genai.TypeBoolean},
					"fontFamily":      {Type: genai.TypeString},
					"darkMode":        {Type: genai.TypeBoolean},
					"navigationStyle": {Type: genai.TypeString},
					"techStack":       stringArraySchema(),
				},
				Required: []string{"style", "colorScheme", "sections", "layout"},
			},
		},
		Required: []string{"plan"},
	})
}

// buildSectionSchema creates the schema for section content responses.
// Content is a free-form object whose shape depends on the section.
func (g *GeminiProvider) buildSectionSchema() *genai.GenerateContentConfig {
	return g.jsonConfig(&genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"content": {Type: genai.TypeObject},
		},
		Required: []string{"content"},
	})
}

// buildCodegenSchema creates the schema for code generation responses
func (g *GeminiProvider) buildCodegenSchema() *genai.GenerateContentConfig {
	return g.jsonConfig(&genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"files": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"filename":      {Type: genai.TypeString},
						"filepath":      {Type: genai.TypeString},
						"content":       {Type: genai.TypeString},
						"componentType": {Type: genai.TypeString},
					},
					Required: []string{"filename", "filepath", "content", "componentType"},
				},
			},
		},
		Required: []string{"files"},
	})
}

// buildReviewSchema creates the schema for code review responses
func (g *GeminiProvider) buildReviewSchema() *genai.GenerateContentConfig {
	return g.jsonConfig(&genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"valid":    {Type: genai.TypeBoolean},
			"errors":   {Type: genai.TypeArray, Items: validationIssueSchema()},
			"warnings": {Type: genai.TypeArray, Items: validationIssueSchema()},
		},
		Required: []string{"valid", "errors", "warnings"},
	})
}

// buildAdviceSchema creates the schema for match insight responses
func (g *GeminiProvider) buildAdviceSchema() *genai.GenerateContentConfig {
	return g.jsonConfig(&genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"summary":     {Type: genai.TypeString},
			"strengths":   stringArraySchema(),
			"gaps":        stringArraySchema(),
			"suggestions": stringArraySchema(),
		},
		Required: []string{"summary", "strengths", "gaps", "suggestions"},
	})
}

// buildQuestionsSchema creates the schema for question generation responses
func (g *GeminiProvider) buildQuestionsSchema() *genai.GenerateContentConfig {
	return g.jsonConfig(&genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"questions": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"question":   {Type: genai.TypeString},
						"type":       {Type: genai.TypeString},
						"difficulty": {Type: genai.TypeString},
						"focusArea":  {Type: genai.TypeString},
					},
					Required: []string{"question", "type", "difficulty", "focusArea"},
				},
			},
		},
		Required: []string{"questions"},
	})
}

// buildClassifySchema creates the schema for intent classification responses
func (g *GeminiProvider) buildClassifySchema() *genai.GenerateContentConfig {
	return g.jsonConfig(&genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"intent": {Type: genai.TypeString, Enum: []string{"chit_chat", "kb_query"}},
		},
		Required: []string{"intent"},
	})
}

// buildCondenseSchema creates the schema for question condensing responses
func (g *GeminiProvider) buildCondenseSchema() *genai.GenerateContentConfig {
	return g.jsonConfig(&genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"question": {Type: genai.TypeString},
		},
		Required: []string{"question"},
	})
}

// buildRespondSchema creates the schema for chat answer responses
func (g *GeminiProvider) buildRespondSchema() *genai.GenerateContentConfig {
	return g.jsonConfig(&genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"answer": {Type: genai.TypeString},
		},
		Required: []string{"answer"},
	})
}

// buildAssessSchema creates the schema for answer assessment responses
func (g *GeminiProvider) buildAssessSchema() *genai.GenerateContentConfig {
	return g.jsonConfig(&genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"clarity":      scoreDetailSchema(),
			"confidence":   scoreDetailSchema(),
			"fluency":      scoreDetailSchema(),
			"relevance":    scoreDetailSchema(),
			"sentiment":    scoreDetailSchema(),
			"keywordMatch": scoreDetailSchema(),
		},
		Required: []string{"clarity", "confidence", "fluency", "relevance", "sentiment", "keywordMatch"},
	})
}
