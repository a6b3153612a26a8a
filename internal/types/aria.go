package types

// MatchInsights holds the AI-generated advice from a resume-job match run
type MatchInsights struct {
	Summary     string   `json:"summary"`
	Strengths   []string `json:"strengths"`
	Gaps        []string `json:"gaps"`
	Suggestions []string `json:"suggestions"`
}

// MatchResult is the output of the resume-job match pipeline
type MatchResult struct {
	Score    float64       `json:"matchScore"` // cosine similarity in [0, 1]
	Insights MatchInsights `json:"insights"`
}

// ATSCategoryScore is the score for one ATS scoring category
type ATSCategoryScore struct {
	Score         float64  `json:"score"`  // 0.0 to 1.0
	Weight        float64  `json:"weight"` // category weight in the overall score
	WeightedScore float64  `json:"weightedScore"`
	Findings      []string `json:"findings,omitempty"`
}

// ATSReport is the output of the deterministic ATS analyzer
type ATSReport struct {
	OverallScore    float64                     `json:"overallScore"` // 0 to 100
	Categories      map[string]ATSCategoryScore `json:"categoryScores"`
	Recommendations []string                    `json:"recommendations"`
}

// Question is one generated interview question
type Question struct {
	Question   string `json:"question"`
	Type       string `json:"type"`       // technical, behavioral, general, situational
	Difficulty string `json:"difficulty"` // easy, medium, hard
	FocusArea  string `json:"focusArea"`
}

// QuestionSet is the output of interview question generation
type QuestionSet struct {
	Questions []Question `json:"questions"`
}

// ScoreDetail pairs a 0-1 score with an explanation
type ScoreDetail struct {
	Score   float64 `json:"score"`
	Details string  `json:"details"`
}

// AnswerAssessment is the AI evaluation of one interview answer
type AnswerAssessment struct {
	Clarity      ScoreDetail `json:"clarity"`
	Confidence   ScoreDetail `json:"confidence"`
	Fluency      ScoreDetail `json:"fluency"`
	Relevance    ScoreDetail `json:"relevance"`
	Sentiment    ScoreDetail `json:"sentiment"`
	KeywordMatch ScoreDetail `json:"keywordMatch"`
}

// DeliveryMetrics are deterministic speech-delivery measurements computed
// from the transcript and answer duration
type DeliveryMetrics struct {
	WordCount       int     `json:"wordCount"`
	DurationSeconds float64 `json:"durationSeconds,omitempty"`
	WordsPerMinute  float64 `json:"wordsPerMinute,omitempty"`
	FillerWordCount int     `json:"fillerWordCount"`
	FillerRate      float64 `json:"fillerRate"` // filler words per 100 words
	HedgeWordCount  int     `json:"hedgeWordCount"`
}

// AnswerAnalysis combines AI assessment and delivery metrics for one answer
type AnswerAnalysis struct {
	Question     string           `json:"question,omitempty"`
	Assessment   AnswerAssessment `json:"assessment"`
	Delivery     DeliveryMetrics  `json:"delivery"`
	OverallScore float64          `json:"overallScore"` // 0 to 1
}

// InterviewReport aggregates analyses across a mock interview session
type InterviewReport struct {
	Analyses        []AnswerAnalysis `json:"analyses"`
	OverallScore    float64          `json:"overallScore"`
	Recommendations []string         `json:"recommendations"`
}

// ChatSession is interview-prep chat session metadata
type ChatSession struct {
	SessionID string `json:"sessionId"`
	Title     string `json:"title"`
	CreatedAt int64  `json:"createdAt"` // unix seconds
}

// ChatMessage is one turn of an interview-prep conversation
type ChatMessage struct {
	Role    string `json:"role"` // user or assistant
	Content string `json:"content"`
}

// ChatAnswer is the chatbot's reply plus retrieval context
type ChatAnswer struct {
	Answer  string   `json:"answer"`
	Intent  string   `json:"intent"` // chit_chat or kb_query
	Sources []string `json:"sources,omitempty"`
}
