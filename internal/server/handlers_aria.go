package server

import (
	"net/http"
	"strings"

	"careerpilot/internal/types"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// startSpan opens a server-side span for an API operation. Returns a no-op
// span when observability is disabled.
func (s *Server) startSpan(r *http.Request, name string) (*http.Request, oteltrace.Span) {
	if s.Obs == nil {
		return r, oteltrace.SpanFromContext(r.Context())
	}
	ctx, span := s.Obs.Tracer("careerpilot.api").Start(r.Context(), name)
	return r.WithContext(ctx), span
}

// matchHandler scores a resume against a job description
func (s *Server) matchHandler(w http.ResponseWriter, r *http.Request) {
	r, span := s.startSpan(r, "api.match")
	defer span.End()

	var req MatchRequest
	if !parseJSONRequest(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.ResumeText) == "" || strings.TrimSpace(req.JobDescription) == "" {
		writeErrorResponse(w, "Invalid request", "resumeText and jobDescription are required", http.StatusBadRequest)
		return
	}

	result, err := s.Services.Matcher.Run(r.Context(), req.ResumeText, req.JobDescription)
	if s.Obs != nil {
		s.Obs.GetMetrics().RecordBusinessMetric(r.Context(), "match_scored", err == nil, s.Obs)
	}
	if err != nil {
		s.handleServiceError(w, err, "match")
		return
	}

	span.SetAttributes(attribute.Float64("match.score", result.Score))
	writeJSONResponse(w, result, http.StatusOK)
}

// atsHandler runs the deterministic ATS compatibility checks. No AI calls
// are involved so this endpoint works even when providers are down.
func (s *Server) atsHandler(w http.ResponseWriter, r *http.Request) {
	r, span := s.startSpan(r, "api.ats")
	defer span.End()

	var req ATSRequest
	if !parseJSONRequest(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.ResumeText) == "" {
		writeErrorResponse(w, "Invalid request", "resumeText is required", http.StatusBadRequest)
		return
	}

	report := s.Services.ATS.Analyze(req.ResumeText, req.JobDescription)
	if s.Obs != nil {
		s.Obs.GetMetrics().RecordBusinessMetric(r.Context(), "ats_check", true, s.Obs)
	}

	span.SetAttributes(attribute.Float64("ats.overall_score", report.OverallScore))
	writeJSONResponse(w, report, http.StatusOK)
}

// questionsHandler generates tailored interview questions for a job description
func (s *Server) questionsHandler(w http.ResponseWriter, r *http.Request) {
	r, span := s.startSpan(r, "api.questions")
	defer span.End()

	var req QuestionsRequest
	if !parseJSONRequest(w, r, &req) {
		return
	}

	result, err := s.Services.Questions.Generate(r.Context(), types.GenerateQuestionsInput{
		JobDescription: req.JobDescription,
		NumQuestions:   req.NumQuestions,
		QuestionTypes:  req.QuestionTypes,
	})
	if s.Obs != nil {
		s.Obs.GetMetrics().RecordBusinessMetric(r.Context(), "questions_generated", err == nil, s.Obs)
	}
	if err != nil {
		s.handleServiceError(w, err, "questions")
		return
	}

	span.SetAttributes(attribute.Int("questions.count", len(result.Questions)))
	writeJSONResponse(w, result, http.StatusOK)
}

// mockAnalyzeHandler assesses a full set of mock interview answers
func (s *Server) mockAnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	r, span := s.startSpan(r, "api.mock_analyze")
	defer span.End()

	var req MockAnalyzeRequest
	if !parseJSONRequest(w, r, &req) {
		return
	}

	if len(req.Answers) == 0 {
		writeErrorResponse(w, "Invalid request", "at least one answer is required", http.StatusBadRequest)
		return
	}

	report, err := s.Services.Interview.AnalyzeSession(r.Context(), req.Answers, req.JobDescription)
	if s.Obs != nil {
		s.Obs.GetMetrics().RecordBusinessMetric(r.Context(), "interview_analyzed", err == nil, s.Obs)
	}
	if err != nil {
		s.handleServiceError(w, err, "mock.analyze")
		return
	}

	span.SetAttributes(attribute.Int("interview.answers", len(req.Answers)))
	writeJSONResponse(w, report, http.StatusOK)
}
