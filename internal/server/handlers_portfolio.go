package server

import (
	"context"
	"net/http"
	"os"
	"strings"

	"careerpilot/internal/background"
	"careerpilot/internal/portfolio"
	"careerpilot/internal/utils"
)

// generatePortfolioHandler queues a portfolio build and returns 202 with a
// process ID. The build runs through the full workflow (parse, plan, sections,
// codegen, review) in the background; clients poll the status endpoint.
func (s *Server) generatePortfolioHandler(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if !parseJSONRequest(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.ResumeText) == "" {
		writeErrorResponse(w, "Invalid request", "resumeText is required", http.StatusBadRequest)
		return
	}

	buildReq := portfolio.BuildRequest{
		ResumeText:  req.ResumeText,
		UserPrompt:  req.UserPrompt,
		ProjectName: req.ProjectName,
	}

	metadata := map[string]any{
		"projectName": req.ProjectName,
		"resumeBytes": len(req.ResumeText),
	}

	processID, err := s.Services.Tasks.Submit(r.Context(), background.TaskTypePortfolio, metadata,
		func(ctx context.Context) (any, error) {
			result, err := s.Services.Builder.Build(ctx, buildReq)
			if err != nil {
				return nil, err
			}
			if s.Obs != nil {
				s.Obs.GetMetrics().RecordBusinessMetric(ctx, "portfolio_generated",
					result.Status != "failed", s.Obs)
			}
			return result, nil
		})
	if err != nil {
		s.handleServiceError(w, err, "portfolio.generate")
		return
	}

	s.Logger.Info("Portfolio build accepted",
		"process_id", processID,
		"project_name", req.ProjectName)

	if s.Obs != nil {
		s.Obs.GetMetrics().RecordTaskSubmitted(r.Context(), string(background.TaskTypePortfolio),
			s.Services.Tasks.QueueDepth(), s.Obs)
	}

	writeJSONResponse(w, TaskAcceptedResponse{
		ProcessID: processID,
		Status:    string(background.TaskStatusAccepted),
	}, http.StatusAccepted)
}

// portfolioStatusHandler returns the state of a queued or finished build
func (s *Server) portfolioStatusHandler(w http.ResponseWriter, r *http.Request) {
	processID := r.PathValue("id")
	if processID == "" {
		writeErrorResponse(w, "Invalid request", "process ID is required", http.StatusBadRequest)
		return
	}

	result, err := s.Services.Tasks.GetTaskResult(r.Context(), processID)
	if err != nil {
		s.handleServiceError(w, err, "portfolio.status")
		return
	}

	writeJSONResponse(w, result, http.StatusOK)
}

// portfolioDownloadHandler streams the zipped site for a finished build
func (s *Server) portfolioDownloadHandler(w http.ResponseWriter, r *http.Request) {
	projectID := utils.SanitizeProjectName(r.PathValue("projectID"))
	if projectID == "" {
		writeErrorResponse(w, "Invalid request", "project ID is required", http.StatusBadRequest)
		return
	}

	zipPath := s.Services.Builder.Assembler().ZipPath(projectID)
	if _, err := os.Stat(zipPath); err != nil {
		writeErrorResponse(w, "Not found", "No archive exists for this project", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+projectID+`.zip"`)
	http.ServeFile(w, r, zipPath)
}
