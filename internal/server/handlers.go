package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	"careerpilot/internal/config"
	"careerpilot/internal/errors"
)

const healthCheckTimeout = 10 * time.Second

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status    string         `json:"status"`
	Version   string         `json:"version"`
	Timestamp string         `json:"timestamp"`
	Checks    map[string]any `json:"checks"`
}

// healthHandler reports readiness of the AI providers, session store, and
// background task manager.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	checks := make(map[string]any)
	healthy := true

	if s.Services.AI != nil {
		// Probe one provider per distinct model rather than all nine operations
		models := make(map[string]any)
		seen := make(map[string]bool)
		for _, op := range config.Operations {
			opCfg := s.AppConfig.OperationConfig(op)
			if opCfg.Model == "" || seen[opCfg.Model] {
				continue
			}
			seen[opCfg.Model] = true
			models[opCfg.Model] = s.Services.AI.For(op).GetModelInfo(ctx)
		}
		checks["models"] = models
		checks["circuit_breakers"] = s.Services.AI.CircuitBreakerStats()
	}

	if s.Services.Sessions != nil {
		if err := s.Services.Sessions.Ping(ctx); err != nil {
			checks["redis"] = map[string]any{"healthy": false, "error": err.Error()}
			healthy = false
		} else {
			checks["redis"] = map[string]any{"healthy": true}
		}
	}

	if s.Services.Tasks != nil {
		tasksHealthy := s.Services.Tasks.IsHealthy()
		checks["tasks"] = map[string]any{
			"healthy":     tasksHealthy,
			"queue_depth": s.Services.Tasks.QueueDepth(),
		}
		if !tasksHealthy {
			healthy = false
		}
	}

	status := "healthy"
	statusCode := http.StatusOK
	if !healthy {
		status = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSONResponse(w, HealthResponse{
		Status:    status,
		Version:   s.Version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}, statusCode)
}

// statsHandler reports server runtime statistics
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	stats := map[string]any{
		"version": s.Version,
		"uptime":  time.Since(serverStartTime).String(),
	}

	if s.RateLimiter != nil {
		stats["rate_limiter"] = s.RateLimiter.GetStats()
	}
	if s.Services.Tasks != nil {
		stats["task_queue_depth"] = s.Services.Tasks.QueueDepth()
		tasks, err := s.Services.Tasks.ListTasks(r.Context())
		if err == nil {
			stats["tracked_tasks"] = len(tasks)
		}
	}

	writeJSONResponse(w, stats, http.StatusOK)
}

var serverStartTime = time.Now()

// parseJSONRequest decodes a JSON request body into dst
func parseJSONRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "application/json") {
		writeErrorResponse(w, "Unsupported content type", "Request body must be application/json", http.StatusUnsupportedMediaType)
		return false
	}

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if stderrors.As(err, &maxBytesErr) {
			writeErrorResponse(w, "Request too large", "Request body exceeds the maximum allowed size", http.StatusRequestEntityTooLarge)
			return false
		}
		writeErrorResponse(w, "Invalid request body", "Request body is not valid JSON", http.StatusBadRequest)
		return false
	}

	return true
}

// writeJSONResponse writes v as a JSON response with the given status code
func writeJSONResponse(w http.ResponseWriter, v any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErrorResponse writes a structured error response
func writeErrorResponse(w http.ResponseWriter, errMsg, message string, statusCode int) {
	writeJSONResponse(w, ErrorResponse{Error: errMsg, Message: message}, statusCode)
}

// handleServiceError maps application errors to HTTP status codes and writes
// the error response. Internal detail stays in the logs, not the response.
func (s *Server) handleServiceError(w http.ResponseWriter, err error, operation string) {
	s.Logger.LogError(err, "Request failed", "operation", operation)

	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		writeErrorResponse(w, "Internal server error", "An unexpected error occurred", http.StatusInternalServerError)
		return
	}

	switch {
	case appErr.Code == errors.ErrCodeSessionNotFound || appErr.Code == errors.ErrCodeTaskNotFound:
		writeErrorResponse(w, "Not found", appErr.Message, http.StatusNotFound)
	case appErr.Code == errors.ErrCodeQueueFull:
		writeErrorResponse(w, "Service busy", appErr.Message, http.StatusServiceUnavailable)
	case appErr.Type == errors.ErrorTypeValidation:
		writeErrorResponse(w, "Invalid request", appErr.Message, http.StatusBadRequest)
	case appErr.Code == errors.ErrCodeAITimeout || appErr.Code == errors.ErrCodeNetworkTimeout:
		writeErrorResponse(w, "Upstream timeout", "The AI service did not respond in time", http.StatusGatewayTimeout)
	case appErr.Type == errors.ErrorTypeAI || appErr.Type == errors.ErrorTypeNetwork:
		writeErrorResponse(w, "Upstream service error", "The AI service is currently unavailable", http.StatusBadGateway)
	default:
		writeErrorResponse(w, "Internal server error", "An unexpected error occurred", http.StatusInternalServerError)
	}
}
