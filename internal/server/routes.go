package server

import (
	"net/http"
)

// setupRoutes registers all HTTP endpoints on the mux. The health endpoint is
// unauthenticated so orchestrators can probe it; everything else goes through
// the auth, size-limit, and rate-limit middleware chain.
func (s *Server) setupRoutes(mux *http.ServeMux) {
	rateLimited := s.rateLimitMiddleware()

	// protect wires the standard middleware chain for an API endpoint
	protect := func(handler http.HandlerFunc) http.HandlerFunc {
		return s.authMiddleware(s.sizeLimitMiddleware(rateLimited(handler)))
	}

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /stats", s.authMiddleware(s.statsHandler))

	// Portfolio generation is asynchronous: generate returns a process ID,
	// status reports progress, and download streams the finished archive.
	mux.HandleFunc("POST /portfolio/generate", protect(s.generatePortfolioHandler))
	mux.HandleFunc("GET /portfolio/status/{id}", s.authMiddleware(rateLimited(s.portfolioStatusHandler)))
	mux.HandleFunc("GET /portfolio/download/{projectID}", s.authMiddleware(rateLimited(s.portfolioDownloadHandler)))

	mux.HandleFunc("POST /match", protect(s.matchHandler))
	mux.HandleFunc("POST /ats", protect(s.atsHandler))

	mux.HandleFunc("POST /mock/questions", protect(s.questionsHandler))
	mux.HandleFunc("POST /mock/analyze", protect(s.mockAnalyzeHandler))

	mux.HandleFunc("POST /interview/sessions", protect(s.createSessionHandler))
	mux.HandleFunc("GET /interview/sessions", s.authMiddleware(rateLimited(s.listSessionsHandler)))
	mux.HandleFunc("GET /interview/sessions/{id}", s.authMiddleware(rateLimited(s.getSessionHandler)))
	mux.HandleFunc("PATCH /interview/sessions/{id}", protect(s.renameSessionHandler))
	mux.HandleFunc("DELETE /interview/sessions/{id}", s.authMiddleware(rateLimited(s.deleteSessionHandler)))
	mux.HandleFunc("POST /interview/chat", protect(s.chatHandler))
}

// authMiddleware validates API keys when authentication is enabled.
// Keys are accepted from the X-API-Key header or as a Bearer token.
func (s *Server) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Authentication disabled when no keys are configured
		if len(s.APIKeys) == 0 {
			next(w, r)
			return
		}

		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			authHeader := r.Header.Get("Authorization")
			if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
				apiKey = authHeader[7:]
			}
		}

		if apiKey == "" {
			s.Logger.Info("API request rejected: missing API key",
				"endpoint", r.URL.Path,
				"client_ip", getClientIP(r))
			writeErrorResponse(w, "Authentication required", "Provide an API key via X-API-Key header or Authorization bearer token", http.StatusUnauthorized)
			return
		}

		if !s.APIKeys[apiKey] {
			s.Logger.Info("API request rejected: invalid API key",
				"endpoint", r.URL.Path,
				"client_ip", getClientIP(r),
				"key_prefix", maskAPIKey(apiKey))
			writeErrorResponse(w, "Invalid API key", "The provided API key is not authorized", http.StatusUnauthorized)
			return
		}

		next(w, r)
	}
}

// sizeLimitMiddleware caps the request body size
func (s *Server) sizeLimitMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.MaxRequestSize > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, s.MaxRequestSize)
		}
		next(w, r)
	}
}

// maskAPIKey returns a masked version of an API key safe for logging
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:8] + "****"
}
