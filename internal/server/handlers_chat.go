package server

import (
	"net/http"
	"strings"
)

// requireSessions reports whether the session store is configured. Sessions
// live in Redis; when Redis is disabled the store is absent and the session
// endpoints answer with a storage error instead of attempting the call.
func (s *Server) requireSessions(w http.ResponseWriter) bool {
	if s.Services.Sessions == nil {
		writeErrorResponse(w, "Session storage unavailable",
			"Interview sessions require Redis; enable redis in the configuration", http.StatusServiceUnavailable)
		return false
	}
	return true
}

// createSessionHandler starts a new interview-prep chat session
func (s *Server) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	if !s.requireSessions(w) {
		return
	}

	var req SessionRequest
	if !parseJSONRequest(w, r, &req) {
		return
	}

	session, err := s.Services.Sessions.Create(r.Context(), req.Title)
	if err != nil {
		s.handleServiceError(w, err, "sessions.create")
		return
	}

	writeJSONResponse(w, session, http.StatusCreated)
}

// listSessionsHandler returns all chat sessions, newest first
func (s *Server) listSessionsHandler(w http.ResponseWriter, r *http.Request) {
	if !s.requireSessions(w) {
		return
	}

	sessions, err := s.Services.Sessions.List(r.Context())
	if err != nil {
		s.handleServiceError(w, err, "sessions.list")
		return
	}

	writeJSONResponse(w, sessions, http.StatusOK)
}

// getSessionHandler returns one session with its message history
func (s *Server) getSessionHandler(w http.ResponseWriter, r *http.Request) {
	if !s.requireSessions(w) {
		return
	}

	sessionID := r.PathValue("id")

	session, err := s.Services.Sessions.Get(r.Context(), sessionID)
	if err != nil {
		s.handleServiceError(w, err, "sessions.get")
		return
	}

	writeJSONResponse(w, session, http.StatusOK)
}

// renameSessionHandler updates a session title
func (s *Server) renameSessionHandler(w http.ResponseWriter, r *http.Request) {
	if !s.requireSessions(w) {
		return
	}

	sessionID := r.PathValue("id")

	var req SessionRequest
	if !parseJSONRequest(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeErrorResponse(w, "Invalid request", "title is required", http.StatusBadRequest)
		return
	}

	if err := s.Services.Sessions.Rename(r.Context(), sessionID, req.Title); err != nil {
		s.handleServiceError(w, err, "sessions.rename")
		return
	}

	writeJSONResponse(w, map[string]string{"id": sessionID, "title": req.Title}, http.StatusOK)
}

// deleteSessionHandler removes a session and its history
func (s *Server) deleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	if !s.requireSessions(w) {
		return
	}

	sessionID := r.PathValue("id")

	if err := s.Services.Sessions.Delete(r.Context(), sessionID); err != nil {
		s.handleServiceError(w, err, "sessions.delete")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// chatHandler answers an interview-prep question within a session. Knowledge
// base questions are grounded on the retrieval index; chit-chat is answered
// directly.
func (s *Server) chatHandler(w http.ResponseWriter, r *http.Request) {
	if s.Services.Chat == nil {
		writeErrorResponse(w, "Chat unavailable",
			"Interview chat requires Redis and a knowledge base index; enable redis in the configuration", http.StatusServiceUnavailable)
		return
	}

	r, span := s.startSpan(r, "api.chat")
	defer span.End()

	var req ChatRequest
	if !parseJSONRequest(w, r, &req) {
		return
	}

	if req.SessionID == "" || strings.TrimSpace(req.Question) == "" {
		writeErrorResponse(w, "Invalid request", "sessionId and question are required", http.StatusBadRequest)
		return
	}

	answer, err := s.Services.Chat.Respond(r.Context(), req.SessionID, req.Question)
	if s.Obs != nil {
		s.Obs.GetMetrics().RecordBusinessMetric(r.Context(), "chat_turn", err == nil, s.Obs)
	}
	if err != nil {
		s.handleServiceError(w, err, "chat")
		return
	}

	writeJSONResponse(w, answer, http.StatusOK)
}
