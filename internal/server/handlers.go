package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"rrt-planner/planner"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   msg,
	})
}

// statusFor maps session errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, planner.ErrInvalidConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// POST /plan - grow a session to completion and store it
func (s *Server) planHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.logger.Warn("method not allowed", "endpoint", "plan", "method", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req := s.newRequest()
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn("invalid plan request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id := newSessionID()
	s.logger.Info("plan request received",
		"session_id", id,
		"start", req.Start.String(),
		"goal", req.Goal.String(),
		"max_nodes", req.MaxNodes,
		"epsilon", req.Epsilon,
		"obstacles", len(s.obstacles)+len(req.Obstacles),
		"retain_from", req.RetainFrom,
	)

	session, err := s.runSession(r.Context(), id, req)
	if err != nil {
		s.logger.Warn("plan request failed", "session_id", id, "error", err)
		writeError(w, statusFor(err), err.Error())
		return
	}

	resp := newPlanResponse(session)
	if resp.Success {
		s.logger.Info("path found",
			"session_id", id,
			"waypoints", len(resp.Path),
			"length", resp.PathLength,
			"nodes", resp.NumNodes,
		)
	} else {
		s.logger.Info("no path found", "session_id", id, "nodes", resp.NumNodes)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /sessions/{id} - full tree, parent links and path of a stored session
func (s *Server) sessionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sessionId":    session.ID,
		"createdAt":    session.CreatedAt,
		"config":       session.Config,
		"result":       session.Result,
		"smoothedPath": session.Smoothed,
	})
}

// GET /sessions/{id}/lines - tree edges as line segments for visualization
func (s *Server) linesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.PathValue("id")
	session, err := s.sessions.Get(id)
	if err != nil {
		s.logger.Warn("lines requested for unknown session", "session_id", id)
		writeError(w, statusFor(err), err.Error())
		return
	}

	lines := session.Tree.Edges()
	s.logger.Debug("returning tree lines", "session_id", id, "lines", len(lines))
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"lines":    lines,
		"path":     session.Result.Path,
		"numNodes": session.Tree.Len(),
		"numEdges": len(lines),
	})
}

// GET /health - Health check endpoint
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ready",
		"sessions":  s.sessions.Len(),
		"obstacles": len(s.obstacles),
	})
}
