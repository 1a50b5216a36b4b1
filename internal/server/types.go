package server

import (
	"rrt-planner/obstacles"
	"rrt-planner/planner"
)

// PlanRequest is the body of POST /plan and of each /stream message. Planner
// fields are inlined and default to the server's configured scenario.
type PlanRequest struct {
	planner.Config

	// Obstacles are added to the server's configured obstacles.
	Obstacles []obstacles.Polygon `json:"obstacles,omitempty"`

	// RetainFrom continues growing the tree of a stored session.
	RetainFrom string `json:"retainFrom,omitempty"`

	// Smooth shortcuts the found path. Nil uses the server default.
	Smooth *bool `json:"smooth,omitempty"`
}

// PlanResponse summarizes a session.
type PlanResponse struct {
	SessionID      string          `json:"sessionId"`
	Success        bool            `json:"success"`
	Message        string          `json:"message,omitempty"`
	Path           []planner.Point `json:"path"`
	SmoothedPath   []planner.Point `json:"smoothedPath,omitempty"`
	PathLength     float64         `json:"pathLength,omitempty"`
	SmoothedLength float64         `json:"smoothedLength,omitempty"`
	NumNodes       int             `json:"numNodes"`
	Iterations     int             `json:"iterations"`
	Rejected       int             `json:"rejected"`
}

// StreamMessage is one websocket frame sent by /stream.
type StreamMessage struct {
	Event     string `json:"event"`
	SessionID string `json:"sessionId,omitempty"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
}

const eventError = "error"

func newPlanResponse(s *Session) PlanResponse {
	resp := PlanResponse{
		SessionID:  s.ID,
		Success:    s.Result.GoalReached,
		Path:       s.Result.Path,
		NumNodes:   len(s.Result.Tree),
		Iterations: s.Result.Iterations,
		Rejected:   s.Result.Rejected,
	}
	if !resp.Success {
		resp.Message = "Goal not reached within the node budget"
		return resp
	}
	resp.PathLength = planner.PathLength(s.Result.Path)
	if s.Smoothed != nil {
		resp.SmoothedPath = s.Smoothed
		resp.SmoothedLength = planner.PathLength(s.Smoothed)
	}
	return resp
}
