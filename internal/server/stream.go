package server

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"

	"rrt-planner/planner"
)

func (s *Server) sendJSON(ws *websocket.Conn, v any) error {
	err := ws.WriteJSON(v)
	if err != nil {
		s.logger.Warn("failed to write websocket JSON", "error", err)
	}
	return err
}

// streamObserver forwards node events to a websocket. The first failed write
// cancels the session. SessionDone is held back until the session is stored,
// so a client may query it as soon as the event arrives.
type streamObserver struct {
	server    *Server
	ws        *websocket.Conn
	sessionID string
	cancel    context.CancelFunc
	failed    bool
	done      *planner.SessionDone
}

func (o *streamObserver) Notify(e planner.Event) {
	if o.failed {
		return
	}
	if done, ok := e.(planner.SessionDone); ok {
		o.done = &done
		return
	}
	o.send(e)
}

func (o *streamObserver) send(e planner.Event) {
	msg := StreamMessage{Event: planner.EventName(e), SessionID: o.sessionID, Data: e}
	if err := o.server.sendJSON(o.ws, msg); err != nil {
		o.failed = true
		o.cancel()
	}
}

// GET /stream - websocket. Each PlanRequest message runs one session and is
// answered with node_added events followed by one session_done event.
func (s *Server) streamHandler(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("failed to upgrade the websocket", "error", err)
		return
	}
	defer ws.Close()
	s.logger.Info("websocket client connected", "remote", r.RemoteAddr)

	for {
		req := s.newRequest()
		if err := ws.ReadJSON(&req); err != nil {
			s.logger.Info("websocket client disconnected", "error", err.Error())
			return
		}

		id := newSessionID()
		s.logger.Info("stream plan request received",
			"session_id", id,
			"start", req.Start.String(),
			"goal", req.Goal.String(),
		)

		ctx, cancel := context.WithCancel(r.Context())
		observer := &streamObserver{server: s, ws: ws, sessionID: id, cancel: cancel}
		_, err := s.runSession(ctx, id, req, observer)
		cancel()
		if observer.failed {
			return
		}
		if err != nil {
			s.logger.Warn("stream plan request failed", "session_id", id, "error", err)
			if s.sendJSON(ws, StreamMessage{Event: eventError, SessionID: id, Error: err.Error()}) != nil {
				return
			}
			continue
		}
		if observer.done != nil {
			observer.send(*observer.done)
			if observer.failed {
				return
			}
		}
	}
}
