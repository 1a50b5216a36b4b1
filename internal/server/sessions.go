package server

import (
	"errors"
	"sync"
	"time"

	"rrt-planner/obstacles"
	"rrt-planner/planner"
)

// ErrSessionNotFound is returned for unknown or evicted session ids.
var ErrSessionNotFound = errors.New("session not found")

// Session is a finished planning session kept for visualization and replanning.
type Session struct {
	ID        string
	CreatedAt time.Time
	Config    planner.Config
	Obstacles []obstacles.Polygon
	Tree      *planner.Tree
	Result    planner.Result
	Smoothed  []planner.Point
}

// SessionStore keeps the most recent sessions. When full, the oldest session
// is evicted.
type SessionStore struct {
	mu       sync.RWMutex
	capacity int
	order    []string
	sessions map[string]*Session
}

// NewSessionStore creates a store holding at most capacity sessions.
// A capacity below 1 is treated as 1.
func NewSessionStore(capacity int) *SessionStore {
	return &SessionStore{
		capacity: max(1, capacity),
		sessions: make(map[string]*Session),
	}
}

// Put stores s and returns the ids of evicted sessions.
func (st *SessionStore) Put(s *Session) []string {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, exists := st.sessions[s.ID]; !exists {
		st.order = append(st.order, s.ID)
	}
	st.sessions[s.ID] = s

	var evicted []string
	for len(st.order) > st.capacity {
		oldest := st.order[0]
		st.order = st.order[1:]
		delete(st.sessions, oldest)
		evicted = append(evicted, oldest)
	}
	return evicted
}

// Get returns the session stored under id.
func (st *SessionStore) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Len returns the number of stored sessions.
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
