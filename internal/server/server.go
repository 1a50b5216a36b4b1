// Package server exposes the planner over HTTP and websocket.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rrt-planner/internal/config"
	"rrt-planner/internal/logging"
	"rrt-planner/internal/telemetry"
	"rrt-planner/obstacles"
	"rrt-planner/planner"
	"rrt-planner/smoothing"
)

// Server holds the session store and the scenario defaults shared by all requests.
type Server struct {
	cfg       config.ServerConfig
	defaults  planner.Config
	smooth    bool
	obstacles []obstacles.Polygon
	logger    *slog.Logger

	registry *prometheus.Registry
	metrics  *telemetry.Metrics
	sessions *SessionStore
	upgrader websocket.Upgrader
}

// New creates a server for scenario. polygons are present in every session.
func New(scenario config.Scenario, polygons []obstacles.Polygon, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &Server{
		cfg:       scenario.Server,
		defaults:  scenario.Planner,
		smooth:    scenario.Smoothing.Enabled,
		obstacles: polygons,
		logger:    logger,
		registry:  registry,
		metrics:   telemetry.NewMetrics(registry),
		sessions:  NewSessionStore(scenario.Server.MaxSessions),
	}
	s.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return s.cfg.AllowedOrigin == "*" || r.Header.Get("Origin") == s.cfg.AllowedOrigin
		},
		ReadBufferSize:  64 * 1024,
		WriteBufferSize: 64 * 1024,
	}
	return s
}

// Sessions returns the session store.
func (s *Server) Sessions() *SessionStore { return s.sessions }

// Metrics returns the server's planner metrics.
func (s *Server) Metrics() *telemetry.Metrics { return s.metrics }

// Handler returns the routed handler with CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/plan", s.corsMiddleware(s.instrument("plan", s.planHandler)))
	mux.HandleFunc("/sessions/{id}", s.corsMiddleware(s.instrument("session", s.sessionHandler)))
	mux.HandleFunc("/sessions/{id}/lines", s.corsMiddleware(s.instrument("lines", s.linesHandler)))
	mux.HandleFunc("/stream", s.corsMiddleware(s.streamHandler))
	mux.HandleFunc("/health", s.corsMiddleware(s.instrument("health", s.healthHandler)))
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			"addr", s.cfg.Addr,
			"max_sessions", s.cfg.MaxSessions,
			"obstacles", len(s.obstacles),
		)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// corsMiddleware adds CORS headers to allow frontend requests
func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.cfg.AllowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		s.metrics.Requests.WithLabelValues(endpoint, fmt.Sprint(rec.status)).Inc()
	}
}

// newRequest returns a PlanRequest pre-filled with the scenario defaults.
func (s *Server) newRequest() PlanRequest {
	cfg := s.defaults
	if cfg.RandomSeed != nil {
		seed := *cfg.RandomSeed
		cfg.RandomSeed = &seed
	}
	return PlanRequest{Config: cfg}
}

// runSession grows one session for req and stores it. Extra observers see
// every event of the session.
func (s *Server) runSession(ctx context.Context, id string, req PlanRequest, observers ...planner.Observer) (*Session, error) {
	cfg := req.Config
	logger := s.logger.With("session_id", id)

	options := []planner.Option{
		planner.WithLogger(logger),
		planner.WithObserver(s.metrics),
		planner.WithObserver(observers...),
	}
	if req.RetainFrom != "" {
		previous, err := s.sessions.Get(req.RetainFrom)
		if err != nil {
			return nil, fmt.Errorf("retain %s: %w", req.RetainFrom, err)
		}
		cfg.RetainPreviousTree = true
		options = append(options, planner.WithPreviousTree(previous.Tree))
	}

	if err := s.limitBudget(&cfg); err != nil {
		return nil, err
	}

	polygons := make([]obstacles.Polygon, 0, len(s.obstacles)+len(req.Obstacles))
	polygons = append(polygons, s.obstacles...)
	polygons = append(polygons, req.Obstacles...)
	field := obstacles.NewField(polygons)

	p, err := planner.New(cfg, field, options...)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	result, err := p.Run(ctx)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveSession(len(result.Tree), time.Since(started))

	session := &Session{
		ID:        id,
		CreatedAt: started,
		Config:    cfg,
		Obstacles: polygons,
		Tree:      p.Tree(),
		Result:    result,
	}
	smooth := s.smooth
	if req.Smooth != nil {
		smooth = *req.Smooth
	}
	if smooth && result.GoalReached {
		session.Smoothed = smoothing.Shortcut(result.Path, field.SegmentFree)
	}

	for _, evicted := range s.sessions.Put(session) {
		logger.Debug("session evicted", "evicted_id", evicted)
	}
	return session, nil
}

// limitBudget enforces the configured per-request ceilings. Non-positive
// ceilings disable the check.
func (s *Server) limitBudget(cfg *planner.Config) error {
	if s.cfg.MaxNodes > 0 && cfg.MaxNodes > s.cfg.MaxNodes {
		return fmt.Errorf("%w: maxNodes %d exceeds the server limit of %d",
			planner.ErrInvalidConfiguration, cfg.MaxNodes, s.cfg.MaxNodes)
	}
	if s.cfg.MaxAttempts > 0 {
		if cfg.MaxAttempts > s.cfg.MaxAttempts {
			return fmt.Errorf("%w: maxAttempts %d exceeds the server limit of %d",
				planner.ErrInvalidConfiguration, cfg.MaxAttempts, s.cfg.MaxAttempts)
		}
		if cfg.MaxAttempts == 0 {
			cfg.MaxAttempts = s.cfg.MaxAttempts
		}
	}
	return nil
}

func newSessionID() string { return uuid.New().String() }
