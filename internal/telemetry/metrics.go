// Package telemetry exports planner activity as Prometheus metrics.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"rrt-planner/planner"
)

// Outcome labels for finished sessions.
const (
	OutcomeReached   = "reached"
	OutcomeExhausted = "exhausted"
)

// Metrics is a planner.Observer that records session activity. One Metrics
// may observe many sessions at once.
type Metrics struct {
	NodesAccepted prometheus.Counter
	Sessions      *prometheus.CounterVec
	PathLength    prometheus.Histogram
	TreeSize      prometheus.Histogram
	PlanDuration  prometheus.Histogram
	Requests      *prometheus.CounterVec
}

// NewMetrics registers the planner metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		NodesAccepted: factory.NewCounter(prometheus.CounterOpts{
			Name: "rrt_nodes_accepted_total",
			Help: "Total tree nodes accepted across all sessions",
		}),
		Sessions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rrt_sessions_total",
			Help: "Finished planning sessions by outcome",
		}, []string{"outcome"}),
		PathLength: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "rrt_path_length",
			Help:    "Euclidean length of found paths",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10), // 10 to ~5000
		}),
		TreeSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "rrt_tree_nodes",
			Help:    "Tree size at the end of a session",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000, 10000, 50000},
		}),
		PlanDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "rrt_plan_duration_seconds",
			Help:    "Wall time of a planning session",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
		}),
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rrt_http_requests_total",
			Help: "HTTP requests by endpoint and status code",
		}, []string{"endpoint", "status"}),
	}
}

// Notify implements planner.Observer.
func (m *Metrics) Notify(e planner.Event) {
	switch ev := e.(type) {
	case planner.NodeAdded:
		m.NodesAccepted.Inc()
	case planner.SessionDone:
		if !ev.GoalReached {
			m.Sessions.WithLabelValues(OutcomeExhausted).Inc()
			return
		}
		m.Sessions.WithLabelValues(OutcomeReached).Inc()
		m.PathLength.Observe(planner.PathLength(ev.Path))
	}
}

// ObserveSession records the final tree size and elapsed time of a session.
func (m *Metrics) ObserveSession(treeNodes int, elapsed time.Duration) {
	m.TreeSize.Observe(float64(treeNodes))
	m.PlanDuration.Observe(elapsed.Seconds())
}

var _ planner.Observer = (*Metrics)(nil)
