package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LifecycleMetrics records lifecycle transition outcomes. A nil receiver is
// safe so the engine works without a registry in tests.
type LifecycleMetrics struct {
	duration    *prometheus.HistogramVec
	transitions *prometheus.CounterVec
	failures    *prometheus.CounterVec
}

// NewLifecycleMetrics registers the lifecycle metrics on the provided registerer.
func NewLifecycleMetrics(reg prometheus.Registerer) *LifecycleMetrics {
	if reg == nil {
		return &LifecycleMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lifecycle_transition_duration_seconds",
		Help:    "Duration of lifecycle transitions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"action"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lifecycle_transitions_total",
		Help: "Completed lifecycle transitions.",
	}, []string{"action"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lifecycle_transition_failures_total",
		Help: "Rejected or failed lifecycle transitions.",
	}, []string{"action"})
	reg.MustRegister(duration, transitions, failures)
	return &LifecycleMetrics{
		duration:    duration,
		transitions: transitions,
		failures:    failures,
	}
}

// ObserveDuration records the duration for the named action.
func (m *LifecycleMetrics) ObserveDuration(action string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(action)).Observe(duration.Seconds())
}

// IncTransition increments the success counter for the named action.
func (m *LifecycleMetrics) IncTransition(action string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(action)).Inc()
}

// IncFailure increments the failure counter for the named action.
func (m *LifecycleMetrics) IncFailure(action string) {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.WithLabelValues(normalizeLabel(action)).Inc()
}

func normalizeLabel(action string) string {
	if action == "" {
		return "unknown"
	}
	return action
}
