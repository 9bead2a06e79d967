package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/aretw0/autotutor/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the lesson collectors.
type Metrics struct {
	NodeVisits       *prometheus.CounterVec
	Choices          *prometheus.CounterVec
	LessonsStarted   *prometheus.CounterVec
	LessonsCompleted prometheus.Counter
	ActiveLessons    prometheus.Gauge
	PlotFailures     prometheus.Counter
	TransitionTime   *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		NodeVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autotutor_node_visits_total",
				Help: "Total number of node visits",
			},
			[]string{"node_id"},
		),
		Choices: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autotutor_choices_total",
				Help: "Total number of learner selections",
			},
			[]string{"node_id", "index"},
		),
		LessonsStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autotutor_lessons_started_total",
				Help: "Total number of lessons started",
			},
			[]string{"family"},
		),
		LessonsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "autotutor_lessons_completed_total",
			Help: "Total number of lessons that reached the end",
		}),
		ActiveLessons: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "autotutor_active_lessons",
			Help: "Number of live lessons held in memory",
		}),
		PlotFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "autotutor_plot_failures_total",
			Help: "Total number of failed plot renders",
		}),
		TransitionTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "autotutor_transition_duration_seconds",
				Help:    "Duration of lesson transitions including fast-forward and projection",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"operation"},
		),
	}
	if reg != nil {
		reg.MustRegister(
			m.NodeVisits,
			m.Choices,
			m.LessonsStarted,
			m.LessonsCompleted,
			m.ActiveLessons,
			m.PlotFailures,
			m.TransitionTime,
		)
	}
	return m
}

// Hooks returns lifecycle hooks that feed the counters.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeEnter: func(ctx context.Context, e *domain.NodeEvent) {
			m.NodeVisits.WithLabelValues(e.NodeID).Inc()
		},
		OnChoice: func(ctx context.Context, e *domain.ChoiceEvent) {
			m.Choices.WithLabelValues(e.NodeID, strconv.Itoa(e.Index)).Inc()
		},
		OnTerminate: func(ctx context.Context, e *domain.NodeEvent) {
			m.LessonsCompleted.Inc()
		},
	}
}

// ObserveTransition records how long an operation took.
func (m *Metrics) ObserveTransition(operation string, start time.Time) {
	m.TransitionTime.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
