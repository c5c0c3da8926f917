package observability

import (
	"strconv"

	"github.com/aretw0/thicket/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the build collectors.
type Metrics struct {
	NodesGenerated *prometheus.CounterVec
	LevelsPruned   *prometheus.CounterVec
	Builds         prometheus.Counter
	BuildDuration  prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		NodesGenerated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "thicket_nodes_generated_total",
				Help: "Total number of generated nodes",
			},
			[]string{"level"},
		),
		LevelsPruned: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "thicket_levels_pruned_total",
				Help: "Total number of branches that stopped because a count resolved to zero",
			},
			[]string{"level"},
		),
		Builds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "thicket_builds_total",
			Help: "Total number of completed tree builds",
		}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "thicket_build_duration_seconds",
			Help:    "Duration of tree builds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.NodesGenerated, m.LevelsPruned, m.Builds, m.BuildDuration)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeCreated: func(e *domain.NodeEvent) {
			m.NodesGenerated.WithLabelValues(strconv.Itoa(e.Level)).Inc()
		},
		OnLevelPruned: func(e *domain.LevelEvent) {
			m.LevelsPruned.WithLabelValues(strconv.Itoa(e.Level)).Inc()
		},
		OnBuildComplete: func(e *domain.BuildEvent) {
			m.Builds.Inc()
			m.BuildDuration.Observe(e.Duration.Seconds())
		},
	}
}
