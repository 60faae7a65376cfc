// Package metrics exports search engine events as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gitrdm/gokanquery/pkg/logic"
)

const namespace = "gokanquery"

// SearchMetrics implements logic.Observer with Prometheus collectors.
type SearchMetrics struct {
	factsTried   prometheus.Counter
	unifications *prometheus.CounterVec
	cutoffs      prometheus.Counter
	cutoffDepth  prometheus.Histogram
	negations    *prometheus.CounterVec
	solutions    prometheus.Counter
}

var _ logic.Observer = (*SearchMetrics)(nil)

// New creates the search metrics and registers them with reg.
func New(reg prometheus.Registerer) *SearchMetrics {
	f := promauto.With(reg)
	return &SearchMetrics{
		factsTried: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "facts_tried_total",
			Help:      "Facts renamed and matched against a goal",
		}),
		unifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "unifications_total",
			Help:      "Goal and fact conclusion unifications by result",
		}, []string{"result"}),
		cutoffs: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "depth_cutoffs_total",
			Help:      "Branches pruned by the depth limit",
		}),
		cutoffDepth: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "cutoff_depth",
			Help:      "Depth at which branches were pruned",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		negations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "negations_total",
			Help:      "Negated goals evaluated by outcome",
		}, []string{"result"}),
		solutions: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "solutions_total",
			Help:      "Solutions produced by top-level searches",
		}),
	}
}

func (m *SearchMetrics) FactTried() {
	m.factsTried.Inc()
}

func (m *SearchMetrics) Unified(ok bool) {
	m.unifications.WithLabelValues(result(ok)).Inc()
}

func (m *SearchMetrics) DepthCutoff(depth int) {
	m.cutoffs.Inc()
	m.cutoffDepth.Observe(float64(depth))
}

func (m *SearchMetrics) Negation(succeeded bool) {
	m.negations.WithLabelValues(result(succeeded)).Inc()
}

func (m *SearchMetrics) Solution() {
	m.solutions.Inc()
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
