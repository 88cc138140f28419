package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the decision pipeline.
type Metrics struct {
	// Signal collection latencies by source
	CollectLatency *prometheus.HistogramVec

	// Optional collaborators that fell back, by source and status
	Fallbacks *prometheus.CounterVec

	// Final outcomes by outcome and reason
	DecisionOutcome *prometheus.CounterVec

	// Payloads rejected at a contract boundary
	ContractViolations *prometheus.CounterVec

	// Overall pipeline latency
	PipelineLatency prometheus.Histogram
}

// New creates a Metrics instance registered on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the decision metrics on reg. Tests pass a fresh
// prometheus.NewRegistry() to avoid duplicate registration.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CollectLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "originate_decision_collect_duration_seconds",
			Help:    "Duration of signal collection by source",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"source"}), // source: "intake", "eligibility", "t2_default", "t3_fraud", "t4_payoff", "fraud_signal", "rules_engine"

		Fallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "originate_decision_fallbacks_total",
			Help: "Optional collaborators that degraded to a fallback, by source and status",
		}, []string{"source", "status"}),

		DecisionOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "originate_decision_outcomes_total",
			Help: "Total decision outcomes by outcome and reason",
		}, []string{"outcome", "reason"}),

		ContractViolations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "originate_decision_contract_violations_total",
			Help: "Payloads that failed contract validation, by boundary",
		}, []string{"boundary"}),

		PipelineLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "originate_decision_pipeline_duration_seconds",
			Help:    "Duration of a full decision run including signal collection",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}

// ObserveCollectLatency records the duration of collecting one signal.
func (m *Metrics) ObserveCollectLatency(source string, d time.Duration) {
	if m != nil {
		m.CollectLatency.WithLabelValues(source).Observe(d.Seconds())
	}
}

// IncrementFallback records an optional collaborator that degraded.
func (m *Metrics) IncrementFallback(source, status string) {
	if m != nil {
		m.Fallbacks.WithLabelValues(source, status).Inc()
	}
}

// IncrementOutcome records a final outcome.
func (m *Metrics) IncrementOutcome(outcome, reason string) {
	if m != nil {
		m.DecisionOutcome.WithLabelValues(outcome, reason).Inc()
	}
}

// IncrementContractViolation records a payload rejected at boundary.
func (m *Metrics) IncrementContractViolation(boundary string) {
	if m != nil {
		m.ContractViolations.WithLabelValues(boundary).Inc()
	}
}

// ObservePipelineLatency records the total pipeline duration.
func (m *Metrics) ObservePipelineLatency(d time.Duration) {
	if m != nil {
		m.PipelineLatency.Observe(d.Seconds())
	}
}
