package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/decide-lab/launch-interceptor/internal/cmv"
	"github.com/decide-lab/launch-interceptor/internal/decide"
)

// #region recorder
const namespace = "decide"

// Recorder holds the decision collectors. A nil *Recorder records nothing.
type Recorder struct {
	registry prometheus.Gatherer

	// EvaluationsTotal counts completed decisions. Labels: answer (YES, NO)
	EvaluationsTotal *prometheus.CounterVec
	// InvalidInputsTotal counts inputs rejected before evaluation.
	InvalidInputsTotal prometheus.Counter
	// EvaluationSeconds measures time spent per evaluation.
	EvaluationSeconds prometheus.Histogram
	// ConditionsMetTotal counts, per LIC, how often the condition held.
	ConditionsMetTotal *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		EvaluationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Launch decisions by answer.",
		}, []string{"answer"}),
		InvalidInputsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invalid_inputs_total",
			Help:      "Inputs rejected by parameter or shape validation.",
		}),
		EvaluationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluation_seconds",
			Help:      "Time spent evaluating one input.",
			Buckets:   []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
		}),
		ConditionsMetTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conditions_met_total",
			Help:      "Evaluations in which each launch interceptor condition held.",
		}, []string{"lic"}),
	}
}

// Observe records one completed decision.
func (r *Recorder) Observe(res decide.Result, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.EvaluationsTotal.WithLabelValues(res.Answer()).Inc()
	r.EvaluationSeconds.Observe(elapsed.Seconds())
	for i, met := range res.CMV {
		if met {
			r.ConditionsMetTotal.WithLabelValues(cmv.ID(i).String()).Inc()
		}
	}
}

// Invalid records one rejected input.
func (r *Recorder) Invalid() {
	if r == nil {
		return
	}
	r.InvalidInputsTotal.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// #endregion recorder
