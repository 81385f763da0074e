// Package metrics exposes agent step and load statistics to Prometheus.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/born-ml/rtpolicy/internal/nn"
	"github.com/born-ml/rtpolicy/internal/session"
)

const namespace = "rtpolicy"

// Step error reasons.
const (
	ReasonNotLoaded         = "not_loaded"
	ReasonDimensionMismatch = "dimension_mismatch"
	ReasonOther             = "other"
)

// Metrics holds the collectors of one agent. A nil *Metrics records nothing.
type Metrics struct {
	stepDuration prometheus.Histogram
	steps        prometheus.Counter
	stepErrors   *prometheus.CounterVec
	loads        *prometheus.CounterVec
	parameters   prometheus.Gauge

	// Children resolved up front so that observing a step never allocates.
	notLoaded         prometheus.Counter
	dimensionMismatch prometheus.Counter
	otherError        prometheus.Counter
	loadSuccess       prometheus.Counter
	loadFailure       prometheus.Counter
}

// New creates the collectors for the named agent and registers them with reg.
func New(reg prometheus.Registerer, agent string) (*Metrics, error) {
	labels := prometheus.Labels{"agent": agent}
	m := &Metrics{
		stepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "step_duration_seconds",
			Help:        "Latency of one inference step.",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(1e-6, 2, 16),
		}),
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "steps_total",
			Help:        "Number of successful inference steps.",
			ConstLabels: labels,
		}),
		stepErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "step_errors_total",
			Help:        "Number of failed inference steps by reason.",
			ConstLabels: labels,
		}, []string{"reason"}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "model_loads_total",
			Help:        "Number of weight blob loads by result.",
			ConstLabels: labels,
		}, []string{"result"}),
		parameters: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "model_parameters",
			Help:        "Number of parameters of the serving model.",
			ConstLabels: labels,
		}),
	}
	m.notLoaded = m.stepErrors.WithLabelValues(ReasonNotLoaded)
	m.dimensionMismatch = m.stepErrors.WithLabelValues(ReasonDimensionMismatch)
	m.otherError = m.stepErrors.WithLabelValues(ReasonOther)
	m.loadSuccess = m.loads.WithLabelValues("success")
	m.loadFailure = m.loads.WithLabelValues("failure")

	for i, c := range m.collectors() {
		if err := reg.Register(c); err != nil {
			for _, registered := range m.collectors()[:i] {
				reg.Unregister(registered)
			}
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.stepDuration, m.steps, m.stepErrors, m.loads, m.parameters}
}

// Unregister removes the collectors from reg.
func (m *Metrics) Unregister(reg prometheus.Registerer) {
	if m == nil {
		return
	}
	for _, c := range m.collectors() {
		reg.Unregister(c)
	}
}

// ObserveStep records one step outcome.
func (m *Metrics) ObserveStep(elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	if err == nil {
		m.steps.Inc()
		m.stepDuration.Observe(elapsed.Seconds())
		return
	}
	switch {
	case errors.Is(err, session.ErrNotLoaded):
		m.notLoaded.Inc()
	case errors.Is(err, nn.ErrDimensionMismatch):
		m.dimensionMismatch.Inc()
	default:
		m.otherError.Inc()
	}
}

// ObserveLoad records a load attempt and, on success, the model size.
func (m *Metrics) ObserveLoad(parameters int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.loadFailure.Inc()
		return
	}
	m.loadSuccess.Inc()
	m.parameters.Set(float64(parameters))
}
