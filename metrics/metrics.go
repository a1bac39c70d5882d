package metrics

import (
	"errors"
	"regexp"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace prefixes every metric name when Config.Namespace is empty.
const DefaultNamespace = "fetchmock"

// Outcome labels how the router handled a fetch.
type Outcome string

const (
	// OutcomeMatched is a fetch answered by a registered route.
	OutcomeMatched Outcome = "matched"
	// OutcomeFallback is an unmatched fetch answered by the fallback response.
	OutcomeFallback Outcome = "fallback"
	// OutcomeNetwork is a fetch passed through to the real network.
	OutcomeNetwork Outcome = "network"
	// OutcomeRejected is an unmatched fetch with no strategy to answer it.
	OutcomeRejected Outcome = "rejected"
)

var (
	// ErrInvalidMetricName indicates a namespace that does not match the supported format.
	ErrInvalidMetricName = errors.New("metric name is invalid")

	isMetricNameValid = regexp.MustCompile(`^[a-zA-Z_:][a-zA-Z0-9_:]*$`)
)

// Config controls how a Recorder registers its collectors.
type Config struct {
	// Namespace prefixes metric names. Defaults to DefaultNamespace.
	Namespace string

	// Registerer receives the collectors. Defaults to a private registry.
	Registerer prometheus.Registerer
}

// Recorder holds the fetch mock collectors.
type Recorder struct {
	requests *prometheus.CounterVec
	aborts   prometheus.Counter
	inFlight prometheus.Gauge
	duration prometheus.Histogram
}

// New creates a Recorder and registers its collectors. Collectors already
// registered under the same names are reused.
func New(config Config) (*Recorder, error) {
	ns := config.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}
	if !isMetricNameValid.MatchString(ns) {
		return nil, ErrInvalidMetricName
	}

	reg := config.Registerer
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	r := &Recorder{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "requests_total",
			Help:      "Fetches handled by the mock, by routing outcome.",
		}, []string{"outcome"}),
		aborts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "aborts_total",
			Help:      "Fetches rejected because their signal was cancelled.",
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "in_flight",
			Help:      "Fetches whose response has not settled yet.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "generation_seconds",
			Help:      "Time spent resolving and building responses.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
	}

	var err error
	if r.requests, err = register(reg, r.requests); err != nil {
		return nil, err
	}
	if r.aborts, err = register(reg, r.aborts); err != nil {
		return nil, err
	}
	if r.inFlight, err = register(reg, r.inFlight); err != nil {
		return nil, err
	}
	if r.duration, err = register(reg, r.duration); err != nil {
		return nil, err
	}
	return r, nil
}

// register registers c, returning the existing collector when one with the
// same descriptor is already registered.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Routed counts a fetch with the given outcome.
func (r *Recorder) Routed(o Outcome) {
	r.requests.WithLabelValues(string(o)).Inc()
}

// Aborted counts a cancelled fetch.
func (r *Recorder) Aborted() {
	r.aborts.Inc()
}

// Start marks a fetch as in flight. The returned func marks it settled and
// observes the elapsed time; call it exactly once.
func (r *Recorder) Start() func() {
	start := time.Now()
	r.inFlight.Inc()
	return func() {
		r.inFlight.Dec()
		r.duration.Observe(time.Since(start).Seconds())
	}
}
