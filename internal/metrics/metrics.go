// Package metrics exports summarization counters in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder receives per-unit outcomes and completion call timings.
type Recorder interface {
	Unit(status string)
	Completion(d time.Duration, err error)
}

// Prometheus is a Recorder backed by its own registry.
type Prometheus struct {
	registry    *prometheus.Registry
	units       *prometheus.CounterVec
	completions *prometheus.HistogramVec
}

// NewPrometheus creates a Recorder with a fresh registry.
func NewPrometheus() *Prometheus {
	reg := prometheus.NewRegistry()

	p := &Prometheus{
		registry: reg,
		units: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "codesummary",
			Name:      "units_total",
			Help:      "Summarized units by terminal status.",
		}, []string{"status"}),
		completions: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "codesummary",
			Name:      "completion_seconds",
			Help:      "Completion call latency.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		}, []string{"result"}),
	}
	reg.MustRegister(p.units, p.completions)
	return p
}

func (p *Prometheus) Unit(status string) {
	p.units.WithLabelValues(status).Inc()
}

func (p *Prometheus) Completion(d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	p.completions.WithLabelValues(result).Observe(d.Seconds())
}

// Handler serves the registry on /metrics.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

type nop struct{}

func (nop) Unit(string) {}

func (nop) Completion(time.Duration, error) {}

// Nop returns a Recorder that discards everything.
func Nop() Recorder { return nop{} }
