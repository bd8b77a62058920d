package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "weather_map"

// NewRegistry creates a Prometheus registry with Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// Handler returns an http.Handler that serves Prometheus metrics.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// FetchMetrics covers the startup fetches of capabilities and wind data.
type FetchMetrics struct {
	Results   *prometheus.CounterVec
	TimeSteps *prometheus.GaugeVec
	Duration  *prometheus.HistogramVec
}

func NewFetchMetrics(reg prometheus.Registerer) *FetchMetrics {
	m := &FetchMetrics{
		Results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "results_total",
			Help:      "Startup fetches by source and result (ok, error).",
		}, []string{"source", "result"}),
		TimeSteps: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "time_steps",
			Help:      "Number of time steps available per overlay.",
		}, []string{"overlay"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "duration_seconds",
			Help:      "Duration of startup fetches by source.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
	}

	reg.MustRegister(m.Results, m.TimeSteps, m.Duration)
	return m
}

// NavigationMetrics covers session activity.
type NavigationMetrics struct {
	Steps          *prometheus.CounterVec
	Toggles        *prometheus.CounterVec
	ActiveSessions prometheus.Gauge
}

func NewNavigationMetrics(reg prometheus.Registerer) *NavigationMetrics {
	m := &NavigationMetrics{
		Steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "navigation",
			Name:      "steps_total",
			Help:      "Time step clicks by overlay, direction and outcome (moved, clamped).",
		}, []string{"overlay", "direction", "outcome"}),
		Toggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "navigation",
			Name:      "toggles_total",
			Help:      "Overlay toggles by overlay and kind (enabled, disabled).",
		}, []string{"overlay", "kind"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "navigation",
			Name:      "active_sessions",
			Help:      "Number of live map sessions.",
		}),
	}

	reg.MustRegister(m.Steps, m.Toggles, m.ActiveSessions)
	return m
}
