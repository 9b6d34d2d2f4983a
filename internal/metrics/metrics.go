// Package metrics holds the Prometheus collectors for practice and HTTP traffic.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the application's collectors. All names are prefixed with
// "versequest_".
//
//   - versequest_practice_attempts_total{step,result}
//   - versequest_verses_mastered_total
//   - versequest_rank_ups_total{tier}
//   - versequest_verse_lookups_total{source}
//   - versequest_http_request_duration_seconds{method,route,status}
type Metrics struct {
	registry *prometheus.Registry

	PracticeAttempts *prometheus.CounterVec
	VersesMastered   prometheus.Counter
	RankUps          *prometheus.CounterVec
	VerseLookups     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry that also carries the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		PracticeAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "versequest_practice_attempts_total",
				Help: "Scored practice attempts by step and result",
			},
			[]string{"step", "result"}, // result: "correct" or "incorrect"
		),

		VersesMastered: factory.NewCounter(prometheus.CounterOpts{
			Name: "versequest_verses_mastered_total",
			Help: "Verses newly marked as mastered",
		}),

		RankUps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "versequest_rank_ups_total",
				Help: "Users advancing into a tier",
			},
			[]string{"tier"},
		),

		VerseLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "versequest_verse_lookups_total",
				Help: "Verse lookups by where the text came from",
			},
			[]string{"source"}, // "cache" or "remote"
		),

		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "versequest_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}
}

// ObserveAttempt counts one scored attempt.
func (m *Metrics) ObserveAttempt(step string, correct bool) {
	result := "incorrect"
	if correct {
		result = "correct"
	}
	m.PracticeAttempts.WithLabelValues(step, result).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
