package cses

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the scrape pipeline.
type Metrics struct {
	Registry       *prometheus.Registry
	ScrapesTotal   *prometheus.CounterVec
	ScrapeDuration prometheus.Histogram
	ProblemsTotal  prometheus.Counter
	LoginFailures  prometheus.Counter
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	scrapes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracker_scrapes_total",
			Help: "Total scrape runs by outcome.",
		},
		[]string{"status"},
	)
	duration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tracker_scrape_duration_seconds",
			Help:    "Wall-clock duration of a full scrape run.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)
	problems := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tracker_problems_extracted_total",
			Help: "Total problem records extracted across all runs.",
		},
	)
	loginFailures := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tracker_login_failures_total",
			Help: "Total failed login handshakes.",
		},
	)

	registry.MustRegister(scrapes, duration, problems, loginFailures)

	return &Metrics{
		Registry:       registry,
		ScrapesTotal:   scrapes,
		ScrapeDuration: duration,
		ProblemsTotal:  problems,
		LoginFailures:  loginFailures,
	}
}

// IncScrape counts one finished scrape run with the given outcome label.
func (m *Metrics) IncScrape(status string) {
	if m == nil {
		return
	}
	m.ScrapesTotal.WithLabelValues(status).Inc()
}

// ObserveDuration records the wall-clock time of one scrape run.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.ScrapeDuration.Observe(d.Seconds())
}

// AddProblems counts extracted problem records.
func (m *Metrics) AddProblems(n int) {
	if m == nil {
		return
	}
	m.ProblemsTotal.Add(float64(n))
}

// IncLoginFailure counts one failed handshake.
func (m *Metrics) IncLoginFailure() {
	if m == nil {
		return
	}
	m.LoginFailures.Inc()
}
