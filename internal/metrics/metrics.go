package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// PagesActive is the number of live page sessions.
	PagesActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "portfolio_pages_active",
		Help: "Page sessions currently held in memory",
	})
	// BootRunsStarted counts accepted start requests.
	BootRunsStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_boot_runs_started_total",
		Help: "Boot runs started",
	})
	// BootCompletions counts page sessions that revealed their content.
	BootCompletions = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_boot_completions_total",
		Help: "Boot runs that reached completion",
	})
	// BootAbandoned counts page sessions torn down mid-run, partitioned by reason.
	BootAbandoned = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_boot_abandoned_total",
		Help: "Boot runs torn down before completion",
	}, []string{"reason"})
	// ContactSubmissions counts contact form posts by validation result.
	ContactSubmissions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_contact_submissions_total",
		Help: "Contact form submissions by validation result",
	}, []string{"result"})
)

var registerOnce sync.Once

// Register adds the collectors to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(PagesActive, BootRunsStarted, BootCompletions, BootAbandoned, ContactSubmissions)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	Register()
	return promhttp.Handler()
}
