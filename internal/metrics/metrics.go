package metrics

import (
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CommandRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "snsdedupe_command_runs_total",
		Help: "Total command invocations",
	}, []string{"command"})
	CommandErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "snsdedupe_command_errors_total",
		Help: "Total failed command invocations",
	}, []string{"command"})
	PagesFetched = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "snsdedupe_remote_pages_fetched_total",
		Help: "Post listing pages fetched from the scheduling service",
	})
	FetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "snsdedupe_fetch_duration_seconds",
		Help:    "Time to fetch every scheduled post",
		Buckets: prometheus.DefBuckets,
	})
	Candidates = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "snsdedupe_candidates_total",
		Help: "Candidate posts classified, by outcome (kept, duplicate)",
	}, []string{"outcome"})
	Posts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "snsdedupe_posts_total",
		Help: "Post create attempts, by outcome (success, failed, dry_run)",
	}, []string{"outcome"})
	APIErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "snsdedupe_api_errors_total",
		Help: "Non-success responses from the scheduling service",
	}, []string{"endpoint"})
)

func init() {
	prometheus.MustRegister(CommandRuns, CommandErrors, PagesFetched, FetchDuration, Candidates, Posts, APIErrors)
}

// StartServer starts a metrics HTTP server on addr (e.g., ":9090").
// With no addr and no METRICS_ADDR it does nothing.
func StartServer(addr string) {
	if addr == "" {
		addr = os.Getenv("METRICS_ADDR")
	}
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	go func() { _ = http.ListenAndServe(addr, mux) }()
}

func IncCommandRun(cmd string)   { CommandRuns.WithLabelValues(cmd).Inc() }
func IncCommandError(cmd string) { CommandErrors.WithLabelValues(cmd).Inc() }

// ObserveFetchDuration records a full pagination run.
func ObserveFetchDuration(start time.Time) {
	FetchDuration.Observe(time.Since(start).Seconds())
}

func IncCandidate(outcome string) { Candidates.WithLabelValues(outcome).Inc() }
func IncPost(outcome string)      { Posts.WithLabelValues(outcome).Inc() }

// IncAPIError counts a failed call for an endpoint.
func IncAPIError(endpoint string) { APIErrors.WithLabelValues(endpoint).Inc() }
