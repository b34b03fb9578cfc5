// Package metrics exposes Prometheus counters for the pipeline and its collaborators.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stylelens",
		Name:      "rejections_total",
		Help:      "Candidates and search results rejected by the filter, by stage and reason",
	}, []string{"stage", "reason"})

	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stylelens",
		Name:      "pipeline_runs_total",
		Help:      "Pipeline runs by resolved polarity",
	}, []string{"polarity"})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "stylelens",
		Name:      "pipeline_run_duration_seconds",
		Help:      "Wall time of a full recommendation run",
		Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	})

	searchRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stylelens",
		Name:      "search_requests_total",
		Help:      "Product search requests by outcome (ok, error, cached)",
	}, []string{"status"})

	stylistRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stylelens",
		Name:      "stylist_requests_total",
		Help:      "Stylist completion requests by outcome",
	}, []string{"status"})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stylelens",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status class",
	}, []string{"method", "route", "status"})
)

// Recorder implements the analyzer's rejection hook and the service counters.
// The zero value is ready to use.
type Recorder struct{}

// New returns a Recorder
func New() *Recorder {
	return &Recorder{}
}

// RecordRejection counts one filter rejection
func (Recorder) RecordRejection(stage, reason string) {
	rejectionsTotal.WithLabelValues(stage, reason).Inc()
}

// RecordRun counts a finished run and its duration
func (Recorder) RecordRun(polarity string, took time.Duration) {
	runsTotal.WithLabelValues(polarity).Inc()
	runDuration.Observe(took.Seconds())
}

// RecordSearch counts a search request outcome
func (Recorder) RecordSearch(status string) {
	searchRequestsTotal.WithLabelValues(status).Inc()
}

// RecordStylist counts a stylist request outcome
func (Recorder) RecordStylist(status string) {
	stylistRequestsTotal.WithLabelValues(status).Inc()
}

// RecordHTTP counts one served request
func (Recorder) RecordHTTP(method, route string, status int) {
	httpRequestsTotal.WithLabelValues(method, route, StatusClass(status)).Inc()
}

// StatusClass folds an HTTP status into 2xx, 4xx and so on
func StatusClass(code int) string {
	if code < 100 || code > 599 {
		return "0"
	}
	return strconv.Itoa(code/100) + "xx"
}
