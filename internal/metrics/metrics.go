package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"net/http"
	"sync"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	FetchesCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_fetches_total",
			Help: "Total number of requests to the listing endpoint by outcome.",
		},
		[]string{"outcome"},
	)
	FetchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scraper_fetch_duration_seconds",
			Help:    "Duration of each listing request in seconds.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)
	PagesCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scraper_pages_total",
			Help: "Total number of successfully processed result pages.",
		},
	)
	JobsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_jobs_total",
			Help: "Total number of handled job records by source and result.",
		},
		[]string{"source", "result"},
	)
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"

	SourceScrape = "scrape"
	SourceImport = "import"

	ResultSaved   = "saved"
	ResultSkipped = "skipped"
	ResultFailed  = "failed"
)

var registerOnce sync.Once

func register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(ErrorsCounter)
		prometheus.MustRegister(FetchesCounter)
		prometheus.MustRegister(FetchDuration)
		prometheus.MustRegister(PagesCounter)
		prometheus.MustRegister(JobsCounter)
	})
}

// StartMetricsServer exposes /metrics on addr. An empty addr disables the server.
func StartMetricsServer(addr string) {

	if addr == "" {
		return
	}

	register()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Fatal(http.ListenAndServe(addr, mux))
	}()
	log.Infof("metrics available at %s/metrics", addr)
}
