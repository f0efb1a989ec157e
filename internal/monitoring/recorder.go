// Package monitoring exposes Prometheus metrics for funnel calculations and
// HTTP traffic.
package monitoring

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sells-group/funnel-cli/internal/funnel"
)

// Calculation sources.
const (
	SourceAPI  = "api"
	SourceForm = "form"
)

// Recorder owns a private registry and the funnel metrics registered on it.
type Recorder struct {
	registry     *prometheus.Registry
	calculations *prometheus.CounterVec
	stageBands   *prometheus.CounterVec
	costPerSale  prometheus.Histogram
	httpRequests *prometheus.CounterVec
}

// NewRecorder registers the funnel metrics on a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Recorder{
		registry: reg,
		calculations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "funnel_calculations_total",
				Help: "Total number of funnel calculations",
			},
			[]string{"source"},
		),
		stageBands: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "funnel_stage_band_total",
				Help: "Performance band assigned to each rated stage",
			},
			[]string{"stage", "band"},
		),
		costPerSale: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "funnel_cost_per_sale",
				Help:    "Cost per sale of calculations with at least one sale",
				Buckets: []float64{10000, 20000, 40000, 60000, 80000, 100000, 150000, 250000, 500000},
			},
		),
		httpRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests served",
			},
			[]string{"method", "route", "status"},
		),
	}
}

// ObserveCalculation records one computed result.
func (r *Recorder) ObserveCalculation(source string, res funnel.Result) {
	r.calculations.WithLabelValues(source).Inc()
	for _, s := range res.Stages {
		if s.Band == funnel.Unrated {
			continue
		}
		r.stageBands.WithLabelValues(s.Name, s.Band.String()).Inc()
	}
	if res.Cost.Actual > 0 {
		r.costPerSale.Observe(res.Cost.Actual)
	}
}

// ObserveRequest records one served HTTP request.
func (r *Recorder) ObserveRequest(method, route string, status int) {
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
