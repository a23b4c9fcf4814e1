package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP
// surface and the scheduling engine.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	generationRuns  *prometheus.CounterVec
	generationTime  prometheus.Histogram
	assignmentGauge prometheus.Gauge
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	generationRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_generation_runs_total",
		Help: "Schedule generation runs by outcome",
	}, []string{"outcome"})

	generationTime := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_generation_duration_seconds",
		Help:    "Duration of full schedule generation runs",
		Buckets: prometheus.DefBuckets,
	})

	assignmentGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "schedule_assignments",
		Help: "Number of assignments in the stored schedule after the last write",
	})

	registry.MustRegister(requestDuration, requestTotal, generationRuns, generationTime, assignmentGauge)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		generationRuns:  generationRuns,
		generationTime:  generationTime,
		assignmentGauge: assignmentGauge,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records one handled request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := []string{method, path, strconv.Itoa(status)}
	s.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(labels...).Inc()
}

// ObserveGeneration records the outcome of one generation run.
func (s *MetricsService) ObserveGeneration(outcome string, duration time.Duration, assignments int) {
	s.generationRuns.WithLabelValues(outcome).Inc()
	s.generationTime.Observe(duration.Seconds())
	if outcome == "success" {
		s.assignmentGauge.Set(float64(assignments))
	}
}
