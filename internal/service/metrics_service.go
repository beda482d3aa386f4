package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the platform.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	reportsSubmitted *prometheus.CounterVec
	picksTotal       prometheus.Counter
	embargoesExpired prometheus.Counter
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

	reportsSubmitted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reports_submitted_total",
		Help: "Total reports submitted, by publish type",
	}, []string{"publish_type"})

	picksTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "picks_total",
		Help: "Total journalist claims recorded",
	})

	embargoesExpired := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "embargo_expired_total",
		Help: "Total exclusive reports demoted to open by the sweeper",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, reportsSubmitted, picksTotal, embargoesExpired, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:         registry,
		handler:          handler,
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		reportsSubmitted: reportsSubmitted,
		picksTotal:       picksTotal,
		embargoesExpired: embargoesExpired,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records one HTTP request observation.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := []string{method, path, strconv.Itoa(status)}
	s.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(labels...).Inc()
}

// IncReportSubmitted bumps the submission counter for a publish type.
func (s *MetricsService) IncReportSubmitted(publishType string) {
	s.reportsSubmitted.WithLabelValues(publishType).Inc()
}

// IncPick bumps the claim counter.
func (s *MetricsService) IncPick() {
	s.picksTotal.Inc()
}

// AddEmbargoesExpired records reports flipped by a sweep run.
func (s *MetricsService) AddEmbargoesExpired(count int64) {
	s.embargoesExpired.Add(float64(count))
}
