// Package metrics метрики Prometheus веб-слоя FitFlow.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fitflow_web"

// Результаты повторного чтения статуса плана после записи.
const (
	OutcomeConsistent = "consistent"
	OutcomeLagging    = "lagging"
	OutcomeFailed     = "failed"
)

// Metrics набор коллекторов приложения с отдельным реестром.
type Metrics struct {
	Registry *prometheus.Registry

	httpInFlight     prometheus.Gauge
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	consistency      *prometheus.CounterVec
	consistencyReads prometheus.Histogram
	submissions      *prometheus.CounterVec
}

// New создает и регистрирует коллекторы.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}, []string{"method", "route"}),
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Total number of FitFlow API calls by endpoint and status.",
		}, []string{"endpoint", "status"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Duration of FitFlow API calls.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"endpoint"}),
		consistency: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "foodlog",
			Name:      "status_reread_total",
			Help:      "Plan status re-reads after a food log submission by outcome.",
		}, []string{"outcome"}),
		consistencyReads: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "foodlog",
			Name:      "status_reread_attempts",
			Help:      "Number of plan status reads until the submission became visible.",
			Buckets:   prometheus.LinearBuckets(1, 1, 5),
		}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "foodlog",
			Name:      "submissions_total",
			Help:      "Food log submissions by result.",
		}, []string{"result"}),
	}

	m.Registry.MustRegister(
		m.httpInFlight,
		m.httpRequests,
		m.httpDuration,
		m.upstreamRequests,
		m.upstreamDuration,
		m.consistency,
		m.consistencyReads,
		m.submissions,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
	return m
}

// Handler отдает метрики реестра.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// ObserveUpstream учитывает вызов FitFlow API. status 0 означает сетевую ошибку.
func (m *Metrics) ObserveUpstream(endpoint string, status int, d time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.upstreamRequests.WithLabelValues(endpoint, label).Inc()
	m.upstreamDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// ObserveConsistency учитывает результат повторного чтения статуса.
func (m *Metrics) ObserveConsistency(outcome string, attempts int) {
	m.consistency.WithLabelValues(outcome).Inc()
	if attempts > 0 {
		m.consistencyReads.Observe(float64(attempts))
	}
}

// ObserveSubmission учитывает отправку дневника: accepted, rejected или failed.
func (m *Metrics) ObserveSubmission(result string) {
	m.submissions.WithLabelValues(result).Inc()
}

// Middleware собирает метрики HTTP запросов. Метка route берется из шаблона chi,
// чтобы идентификаторы в пути не раздували кардинальность.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
