package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation on its own registry.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	activeWatchers  *prometheus.GaugeVec
	snapshotsTotal  *prometheus.CounterVec
	dbQueryDuration *prometheus.HistogramVec
	notifyDropped   prometheus.Counter
}

// NewMetricsService registers the core collectors.
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

	activeWatchers := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "stream_active_watchers",
		Help: "Currently open snapshot streams",
	}, []string{"stream"})

	snapshotsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stream_snapshots_total",
		Help: "Snapshots emitted to stream consumers",
	}, []string{"stream"})

	dbQueryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})

	notifyDropped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notifications_dropped_total",
		Help: "Notifications that could not be enqueued",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, activeWatchers, snapshotsTotal, dbQueryDuration, notifyDropped, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		activeWatchers:  activeWatchers,
		snapshotsTotal:  snapshotsTotal,
		dbQueryDuration: dbQueryDuration,
		notifyDropped:   notifyDropped,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// WatcherOpened marks a snapshot stream as open. The returned func closes it.
func (m *MetricsService) WatcherOpened(stream string) func() {
	if m == nil {
		return func() {}
	}
	m.activeWatchers.WithLabelValues(stream).Inc()
	return func() {
		m.activeWatchers.WithLabelValues(stream).Dec()
	}
}

// SnapshotEmitted counts one snapshot delivered to a consumer.
func (m *MetricsService) SnapshotEmitted(stream string) {
	if m == nil {
		return
	}
	m.snapshotsTotal.WithLabelValues(stream).Inc()
}

// ObserveDBQuery records database query timing.
func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(label).Observe(duration.Seconds())
}

// NotificationDropped counts a notification that could not be enqueued.
func (m *MetricsService) NotificationDropped() {
	if m == nil {
		return
	}
	m.notifyDropped.Inc()
}
