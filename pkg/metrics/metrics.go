package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор Prometheus метрик сервиса
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// База данных
	DBQueryDuration   *prometheus.HistogramVec
	DBQueryErrors     *prometheus.CounterVec
	DBOpenConnections prometheus.Gauge
	DBInUse           prometheus.Gauge
	DBIdle            prometheus.Gauge
	DBWaitCount       prometheus.Gauge
	TxRetries         prometheus.Counter

	// Бронирования
	BookingsCreated     *prometheus.CounterVec
	BookingRejections   *prometheus.CounterVec
	BookingsCancelled   *prometheus.CounterVec
	BookingsRescheduled prometheus.Counter
	NotificationsFailed *prometheus.CounterVec
}

// New регистрирует метрики в глобальном реестре (отдаются через promhttp.Handler)
func New(serviceName string) *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegistry регистрирует метрики в указанном реестре
func NewWithRegistry(reg prometheus.Registerer, serviceName string) *Metrics {
	factory := promauto.With(reg)
	labels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: labels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		DBQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Database query errors",
			ConstLabels: labels,
		}, []string{"operation"}),
		DBOpenConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Open connections in the pool",
			ConstLabels: labels,
		}),
		DBInUse: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Connections currently in use",
			ConstLabels: labels,
		}),
		DBIdle: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Idle connections in the pool",
			ConstLabels: labels,
		}),
		DBWaitCount: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: labels,
		}),
		TxRetries: factory.NewCounter(prometheus.CounterOpts{
			Name:        "db_tx_retries_total",
			Help:        "Transactions retried after serialization failure",
			ConstLabels: labels,
		}),

		BookingsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "bookings_created_total",
			Help:        "Bookings committed",
			ConstLabels: labels,
		}, []string{"booking_type"}),
		BookingRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_rejections_total",
			Help:        "Booking attempts rejected by constraint",
			ConstLabels: labels,
		}, []string{"operation", "reason"}),
		BookingsCancelled: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "bookings_cancelled_total",
			Help:        "Bookings cancelled",
			ConstLabels: labels,
		}, []string{"actor"}),
		BookingsRescheduled: factory.NewCounter(prometheus.CounterOpts{
			Name:        "bookings_rescheduled_total",
			Help:        "Bookings moved to a new slot",
			ConstLabels: labels,
		}),
		NotificationsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "notifications_enqueue_failed_total",
			Help:        "Post-commit notifications that could not be enqueued",
			ConstLabels: labels,
		}, []string{"event"}),
	}
}

// Методы ниже безопасно вызывать на nil: так выглядят выключенные метрики

// ObserveHTTP записывает метрики HTTP запроса
func (m *Metrics) ObserveHTTP(method, route, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveQuery записывает длительность запроса к БД
func (m *Metrics) ObserveQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

// BookingCreated увеличивает счетчик созданных бронирований
func (m *Metrics) BookingCreated(bookingType string, count int) {
	if m == nil {
		return
	}
	m.BookingsCreated.WithLabelValues(bookingType).Add(float64(count))
}

// BookingRejected увеличивает счетчик отказов по причине
func (m *Metrics) BookingRejected(operation, reason string) {
	if m == nil {
		return
	}
	m.BookingRejections.WithLabelValues(operation, reason).Inc()
}

// BookingCancelled увеличивает счетчик отмен
func (m *Metrics) BookingCancelled(actor string) {
	if m == nil {
		return
	}
	m.BookingsCancelled.WithLabelValues(actor).Inc()
}

// BookingRescheduled увеличивает счетчик переносов
func (m *Metrics) BookingRescheduled() {
	if m == nil {
		return
	}
	m.BookingsRescheduled.Inc()
}

// NotificationFailed увеличивает счетчик неудачных постановок уведомлений в очередь
func (m *Metrics) NotificationFailed(event string) {
	if m == nil {
		return
	}
	m.NotificationsFailed.WithLabelValues(event).Inc()
}
