package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Buckets cover fast validation rejects up to slow SMTP handshakes
	CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13, 21, 34}

	// HTTP Metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	RateLimitedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"http_route"},
	)

	// Mail Client Metrics
	MailSendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mail_client_send_duration_seconds",
			Help:    "SMTP send duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"status"},
	)

	MailSendTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mail_client_send_total",
			Help: "Total number of SMTP send attempts",
		},
		[]string{"status"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"breaker"},
	)

	// Business Metrics
	ReservationSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transfer_reservation_submissions_total",
			Help: "Total number of reservation submissions by outcome",
		},
		[]string{"status"},
	)

	ReservationValidationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transfer_reservation_validation_errors_total",
			Help: "Total number of rejected reservation fields",
		},
		[]string{"field"},
	)

	ReservationReturnTrips = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "transfer_reservation_return_trips_total",
			Help: "Total number of accepted reservations that include a return trip",
		},
	)

	ReservationPassengers = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "transfer_reservation_passengers",
			Help:    "Passenger count of accepted reservations",
			Buckets: []float64{1, 2, 3, 4, 5, 6, 7, 8},
		},
	)

	ReservationLocales = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transfer_reservation_locale_total",
			Help: "Total number of accepted reservations by form locale",
		},
		[]string{"locale"},
	)

	LegacyReservations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transfer_legacy_reserve_requests_total",
			Help: "Total number of requests to the legacy reserve endpoint",
		},
		[]string{"status"},
	)

	// Infrastructure Metrics
	GoRoutines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_goroutines",
			Help: "Number of goroutines",
		},
	)

	HeapAlloc = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_mem_heap_alloc_bytes",
			Help: "Heap allocated bytes",
		},
	)
)

// RecordInfrastructureMetrics collects infrastructure metrics periodically
func RecordInfrastructureMetrics() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		for range ticker.C {
			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			GoRoutines.Set(float64(runtime.NumGoroutine()))
			HeapAlloc.Set(float64(m.HeapAlloc))
		}
	}()
}

// MeasureDuration measures the duration of an operation
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}
