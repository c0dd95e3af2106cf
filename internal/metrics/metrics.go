package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Registrations counts registration attempts by outcome
	Registrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otp_registrations_total",
			Help: "Customer registration attempts by result",
		},
		[]string{"result"},
	)

	// Verifications counts verification attempts by outcome
	Verifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otp_verifications_total",
			Help: "OTP verification attempts by result",
		},
		[]string{"result"},
	)

	// Deliveries counts OTP delivery attempts made by the sender
	Deliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otp_deliveries_total",
			Help: "OTP delivery attempts by status",
		},
		[]string{"status"},
	)

	// RequestDuration tracks HTTP handler latency
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "route", "status"},
	)
)

// Result labels shared by the counters
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// RecordRegistration records the outcome of a registration
func RecordRegistration(result string) {
	Registrations.WithLabelValues(result).Inc()
}

// RecordVerification records the outcome of a verification
func RecordVerification(result string) {
	Verifications.WithLabelValues(result).Inc()
}

// RecordDelivery records the outcome of one send attempt
func RecordDelivery(status string) {
	Deliveries.WithLabelValues(status).Inc()
}

// RecordRequest records the duration of an HTTP request
func RecordRequest(method, route, status string, seconds float64) {
	RequestDuration.WithLabelValues(method, route, status).Observe(seconds)
}
