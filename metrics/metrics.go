package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hotel_booking",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		},
		[]string{"route", "status"},
	)

	intents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hotel_booking",
			Name:      "payment_intents_total",
			Help:      "Payment intent requests by outcome (created, updated, failed).",
		},
		[]string{"outcome"},
	)

	confirmations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hotel_booking",
			Name:      "payment_confirmations_total",
			Help:      "Payment confirmations by outcome (reserved, conflict, failed).",
		},
		[]string{"outcome"},
	)

	reaped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "hotel_booking",
			Name:      "pending_bookings_expired_total",
			Help:      "Pending bookings expired by the reaper.",
		},
	)
)

// Register registers the collectors. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, intents, confirmations, reaped)
	})
}

func IncHTTP(route string, status int) {
	httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

func IncIntent(outcome string) {
	intents.WithLabelValues(outcome).Inc()
}

func IncConfirmation(outcome string) {
	confirmations.WithLabelValues(outcome).Inc()
}

func AddExpired(n int) {
	reaped.Add(float64(n))
}
