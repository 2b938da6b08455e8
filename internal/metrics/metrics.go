package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AppointmentTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "appointment_transitions_total",
			Help: "Appointment state transitions by outcome",
		},
		[]string{"transition", "result"},
	)

	StockOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_stock_operations_total",
			Help: "Stock reservations and releases by outcome",
		},
		[]string{"op", "result"},
	)

	SweepRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sweep_records_total",
			Help: "Records examined by background sweeps by outcome",
		},
		[]string{"sweep", "result"},
	)

	NotificationDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_deliveries_total",
			Help: "Notification attempts by kind and outcome",
		},
		[]string{"kind", "result"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		AppointmentTransitions,
		StockOperations,
		SweepRecords,
		NotificationDeliveries,
		HTTPRequestDuration,
	)
}

// Result converts an error into the result label value.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
