package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ServerMetrics struct {
	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec

	OrdersPlaced    *prometheus.CounterVec
	OrderTotal      prometheus.Histogram
	StatusChanges   *prometheus.CounterVec
	PublishFailures *prometheus.CounterVec
}

func NewServerMetrics(service string, reg prometheus.Registerer) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "food",
		Subsystem: service,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"handler", "method", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "food",
		Subsystem: service,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"handler"})
	ordersPlaced := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "food",
		Subsystem: service,
		Name:      "orders_placed_total",
		Help:      "Orders materialized from checkout, by payment method and whether the request was a replay.",
	}, []string{"payment_method", "duplicate"})
	orderTotal := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "food",
		Subsystem: service,
		Name:      "order_total_dollars",
		Help:      "Total charged per placed order.",
		Buckets:   []float64{5, 10, 20, 30, 50, 75, 100, 200},
	})
	statusChanges := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "food",
		Subsystem: service,
		Name:      "order_status_changes_total",
		Help:      "Admin order status transitions.",
	}, []string{"status"})
	publishFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "food",
		Subsystem: service,
		Name:      "event_publish_failures_total",
		Help:      "Order events that could not be published.",
	}, []string{"type"})

	reg.MustRegister(requests, latency, ordersPlaced, orderTotal, statusChanges, publishFailures)
	return &ServerMetrics{
		Requests:        requests,
		LatencyMS:       latency,
		OrdersPlaced:    ordersPlaced,
		OrderTotal:      orderTotal,
		StatusChanges:   statusChanges,
		PublishFailures: publishFailures,
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
