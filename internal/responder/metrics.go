package responder

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "responder_requests_total",
			Help: "Number of HTTP requests served.",
		},
		[]string{"path", "status"})

	responseTime = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "responder_response_time_seconds",
			Help: "Duration of HTTP request handling.",
		},
		[]string{"path"})
)

func recordRequest(path string, status int, elapsed time.Duration) {
	requestsTotal.WithLabelValues(path, strconv.Itoa(status)).Inc()
	responseTime.WithLabelValues(path).Observe(elapsed.Seconds())
}
