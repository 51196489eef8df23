// Package metrics holds the Prometheus collectors of the service. They are
// registered on the default registry and scraped at GET /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPRequests counts handled requests by method, route pattern and status.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moviemind_http_requests_total",
	Help: "Total HTTP requests handled.",
}, []string{"method", "route", "status"})

// HTTPDuration tracks request latency by method and route pattern.
var HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "moviemind_http_request_duration_seconds",
	Help:    "HTTP request latency in seconds.",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "route"})

// TMDBRequests counts metadata API calls by operation and outcome.
var TMDBRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moviemind_tmdb_requests_total",
	Help: "Metadata API calls by operation and outcome.",
}, []string{"op", "outcome"})

// AuthEvents counts login, guest and logout transitions.
var AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moviemind_auth_events_total",
	Help: "Session transitions by event and result.",
}, []string{"event", "result"})

// RateLimited counts requests rejected by the inbound limiter.
var RateLimited = promauto.NewCounter(prometheus.CounterOpts{
	Name: "moviemind_rate_limited_total",
	Help: "Requests rejected with 429.",
})

func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func ObserveAuth(event string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	AuthEvents.WithLabelValues(event, result).Inc()
}
