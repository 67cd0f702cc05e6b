package api

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics lives on its own registry so several servers can coexist in one
// process.
type metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	togglesTotal    *prometheus.CounterVec
	rateLimited     prometheus.Counter
	authRejections  prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "habyss",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"path", "method", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "habyss",
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),
		togglesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "habyss",
				Name:      "completion_toggles_total",
				Help:      "Completion toggles by resulting state",
			},
			[]string{"state"},
		),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "habyss",
			Name:      "rate_limited_requests_total",
			Help:      "Requests rejected by the rate limiter",
		}),
		authRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "habyss",
			Name:      "metrics_auth_rejections_total",
			Help:      "Unauthorized requests to /metrics",
		}),
	}
	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.togglesTotal,
		m.rateLimited,
		m.authRejections,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *metrics) observeToggle(completed bool) {
	state := "cleared"
	if completed {
		state = "completed"
	}
	m.togglesTotal.WithLabelValues(state).Inc()
}

func (m *metrics) observeRequest(path, method string, status int, seconds float64) {
	m.requestsTotal.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(path, method).Observe(seconds)
}
