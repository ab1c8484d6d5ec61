// Package metrics defines the Prometheus metrics for the taskdeck API.
// It is the single source of truth for metric names, labels, and help
// strings. Metrics register themselves with the default registry at init
// via promauto; the /metrics route exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "taskdeck"

// RequestsTotal counts handled HTTP requests.
// Labels:
//   - method: HTTP method
//   - route: the chi route pattern (e.g. "/tasks/get_task/{id}")
//   - status: numeric response status (e.g. "200")
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests handled, by method, route, and status.",
	},
	[]string{"method", "route", "status"},
)

// RequestDuration measures request handling time end-to-end.
// Labels:
//   - method: HTTP method
//   - route: the chi route pattern
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP request handling.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// RefusalsTotal counts policy refusals surfaced to clients, by operation.
// A refusal means the caller was authenticated but the task policy denied
// the operation; spikes here usually indicate probing.
var RefusalsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "task_refusals_total",
		Help:      "Total number of policy-refused task operations, by route.",
	},
	[]string{"route"},
)
