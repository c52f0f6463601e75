package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	availabilityOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "availability_sync",
			Name:      "operations_total",
			Help:      "Count of availability operations by operation and result.",
		},
		[]string{"operation", "result"},
	)

	effectsDispatched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "availability_sync",
			Name:      "effects_dispatched_total",
			Help:      "Count of dispatched effects by kind and result.",
		},
		[]string{"kind", "result"},
	)

	rosteringRequests = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "availability_sync",
			Name:      "rostering_request_duration_seconds",
			Help:      "Latency of requests to the rostering backend.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "status"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(availabilityOperations, effectsDispatched, rosteringRequests)
	})
}

func IncOperation(operation string, err error) {
	availabilityOperations.WithLabelValues(operation, result(err)).Inc()
}

func IncEffect(kind string, err error) {
	effectsDispatched.WithLabelValues(kind, result(err)).Inc()
}

func ObserveRosteringRequest(method string, resp *http.Response, err error, d time.Duration) {
	status := "error"
	if err == nil && resp != nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	rosteringRequests.WithLabelValues(method, status).Observe(d.Seconds())
}

func result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
