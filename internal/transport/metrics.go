package transport

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/DanielPopoola/affirm-go/pkg/affirm"
)

const namespace = "affirm_client"

// Instrumented records request counts and latency for every round trip.
type Instrumented struct {
	inner    affirm.Doer
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewInstrumented(inner affirm.Doer, reg prometheus.Registerer) (*Instrumented, error) {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "The total number of requests sent to Affirm, by method and status",
	}, []string{"method", "status"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_duration_seconds",
		Help:      "Latency of requests sent to Affirm",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})

	for _, c := range []prometheus.Collector{requests, duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return &Instrumented{
		inner:    inner,
		requests: requests,
		duration: duration,
	}, nil
}

func (i *Instrumented) Do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := i.inner.Do(req)
	i.duration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())

	status := "error"
	if err == nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	i.requests.WithLabelValues(req.Method, status).Inc()

	return resp, err
}
