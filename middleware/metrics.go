package middleware

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/wireline-dev/wireline/pipeline"
	"github.com/wireline-dev/wireline/wire"
)

// Metrics exposes request throughput and latency as prometheus collectors.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wireline",
			Name:      "requests_total",
			Help:      "Requests served, partitioned by verb, dialect and status code.",
		}, []string{"verb", "dialect", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "wireline",
			Name:      "request_duration_seconds",
			Help:      "Pipeline latency per request.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"verb"}),
	}

	reg.MustRegister(m.requests, m.duration)

	return m
}

// Interceptor observes every request passing the chain, whatever its outcome.
func (m *Metrics) Interceptor() pipeline.Interceptor {
	return func(request *wire.Request, chain *pipeline.Chain) *wire.Response {
		started := time.Now()

		resp := chain.Next(request)
		if resp == nil {
			resp = request.Respond()
		}

		v := request.Verb.String()
		m.requests.WithLabelValues(
			v, request.Dialect.String(), strconv.Itoa(int(resp.StatusCode())),
		).Inc()
		m.duration.WithLabelValues(v).Observe(time.Since(started).Seconds())

		return resp
	}
}
