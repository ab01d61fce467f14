package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// httpRequests counts served requests.
	// Labels: method, route, status
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "codereview",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests served",
	}, []string{"method", "route", "status"})

	// httpDuration measures request latency.
	// Labels: method, route
	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "codereview",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// analyses counts analyzed files by outcome.
	// Labels: outcome (ok, failed, rejected)
	analyses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "codereview",
		Subsystem: "analysis",
		Name:      "files_total",
		Help:      "Total files submitted for analysis",
	}, []string{"outcome"})
)
