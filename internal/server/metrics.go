// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "citecheck_http_requests_total",
			Help: "Total number of API requests by route and status code",
		},
		[]string{"route", "code"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "citecheck_http_request_duration_seconds",
			Help:    "API request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	analysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "citecheck_analyses_total",
			Help: "Total number of manuscripts analyzed by overall status",
		},
		[]string{"status"},
	)

	citationsChecked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "citecheck_citations_checked_total",
			Help: "Total number of in-text citations checked",
		},
	)
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withMetrics records request counts and latency per route pattern and
// logs each outcome.
func (s *Server) withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		requestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
		s.logRequest(r, rec.status, elapsed)
	})
}
