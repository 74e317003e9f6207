// Package metrics exposes Prometheus collectors for the HTTP layer and the
// media store.
package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	mediaUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_uploads_total",
			Help: "Media uploads by outcome and media type",
		},
		[]string{"outcome", "type"},
	)

	mediaUploadBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_upload_bytes_total",
			Help: "Bytes written to the media store",
		},
	)
)

// Middleware records request count, latency and in-flight gauge.
func Middleware(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		next(ctx)

		method := string(ctx.Method())
		path := routeLabel(string(ctx.Path()))
		status := strconv.Itoa(ctx.Response.StatusCode())

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// routeLabel collapses media ids so the path label stays low-cardinality.
func routeLabel(path string) string {
	const prefix = "/api/media/"
	if !strings.HasPrefix(path, prefix) {
		switch path {
		case "/api/media", "/health", "/status", "/metrics":
			return path
		}
		return "other"
	}
	if strings.HasSuffix(path, "/thumb") {
		return prefix + "{id}/thumb"
	}
	return prefix + "{id}"
}

func UploadAccepted(mediaType string, size int64) {
	mediaUploadsTotal.WithLabelValues("accepted", mediaType).Inc()
	mediaUploadBytes.Add(float64(size))
}

func UploadRejected(reason string) {
	mediaUploadsTotal.WithLabelValues(reason, "").Inc()
}

func Handler() fasthttp.RequestHandler {
	return fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
}
