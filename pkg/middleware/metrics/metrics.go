// middleware/metrics/metrics.go
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

var (
	httpResponseTime = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "qjazz",
			Name:      "http_response_time_seconds",
			Help:      "http response time.",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		},
	)

	httpRequestsByUri = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "qjazz", Name: "http_requests_to_uri_total", Help: "http requests by code, uri and method"},
		[]string{"code", "uri", "method"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "qjazz", Name: "http_requests_total", Help: "http requests by code and method"},
		[]string{"code", "method"},
	)
)

// Collect wraps handlers with the HTTP request collectors.
func Collect() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				elapsed := time.Since(start)
				if r.URL.Path != "/metrics" {
					code := strconv.Itoa(ww.Status())
					uri := r.URL.Path // path only, query strings would blow up cardinality

					httpRequestsByUri.WithLabelValues(code, uri, r.Method).Inc()
					httpRequests.WithLabelValues(code, r.Method).Inc()
					httpResponseTime.Observe(elapsed.Seconds())
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

func NewPromHttpHandler() http.Handler { return promhttp.Handler() }
func ProvideMetrics() http.Handler     { return NewPromHttpHandler() }

func init() {
	prometheus.MustRegister(
		httpResponseTime,
		httpRequestsByUri,
		httpRequests,
	)
}

var Module = fx.Options(
	fx.Provide(fx.Annotate(ProvideMetrics, fx.ResultTags(`name:"metrics"`))),
)
