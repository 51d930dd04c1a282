// middleware/metrics/dispatch.go
package metrics

import (
	"time"

	"github.com/3liz/qjazz/pkg/server"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	dispatchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "qjazz",
			Name:      "dispatch_duration_seconds",
			Help:      "request dispatch duration.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		},
		[]string{"service"},
	)

	dispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "qjazz", Name: "dispatch_total", Help: "dispatch calls by service and outcome"},
		[]string{"service", "outcome"},
	)
)

// DispatchObserver feeds the dispatcher's per-request reports into the
// dispatch collectors.
func DispatchObserver() server.ObserveFunc {
	return func(r server.Report) {
		service := r.Service
		if service == "" {
			service = r.Api
		}
		dispatchTotal.WithLabelValues(service, r.Outcome).Inc()
		dispatchDuration.WithLabelValues(service).
			Observe((time.Duration(r.DurationMS) * time.Millisecond).Seconds())
	}
}

func init() {
	prometheus.MustRegister(
		dispatchDuration,
		dispatchTotal,
	)
}
