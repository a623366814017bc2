package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	predictionOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hyperjump",
			Subsystem: "erabu",
			Name:      "prediction_ops_total",
			Help:      "The total number of predictions served.",
		},
		[]string{"engine"},
	)

	trainingOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hyperjump",
			Subsystem: "erabu",
			Name:      "training_ops_total",
			Help:      "The total number of synchronous training runs.",
		},
		[]string{"engine", "status"},
	)

	correctionOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hyperjump",
			Subsystem: "erabu",
			Name:      "correction_ops_total",
			Help:      "The total number of corrections recorded.",
		},
		[]string{"engine"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hyperjump",
			Subsystem: "erabu",
			Name:      "request_duration_seconds",
			Help:      "Time taken to process an API request.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint", "status"},
	)
)

func init() {
	prometheus.MustRegister(predictionOps)
	prometheus.MustRegister(trainingOps)
	prometheus.MustRegister(correctionOps)
	prometheus.MustRegister(requestDuration)
}

// recordPredictions counts predictions served by one engine.
func recordPredictions(engine string, count int) {
	predictionOps.WithLabelValues(engine).Add(float64(count))
}

// recordTraining counts a training run with its outcome.
func recordTraining(engine, status string) {
	trainingOps.WithLabelValues(engine, status).Inc()
}

// recordCorrection counts a recorded correction.
func recordCorrection(engine string) {
	correctionOps.WithLabelValues(engine).Inc()
}

// metricsMiddleware observes request duration per route pattern and status.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		endpoint := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			endpoint = rctx.RoutePattern()
		}
		requestDuration.WithLabelValues(endpoint, strconv.Itoa(ww.Status())).
			Observe(time.Since(start).Seconds())
	})
}
