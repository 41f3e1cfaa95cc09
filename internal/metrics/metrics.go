package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	predictions   *prometheus.CounterVec
	weatherErrors prometheus.Counter
}

// New registers the application collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agro_http_requests_total",
				Help: "Total number of HTTP requests",
			}, []string{"route", "method", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agro_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			}, []string{"route"},
		),
		predictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agro_predictions_total",
				Help: "Predictions served, by model and label",
			}, []string{"model", "label"},
		),
		weatherErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "agro_weather_errors_total",
				Help: "Failed forecast lookups",
			},
		),
	}

	m.registry.MustRegister(
		m.requests, m.duration, m.predictions, m.weatherErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRequest(route, method string, status int, d time.Duration) {
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(route).Observe(d.Seconds())
}

func (m *Metrics) ObservePrediction(model, label string) {
	m.predictions.WithLabelValues(model, label).Inc()
}

func (m *Metrics) ObserveWeatherError() {
	m.weatherErrors.Inc()
}
