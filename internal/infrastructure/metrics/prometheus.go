package metrics

import (
	"fmt"
	"net/http"
	"time"

	"dataset-assistant/internal/application/port/output"
	"dataset-assistant/internal/domain/entity"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ output.MetricsPort = (*PrometheusMetrics)(nil)

const namespace = "assistant"

// PrometheusMetrics counts task invocations by outcome and records their latency.
type PrometheusMetrics struct {
	registry    *prometheus.Registry
	invocations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

func NewPrometheusMetrics() (*PrometheusMetrics, error) {
	registry := prometheus.NewRegistry()

	invocations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "task_invocations_total",
		Help:      "Task invocations by task and outcome.",
	}, []string{"task", "outcome"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "task_duration_seconds",
		Help:      "Task invocation latency, model call included.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"task", "outcome"})

	for _, c := range []prometheus.Collector{
		invocations,
		duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register collector: %w", err)
		}
	}

	return &PrometheusMetrics{
		registry:    registry,
		invocations: invocations,
		duration:    duration,
	}, nil
}

func (m *PrometheusMetrics) ObserveTask(task entity.TaskName, outcome string, duration time.Duration) {
	m.invocations.WithLabelValues(task.String(), outcome).Inc()
	m.duration.WithLabelValues(task.String(), outcome).Observe(duration.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
