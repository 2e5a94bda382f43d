package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики экспортируются на /metrics в режиме watch.
var (
	// ProbeTotal — количество health-проверок по сервисам и исходам.
	ProbeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stackmate_probe_total",
		Help: "Health probes performed, by service and outcome",
	}, []string{"service", "outcome"})

	// ProbeDuration — длительность health-проверок.
	ProbeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stackmate_probe_duration_seconds",
		Help:    "Health probe duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"service"})

	// WorkflowOpsTotal — операции workflow по типу и исходу.
	WorkflowOpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stackmate_workflow_operations_total",
		Help: "Workflow operations, by operation and outcome",
	}, []string{"operation", "outcome"})

	// BootstrapTotal — запуски bootstrap-последовательности.
	BootstrapTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stackmate_bootstrap_total",
		Help: "Bootstrap sequences started",
	})
)

// Outcome-значения для меток.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// ObserveProbe записывает результат одной health-проверки.
func ObserveProbe(service string, ok bool, seconds float64) {
	outcome := OutcomeOK
	if !ok {
		outcome = OutcomeError
	}
	ProbeTotal.WithLabelValues(service, outcome).Inc()
	ProbeDuration.WithLabelValues(service).Observe(seconds)
}
