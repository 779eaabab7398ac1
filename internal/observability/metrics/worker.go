package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// WorkerMetrics implements ports.PipelineObserver over a private registry.
type WorkerMetrics struct {
	service  string
	registry *prometheus.Registry

	processTotal    *prometheus.CounterVec
	processDuration *prometheus.HistogramVec
	processInFlight prometheus.Gauge
	chunkFailures   prometheus.Counter
	matchesPersist  prometheus.Counter
	queueLag        prometheus.Histogram
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()
	constLabels := prometheus.Labels{"service": service}

	processTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docmatch",
			Subsystem: "worker",
			Name:      "batch_process_total",
			Help:      "Total processed document batches by status.",
		},
		[]string{"service", "status"},
	)
	processDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docmatch",
			Subsystem: "worker",
			Name:      "batch_process_duration_seconds",
			Help:      "Batch processing duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	processInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   "docmatch",
			Subsystem:   "worker",
			Name:        "batch_process_in_flight",
			Help:        "Number of in-flight document batches.",
			ConstLabels: constLabels,
		},
	)
	chunkFailures := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace:   "docmatch",
			Subsystem:   "worker",
			Name:        "chunk_extraction_failures_total",
			Help:        "Total PDF chunks whose extraction call failed and was skipped.",
			ConstLabels: constLabels,
		},
	)
	matchesPersist := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace:   "docmatch",
			Subsystem:   "worker",
			Name:        "match_rows_persisted_total",
			Help:        "Total match rows written by successful processing passes.",
			ConstLabels: constLabels,
		},
	)
	queueLag := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace:   "docmatch",
			Subsystem:   "worker",
			Name:        "queue_lag_seconds",
			Help:        "Delay between document upload and processing start.",
			Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
			ConstLabels: constLabels,
		},
	)

	registry.MustRegister(processTotal, processDuration, processInFlight, chunkFailures, matchesPersist, queueLag)

	return &WorkerMetrics{
		service:         service,
		registry:        registry,
		processTotal:    processTotal,
		processDuration: processDuration,
		processInFlight: processInFlight,
		chunkFailures:   chunkFailures,
		matchesPersist:  matchesPersist,
		queueLag:        queueLag,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartBatch() {
	m.processInFlight.Inc()
}

func (m *WorkerMetrics) FinishBatch(duration time.Duration, err error) {
	m.processInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.processTotal.WithLabelValues(m.service, status).Inc()
	m.processDuration.WithLabelValues(m.service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) QueueLag(lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.Observe(lag.Seconds())
}

func (m *WorkerMetrics) ChunkFailed() {
	m.chunkFailures.Inc()
}

func (m *WorkerMetrics) MatchRowsPersisted(count int) {
	if count <= 0 {
		return
	}
	m.matchesPersist.Add(float64(count))
}
