// Package metrics provides Prometheus instrumentation for lazyflow components.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for lazyflow components.
type Registry struct {
	// Sequential Pipeline Metrics
	StreamOperations *prometheus.CounterVec
	StreamItems      *prometheus.CounterVec
	StreamErrors     *prometheus.CounterVec
	StreamDuration   *prometheus.HistogramVec

	// Parallel Evaluation Metrics
	ParallelEvaluations   *prometheus.CounterVec
	ParallelChunks        *prometheus.CounterVec
	ParallelChunksSkipped *prometheus.CounterVec
	ParallelChunkDuration *prometheus.HistogramVec

	// Worker Pool Metrics
	TasksCompleted        *prometheus.CounterVec
	TasksFailed           *prometheus.CounterVec
	TaskExecutionDuration *prometheus.HistogramVec
	WorkerPoolSize        *prometheus.GaugeVec
	WorkerPoolActive      *prometheus.GaugeVec
	WorkerPoolQueued      *prometheus.GaugeVec

	// Result Writer Metrics
	WriterFlushes      *prometheus.CounterVec
	WriterBytesWritten *prometheus.CounterVec
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry bound to prometheus.DefaultRegisterer.
// It is created on first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer
// and the default namespace.
func NewRegistry(reg prometheus.Registerer) *Registry {
	return newRegistry(reg, DefaultNamespace, nil)
}

// New creates a registry from config. It returns nil when metrics are disabled;
// every component treats a nil registry as "do not record".
func New(config Config) *Registry {
	if !config.Enabled {
		return nil
	}
	reg := config.Registry
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	ns := config.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}
	return newRegistry(reg, ns, config.Labels)
}

func newRegistry(reg prometheus.Registerer, ns string, labels prometheus.Labels) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		// Sequential Pipeline Metrics
		StreamOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "stream",
				Name:        "operations_total",
				Help:        "Total number of terminal operations evaluated",
				ConstLabels: labels,
			},
			[]string{"operation", "stream_name"},
		),

		StreamItems: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "stream",
				Name:        "items_processed_total",
				Help:        "Total number of elements pulled through an instrumented stage",
				ConstLabels: labels,
			},
			[]string{"stream_name"},
		),

		StreamErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "stream",
				Name:        "errors_total",
				Help:        "Total number of terminal operations that returned an error",
				ConstLabels: labels,
			},
			[]string{"operation", "stream_name", "error_type"},
		),

		StreamDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   ns,
				Subsystem:   "stream",
				Name:        "operation_duration_seconds",
				Help:        "Time spent evaluating terminal operations",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: labels,
			},
			[]string{"operation", "stream_name"},
		),

		// Parallel Evaluation Metrics
		ParallelEvaluations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "parallel",
				Name:        "evaluations_total",
				Help:        "Total number of parallel terminal evaluations",
				ConstLabels: labels,
			},
			[]string{"operation", "pipeline_name"},
		),

		ParallelChunks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "parallel",
				Name:        "chunks_total",
				Help:        "Total number of chunks evaluated on the worker pool",
				ConstLabels: labels,
			},
			[]string{"pipeline_name"},
		),

		ParallelChunksSkipped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "parallel",
				Name:        "chunks_skipped_total",
				Help:        "Total number of chunks abandoned after a short-circuit result was decided",
				ConstLabels: labels,
			},
			[]string{"pipeline_name"},
		),

		ParallelChunkDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   ns,
				Subsystem:   "parallel",
				Name:        "chunk_duration_seconds",
				Help:        "Time spent evaluating a single chunk",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: labels,
			},
			[]string{"pipeline_name"},
		),

		// Worker Pool Metrics
		TasksCompleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "workerpool",
				Name:        "tasks_completed_total",
				Help:        "Total number of tasks completed successfully",
				ConstLabels: labels,
			},
			[]string{"pool_name"},
		),

		TasksFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "workerpool",
				Name:        "tasks_failed_total",
				Help:        "Total number of tasks that failed",
				ConstLabels: labels,
			},
			[]string{"pool_name"},
		),

		TaskExecutionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   ns,
				Subsystem:   "workerpool",
				Name:        "task_duration_seconds",
				Help:        "Time spent executing tasks",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: labels,
			},
			[]string{"pool_name"},
		),

		WorkerPoolSize: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   ns,
				Subsystem:   "workerpool",
				Name:        "size",
				Help:        "Current worker pool size",
				ConstLabels: labels,
			},
			[]string{"pool_name"},
		),

		WorkerPoolActive: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   ns,
				Subsystem:   "workerpool",
				Name:        "active_workers",
				Help:        "Number of workers currently executing a task",
				ConstLabels: labels,
			},
			[]string{"pool_name"},
		),

		WorkerPoolQueued: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   ns,
				Subsystem:   "workerpool",
				Name:        "queued_tasks",
				Help:        "Number of tasks waiting in the queue",
				ConstLabels: labels,
			},
			[]string{"pool_name"},
		),

		// Result Writer Metrics
		WriterFlushes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "writer",
				Name:        "flushes_total",
				Help:        "Total number of writer flushes",
				ConstLabels: labels,
			},
			[]string{"writer_name"},
		),

		WriterBytesWritten: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "writer",
				Name:        "bytes_written_total",
				Help:        "Total bytes written",
				ConstLabels: labels,
			},
			[]string{"writer_name"},
		),
	}
}
