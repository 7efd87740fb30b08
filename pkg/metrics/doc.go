// Package metrics provides Prometheus instrumentation for lazyflow components.
//
// Sequential pipelines, parallel evaluations, the worker pool and the result
// writer all accept an optional *Registry. A nil registry disables recording,
// so instrumentation costs nothing unless it is asked for.
//
// # Quick Start
//
//	reg := metrics.NewRegistry(prometheus.NewRegistry())
//
//	names := stream.Instrument(stream.FromSlice(fixtures.Menu()), "menu", reg)
//	count, err := names.Filter(isVegetarian).Count(ctx)
//
//	cfg := parallel.DefaultConfig()
//	cfg.Metrics = reg
//	sum, err := parallel.FromSlice(values, cfg).Reduce(ctx, 0, add)
//
// # Configuration
//
//	config := metrics.Config{
//		Enabled:   true,
//		Registry:  prometheus.NewRegistry(),
//		Namespace: "myapp",                           // Override default "lazyflow"
//		Labels:    prometheus.Labels{"env": "dev"},  // Constant labels
//	}
//	reg := metrics.New(config) // nil when config.Enabled is false
//
// # Available Metrics
//
// ## Sequential Pipelines
//
//   - lazyflow_stream_operations_total: Terminal operations evaluated
//   - lazyflow_stream_items_processed_total: Elements pulled through an instrumented stage
//   - lazyflow_stream_errors_total: Terminal operations that returned an error
//   - lazyflow_stream_operation_duration_seconds: Terminal evaluation latency
//
// ## Parallel Evaluation
//
//   - lazyflow_parallel_evaluations_total: Parallel terminal evaluations
//   - lazyflow_parallel_chunks_total: Chunks evaluated on the worker pool
//   - lazyflow_parallel_chunks_skipped_total: Chunks abandoned after a short-circuit
//   - lazyflow_parallel_chunk_duration_seconds: Per-chunk latency
//
// ## Worker Pool
//
//   - lazyflow_workerpool_size: Current worker pool size
//   - lazyflow_workerpool_active_workers: Workers currently executing a task
//   - lazyflow_workerpool_queued_tasks: Tasks waiting in the queue
//   - lazyflow_workerpool_tasks_completed_total: Tasks completed successfully
//   - lazyflow_workerpool_tasks_failed_total: Tasks that failed
//   - lazyflow_workerpool_task_duration_seconds: Task execution latency
//
// ## Result Writer
//
//   - lazyflow_writer_flushes_total: Writer flushes
//   - lazyflow_writer_bytes_written_total: Bytes written
//
// # Labels
//
//   - operation: terminal operation name (e.g. "count", "collect", "find_first")
//   - stream_name, pipeline_name, pool_name, writer_name: user-provided instance names
//   - error_type: "reused", "unbounded", "canceled", "invalid" or "other"
package metrics
