/*
Package lazyflow provides lazy, composable filter/map/reduce pipelines for Go.

Pipelines (pkg/streaming):
  - stream: single-use, pull-based pipelines with stages and terminals
  - collectors: grouping, partitioning and reducing collectors
  - parallel: chunked evaluation of element-wise pipelines on a worker pool
  - writer: buffered output of results

Building blocks:
  - optional: a value that may be absent
  - fn: composable predicates, functions and comparators
  - workerpool: fixed-size pool running tasks with panic recovery
  - scheduler: cron and interval based re-runs of tasks
  - metrics: Prometheus instrumentation shared by all of the above
  - logger: zap-backed structured logging

Example usage:

	import (
		"github.com/vnykmshr/lazyflow/pkg/fn"
		"github.com/vnykmshr/lazyflow/pkg/streaming/stream"
	)

	names, err := stream.Map(
		stream.FromSlice(menu).
			Filter(func(d Dish) bool { return d.Calories < 400 }).
			Sorted(fn.Comparing(func(d Dish) int { return d.Calories })),
		func(d Dish) string { return d.Name },
	).ToSlice(ctx)

Nothing runs until the terminal call; ToSlice then pulls one dish at a time
through Filter and into Sorted.
*/
package lazyflow
