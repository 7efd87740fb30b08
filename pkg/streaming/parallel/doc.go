/*
Package parallel evaluates element-wise pipelines over slices on a worker pool.

The source index range is split into contiguous chunks. Every chunk applies
the pipeline's stages to its own elements and computes a partial result; the
partial results are then merged in chunk order, so ToSlice and Collect keep
source order.

Usage:

	p := parallel.FromSlice(numbers, parallel.Config{Workers: 4, Name: "squares"})
	sum, err := parallel.Map(p.Filter(isEven), square).Reduce(ctx, 0, fn.Sum[int])

Only element-wise stages are available: Filter, Peek, Map and FlatMap.
Stateful stages such as Sorted, Distinct or Limit belong to the sequential
stream package.

Short-circuiting:

  - AnyMatch, AllMatch and NoneMatch abandon every chunk once the answer is known
  - FindFirst returns the match from the lowest chunk and abandons only the chunks after it
  - FindAny returns the first match found by any chunk and abandons the others

Reductions:

Reduce needs an associative operator whose identity is neutral. Collect needs
a collector whose Combiner is associative. A panic inside a stage or
accumulator is recovered and returned as an *errors.OperationError.

A Pipeline is single use: calling a second stage or terminal on the same value
returns errors.ErrPipelineReused.
*/
package parallel
