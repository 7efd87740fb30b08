/*
Package streaming groups the pipeline packages of lazyflow.

  - stream: lazy pipelines over slices, channels, iterators, ranges, generators and text files
  - collectors: mutable reductions such as GroupingBy, PartitioningBy and Summarizing
  - parallel: the element-wise subset of stream evaluated in chunks on a worker pool
  - writer: a buffered writer that terminal WriteTo prints results through

Basic usage:

	total, err := stream.Sum(ctx, stream.Map(stream.FromSlice(menu), calories))

	byType, err := stream.Collect(ctx, stream.FromSlice(menu),
		collectors.GroupingBy(Dish.Kind, collectors.Counting[Dish]()))
*/
package streaming
