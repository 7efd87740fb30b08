/*
Package stream provides lazy, single-traversal pipelines over sequences of data.

A Stream is a chain of stages pulled by a terminal operation. Nothing runs
until the terminal is called; each element then travels through the whole
chain before the next one is pulled, and short-circuiting terminals stop
pulling as soon as the result is decided.

Core Concepts:

  - Lazy: stages only describe work; the terminal drives it
  - Single use: a stage or terminal takes over the stream it is called on
  - Context-aware: every terminal honors context cancellation
  - Resource-managed: the terminal closes the whole chain when it returns

Basic Usage:

	names, err := stream.Map(
		stream.FromSlice(fixtures.Menu()).
			Filter(func(d fixtures.Dish) bool { return d.Calories > 300 }).
			Limit(3),
		fixtures.Dish.String,
	).ToSlice(ctx)

	fmt.Println(names) // [pork beef chicken]

Stream Creation:

	stream.FromSlice([]string{"a", "b", "c"})
	stream.Of(1, 2, 3)
	stream.Range(1, 10)              // 1..9
	stream.RangeClosed(1, 10)        // 1..10
	stream.FromChannel(ch)           // ends when ch is closed
	stream.FromSeq(maps.Keys(m))     // range-over-func iterator
	stream.Lines(strings.NewReader(text))
	stream.FileLines("words.txt")    // closes the file with the stream

	// Infinite sources must be bounded before a full traversal
	stream.Iterate(1, func(x int) int { return x * 2 }).Limit(10)
	stream.Generate(rand.Int).TakeWhile(func(x int) bool { return x%7 != 0 })

Single Traversal:

Calling a stage hands the stream's source to the new stream. Any further use
of the old value fails with errors.ErrPipelineReused:

	s := stream.Of(1, 2, 3)
	evens := s.Filter(isEven)
	_, err := s.Count(ctx) // errors.Is(err, errors.ErrPipelineReused)

Stage calls never fail themselves; a problem found while building the chain
surfaces from its terminal.

Unbounded Sources:

Generate and Iterate are unbounded. A terminal that must see every element
(ToSlice, Count, Reduce, Collect, ForEach, Min, Max) refuses such a chain
with errors.ErrUnboundedEvaluation unless a Limit or TakeWhile bounds it.
AnyMatch, AllMatch, NoneMatch, FindFirst and FindAny are allowed to run.

Collecting:

Collect reduces a stream with a collectors.Collector:

	byType, err := stream.Collect(ctx, stream.FromSlice(fixtures.Menu()),
		collectors.GroupingBy(fixtures.Dish.Kind, collectors.Counting[fixtures.Dish]()))

ToMap, ToMapStrict, ToSet, GroupBy, PartitionBy, Joining, Fold and Sum are
shorthands for the common cases. WriteTo prints a stream through a
writer.Writer, one line per element.

Metrics:

Instrument attaches a metrics.Registry to a stream; the terminal then records
its operation, duration, items pulled and errors:

	s := stream.Instrument(stream.FromSlice(data), "orders", registry)
*/
package stream
