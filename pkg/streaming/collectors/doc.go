/*
Package collectors provides mutable reductions for stream terminals.

A Collector bundles four functions: Supplier creates an empty accumulation,
Accumulator folds one element into it, Combiner merges two partial
accumulations and Finisher turns the accumulation into the result. Sequential
streams only use Supplier, Accumulator and Finisher; the parallel evaluator
also calls Combiner to merge per-chunk accumulations in chunk order.

Collecting:

	names, err := stream.Collect(ctx, stream.Map(menu, fixtures.Dish.String), collectors.ToSlice[string]())
	byName, err := stream.Collect(ctx, menu, collectors.ToMapStrict(fixtures.Dish.String, identity))

Grouping:

	// map[DishType][]Dish
	byType := collectors.GroupingByToSlice(fixtures.Dish.Kind)

	// map[DishType]map[CaloricLevel][]Dish
	byTypeAndLevel := collectors.GroupingBy(fixtures.Dish.Kind,
		collectors.GroupingByToSlice(fixtures.Dish.Level))

	// map[DishType]int64
	countByType := collectors.GroupingBy(fixtures.Dish.Kind, collectors.Counting[fixtures.Dish]())

Partitioning always yields both the true and the false key:

	// map[bool][]Dish
	vegetarian := collectors.PartitioningByToSlice(fixtures.Dish.IsVegetarian)

Map keys are iterated in Go's unspecified map order. Use SortedKeys to print
buckets deterministically.
*/
package collectors
