package collectors

// GroupingBy buckets elements by key and reduces each bucket with downstream.
// Buckets are created on first use, so every key in the result has at least
// one element. Passing another GroupingBy as downstream groups on several levels.
func GroupingBy[T any, K comparable, A, R any](key func(T) K, downstream Collector[T, A, R]) Collector[T, map[K]A, map[K]R] {
	return Collector[T, map[K]A, map[K]R]{
		Supplier: func() map[K]A { return make(map[K]A) },
		Accumulator: func(buckets map[K]A, v T) (map[K]A, error) {
			k := key(v)
			acc, ok := buckets[k]
			if !ok {
				acc = downstream.Supplier()
			}
			acc, err := downstream.Accumulator(acc, v)
			if err != nil {
				return buckets, err
			}
			buckets[k] = acc
			return buckets, nil
		},
		Combiner: func(left, right map[K]A) (map[K]A, error) {
			return mergeBuckets(left, right, downstream.Combiner)
		},
		Finisher: func(buckets map[K]A) map[K]R {
			return finishBuckets(buckets, downstream.Finisher)
		},
	}
}

// GroupingByToSlice buckets elements by key, keeping each bucket's elements in
// encounter order.
func GroupingByToSlice[T any, K comparable](key func(T) K) Collector[T, map[K][]T, map[K][]T] {
	return GroupingBy(key, ToSlice[T]())
}

// PartitioningBy splits elements by predicate and reduces each side with
// downstream. The result always holds both the true and the false key, even
// when one side received no elements.
func PartitioningBy[T, A, R any](predicate func(T) bool, downstream Collector[T, A, R]) Collector[T, map[bool]A, map[bool]R] {
	return Collector[T, map[bool]A, map[bool]R]{
		Supplier: func() map[bool]A {
			return map[bool]A{
				true:  downstream.Supplier(),
				false: downstream.Supplier(),
			}
		},
		Accumulator: func(parts map[bool]A, v T) (map[bool]A, error) {
			k := predicate(v)
			acc, err := downstream.Accumulator(parts[k], v)
			if err != nil {
				return parts, err
			}
			parts[k] = acc
			return parts, nil
		},
		Combiner: func(left, right map[bool]A) (map[bool]A, error) {
			return mergeBuckets(left, right, downstream.Combiner)
		},
		Finisher: func(parts map[bool]A) map[bool]R {
			return finishBuckets(parts, downstream.Finisher)
		},
	}
}

// PartitioningByToSlice splits elements by predicate into two slices.
func PartitioningByToSlice[T any](predicate func(T) bool) Collector[T, map[bool][]T, map[bool][]T] {
	return PartitioningBy(predicate, ToSlice[T]())
}

func mergeBuckets[K comparable, A any](left, right map[K]A, combine func(A, A) (A, error)) (map[K]A, error) {
	for k, b := range right {
		a, ok := left[k]
		if !ok {
			left[k] = b
			continue
		}
		merged, err := combine(a, b)
		if err != nil {
			return left, err
		}
		left[k] = merged
	}
	return left, nil
}

func finishBuckets[K comparable, A, R any](buckets map[K]A, finish func(A) R) map[K]R {
	out := make(map[K]R, len(buckets))
	for k, acc := range buckets {
		out[k] = finish(acc)
	}
	return out
}
