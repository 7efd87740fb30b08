package collectors

import (
	"cmp"
	"slices"

	"github.com/samber/lo"

	lferrors "github.com/vnykmshr/lazyflow/pkg/common/errors"
)

// Collector describes a mutable reduction of elements of type T into a result
// of type R through an intermediate accumulation of type A.
//
// Accumulator and Combiner return the accumulation to keep; they may mutate
// and return their first argument. Combiner must be associative so that
// partial accumulations built over consecutive chunks can be merged in order.
type Collector[T, A, R any] struct {
	Supplier    func() A
	Accumulator func(A, T) (A, error)
	Combiner    func(A, A) (A, error)
	Finisher    func(A) R
}

// Apply reduces items with c sequentially.
func Apply[T, A, R any](items []T, c Collector[T, A, R]) (R, error) {
	acc := c.Supplier()
	for _, v := range items {
		var err error
		if acc, err = c.Accumulator(acc, v); err != nil {
			var zero R
			return zero, err
		}
	}
	return c.Finisher(acc), nil
}

func identity[A any](a A) A { return a }

// Of builds a collector whose accumulation is also its result.
func Of[T, A any](supplier func() A, accumulator func(A, T) A, combiner func(A, A) A) Collector[T, A, A] {
	return Collector[T, A, A]{
		Supplier:    supplier,
		Accumulator: func(a A, v T) (A, error) { return accumulator(a, v), nil },
		Combiner:    func(a, b A) (A, error) { return combiner(a, b), nil },
		Finisher:    identity[A],
	}
}

// ToSlice collects elements into a slice in encounter order.
func ToSlice[T any]() Collector[T, []T, []T] {
	return Of(
		func() []T { return make([]T, 0) },
		func(acc []T, v T) []T { return append(acc, v) },
		func(a, b []T) []T { return append(a, b...) },
	)
}

// ToSet collects elements into a set.
func ToSet[T comparable]() Collector[T, map[T]struct{}, map[T]struct{}] {
	return Of(
		func() map[T]struct{} { return make(map[T]struct{}) },
		func(acc map[T]struct{}, v T) map[T]struct{} {
			acc[v] = struct{}{}
			return acc
		},
		func(a, b map[T]struct{}) map[T]struct{} {
			for k := range b {
				a[k] = struct{}{}
			}
			return a
		},
	)
}

// ToMap collects elements into a map. When two elements produce the same key
// the later one wins.
func ToMap[T any, K comparable, V any](key func(T) K, value func(T) V) Collector[T, map[K]V, map[K]V] {
	return ToMapMerging(key, value, func(_, incoming V) V { return incoming })
}

// ToMapMerging collects elements into a map, resolving key collisions with merge.
// merge receives the value already stored and the incoming one.
func ToMapMerging[T any, K comparable, V any](key func(T) K, value func(T) V, merge func(existing, incoming V) V) Collector[T, map[K]V, map[K]V] {
	return Of(
		func() map[K]V { return make(map[K]V) },
		func(acc map[K]V, v T) map[K]V {
			k, val := key(v), value(v)
			if existing, ok := acc[k]; ok {
				val = merge(existing, val)
			}
			acc[k] = val
			return acc
		},
		func(a, b map[K]V) map[K]V {
			for k, val := range b {
				if existing, ok := a[k]; ok {
					val = merge(existing, val)
				}
				a[k] = val
			}
			return a
		},
	)
}

// ToMapStrict collects elements into a map and fails with a *DuplicateKeyError
// when two elements produce the same key.
func ToMapStrict[T any, K comparable, V any](key func(T) K, value func(T) V) Collector[T, map[K]V, map[K]V] {
	return Collector[T, map[K]V, map[K]V]{
		Supplier: func() map[K]V { return make(map[K]V) },
		Accumulator: func(acc map[K]V, v T) (map[K]V, error) {
			k, val := key(v), value(v)
			if existing, ok := acc[k]; ok {
				return acc, &lferrors.DuplicateKeyError{Key: k, Existing: existing, Incoming: val}
			}
			acc[k] = val
			return acc, nil
		},
		Combiner: func(a, b map[K]V) (map[K]V, error) {
			for k, val := range b {
				if existing, ok := a[k]; ok {
					return a, &lferrors.DuplicateKeyError{Key: k, Existing: existing, Incoming: val}
				}
				a[k] = val
			}
			return a, nil
		},
		Finisher: identity[map[K]V],
	}
}

// Mapping adapts downstream to accept T by applying mapper to each element first.
func Mapping[T, U, A, R any](mapper func(T) U, downstream Collector[U, A, R]) Collector[T, A, R] {
	return Collector[T, A, R]{
		Supplier: downstream.Supplier,
		Accumulator: func(acc A, v T) (A, error) {
			return downstream.Accumulator(acc, mapper(v))
		},
		Combiner: downstream.Combiner,
		Finisher: downstream.Finisher,
	}
}

// Filtering passes only elements matching predicate to downstream.
func Filtering[T, A, R any](predicate func(T) bool, downstream Collector[T, A, R]) Collector[T, A, R] {
	return Collector[T, A, R]{
		Supplier: downstream.Supplier,
		Accumulator: func(acc A, v T) (A, error) {
			if !predicate(v) {
				return acc, nil
			}
			return downstream.Accumulator(acc, v)
		},
		Combiner: downstream.Combiner,
		Finisher: downstream.Finisher,
	}
}

// FlatMapping passes every element of mapper(v) to downstream.
func FlatMapping[T, U, A, R any](mapper func(T) []U, downstream Collector[U, A, R]) Collector[T, A, R] {
	return Collector[T, A, R]{
		Supplier: downstream.Supplier,
		Accumulator: func(acc A, v T) (A, error) {
			for _, u := range mapper(v) {
				var err error
				if acc, err = downstream.Accumulator(acc, u); err != nil {
					return acc, err
				}
			}
			return acc, nil
		},
		Combiner: downstream.Combiner,
		Finisher: downstream.Finisher,
	}
}

// CollectingAndThen applies finisher to the result of c.
func CollectingAndThen[T, A, R, RR any](c Collector[T, A, R], finisher func(R) RR) Collector[T, A, RR] {
	return Collector[T, A, RR]{
		Supplier:    c.Supplier,
		Accumulator: c.Accumulator,
		Combiner:    c.Combiner,
		Finisher: func(acc A) RR {
			return finisher(c.Finisher(acc))
		},
	}
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := lo.Keys(m)
	slices.Sort(keys)
	return keys
}
