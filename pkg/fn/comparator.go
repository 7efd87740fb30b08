package fn

import "cmp"

// Comparator is a total order over T. It returns a negative number when a
// sorts before b, zero when they are equivalent and a positive number otherwise.
type Comparator[T any] func(a, b T) int

// Compare evaluates the comparator.
func (c Comparator[T]) Compare(a, b T) int {
	return c(a, b)
}

// Reversed returns the reverse ordering of c.
func (c Comparator[T]) Reversed() Comparator[T] {
	return func(a, b T) int { return c(b, a) }
}

// ThenComparing returns an ordering that uses next to break ties of c.
func (c Comparator[T]) ThenComparing(next Comparator[T]) Comparator[T] {
	return func(a, b T) int {
		if r := c(a, b); r != 0 {
			return r
		}
		return next(a, b)
	}
}

// Comparing orders values by a naturally ordered key.
func Comparing[T any, K cmp.Ordered](key func(T) K) Comparator[T] {
	return func(a, b T) int { return cmp.Compare(key(a), key(b)) }
}

// ComparingFunc orders values by a key using keyCmp.
func ComparingFunc[T, K any](key func(T) K, keyCmp Comparator[K]) Comparator[T] {
	return func(a, b T) int { return keyCmp(key(a), key(b)) }
}

// ThenComparingBy breaks ties of c with a naturally ordered key.
func ThenComparingBy[T any, K cmp.Ordered](c Comparator[T], key func(T) K) Comparator[T] {
	return c.ThenComparing(Comparing(key))
}

// NaturalOrder orders values ascending.
func NaturalOrder[T cmp.Ordered]() Comparator[T] {
	return cmp.Compare[T]
}

// ReverseOrder orders values descending.
func ReverseOrder[T cmp.Ordered]() Comparator[T] {
	return NaturalOrder[T]().Reversed()
}
