package fn

import "cmp"

// Function maps a value of type T to a value of type R.
type Function[T, R any] func(T) R

// Consumer accepts a value for its side effect.
type Consumer[T any] func(T)

// Supplier produces values.
type Supplier[T any] func() T

// BinaryOperator combines two values of the same type.
type BinaryOperator[T any] func(T, T) T

// Identity returns a function that returns its argument.
func Identity[T any]() Function[T, T] {
	return func(v T) T { return v }
}

// AndThen returns x -> g(f(x)).
func AndThen[T, U, R any](f func(T) U, g func(U) R) Function[T, R] {
	return func(v T) R { return g(f(v)) }
}

// Compose returns x -> f(g(x)).
func Compose[T, U, R any](f func(U) R, g func(T) U) Function[T, R] {
	return func(v T) R { return f(g(v)) }
}

// Sum adds two numbers.
func Sum[N Number](a, b N) N {
	return a + b
}

// Max returns the larger of a and b.
func Max[N cmp.Ordered](a, b N) N {
	return max(a, b)
}

// Min returns the smaller of a and b.
func Min[N cmp.Ordered](a, b N) N {
	return min(a, b)
}

// MinBy returns an operator keeping the lesser of two values under c.
// Ties keep the first value.
func MinBy[T any](c Comparator[T]) BinaryOperator[T] {
	return func(a, b T) T {
		if c(b, a) < 0 {
			return b
		}
		return a
	}
}

// MaxBy returns an operator keeping the greater of two values under c.
// Ties keep the first value.
func MaxBy[T any](c Comparator[T]) BinaryOperator[T] {
	return func(a, b T) T {
		if c(b, a) > 0 {
			return b
		}
		return a
	}
}

// Number is the set of types supporting addition.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}
