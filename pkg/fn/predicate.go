package fn

// Predicate reports whether a value satisfies a condition.
type Predicate[T any] func(T) bool

// Test evaluates the predicate.
func (p Predicate[T]) Test(v T) bool {
	return p(v)
}

// Negate returns the logical negation of p.
func (p Predicate[T]) Negate() Predicate[T] {
	return func(v T) bool { return !p(v) }
}

// And returns a predicate that holds when both p and other hold.
// other is not evaluated when p is false.
func (p Predicate[T]) And(other Predicate[T]) Predicate[T] {
	return func(v T) bool { return p(v) && other(v) }
}

// Or returns a predicate that holds when either p or other holds.
// other is not evaluated when p is true.
func (p Predicate[T]) Or(other Predicate[T]) Predicate[T] {
	return func(v T) bool { return p(v) || other(v) }
}

// Not returns the negation of p.
func Not[T any](p Predicate[T]) Predicate[T] {
	return p.Negate()
}

// All returns a predicate that holds when every given predicate holds.
// With no predicates it always holds.
func All[T any](ps ...Predicate[T]) Predicate[T] {
	return func(v T) bool {
		for _, p := range ps {
			if !p(v) {
				return false
			}
		}
		return true
	}
}

// Any returns a predicate that holds when at least one given predicate holds.
// With no predicates it never holds.
func Any[T any](ps ...Predicate[T]) Predicate[T] {
	return func(v T) bool {
		for _, p := range ps {
			if p(v) {
				return true
			}
		}
		return false
	}
}

// IsEqual returns a predicate matching values equal to target.
func IsEqual[T comparable](target T) Predicate[T] {
	return func(v T) bool { return v == target }
}
