// Package optional provides a container for a value that may be absent.
//
// Optional is the result type of pipeline searches and reductions that can
// find nothing: FindFirst, FindAny, Min, Max and reductions without an
// identity. The zero value is an empty Optional.
package optional

import (
	"fmt"

	lferrors "github.com/vnykmshr/lazyflow/pkg/common/errors"
)

// Optional holds either exactly one value of type T or nothing.
type Optional[T any] struct {
	value   T
	present bool
}

// Of returns an Optional holding v.
func Of[T any](v T) Optional[T] {
	return Optional[T]{value: v, present: true}
}

// Empty returns an Optional holding nothing.
func Empty[T any]() Optional[T] {
	return Optional[T]{}
}

// OfPtr returns an Optional holding *p, or an empty Optional when p is nil.
func OfPtr[T any](p *T) Optional[T] {
	if p == nil {
		return Empty[T]()
	}
	return Of(*p)
}

// IsPresent reports whether a value is held.
func (o Optional[T]) IsPresent() bool {
	return o.present
}

// IsEmpty reports whether no value is held.
func (o Optional[T]) IsEmpty() bool {
	return !o.present
}

// Get returns the held value, or ErrEmptyValue if there is none.
func (o Optional[T]) Get() (T, error) {
	if !o.present {
		var zero T
		return zero, lferrors.ErrEmptyValue
	}
	return o.value, nil
}

// MustGet returns the held value and panics with ErrEmptyValue if there is none.
func (o Optional[T]) MustGet() T {
	if !o.present {
		panic(lferrors.ErrEmptyValue)
	}
	return o.value
}

// OrElse returns the held value or def.
func (o Optional[T]) OrElse(def T) T {
	if o.present {
		return o.value
	}
	return def
}

// OrElseGet returns the held value or the result of calling supplier.
// supplier is not called when a value is present.
func (o Optional[T]) OrElseGet(supplier func() T) T {
	if o.present {
		return o.value
	}
	return supplier()
}

// IfPresent calls consumer with the held value. It does nothing when empty.
func (o Optional[T]) IfPresent(consumer func(T)) {
	if o.present {
		consumer(o.value)
	}
}

// IfPresentOrElse calls consumer with the held value, or emptyAction when empty.
func (o Optional[T]) IfPresentOrElse(consumer func(T), emptyAction func()) {
	if o.present {
		consumer(o.value)
		return
	}
	emptyAction()
}

// Filter returns o if it holds a value matching predicate, otherwise an empty Optional.
func (o Optional[T]) Filter(predicate func(T) bool) Optional[T] {
	if o.present && predicate(o.value) {
		return o
	}
	return Empty[T]()
}

// String renders the Optional for display.
func (o Optional[T]) String() string {
	if !o.present {
		return "Optional.empty"
	}
	return fmt.Sprintf("Optional[%v]", o.value)
}

// Map applies mapper to the held value.
func Map[T, R any](o Optional[T], mapper func(T) R) Optional[R] {
	if !o.present {
		return Empty[R]()
	}
	return Of(mapper(o.value))
}

// FlatMap applies mapper to the held value without nesting the result.
func FlatMap[T, R any](o Optional[T], mapper func(T) Optional[R]) Optional[R] {
	if !o.present {
		return Empty[R]()
	}
	return mapper(o.value)
}
