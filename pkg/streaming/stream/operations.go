package stream

import (
	"context"
	"slices"

	lferrors "github.com/vnykmshr/lazyflow/pkg/common/errors"
	"github.com/vnykmshr/lazyflow/pkg/common/validation"
)

// Every stage is a Source pulling synchronously from its upstream Source.
// Stages that cannot end an unbounded upstream forward Unbounded.

// filterSource yields upstream elements matching predicate.
type filterSource[T any] struct {
	upstream  Source[T]
	predicate func(T) bool
}

func (s *filterSource[T]) Next(ctx context.Context) (T, bool, error) {
	for {
		v, ok, err := s.upstream.Next(ctx)
		if err != nil || !ok {
			return v, false, err
		}
		if s.predicate(v) {
			return v, true, nil
		}
	}
}

func (s *filterSource[T]) Close() error    { return s.upstream.Close() }
func (s *filterSource[T]) Unbounded() bool { return isUnbounded(s.upstream) }

// mapSource applies mapper to every upstream element.
type mapSource[T, R any] struct {
	upstream Source[T]
	mapper   func(T) R
}

func (s *mapSource[T, R]) Next(ctx context.Context) (R, bool, error) {
	var zero R

	v, ok, err := s.upstream.Next(ctx)
	if err != nil || !ok {
		return zero, false, err
	}
	return s.mapper(v), true, nil
}

func (s *mapSource[T, R]) Close() error    { return s.upstream.Close() }
func (s *mapSource[T, R]) Unbounded() bool { return isUnbounded(s.upstream) }

// flatMapSource drains the stream produced for each upstream element before
// pulling the next upstream element.
type flatMapSource[T, R any] struct {
	upstream Source[T]
	mapper   func(T) Stream[R]
	inner    Source[R]
}

func (s *flatMapSource[T, R]) Next(ctx context.Context) (R, bool, error) {
	var zero R

	for {
		if s.inner != nil {
			v, ok, err := s.inner.Next(ctx)
			if err != nil {
				return zero, false, err
			}
			if ok {
				return v, true, nil
			}
			err = s.inner.Close()
			s.inner = nil
			if err != nil {
				return zero, false, err
			}
		}

		v, ok, err := s.upstream.Next(ctx)
		if err != nil || !ok {
			return zero, false, err
		}
		inner, _, err := s.mapper(v).detach()
		if err != nil {
			return zero, false, err
		}
		s.inner = inner
	}
}

func (s *flatMapSource[T, R]) Close() error {
	var err error
	if s.inner != nil {
		err = s.inner.Close()
		s.inner = nil
	}
	if uerr := s.upstream.Close(); err == nil {
		err = uerr
	}
	return err
}

func (s *flatMapSource[T, R]) Unbounded() bool { return isUnbounded(s.upstream) }

// distinctSource suppresses elements whose key was already yielded.
type distinctSource[T any, K comparable] struct {
	upstream Source[T]
	key      func(T) K
	seen     map[K]struct{}
}

func (s *distinctSource[T, K]) Next(ctx context.Context) (T, bool, error) {
	for {
		v, ok, err := s.upstream.Next(ctx)
		if err != nil || !ok {
			return v, false, err
		}
		k := s.key(v)
		if _, dup := s.seen[k]; dup {
			continue
		}
		s.seen[k] = struct{}{}
		return v, true, nil
	}
}

func (s *distinctSource[T, K]) Close() error    { return s.upstream.Close() }
func (s *distinctSource[T, K]) Unbounded() bool { return isUnbounded(s.upstream) }

// sortedSource buffers the whole upstream on first pull and yields it sorted.
type sortedSource[T any] struct {
	upstream Source[T]
	compare  func(a, b T) int
	buffer   []T
	index    int
	loaded   bool
}

func (s *sortedSource[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T

	if !s.loaded {
		if isUnbounded(s.upstream) {
			return zero, false, lferrors.ErrUnboundedEvaluation
		}
		for {
			v, ok, err := s.upstream.Next(ctx)
			if err != nil {
				return zero, false, err
			}
			if !ok {
				break
			}
			s.buffer = append(s.buffer, v)
		}
		slices.SortStableFunc(s.buffer, s.compare)
		s.loaded = true
	}

	if s.index >= len(s.buffer) {
		return zero, false, nil
	}
	v := s.buffer[s.index]
	s.index++
	return v, true, nil
}

func (s *sortedSource[T]) Close() error    { return s.upstream.Close() }
func (s *sortedSource[T]) Unbounded() bool { return isUnbounded(s.upstream) }

// skipSource discards the first n upstream elements.
type skipSource[T any] struct {
	upstream Source[T]
	n        int64
}

func (s *skipSource[T]) Next(ctx context.Context) (T, bool, error) {
	for s.n > 0 {
		v, ok, err := s.upstream.Next(ctx)
		if err != nil || !ok {
			return v, false, err
		}
		s.n--
	}
	return s.upstream.Next(ctx)
}

func (s *skipSource[T]) Close() error    { return s.upstream.Close() }
func (s *skipSource[T]) Unbounded() bool { return isUnbounded(s.upstream) }

// limitSource yields at most max elements. It never pulls upstream after the
// last element it is allowed to yield.
type limitSource[T any] struct {
	upstream Source[T]
	max      int64
	count    int64
}

func (s *limitSource[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T

	if s.count >= s.max {
		return zero, false, nil
	}
	v, ok, err := s.upstream.Next(ctx)
	if err != nil || !ok {
		return zero, false, err
	}
	s.count++
	return v, true, nil
}

func (s *limitSource[T]) Close() error { return s.upstream.Close() }

// takeWhileSource yields elements until predicate first fails.
type takeWhileSource[T any] struct {
	upstream  Source[T]
	predicate func(T) bool
	done      bool
}

func (s *takeWhileSource[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T

	if s.done {
		return zero, false, nil
	}
	v, ok, err := s.upstream.Next(ctx)
	if err != nil || !ok {
		return zero, false, err
	}
	if !s.predicate(v) {
		s.done = true
		return zero, false, nil
	}
	return v, true, nil
}

func (s *takeWhileSource[T]) Close() error { return s.upstream.Close() }

// dropWhileSource discards elements until predicate first fails.
type dropWhileSource[T any] struct {
	upstream  Source[T]
	predicate func(T) bool
	dropped   bool
}

func (s *dropWhileSource[T]) Next(ctx context.Context) (T, bool, error) {
	if s.dropped {
		return s.upstream.Next(ctx)
	}
	for {
		v, ok, err := s.upstream.Next(ctx)
		if err != nil || !ok {
			return v, false, err
		}
		if !s.predicate(v) {
			s.dropped = true
			return v, true, nil
		}
	}
}

func (s *dropWhileSource[T]) Close() error    { return s.upstream.Close() }
func (s *dropWhileSource[T]) Unbounded() bool { return isUnbounded(s.upstream) }

// peekSource calls action on every element as it is pulled.
type peekSource[T any] struct {
	upstream Source[T]
	action   func(T)
}

func (s *peekSource[T]) Next(ctx context.Context) (T, bool, error) {
	v, ok, err := s.upstream.Next(ctx)
	if err == nil && ok {
		s.action(v)
	}
	return v, ok, err
}

func (s *peekSource[T]) Close() error    { return s.upstream.Close() }
func (s *peekSource[T]) Unbounded() bool { return isUnbounded(s.upstream) }

// Filter implementation
func (s *stream[T]) Filter(predicate func(T) bool) Stream[T] {
	return derive[T, T](s, func(src Source[T]) Source[T] {
		return &filterSource[T]{upstream: src, predicate: predicate}
	})
}

// Map implementation
func (s *stream[T]) Map(mapper func(T) T) Stream[T] {
	return Map[T, T](s, mapper)
}

// FlatMap implementation
func (s *stream[T]) FlatMap(mapper func(T) Stream[T]) Stream[T] {
	return FlatMap[T, T](s, mapper)
}

// Distinct implementation
func (s *stream[T]) Distinct() Stream[T] {
	return DistinctBy[T, any](s, func(v T) any { return v })
}

// Sorted implementation
func (s *stream[T]) Sorted(compare func(a, b T) int) Stream[T] {
	return derive[T, T](s, func(src Source[T]) Source[T] {
		return &sortedSource[T]{upstream: src, compare: compare}
	})
}

// Skip implementation
func (s *stream[T]) Skip(n int64) Stream[T] {
	if err := validation.ValidateNonNegative("stream", "skip", n); err != nil {
		return reject[T, T](s, err)
	}
	return derive[T, T](s, func(src Source[T]) Source[T] {
		return &skipSource[T]{upstream: src, n: n}
	})
}

// Limit implementation
func (s *stream[T]) Limit(maxSize int64) Stream[T] {
	if err := validation.ValidateNonNegative("stream", "limit", maxSize); err != nil {
		return reject[T, T](s, err)
	}
	return derive[T, T](s, func(src Source[T]) Source[T] {
		return &limitSource[T]{upstream: src, max: maxSize}
	})
}

// TakeWhile implementation
func (s *stream[T]) TakeWhile(predicate func(T) bool) Stream[T] {
	return derive[T, T](s, func(src Source[T]) Source[T] {
		return &takeWhileSource[T]{upstream: src, predicate: predicate}
	})
}

// DropWhile implementation
func (s *stream[T]) DropWhile(predicate func(T) bool) Stream[T] {
	return derive[T, T](s, func(src Source[T]) Source[T] {
		return &dropWhileSource[T]{upstream: src, predicate: predicate}
	})
}

// Peek implementation
func (s *stream[T]) Peek(action func(T)) Stream[T] {
	return derive[T, T](s, func(src Source[T]) Source[T] {
		return &peekSource[T]{upstream: src, action: action}
	})
}

// Map returns a stream of the results of applying mapper to the elements of s.
// Unlike the Map method it can change the element type.
func Map[T, R any](s Stream[T], mapper func(T) R) Stream[R] {
	return derive(s, func(src Source[T]) Source[R] {
		return &mapSource[T, R]{upstream: src, mapper: mapper}
	})
}

// FlatMap replaces every element of s with the elements of the stream mapper
// returns for it. Each inner stream is drained and closed before the next
// element of s is pulled.
func FlatMap[T, R any](s Stream[T], mapper func(T) Stream[R]) Stream[R] {
	return derive(s, func(src Source[T]) Source[R] {
		return &flatMapSource[T, R]{upstream: src, mapper: mapper}
	})
}

// FlatMapSlice replaces every element of s with the elements of the slice
// mapper returns for it.
func FlatMapSlice[T, R any](s Stream[T], mapper func(T) []R) Stream[R] {
	return FlatMap(s, func(v T) Stream[R] {
		return FromSlice(mapper(v))
	})
}

// DistinctBy returns a stream of the elements of s whose key was not produced
// by an earlier element. The first element for each key is kept.
func DistinctBy[T any, K comparable](s Stream[T], key func(T) K) Stream[T] {
	return derive[T, T](s, func(src Source[T]) Source[T] {
		return &distinctSource[T, K]{upstream: src, key: key, seen: make(map[K]struct{})}
	})
}
