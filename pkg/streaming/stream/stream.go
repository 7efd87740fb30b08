package stream

import (
	"context"
	"iter"
	"sync/atomic"
	"time"

	lferrors "github.com/vnykmshr/lazyflow/pkg/common/errors"
	"github.com/vnykmshr/lazyflow/pkg/fn"
	"github.com/vnykmshr/lazyflow/pkg/optional"
)

// Stream represents a lazily evaluated sequence of elements.
// Computation on the source data is only performed when a terminal operation is
// initiated, and source elements are consumed only as needed.
//
// A Stream can be traversed once. Calling an intermediate operation hands the
// stream's source to the new stream; calling a terminal operation consumes it.
// Any later operation on the same Stream value fails with ErrPipelineReused.
type Stream[T any] interface {
	// Intermediate operations (lazy, return new Stream)

	// Filter returns a stream consisting of elements that match the given predicate.
	Filter(predicate func(T) bool) Stream[T]

	// Map returns a stream consisting of the results of applying the given function to elements.
	// Use the package-level Map to change the element type.
	Map(mapper func(T) T) Stream[T]

	// FlatMap returns a stream consisting of results of replacing each element with
	// the contents of a mapped stream produced by applying the provided mapping function.
	FlatMap(mapper func(T) Stream[T]) Stream[T]

	// Distinct returns a stream consisting of distinct elements (according to ==).
	// Elements must be comparable at runtime.
	Distinct() Stream[T]

	// Sorted returns a stream consisting of elements sorted by compare.
	// The sort is stable. Sorted buffers the whole upstream on first pull.
	Sorted(compare func(a, b T) int) Stream[T]

	// Skip returns a stream consisting of remaining elements after skipping n elements.
	Skip(n int64) Stream[T]

	// Limit returns a stream consisting of elements truncated to be no longer than maxSize.
	Limit(maxSize int64) Stream[T]

	// TakeWhile returns the longest prefix of elements matching the predicate.
	TakeWhile(predicate func(T) bool) Stream[T]

	// DropWhile discards the longest prefix of elements matching the predicate.
	DropWhile(predicate func(T) bool) Stream[T]

	// Peek returns a stream consisting of elements, additionally performing the provided
	// action on each element as elements are consumed.
	Peek(action func(T)) Stream[T]

	// Terminal operations (eager, consume the stream)

	// ForEach performs an action for each element of the stream.
	ForEach(ctx context.Context, action func(T)) error

	// Reduce folds elements left to right starting from identity.
	// On an empty stream identity is returned unchanged.
	Reduce(ctx context.Context, identity T, accumulator func(T, T) T) (T, error)

	// ReduceOptional folds elements left to right without an identity.
	// The result is empty when the stream yields nothing.
	ReduceOptional(ctx context.Context, accumulator func(T, T) T) (optional.Optional[T], error)

	// ToSlice returns a slice containing all elements.
	ToSlice(ctx context.Context) ([]T, error)

	// Count returns the count of elements.
	Count(ctx context.Context) (int64, error)

	// AnyMatch returns whether any elements match the given predicate.
	AnyMatch(ctx context.Context, predicate func(T) bool) (bool, error)

	// AllMatch returns whether all elements match the given predicate.
	// It is true for an empty stream.
	AllMatch(ctx context.Context, predicate func(T) bool) (bool, error)

	// NoneMatch returns whether no elements match the given predicate.
	// It is true for an empty stream.
	NoneMatch(ctx context.Context, predicate func(T) bool) (bool, error)

	// FindFirst returns the first element, if present.
	FindFirst(ctx context.Context) (optional.Optional[T], error)

	// FindAny returns any element, if present.
	FindAny(ctx context.Context) (optional.Optional[T], error)

	// Min returns the minimum element according to the provided comparator.
	Min(ctx context.Context, compare func(a, b T) int) (optional.Optional[T], error)

	// Max returns the maximum element according to the provided comparator.
	Max(ctx context.Context, compare func(a, b T) int) (optional.Optional[T], error)

	// Stream control

	// Close closes the stream and releases resources.
	// Closing a stream that was already consumed is a no-op.
	Close() error

	// IsClosed returns true if the stream was closed or consumed.
	IsClosed() bool

	// detach hands the stream's source to a single new owner.
	detach() (Source[T], *observer, error)
}

const (
	stateOpen int32 = iota
	stateConsumed
)

// stream is the default implementation of Stream.
type stream[T any] struct {
	source Source[T]
	err    error // deferred construction error, surfaced by the terminal
	obs    *observer
	state  int32 // atomic
}

// New creates a new Stream from a Source.
func New[T any](source Source[T]) Stream[T] {
	return &stream[T]{source: source}
}

// FromSlice creates a Stream from a slice. The slice is read lazily and must
// not be modified until the stream is consumed.
func FromSlice[T any](slice []T) Stream[T] {
	return New[T](&sliceSource[T]{slice: slice})
}

// Of creates a Stream of the given values.
func Of[T any](values ...T) Stream[T] {
	return FromSlice(values)
}

// FromChannel creates a Stream from a channel. The stream ends when the channel is closed.
func FromChannel[T any](ch <-chan T) Stream[T] {
	return New[T](&channelSource[T]{ch: ch})
}

// FromSeq creates a Stream from a range-over-func iterator. The iterator must
// be finite unless the stream is bounded downstream.
func FromSeq[T any](seq iter.Seq[T]) Stream[T] {
	return New[T](&seqSource[T]{seq: seq})
}

// Generate creates an infinite Stream from a generator function.
// It must be bounded with Limit or TakeWhile before a full-consumption terminal.
func Generate[T any](generator func() T) Stream[T] {
	return New[T](&generatorSource[T]{generator: generator})
}

// Iterate creates an infinite Stream of seed, next(seed), next(next(seed)), ...
// It must be bounded with Limit or TakeWhile before a full-consumption terminal.
func Iterate[T any](seed T, next func(T) T) Stream[T] {
	return New[T](&iterateSource[T]{current: seed, next: next})
}

// Range creates a Stream of the integers in [start, end).
func Range[N Integer](start, end N) Stream[N] {
	return New[N](&rangeSource[N]{next: start, end: end})
}

// RangeClosed creates a Stream of the integers in [start, end].
func RangeClosed[N Integer](start, end N) Stream[N] {
	return New[N](&rangeSource[N]{next: start, end: end, inclusive: true})
}

// Empty creates an empty Stream.
func Empty[T any]() Stream[T] {
	return FromSlice[T](nil)
}

// Concat creates a Stream of all elements of the first stream followed by all
// elements of the following ones. The given streams are consumed.
func Concat[T any](streams ...Stream[T]) Stream[T] {
	sources := make([]Source[T], 0, len(streams))
	var obs *observer
	for _, s := range streams {
		src, o, err := s.detach()
		if err != nil {
			_ = closeAll(sources)
			for _, rest := range streams[len(sources)+1:] {
				_ = rest.Close()
			}
			return &stream[T]{err: err, obs: o}
		}
		if obs == nil {
			obs = o
		}
		sources = append(sources, src)
	}
	return &stream[T]{source: &concatSource[T]{sources: sources}, obs: obs}
}

func (s *stream[T]) detach() (Source[T], *observer, error) {
	if !atomic.CompareAndSwapInt32(&s.state, stateOpen, stateConsumed) {
		return nil, s.obs, lferrors.ErrPipelineReused
	}
	if s.err != nil {
		return nil, s.obs, s.err
	}
	return s.source, s.obs, nil
}

// Close implementation
func (s *stream[T]) Close() error {
	if !atomic.CompareAndSwapInt32(&s.state, stateOpen, stateConsumed) {
		return nil
	}
	if s.source == nil {
		return nil
	}
	return s.source.Close()
}

// IsClosed implementation
func (s *stream[T]) IsClosed() bool {
	return atomic.LoadInt32(&s.state) != stateOpen
}

// derive moves the source of s into a new stream wrapped by wrap.
func derive[T, R any](s Stream[T], wrap func(Source[T]) Source[R]) Stream[R] {
	src, obs, err := s.detach()
	if err != nil {
		return &stream[R]{err: err, obs: obs}
	}
	return &stream[R]{source: wrap(src), obs: obs}
}

// reject consumes s and returns a stream that fails with cause at its terminal.
func reject[T, R any](s Stream[T], cause error) Stream[R] {
	src, obs, err := s.detach()
	if err == nil {
		_ = src.Close()
		err = cause
	}
	return &stream[R]{err: err, obs: obs}
}

// evalMode tells evaluate whether the terminal can stop early.
type evalMode int

const (
	// exhaustive terminals pull until the source is exhausted.
	exhaustive evalMode = iota
	// shortCircuit terminals may stop before exhaustion.
	shortCircuit
)

// evaluate consumes s, calling visit for every element until visit returns
// false or an error. The source is closed before evaluate returns.
func evaluate[T any](ctx context.Context, s Stream[T], op string, mode evalMode, visit func(T) (bool, error)) (err error) {
	start := time.Now()
	src, obs, err := s.detach()
	defer func() {
		obs.record(op, err, time.Since(start))
	}()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := src.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if mode == exhaustive && isUnbounded(src) {
		return lferrors.ErrUnboundedEvaluation
	}

	for {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		v, ok, nerr := src.Next(ctx)
		if nerr != nil {
			return nerr
		}
		if !ok {
			return nil
		}
		more, verr := visit(v)
		if verr != nil {
			return verr
		}
		if !more {
			return nil
		}
	}
}

// ForEach implementation
func (s *stream[T]) ForEach(ctx context.Context, action func(T)) error {
	return evaluate[T](ctx, s, "for_each", exhaustive, func(v T) (bool, error) {
		action(v)
		return true, nil
	})
}

// ToSlice implementation
func (s *stream[T]) ToSlice(ctx context.Context) ([]T, error) {
	result := make([]T, 0)
	err := evaluate[T](ctx, s, "to_slice", exhaustive, func(v T) (bool, error) {
		result = append(result, v)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Count implementation
func (s *stream[T]) Count(ctx context.Context) (int64, error) {
	var count int64
	err := evaluate[T](ctx, s, "count", exhaustive, func(T) (bool, error) {
		count++
		return true, nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Reduce implementation
func (s *stream[T]) Reduce(ctx context.Context, identity T, accumulator func(T, T) T) (T, error) {
	result := identity
	err := evaluate[T](ctx, s, "reduce", exhaustive, func(v T) (bool, error) {
		result = accumulator(result, v)
		return true, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// ReduceOptional implementation
func (s *stream[T]) ReduceOptional(ctx context.Context, accumulator func(T, T) T) (optional.Optional[T], error) {
	var (
		result T
		found  bool
	)
	err := evaluate[T](ctx, s, "reduce", exhaustive, func(v T) (bool, error) {
		if !found {
			result, found = v, true
			return true, nil
		}
		result = accumulator(result, v)
		return true, nil
	})
	if err != nil || !found {
		return optional.Empty[T](), err
	}
	return optional.Of(result), nil
}

// FindFirst implementation
func (s *stream[T]) FindFirst(ctx context.Context) (optional.Optional[T], error) {
	result := optional.Empty[T]()
	err := evaluate[T](ctx, s, "find_first", shortCircuit, func(v T) (bool, error) {
		result = optional.Of(v)
		return false, nil
	})
	if err != nil {
		return optional.Empty[T](), err
	}
	return result, nil
}

// FindAny implementation. A sequential stream returns its first element.
func (s *stream[T]) FindAny(ctx context.Context) (optional.Optional[T], error) {
	return s.FindFirst(ctx)
}

// AnyMatch implementation
func (s *stream[T]) AnyMatch(ctx context.Context, predicate func(T) bool) (bool, error) {
	return s.match(ctx, "any_match", predicate)
}

// AllMatch implementation
func (s *stream[T]) AllMatch(ctx context.Context, predicate func(T) bool) (bool, error) {
	found, err := s.match(ctx, "all_match", fn.Not(fn.Predicate[T](predicate)))
	return !found && err == nil, err
}

// NoneMatch implementation
func (s *stream[T]) NoneMatch(ctx context.Context, predicate func(T) bool) (bool, error) {
	found, err := s.match(ctx, "none_match", predicate)
	return !found && err == nil, err
}

// match reports whether some element satisfies predicate, stopping at the first one.
func (s *stream[T]) match(ctx context.Context, op string, predicate func(T) bool) (bool, error) {
	found := false
	err := evaluate[T](ctx, s, op, shortCircuit, func(v T) (bool, error) {
		if predicate(v) {
			found = true
			return false, nil
		}
		return true, nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// Min implementation. Among equal minima the first one is returned.
func (s *stream[T]) Min(ctx context.Context, compare func(a, b T) int) (optional.Optional[T], error) {
	return s.pick(ctx, "min", fn.MinBy(fn.Comparator[T](compare)))
}

// Max implementation. Among equal maxima the first one is returned.
func (s *stream[T]) Max(ctx context.Context, compare func(a, b T) int) (optional.Optional[T], error) {
	return s.pick(ctx, "max", fn.MaxBy(fn.Comparator[T](compare)))
}

func (s *stream[T]) pick(ctx context.Context, op string, better fn.BinaryOperator[T]) (optional.Optional[T], error) {
	var (
		best  T
		found bool
	)
	err := evaluate[T](ctx, s, op, exhaustive, func(v T) (bool, error) {
		if !found {
			best, found = v, true
			return true, nil
		}
		best = better(best, v)
		return true, nil
	})
	if err != nil || !found {
		return optional.Empty[T](), err
	}
	return optional.Of(best), nil
}
