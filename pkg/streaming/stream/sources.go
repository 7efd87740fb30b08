package stream

import (
	"context"
	"iter"
)

// Source represents a pull-based producer of stream elements.
type Source[T any] interface {
	// Next returns the next element. The boolean is false once the source is
	// exhausted; an exhausted source keeps reporting false.
	Next(ctx context.Context) (T, bool, error)

	// Close releases any resources held by the source.
	Close() error
}

// unbounded is implemented by sources that never exhaust on their own.
type unbounded interface {
	Unbounded() bool
}

func isUnbounded[T any](src Source[T]) bool {
	if u, ok := src.(unbounded); ok {
		return u.Unbounded()
	}
	return false
}

// sliceSource implements Source for slices.
type sliceSource[T any] struct {
	slice []T
	index int
}

func (s *sliceSource[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T

	if s.index >= len(s.slice) {
		return zero, false, nil
	}

	select {
	case <-ctx.Done():
		return zero, false, ctx.Err()
	default:
		v := s.slice[s.index]
		s.index++
		return v, true, nil
	}
}

func (s *sliceSource[T]) Close() error {
	return nil
}

// channelSource implements Source for channels.
type channelSource[T any] struct {
	ch <-chan T
}

func (s *channelSource[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T

	select {
	case value, ok := <-s.ch:
		if !ok {
			return zero, false, nil
		}
		return value, true, nil
	case <-ctx.Done():
		return zero, false, ctx.Err()
	}
}

func (s *channelSource[T]) Close() error {
	return nil
}

// generatorSource implements Source for generator functions.
type generatorSource[T any] struct {
	generator func() T
}

func (s *generatorSource[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T

	select {
	case <-ctx.Done():
		return zero, false, ctx.Err()
	default:
		return s.generator(), true, nil
	}
}

func (s *generatorSource[T]) Close() error {
	return nil
}

func (s *generatorSource[T]) Unbounded() bool {
	return true
}

// iterateSource yields seed, next(seed), next(next(seed)), ...
type iterateSource[T any] struct {
	current T
	next    func(T) T
	started bool
}

func (s *iterateSource[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T

	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	if s.started {
		s.current = s.next(s.current)
	}
	s.started = true
	return s.current, true, nil
}

func (s *iterateSource[T]) Close() error {
	return nil
}

func (s *iterateSource[T]) Unbounded() bool {
	return true
}

// seqSource adapts a range-over-func iterator into a pull-based source.
type seqSource[T any] struct {
	seq  iter.Seq[T]
	next func() (T, bool)
	stop func()
}

func (s *seqSource[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T

	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	if s.next == nil {
		s.next, s.stop = iter.Pull(s.seq)
	}
	v, ok := s.next()
	return v, ok, nil
}

func (s *seqSource[T]) Close() error {
	if s.stop != nil {
		s.stop()
	}
	return nil
}

// Integer is the set of element types accepted by Range and RangeClosed.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// rangeSource yields consecutive integers from next up to end. The end is
// included only when inclusive is set.
type rangeSource[N Integer] struct {
	next      N
	end       N
	inclusive bool
	done      bool
}

func (s *rangeSource[N]) Next(ctx context.Context) (N, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	if s.done || s.next > s.end || (!s.inclusive && s.next == s.end) {
		return 0, false, nil
	}
	v := s.next
	if v == s.end {
		// avoids overflow when end is the largest value of N
		s.done = true
	} else {
		s.next++
	}
	return v, true, nil
}

func (s *rangeSource[N]) Close() error {
	return nil
}

// concatSource drains each source in turn.
type concatSource[T any] struct {
	sources []Source[T]
	current int
}

func (s *concatSource[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T

	for s.current < len(s.sources) {
		v, ok, err := s.sources[s.current].Next(ctx)
		if err != nil {
			return zero, false, err
		}
		if ok {
			return v, true, nil
		}
		s.current++
	}
	return zero, false, nil
}

func (s *concatSource[T]) Close() error {
	return closeAll(s.sources)
}

func (s *concatSource[T]) Unbounded() bool {
	for _, src := range s.sources[s.current:] {
		if isUnbounded(src) {
			return true
		}
	}
	return false
}

func closeAll[T any](sources []Source[T]) error {
	var first error
	for _, src := range sources {
		if err := src.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
