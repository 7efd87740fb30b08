package parallel

import (
	"sync/atomic"

	lferrors "github.com/vnykmshr/lazyflow/pkg/common/errors"
)

// emitter feeds the stage outputs for source element i to yield. It returns
// false when yield asked to stop.
type emitter[T any] func(i int, yield func(T) bool) bool

// Pipeline is a single-use parallel pipeline over a collection-backed source.
// Stages are applied element by element inside each chunk; a terminal
// evaluates the chunks on a worker pool and merges the partial results in
// chunk order.
//
// Stage functions may run concurrently and must not depend on each other's
// side effects.
type Pipeline[T any] struct {
	config Config
	size   int
	emit   emitter[T]
	err    error // deferred construction error, surfaced by the terminal
	state  int32 // atomic
}

// FromSlice creates a parallel pipeline over items. The slice must not be
// modified until the pipeline is consumed.
func FromSlice[T any](items []T, config Config) *Pipeline[T] {
	if config.Name == "" {
		config.Name = "default"
	}
	p := &Pipeline[T]{
		config: config,
		size:   len(items),
		emit: func(i int, yield func(T) bool) bool {
			return yield(items[i])
		},
	}
	if config.Pool == nil {
		p.err = config.Validate()
	}
	return p
}

// IsConsumed reports whether a stage or terminal already took this pipeline.
func (p *Pipeline[T]) IsConsumed() bool {
	return atomic.LoadInt32(&p.state) != 0
}

func (p *Pipeline[T]) detach() (emitter[T], error) {
	if !atomic.CompareAndSwapInt32(&p.state, 0, 1) {
		return nil, lferrors.ErrPipelineReused
	}
	if p.err != nil {
		return nil, p.err
	}
	return p.emit, nil
}

// derive moves the stages of p into a new pipeline extended by wrap.
func derive[T, R any](p *Pipeline[T], wrap func(emitter[T]) emitter[R]) *Pipeline[R] {
	emit, err := p.detach()
	next := &Pipeline[R]{config: p.config, size: p.size, err: err}
	if err == nil {
		next.emit = wrap(emit)
	}
	return next
}

// Filter keeps the elements matching predicate.
func (p *Pipeline[T]) Filter(predicate func(T) bool) *Pipeline[T] {
	return derive(p, func(emit emitter[T]) emitter[T] {
		return func(i int, yield func(T) bool) bool {
			return emit(i, func(v T) bool {
				if !predicate(v) {
					return true
				}
				return yield(v)
			})
		}
	})
}

// Peek calls action on every element as it passes. Calls happen concurrently
// and in no defined order.
func (p *Pipeline[T]) Peek(action func(T)) *Pipeline[T] {
	return derive(p, func(emit emitter[T]) emitter[T] {
		return func(i int, yield func(T) bool) bool {
			return emit(i, func(v T) bool {
				action(v)
				return yield(v)
			})
		}
	})
}

// Map applies mapper to every element of p.
func Map[T, R any](p *Pipeline[T], mapper func(T) R) *Pipeline[R] {
	return derive(p, func(emit emitter[T]) emitter[R] {
		return func(i int, yield func(R) bool) bool {
			return emit(i, func(v T) bool {
				return yield(mapper(v))
			})
		}
	})
}

// FlatMap replaces every element of p with the elements of mapper(v), in order.
func FlatMap[T, R any](p *Pipeline[T], mapper func(T) []R) *Pipeline[R] {
	return derive(p, func(emit emitter[T]) emitter[R] {
		return func(i int, yield func(R) bool) bool {
			return emit(i, func(v T) bool {
				for _, r := range mapper(v) {
					if !yield(r) {
						return false
					}
				}
				return true
			})
		}
	})
}
