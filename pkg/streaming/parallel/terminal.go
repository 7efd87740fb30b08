package parallel

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/samber/lo"

	"github.com/vnykmshr/lazyflow/pkg/fn"
	"github.com/vnykmshr/lazyflow/pkg/optional"
	"github.com/vnykmshr/lazyflow/pkg/streaming/collectors"
)

// ToSlice returns all elements in source order.
func (p *Pipeline[T]) ToSlice(ctx context.Context) ([]T, error) {
	parts, _, err := run[T, []T](ctx, p, "to_slice", func(ctx context.Context, ev *evaluation[T], c chunk) ([]T, error) {
		var out []T
		ev.each(ctx, c, func(v T) bool {
			out = append(out, v)
			return true
		})
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	result := lo.Flatten(parts)
	if result == nil {
		result = make([]T, 0)
	}
	return result, nil
}

// Count returns the number of elements.
func (p *Pipeline[T]) Count(ctx context.Context) (int64, error) {
	counts, _, err := run[T, int64](ctx, p, "count", func(ctx context.Context, ev *evaluation[T], c chunk) (int64, error) {
		var n int64
		ev.each(ctx, c, func(T) bool {
			n++
			return true
		})
		return n, nil
	})
	if err != nil {
		return 0, err
	}
	return lo.Sum(counts), nil
}

// ForEach calls action for every element. Calls happen concurrently and in
// no defined order.
func (p *Pipeline[T]) ForEach(ctx context.Context, action func(T)) error {
	_, _, err := run[T, struct{}](ctx, p, "for_each", func(ctx context.Context, ev *evaluation[T], c chunk) (struct{}, error) {
		ev.each(ctx, c, func(v T) bool {
			action(v)
			return true
		})
		return struct{}{}, nil
	})
	return err
}

// Reduce folds every chunk from identity with op and then folds the partial
// results in chunk order. op must be associative and identity neutral for it.
func (p *Pipeline[T]) Reduce(ctx context.Context, identity T, op func(T, T) T) (T, error) {
	parts, _, err := run[T, T](ctx, p, "reduce", func(ctx context.Context, ev *evaluation[T], c chunk) (T, error) {
		acc := identity
		ev.each(ctx, c, func(v T) bool {
			acc = op(acc, v)
			return true
		})
		return acc, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return lo.Reduce(parts, func(acc T, part T, _ int) T { return op(acc, part) }, identity), nil
}

// ReduceOptional folds the elements with an associative op. The result is
// empty when the pipeline yields nothing.
func (p *Pipeline[T]) ReduceOptional(ctx context.Context, op func(T, T) T) (optional.Optional[T], error) {
	return Collect(ctx, p, collectors.ReducingOptional(op))
}

// Min returns the least element. Among equal elements the one earliest in
// source order is returned.
func (p *Pipeline[T]) Min(ctx context.Context, compare func(a, b T) int) (optional.Optional[T], error) {
	return p.ReduceOptional(ctx, fn.MinBy(fn.Comparator[T](compare)))
}

// Max returns the greatest element. Among equal elements the one earliest in
// source order is returned.
func (p *Pipeline[T]) Max(ctx context.Context, compare func(a, b T) int) (optional.Optional[T], error) {
	return p.ReduceOptional(ctx, fn.MaxBy(fn.Comparator[T](compare)))
}

// AnyMatch reports whether some element satisfies predicate. Every chunk is
// abandoned once a match is found.
func (p *Pipeline[T]) AnyMatch(ctx context.Context, predicate func(T) bool) (bool, error) {
	return p.match(ctx, "any_match", predicate)
}

// AllMatch reports whether every element satisfies predicate. It is true for
// an empty pipeline.
func (p *Pipeline[T]) AllMatch(ctx context.Context, predicate func(T) bool) (bool, error) {
	found, err := p.match(ctx, "all_match", fn.Not(fn.Predicate[T](predicate)))
	return !found && err == nil, err
}

// NoneMatch reports whether no element satisfies predicate. It is true for an
// empty pipeline.
func (p *Pipeline[T]) NoneMatch(ctx context.Context, predicate func(T) bool) (bool, error) {
	found, err := p.match(ctx, "none_match", predicate)
	return !found && err == nil, err
}

func (p *Pipeline[T]) match(ctx context.Context, op string, predicate func(T) bool) (bool, error) {
	var found atomic.Bool
	_, _, err := run[T, struct{}](ctx, p, op, func(ctx context.Context, ev *evaluation[T], c chunk) (struct{}, error) {
		ev.each(ctx, c, func(v T) bool {
			if found.Load() {
				return false
			}
			if predicate(v) {
				found.Store(true)
				ev.cancelAll()
				return false
			}
			return true
		})
		return struct{}{}, nil
	})
	if err != nil {
		return false, err
	}
	return found.Load(), nil
}

// FindFirst returns the first element in source order. Once a chunk finds an
// element, only the chunks after it are abandoned.
func (p *Pipeline[T]) FindFirst(ctx context.Context) (optional.Optional[T], error) {
	firsts, completed, err := run[T, optional.Optional[T]](ctx, p, "find_first", func(ctx context.Context, ev *evaluation[T], c chunk) (optional.Optional[T], error) {
		result := optional.Empty[T]()
		ev.each(ctx, c, func(v T) bool {
			result = optional.Of(v)
			ev.cancelAbove(c.index)
			return false
		})
		return result, nil
	})
	if err != nil {
		return optional.Empty[T](), err
	}
	for i, first := range firsts {
		if first.IsPresent() {
			return first, nil
		}
		if !completed[i] {
			// only chunks after a found element are abandoned
			break
		}
	}
	return optional.Empty[T](), nil
}

// FindAny returns whichever element is found first by any chunk and abandons
// every other chunk.
func (p *Pipeline[T]) FindAny(ctx context.Context) (optional.Optional[T], error) {
	var (
		once   sync.Once
		winner = optional.Empty[T]()
	)
	_, _, err := run[T, struct{}](ctx, p, "find_any", func(ctx context.Context, ev *evaluation[T], c chunk) (struct{}, error) {
		ev.each(ctx, c, func(v T) bool {
			once.Do(func() {
				winner = optional.Of(v)
				ev.cancelAll()
			})
			return false
		})
		return struct{}{}, nil
	})
	if err != nil {
		return optional.Empty[T](), err
	}
	return winner, nil
}

// Collect reduces every chunk with c and combines the partial accumulations
// in chunk order. c.Combiner must be associative.
func Collect[T, A, R any](ctx context.Context, p *Pipeline[T], c collectors.Collector[T, A, R]) (R, error) {
	var zero R

	parts, _, err := run[T, A](ctx, p, "collect", func(ctx context.Context, ev *evaluation[T], ch chunk) (A, error) {
		acc := c.Supplier()
		var aerr error
		ev.each(ctx, ch, func(v T) bool {
			acc, aerr = c.Accumulator(acc, v)
			return aerr == nil
		})
		return acc, aerr
	})
	if err != nil {
		return zero, err
	}
	if len(parts) == 0 {
		return c.Finisher(c.Supplier()), nil
	}

	acc := parts[0]
	for _, part := range parts[1:] {
		if acc, err = c.Combiner(acc, part); err != nil {
			return zero, err
		}
	}
	return c.Finisher(acc), nil
}
