package stream

import (
	"context"
	"strings"

	"github.com/vnykmshr/lazyflow/pkg/fn"
	"github.com/vnykmshr/lazyflow/pkg/streaming/collectors"
	"github.com/vnykmshr/lazyflow/pkg/streaming/writer"
)

// Collect performs a mutable reduction of s with c. An accumulator error
// aborts the traversal and is returned.
func Collect[T, A, R any](ctx context.Context, s Stream[T], c collectors.Collector[T, A, R]) (R, error) {
	acc := c.Supplier()
	err := evaluate[T](ctx, s, "collect", exhaustive, func(v T) (bool, error) {
		var aerr error
		acc, aerr = c.Accumulator(acc, v)
		return aerr == nil, aerr
	})
	if err != nil {
		var zero R
		return zero, err
	}
	return c.Finisher(acc), nil
}

// Fold reduces s left to right into a value of another type, starting from
// identity. On an empty stream identity is returned unchanged.
func Fold[T, R any](ctx context.Context, s Stream[T], identity R, accumulator func(R, T) R) (R, error) {
	result := identity
	err := evaluate[T](ctx, s, "fold", exhaustive, func(v T) (bool, error) {
		result = accumulator(result, v)
		return true, nil
	})
	if err != nil {
		var zero R
		return zero, err
	}
	return result, nil
}

// Sum adds the elements of a numeric stream.
func Sum[N fn.Number](ctx context.Context, s Stream[N]) (N, error) {
	return s.Reduce(ctx, 0, fn.Sum[N])
}

// ToSet collects the distinct elements of s.
func ToSet[T comparable](ctx context.Context, s Stream[T]) (map[T]struct{}, error) {
	return Collect(ctx, s, collectors.ToSet[T]())
}

// ToMap collects s into a map. When two elements produce the same key the
// later one wins.
func ToMap[T any, K comparable, V any](ctx context.Context, s Stream[T], key func(T) K, value func(T) V) (map[K]V, error) {
	return Collect(ctx, s, collectors.ToMap(key, value))
}

// ToMapStrict collects s into a map and fails with a *errors.DuplicateKeyError
// when two elements produce the same key.
func ToMapStrict[T any, K comparable, V any](ctx context.Context, s Stream[T], key func(T) K, value func(T) V) (map[K]V, error) {
	return Collect(ctx, s, collectors.ToMapStrict(key, value))
}

// GroupBy buckets the elements of s by key in encounter order.
func GroupBy[T any, K comparable](ctx context.Context, s Stream[T], key func(T) K) (map[K][]T, error) {
	return Collect(ctx, s, collectors.GroupingByToSlice(key))
}

// PartitionBy splits the elements of s by predicate. Both keys are always present.
func PartitionBy[T any](ctx context.Context, s Stream[T], predicate func(T) bool) (map[bool][]T, error) {
	return Collect(ctx, s, collectors.PartitioningByToSlice(predicate))
}

// Joining concatenates a string stream with sep between elements.
func Joining(ctx context.Context, s Stream[string], sep string) (string, error) {
	var b strings.Builder
	first := true
	err := evaluate[string](ctx, s, "joining", exhaustive, func(v string) (bool, error) {
		if !first {
			b.WriteString(sep)
		}
		first = false
		b.WriteString(v)
		return true, nil
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// WriteTo writes one line per element of s to w, rendered by format, and
// flushes w. It returns the number of lines written.
func WriteTo[T any](ctx context.Context, s Stream[T], w writer.Writer, format func(T) string) (int64, error) {
	var lines int64
	err := evaluate[T](ctx, s, "write_to", exhaustive, func(v T) (bool, error) {
		if werr := w.WriteLine(format(v)); werr != nil {
			return false, werr
		}
		lines++
		return true, nil
	})
	if err != nil {
		return lines, err
	}
	return lines, w.Flush(ctx)
}
