package collectors

import (
	"fmt"
	"strings"

	"github.com/vnykmshr/lazyflow/pkg/fn"
	"github.com/vnykmshr/lazyflow/pkg/optional"
)

// Counting counts elements.
func Counting[T any]() Collector[T, int64, int64] {
	return Of(
		func() int64 { return 0 },
		func(n int64, _ T) int64 { return n + 1 },
		fn.Sum[int64],
	)
}

// Summing sums mapper(v) over all elements.
func Summing[T any, N fn.Number](mapper func(T) N) Collector[T, N, N] {
	return Of(
		func() N { return 0 },
		func(sum N, v T) N { return sum + mapper(v) },
		fn.Sum[N],
	)
}

// Statistics summarizes numeric values: count, sum, min and max.
type Statistics[N fn.Number] struct {
	Count int64
	Sum   N
	Min   N
	Max   N
}

// Accept adds v to the statistics.
func (s Statistics[N]) Accept(v N) Statistics[N] {
	if s.Count == 0 {
		s.Min, s.Max = v, v
	} else {
		s.Min = min(s.Min, v)
		s.Max = max(s.Max, v)
	}
	s.Count++
	s.Sum += v
	return s
}

// Combine merges two statistics.
func (s Statistics[N]) Combine(other Statistics[N]) Statistics[N] {
	switch {
	case other.Count == 0:
		return s
	case s.Count == 0:
		return other
	}
	return Statistics[N]{
		Count: s.Count + other.Count,
		Sum:   s.Sum + other.Sum,
		Min:   min(s.Min, other.Min),
		Max:   max(s.Max, other.Max),
	}
}

// Average returns the arithmetic mean, or 0 when no value was accepted.
func (s Statistics[N]) Average() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.Sum) / float64(s.Count)
}

func (s Statistics[N]) String() string {
	return fmt.Sprintf("{count=%d, sum=%v, min=%v, average=%f, max=%v}", s.Count, s.Sum, s.Min, s.Average(), s.Max)
}

// Summarizing collects Statistics over mapper(v).
func Summarizing[T any, N fn.Number](mapper func(T) N) Collector[T, Statistics[N], Statistics[N]] {
	return Of(
		func() Statistics[N] { return Statistics[N]{} },
		func(s Statistics[N], v T) Statistics[N] { return s.Accept(mapper(v)) },
		Statistics[N].Combine,
	)
}

// Averaging computes the arithmetic mean of mapper(v). It is 0 for no elements.
func Averaging[T any, N fn.Number](mapper func(T) N) Collector[T, Statistics[N], float64] {
	return CollectingAndThen(Summarizing(mapper), Statistics[N].Average)
}

// Reducing folds elements with op starting from identity. identity must be
// neutral for op.
func Reducing[T any](identity T, op func(T, T) T) Collector[T, T, T] {
	return Of(
		func() T { return identity },
		op,
		op,
	)
}

// ReducingOptional folds elements with op. The result is empty for no elements.
func ReducingOptional[T any](op func(T, T) T) Collector[T, optional.Optional[T], optional.Optional[T]] {
	merge := func(a, b optional.Optional[T]) optional.Optional[T] {
		switch {
		case a.IsEmpty():
			return b
		case b.IsEmpty():
			return a
		}
		return optional.Of(op(a.MustGet(), b.MustGet()))
	}
	return Of(
		optional.Empty[T],
		func(acc optional.Optional[T], v T) optional.Optional[T] { return merge(acc, optional.Of(v)) },
		merge,
	)
}

// MinBy keeps the least element under compare. Among equal elements the
// first one is kept.
func MinBy[T any](compare func(a, b T) int) Collector[T, optional.Optional[T], optional.Optional[T]] {
	return ReducingOptional(fn.MinBy(fn.Comparator[T](compare)))
}

// MaxBy keeps the greatest element under compare. Among equal elements the
// first one is kept.
func MaxBy[T any](compare func(a, b T) int) Collector[T, optional.Optional[T], optional.Optional[T]] {
	return ReducingOptional(fn.MaxBy(fn.Comparator[T](compare)))
}

// Joining concatenates strings with sep between them, wrapped in prefix and suffix.
func Joining(sep, prefix, suffix string) Collector[string, []string, string] {
	return CollectingAndThen(ToSlice[string](), func(parts []string) string {
		return prefix + strings.Join(parts, sep) + suffix
	})
}
