package cmd

import (
	"context"
	"math"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/vnykmshr/lazyflow/pkg/common/validation"
	"github.com/vnykmshr/lazyflow/pkg/fn"
	"github.com/vnykmshr/lazyflow/pkg/streaming/parallel"
	"github.com/vnykmshr/lazyflow/pkg/streaming/stream"
)

// NewNumbersCommand returns the command that runs numeric pipelines.
func NewNumbersCommand() *cobra.Command {
	var (
		inParallel bool
		upto       int
	)

	cmd := &cobra.Command{
		Use:   "numbers",
		Short: "Run numeric pipelines over ranges, generators and recurrences",
		Long: `Run numeric pipelines over ranges, generators and recurrences.

With --parallel the reductions over 1..upto are evaluated in chunks on a
worker pool of --workers goroutines.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidatePositive("cmd", "upto", upto); err != nil {
				return err
			}
			build := numberQueries
			if inParallel {
				build = func(s *session) []query { return parallelQueries(s, upto) }
			}
			return runQueries(build)(cmd, args)
		},
	}

	cmd.Flags().BoolVar(&inParallel, "parallel", false, "evaluate the reductions over 1..upto on the parallel evaluator")
	cmd.Flags().IntVar(&upto, "upto", 1000, "upper bound of the range reduced with --parallel")

	return cmd
}

func isEven(n int) bool { return n%2 == 0 }

func square(n int) int { return n * n }

func isPerfectSquare(n int) bool {
	root := int(math.Sqrt(float64(n)))
	return root*root == n
}

func numberQueries(s *session) []query {
	numbers := func(name string, values ...int) stream.Stream[int] {
		return track(s, "numbers_"+name, stream.Of(values...))
	}

	return []query{
		{"distinct even numbers", func(ctx context.Context) (any, error) {
			return numbers("distinct_even", 1, 2, 1, 3, 3, 2, 4).Filter(isEven).Distinct().ToSlice(ctx)
		}},
		{"squares", func(ctx context.Context) (any, error) {
			return numbers("squares", 1, 2, 3, 4, 5).Map(square).ToSlice(ctx)
		}},
		{"pairs", func(ctx context.Context) (any, error) {
			return stream.FlatMapSlice(numbers("pairs", 1, 2, 3), func(i int) [][2]int {
				return lo.Map([]int{3, 4}, func(j int, _ int) [2]int { return [2]int{i, j} })
			}).ToSlice(ctx)
		}},
		{"pairs with a sum divisible by 3", func(ctx context.Context) (any, error) {
			pairs := stream.FlatMap(numbers("pairs_div3", 1, 2, 3), func(i int) stream.Stream[[2]int] {
				return stream.Map(stream.Of(3, 4).Filter(func(j int) bool { return (i+j)%3 == 0 }),
					func(j int) [2]int { return [2]int{i, j} })
			})
			return pairs.ToSlice(ctx)
		}},
		{"first square divisible by 3", func(ctx context.Context) (any, error) {
			return numbers("first_square", 1, 2, 3, 4, 5).Map(square).Filter(func(n int) bool { return n%3 == 0 }).FindFirst(ctx)
		}},
		{"sum of 1..100", func(ctx context.Context) (any, error) {
			return track(s, "numbers_sum", stream.RangeClosed(1, 100)).Reduce(ctx, 0, fn.Sum[int])
		}},
		{"maximum", func(ctx context.Context) (any, error) {
			return numbers("max", 4, 5, 3, 9).ReduceOptional(ctx, fn.Max[int])
		}},
		{"minimum", func(ctx context.Context) (any, error) {
			return numbers("min", 4, 5, 3, 9).Min(ctx, fn.NaturalOrder[int]())
		}},
		{"even numbers in 1..100", func(ctx context.Context) (any, error) {
			return track(s, "numbers_evens", stream.RangeClosed(1, 100)).Filter(isEven).Count(ctx)
		}},
		{"pythagorean triples", func(ctx context.Context) (any, error) {
			triples := stream.FlatMap(track(s, "numbers_triples", stream.RangeClosed(1, 100)), func(a int) stream.Stream[[3]int] {
				bs := stream.RangeClosed(a, 100).Filter(func(b int) bool { return isPerfectSquare(a*a + b*b) })
				return stream.Map(bs, func(b int) [3]int {
					return [3]int{a, b, int(math.Sqrt(float64(a*a + b*b)))}
				})
			})
			return triples.Limit(5).ToSlice(ctx)
		}},
		{"fibonacci", func(ctx context.Context) (any, error) {
			pairs := stream.Iterate([2]int{0, 1}, func(p [2]int) [2]int { return [2]int{p[1], p[0] + p[1]} })
			return stream.Map(track(s, "numbers_fibonacci", pairs).Limit(10), func(p [2]int) int { return p[0] }).ToSlice(ctx)
		}},
		{"powers of two", func(ctx context.Context) (any, error) {
			next := 1
			powers := stream.Generate(func() int {
				v := next
				next *= 2
				return v
			})
			return track(s, "numbers_powers", powers).Limit(8).ToSlice(ctx)
		}},
		{"odd numbers below 20", func(ctx context.Context) (any, error) {
			odds := stream.Iterate(1, func(n int) int { return n + 2 })
			return track(s, "numbers_odds", odds).TakeWhile(func(n int) bool { return n < 20 }).ToSlice(ctx)
		}},
	}
}

func parallelQueries(s *session, upto int) []query {
	numbers := func(name string) *parallel.Pipeline[int] {
		return parallel.FromSlice(lo.RangeFrom(1, upto), s.parallelConfig("numbers_"+name))
	}

	return []query{
		{"sum", func(ctx context.Context) (any, error) {
			return numbers("sum").Reduce(ctx, 0, fn.Sum[int])
		}},
		{"sum of squares", func(ctx context.Context) (any, error) {
			return parallel.Map(numbers("sum_of_squares"), square).Reduce(ctx, 0, fn.Sum[int])
		}},
		{"even numbers", func(ctx context.Context) (any, error) {
			return numbers("evens").Filter(isEven).Count(ctx)
		}},
		{"first multiple of 97", func(ctx context.Context) (any, error) {
			return numbers("first_multiple").Filter(func(n int) bool { return n%97 == 0 }).FindFirst(ctx)
		}},
		{"maximum", func(ctx context.Context) (any, error) {
			return numbers("max").Max(ctx, fn.NaturalOrder[int]())
		}},
		{"all positive", func(ctx context.Context) (any, error) {
			return numbers("all_positive").AllMatch(ctx, func(n int) bool { return n > 0 })
		}},
	}
}
