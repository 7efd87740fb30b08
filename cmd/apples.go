package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vnykmshr/lazyflow/internal/fixtures"
	"github.com/vnykmshr/lazyflow/pkg/fn"
	"github.com/vnykmshr/lazyflow/pkg/streaming/stream"
)

// NewApplesCommand returns the command that filters and sorts the apple inventory.
func NewApplesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "apples",
		Short: "Filter and sort the apple inventory with composed predicates and comparators",
		Args:  cobra.NoArgs,
		RunE:  runQueries(appleQueries),
	}
}

func appleQueries(s *session) []query {
	inventory := func(name string) stream.Stream[fixtures.Apple] {
		return track(s, "apples_"+name, stream.FromSlice(fixtures.Inventory()))
	}

	isGreen := fn.Predicate[fixtures.Apple](func(a fixtures.Apple) bool { return a.Color == "green" })
	isRed := fn.Predicate[fixtures.Apple](func(a fixtures.Apple) bool { return a.Color == "red" })
	isHeavy := fn.Predicate[fixtures.Apple](func(a fixtures.Apple) bool { return a.Weight > 150 })

	byWeight := fn.Comparing(func(a fixtures.Apple) int { return a.Weight })
	byColor := fn.Comparing(func(a fixtures.Apple) string { return a.Color })

	return []query{
		{"green apples", func(ctx context.Context) (any, error) {
			return inventory("green").Filter(isGreen).ToSlice(ctx)
		}},
		{"heavy apples", func(ctx context.Context) (any, error) {
			return inventory("heavy").Filter(isHeavy).ToSlice(ctx)
		}},
		{"heavy green apples", func(ctx context.Context) (any, error) {
			return inventory("heavy_green").Filter(isGreen.And(isHeavy)).ToSlice(ctx)
		}},
		{"red or heavy apples", func(ctx context.Context) (any, error) {
			return inventory("red_or_heavy").Filter(isRed.Or(isHeavy)).ToSlice(ctx)
		}},
		{"light apples that are not red", func(ctx context.Context) (any, error) {
			return inventory("light_not_red").Filter(fn.All(isHeavy.Negate(), fn.Not(isRed))).ToSlice(ctx)
		}},
		{"by weight then color", func(ctx context.Context) (any, error) {
			return inventory("sorted").Sorted(byWeight.ThenComparing(byColor)).ToSlice(ctx)
		}},
		{"by weight descending", func(ctx context.Context) (any, error) {
			return inventory("sorted_desc").Sorted(byWeight.Reversed()).ToSlice(ctx)
		}},
		{"colors", func(ctx context.Context) (any, error) {
			return stream.Map(inventory("colors"), func(a fixtures.Apple) string { return a.Color }).Distinct().ToSlice(ctx)
		}},
		{"total weight", func(ctx context.Context) (any, error) {
			return stream.Fold(ctx, inventory("weight"), 0, func(sum int, a fixtures.Apple) int { return sum + a.Weight })
		}},
		{"heaviest apple", func(ctx context.Context) (any, error) {
			return inventory("heaviest").Max(ctx, byWeight)
		}},
	}
}
