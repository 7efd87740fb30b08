package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vnykmshr/lazyflow/internal/fixtures"
	"github.com/vnykmshr/lazyflow/pkg/fn"
	"github.com/vnykmshr/lazyflow/pkg/streaming/collectors"
	"github.com/vnykmshr/lazyflow/pkg/streaming/stream"
)

// NewTradesCommand returns the command that answers questions about the trade ledger.
func NewTradesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "trades",
		Short: "Answer questions about traders and their transactions",
		Args:  cobra.NoArgs,
		RunE:  runQueries(tradeQueries),
	}
}

func tradeQueries(s *session) []query {
	ledger := func(name string) stream.Stream[fixtures.Transaction] {
		return track(s, "trades_"+name, stream.FromSlice(fixtures.Transactions()))
	}
	traders := func(name string) stream.Stream[fixtures.Trader] {
		return stream.Map(ledger(name), func(t fixtures.Transaction) fixtures.Trader { return t.Trader })
	}
	inCambridge := func(t fixtures.Trader) bool { return t.City == "Cambridge" }
	traderName := func(t fixtures.Trader) string { return t.Name }
	value := func(t fixtures.Transaction) int { return t.Value }

	return []query{
		{"2011 transactions by value", func(ctx context.Context) (any, error) {
			return ledger("2011").
				Filter(func(t fixtures.Transaction) bool { return t.Year == 2011 }).
				Sorted(fn.Comparing(value)).
				ToSlice(ctx)
		}},
		{"cities", func(ctx context.Context) (any, error) {
			return stream.Map(traders("cities"), func(t fixtures.Trader) string { return t.City }).Distinct().ToSlice(ctx)
		}},
		{"Cambridge traders by name", func(ctx context.Context) (any, error) {
			return traders("cambridge").Filter(inCambridge).Distinct().Sorted(fn.Comparing(traderName)).ToSlice(ctx)
		}},
		{"trader names", func(ctx context.Context) (any, error) {
			names := stream.Map(traders("names"), traderName).Distinct().Sorted(fn.NaturalOrder[string]())
			return stream.Joining(ctx, names, ", ")
		}},
		{"any trader in Milan", func(ctx context.Context) (any, error) {
			return traders("milan").AnyMatch(ctx, func(t fixtures.Trader) bool { return t.City == "Milan" })
		}},
		{"Cambridge transaction values", func(ctx context.Context) (any, error) {
			cambridge := ledger("cambridge_values").Filter(func(t fixtures.Transaction) bool { return inCambridge(t.Trader) })
			return stream.Map(cambridge, value).ToSlice(ctx)
		}},
		{"highest value", func(ctx context.Context) (any, error) {
			return stream.Map(ledger("highest"), value).ReduceOptional(ctx, fn.Max[int])
		}},
		{"smallest transaction", func(ctx context.Context) (any, error) {
			return ledger("smallest").Min(ctx, fn.Comparing(value))
		}},
		{"value by year", func(ctx context.Context) (any, error) {
			return stream.Collect(ctx, ledger("by_year"),
				collectors.GroupingBy(func(t fixtures.Transaction) int { return t.Year }, collectors.Summing(value)))
		}},
		{"last transaction value by trader", func(ctx context.Context) (any, error) {
			return stream.ToMap(ctx, ledger("last_by_trader"), func(t fixtures.Transaction) string { return t.Trader.Name }, value)
		}},
	}
}
