package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vnykmshr/lazyflow/internal/fixtures"
	"github.com/vnykmshr/lazyflow/pkg/fn"
	"github.com/vnykmshr/lazyflow/pkg/optional"
	"github.com/vnykmshr/lazyflow/pkg/streaming/collectors"
	"github.com/vnykmshr/lazyflow/pkg/streaming/stream"
)

// NewMenuCommand returns the command that queries the sample menu.
func NewMenuCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Filter, slice, group and summarize the sample menu",
		Args:  cobra.NoArgs,
		RunE:  runQueries(menuQueries),
	}
}

func dishName(d fixtures.Dish) string { return d.Name }

func dishCalories(d fixtures.Dish) int { return d.Calories }

func menuQueries(s *session) []query {
	menu := func(name string) stream.Stream[fixtures.Dish] {
		return track(s, "menu_"+name, stream.FromSlice(fixtures.Menu()))
	}
	byCalories := fn.Comparing(dishCalories)
	highCalorie := func(d fixtures.Dish) bool { return d.Calories > 300 }

	return []query{
		{"low calorie dishes", func(ctx context.Context) (any, error) {
			low := menu("low_calorie").
				Filter(func(d fixtures.Dish) bool { return d.Calories < 400 }).
				Sorted(byCalories)
			return stream.Map(low, dishName).ToSlice(ctx)
		}},
		{"first three high calorie dishes", func(ctx context.Context) (any, error) {
			return stream.Map(menu("high_calorie").Filter(highCalorie).Limit(3), dishName).ToSlice(ctx)
		}},
		{"high calorie dishes after the first two", func(ctx context.Context) (any, error) {
			return stream.Map(menu("skip").Filter(highCalorie).Skip(2), dishName).ToSlice(ctx)
		}},
		{"first two meat dishes", func(ctx context.Context) (any, error) {
			meat := menu("meat").Filter(func(d fixtures.Dish) bool { return d.Type == fixtures.Meat }).Limit(2)
			return stream.Map(meat, dishName).ToSlice(ctx)
		}},
		{"vegetarian dishes", func(ctx context.Context) (any, error) {
			return menu("vegetarian").Filter(fixtures.Dish.IsVegetarian).ToSlice(ctx)
		}},
		{"has a vegetarian dish", func(ctx context.Context) (any, error) {
			return menu("any_vegetarian").AnyMatch(ctx, fixtures.Dish.IsVegetarian)
		}},
		{"all dishes under 1000 calories", func(ctx context.Context) (any, error) {
			return menu("all_healthy").AllMatch(ctx, func(d fixtures.Dish) bool { return d.Calories < 1000 })
		}},
		{"no dish of 1000 calories or more", func(ctx context.Context) (any, error) {
			return menu("none_unhealthy").NoneMatch(ctx, func(d fixtures.Dish) bool { return d.Calories >= 1000 })
		}},
		{"some vegetarian dish", func(ctx context.Context) (any, error) {
			return menu("find_vegetarian").Filter(fixtures.Dish.IsVegetarian).FindAny(ctx)
		}},
		{"number of dishes", func(ctx context.Context) (any, error) {
			return menu("count").Count(ctx)
		}},
		{"total calories", func(ctx context.Context) (any, error) {
			return stream.Sum(ctx, stream.Map(menu("total"), dishCalories))
		}},
		{"most caloric dish", func(ctx context.Context) (any, error) {
			return menu("max").Max(ctx, byCalories)
		}},
		{"calorie statistics", func(ctx context.Context) (any, error) {
			return stream.Collect(ctx, menu("statistics"), collectors.Summarizing(dishCalories))
		}},
		{"menu", func(ctx context.Context) (any, error) {
			return stream.Joining(ctx, stream.Map(menu("names"), dishName), ", ")
		}},
		{"dishes by type", func(ctx context.Context) (any, error) {
			return stream.GroupBy(ctx, menu("by_type"), fixtures.Dish.Kind)
		}},
		{"dishes by caloric level", func(ctx context.Context) (any, error) {
			return stream.GroupBy(ctx, menu("by_level"), fixtures.Dish.Level)
		}},
		{"dishes by type and caloric level", func(ctx context.Context) (any, error) {
			return stream.Collect(ctx, menu("by_type_and_level"),
				collectors.GroupingBy(fixtures.Dish.Kind, collectors.GroupingByToSlice(fixtures.Dish.Level)))
		}},
		{"number of dishes by type", func(ctx context.Context) (any, error) {
			return stream.Collect(ctx, menu("count_by_type"),
				collectors.GroupingBy(fixtures.Dish.Kind, collectors.Counting[fixtures.Dish]()))
		}},
		{"most caloric dish by type", func(ctx context.Context) (any, error) {
			mostCaloric := collectors.CollectingAndThen(collectors.MaxBy(byCalories),
				func(d optional.Optional[fixtures.Dish]) string { return optional.Map(d, dishName).OrElse("") })
			return stream.Collect(ctx, menu("max_by_type"), collectors.GroupingBy(fixtures.Dish.Kind, mostCaloric))
		}},
		{"vegetarian partition", func(ctx context.Context) (any, error) {
			return stream.PartitionBy(ctx, menu("partition"), fixtures.Dish.IsVegetarian)
		}},
	}
}
