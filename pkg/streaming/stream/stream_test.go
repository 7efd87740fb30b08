package stream

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"testing"
	"time"

	"github.com/vnykmshr/lazyflow/internal/fixtures"
	"github.com/vnykmshr/lazyflow/internal/testutil"
	lferrors "github.com/vnykmshr/lazyflow/pkg/common/errors"
	"github.com/vnykmshr/lazyflow/pkg/fn"
)

func TestFromSlice(t *testing.T) {
	stream := FromSlice([]int{1, 2, 3, 4, 5})
	defer stream.Close()

	result, err := stream.ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, result, []int{1, 2, 3, 4, 5})
}

func TestEmpty(t *testing.T) {
	result, err := Empty[int]().ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(result), 0)
	testutil.AssertEqual(t, result != nil, true)

	count, err := Empty[string]().Count(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, count, int64(0))
}

func TestFromChannel(t *testing.T) {
	ch := make(chan string, 3)
	ch <- "hello"
	ch <- "world"
	ch <- "test"
	close(ch)

	result, err := FromChannel(ch).ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, result, []string{"hello", "world", "test"})
}

func TestFromSeq(t *testing.T) {
	m := map[string]int{"b": 2, "a": 1, "c": 3}

	keys, err := FromSeq(maps.Keys(m)).Sorted(cmp.Compare[string]).ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, keys, []string{"a", "b", "c"})

	// stopping early releases the iterator
	first, err := FromSeq(slices.Values([]int{7, 8, 9})).FindFirst(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, first.MustGet(), 7)
}

func TestRange(t *testing.T) {
	tests := []struct {
		name   string
		stream Stream[int]
		want   []int
	}{
		{"half open", Range(1, 5), []int{1, 2, 3, 4}},
		{"closed", RangeClosed(1, 5), []int{1, 2, 3, 4, 5}},
		{"empty half open", Range(3, 3), []int{}},
		{"single closed", RangeClosed(3, 3), []int{3}},
		{"reversed bounds", RangeClosed(5, 1), []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.stream.ToSlice(context.Background())
			testutil.AssertNoError(t, err)
			testutil.AssertSliceEqual(t, got, tt.want)
		})
	}
}

func TestRangeClosedAtTypeLimit(t *testing.T) {
	got, err := RangeClosed[uint8](253, 255).ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, got, []uint8{253, 254, 255})
}

func TestConcat(t *testing.T) {
	got, err := Concat(Of(1, 2), Empty[int](), Of(3)).ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, got, []int{1, 2, 3})

	spent := Of(9)
	_, _ = spent.Count(context.Background())
	_, err = Concat(Of(1), spent).ToSlice(context.Background())
	testutil.AssertErrorIs(t, err, lferrors.ErrPipelineReused)
}

func TestFilter(t *testing.T) {
	result, err := FromSlice([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}).
		Filter(func(x int) bool { return x%2 == 0 }).
		ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, result, []int{2, 4, 6, 8, 10})
}

func TestMap(t *testing.T) {
	result, err := FromSlice([]int{1, 2, 3, 4, 5}).
		Map(func(x int) int { return x * 2 }).
		ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, result, []int{2, 4, 6, 8, 10})
}

func TestMapChangesType(t *testing.T) {
	result, err := Map(FromSlice([]int{1, 2, 3}), func(x int) string {
		return fmt.Sprintf("number-%d", x)
	}).ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, result, []string{"number-1", "number-2", "number-3"})
}

func TestChainedOperations(t *testing.T) {
	result, err := FromSlice([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}).
		Filter(func(x int) bool { return x%2 == 0 }). // 2, 4, 6, 8, 10
		Map(func(x int) int { return x * 3 }).        // 6, 12, 18, 24, 30
		Skip(1).                                      // 12, 18, 24, 30
		Limit(2).                                     // 12, 18
		ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, result, []int{12, 18})
}

func TestDistinct(t *testing.T) {
	result, err := FromSlice([]int{1, 2, 2, 3, 3, 3, 4, 4, 5}).
		Distinct().
		ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, result, []int{1, 2, 3, 4, 5})
}

func TestDistinctBy(t *testing.T) {
	cities, err := Map(
		DistinctBy(FromSlice(fixtures.Transactions()), func(tx fixtures.Transaction) string { return tx.Trader.City }),
		func(tx fixtures.Transaction) string { return tx.Trader.City },
	).ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, cities, []string{"Cambridge", "Milan"})
}

func TestSorted(t *testing.T) {
	result, err := FromSlice([]int{5, 2, 8, 1, 9, 3}).
		Sorted(fn.NaturalOrder[int]()).
		ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, result, []int{1, 2, 3, 5, 8, 9})
}

func TestSortedIsStable(t *testing.T) {
	byWeight := fn.Comparing(func(a fixtures.Apple) int { return a.Weight })

	result, err := FromSlice(fixtures.Inventory()).Sorted(byWeight).ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, result[2], fixtures.Apple{Weight: 155, Color: "green"})
	testutil.AssertEqual(t, result[3], fixtures.Apple{Weight: 155, Color: "red"})
}

func TestSkipAndLimit(t *testing.T) {
	tests := []struct {
		name        string
		skip, limit int64
		want        []int
	}{
		{"skip some", 2, 10, []int{3, 4, 5}},
		{"limit some", 0, 3, []int{1, 2, 3}},
		{"skip past end", 9, 10, []int{}},
		{"limit zero", 0, 0, []int{}},
		{"window", 1, 2, []int{2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Of(1, 2, 3, 4, 5).Skip(tt.skip).Limit(tt.limit).ToSlice(context.Background())
			testutil.AssertNoError(t, err)
			testutil.AssertSliceEqual(t, got, tt.want)
		})
	}
}

func TestNegativeLimitFailsAtTerminal(t *testing.T) {
	s := Of(1, 2, 3).Limit(-1)

	_, err := s.Count(context.Background())
	testutil.AssertErrorIs(t, err, lferrors.ErrInvalidConfiguration)
	testutil.AssertEqual(t, lferrors.IsValidationError(err), true)

	_, err = Of(1).Skip(-5).ToSlice(context.Background())
	testutil.AssertErrorIs(t, err, lferrors.ErrInvalidConfiguration)
}

func TestTakeWhileDropWhile(t *testing.T) {
	menu := FromSlice(fixtures.Menu()).Sorted(fn.Comparing(func(d fixtures.Dish) int { return d.Calories }))
	lowCal, err := Map(
		menu.TakeWhile(func(d fixtures.Dish) bool { return d.Calories < 320 }),
		fixtures.Dish.String,
	).ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, lowCal, []string{"season fruit", "prawns"})

	menu = FromSlice(fixtures.Menu()).Sorted(fn.Comparing(func(d fixtures.Dish) int { return d.Calories }))
	highCal, err := Map(
		menu.DropWhile(func(d fixtures.Dish) bool { return d.Calories < 530 }),
		fixtures.Dish.String,
	).ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, highCal, []string{"french fries", "pizza", "beef", "pork"})
}

func TestPeek(t *testing.T) {
	var peeked []int

	result, err := FromSlice([]int{1, 2, 3}).
		Peek(func(x int) { peeked = append(peeked, x) }).
		ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, result, []int{1, 2, 3})
	testutil.AssertSliceEqual(t, peeked, []int{1, 2, 3})
}

func TestForEach(t *testing.T) {
	var collected []int
	err := FromSlice([]int{1, 2, 3, 4, 5}).ForEach(context.Background(), func(x int) {
		collected = append(collected, x*2)
	})
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, collected, []int{2, 4, 6, 8, 10})
}

func TestReduce(t *testing.T) {
	sum, err := FromSlice([]int{1, 2, 3, 4, 5}).Reduce(context.Background(), 0, fn.Sum[int])
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, sum, 15)

	identity, err := Empty[int]().Reduce(context.Background(), 42, fn.Sum[int])
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, identity, 42)
}

func TestReduceOptional(t *testing.T) {
	product, err := Of(1, 2, 3, 4).ReduceOptional(context.Background(), func(a, b int) int { return a * b })
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, product.MustGet(), 24)

	none, err := Empty[int]().ReduceOptional(context.Background(), fn.Sum[int])
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, none.IsPresent(), false)

	_, err = none.Get()
	testutil.AssertErrorIs(t, err, lferrors.ErrEmptyValue)
}

func TestCount(t *testing.T) {
	count, err := FromSlice([]string{"a", "b", "c", "d"}).Count(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, count, int64(4))
}

func TestFindFirst(t *testing.T) {
	value, err := FromSlice([]int{10, 20, 30}).FindFirst(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, value.MustGet(), 10)

	value, err = Empty[int]().FindFirst(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, value.IsEmpty(), true)
	testutil.AssertEqual(t, value.OrElse(-1), -1)

	value, err = Of(1, 2, 3).FindAny(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, value.MustGet(), 1)
}

func TestMatching(t *testing.T) {
	isEven := func(x int) bool { return x%2 == 0 }

	tests := []struct {
		name  string
		match func(Stream[int]) (bool, error)
		input []int
		want  bool
	}{
		{"any match found", func(s Stream[int]) (bool, error) { return s.AnyMatch(context.Background(), isEven) }, []int{1, 2, 3}, true},
		{"any match missing", func(s Stream[int]) (bool, error) { return s.AnyMatch(context.Background(), isEven) }, []int{1, 3}, false},
		{"any match empty", func(s Stream[int]) (bool, error) { return s.AnyMatch(context.Background(), isEven) }, nil, false},
		{"all match", func(s Stream[int]) (bool, error) { return s.AllMatch(context.Background(), isEven) }, []int{2, 4, 6, 8}, true},
		{"all match fails", func(s Stream[int]) (bool, error) { return s.AllMatch(context.Background(), isEven) }, []int{1, 2, 3, 4}, false},
		{"all match empty", func(s Stream[int]) (bool, error) { return s.AllMatch(context.Background(), isEven) }, nil, true},
		{"none match", func(s Stream[int]) (bool, error) { return s.NoneMatch(context.Background(), isEven) }, []int{1, 3, 5, 7}, true},
		{"none match fails", func(s Stream[int]) (bool, error) { return s.NoneMatch(context.Background(), isEven) }, []int{1, 4}, false},
		{"none match empty", func(s Stream[int]) (bool, error) { return s.NoneMatch(context.Background(), isEven) }, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.match(FromSlice(tt.input))
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, got, tt.want)
		})
	}
}

func TestMinMax(t *testing.T) {
	minVal, err := FromSlice([]int{5, 2, 8, 1, 9, 3}).Min(context.Background(), cmp.Compare[int])
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, minVal.MustGet(), 1)

	maxVal, err := FromSlice([]int{5, 2, 8, 1, 9, 3}).Max(context.Background(), cmp.Compare[int])
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, maxVal.MustGet(), 9)

	none, err := Empty[int]().Max(context.Background(), cmp.Compare[int])
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, none.IsEmpty(), true)
}

func TestMinMaxKeepFirstOnTies(t *testing.T) {
	byWeight := fn.Comparing(func(a fixtures.Apple) int { return a.Weight })

	heaviest, err := FromSlice(fixtures.Inventory()).Max(context.Background(), byWeight)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, heaviest.MustGet().Color, "green")
}

func TestContextCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	stream := Generate(func() int {
		time.Sleep(50 * time.Millisecond)
		return 1
	}).Limit(100)

	_, err := stream.Count(ctx)
	testutil.AssertErrorIs(t, err, context.DeadlineExceeded)
}

func TestCanceledContextStopsChannelSource(t *testing.T) {
	ch := make(chan int)
	defer close(ch)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FromChannel(ch).ToSlice(ctx)
	testutil.AssertErrorIs(t, err, context.Canceled)
}

func TestStreamClosing(t *testing.T) {
	stream := FromSlice([]int{1, 2, 3})
	testutil.AssertEqual(t, stream.IsClosed(), false)

	testutil.AssertNoError(t, stream.Close())
	testutil.AssertEqual(t, stream.IsClosed(), true)
	testutil.AssertNoError(t, stream.Close())

	_, err := stream.Count(context.Background())
	testutil.AssertErrorIs(t, err, lferrors.ErrPipelineReused)
}

func TestConcurrentPipelines(t *testing.T) {
	results := make(chan []int, 10)

	for i := 0; i < 10; i++ {
		go func(id int) {
			result, err := FromSlice([]int{1, 2, 3, 4, 5}).
				Map(func(x int) int { return x * id }).
				Filter(func(x int) bool { return x > 0 }).
				ToSlice(context.Background())
			if err != nil {
				t.Errorf("Goroutine %d failed: %v", id, err)
				results <- nil
				return
			}
			results <- result
		}(i + 1)
	}

	for i := 0; i < 10; i++ {
		result := <-results
		testutil.AssertEqual(t, len(result), 5)
	}
}

func TestFlatMap(t *testing.T) {
	result, err := FromSlice([]int{1, 2, 3}).
		FlatMap(func(x int) Stream[int] { return FromSlice([]int{x, x}) }).
		ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, result, []int{1, 1, 2, 2, 3, 3})
}

func TestFlatMapSlice(t *testing.T) {
	words := Of("Hello", "World")
	letters, err := FlatMapSlice(words, func(w string) []string {
		out := make([]string, 0, len(w))
		for _, r := range w {
			out = append(out, string(r))
		}
		return out
	}).Distinct().ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, letters, []string{"H", "e", "l", "o", "W", "r", "d"})
}

func TestPythagoreanTriples(t *testing.T) {
	type triple struct{ a, b, c int }

	triples, err := FlatMap(RangeClosed(1, 20), func(a int) Stream[triple] {
		return Map(
			RangeClosed(a, 20).Filter(func(b int) bool {
				c2 := a*a + b*b
				for c := b; c*c <= c2; c++ {
					if c*c == c2 {
						return true
					}
				}
				return false
			}),
			func(b int) triple {
				c := b
				for c*c < a*a+b*b {
					c++
				}
				return triple{a, b, c}
			},
		)
	}).Limit(3).ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, triples, []triple{{3, 4, 5}, {5, 12, 13}, {6, 8, 10}})
}

func TestGenerateAndIterate(t *testing.T) {
	counter := 0
	generated, err := Generate(func() int {
		counter++
		return counter
	}).Limit(5).ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, generated, []int{1, 2, 3, 4, 5})

	type pair struct{ a, b int }
	fib, err := Map(
		Iterate(pair{0, 1}, func(p pair) pair { return pair{p.b, p.a + p.b} }).Limit(10),
		func(p pair) int { return p.a },
	).ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, fib, []int{0, 1, 1, 2, 3, 5, 8, 13, 21, 34})
}

// Benchmark tests
func BenchmarkStreamOperations(b *testing.B) {
	slice := make([]int, 1000)
	for i := range slice {
		slice[i] = i
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := FromSlice(slice).
			Filter(func(x int) bool { return x%2 == 0 }).
			Map(func(x int) int { return x * 2 }).
			Limit(100).
			Count(context.Background())
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkToSlice(b *testing.B) {
	slice := make([]int, 1000)
	for i := range slice {
		slice[i] = i
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := FromSlice(slice).ToSlice(context.Background()); err != nil {
			b.Fatal(err)
		}
	}
}
