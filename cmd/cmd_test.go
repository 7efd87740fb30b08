package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	lferrors "github.com/vnykmshr/lazyflow/pkg/common/errors"
)

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	viper.Reset()

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	return out.String(), err
}

func lines(output string) map[string]string {
	results := make(map[string]string)
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		title, value, ok := strings.Cut(line, ": ")
		if ok {
			results[title] = value
		}
	}
	return results
}

func TestMenuCommand(t *testing.T) {
	out, err := execute(t, context.Background(), "--log-level", "none", "menu")
	require.NoError(t, err)

	got := lines(out)
	require.Equal(t, "[season fruit prawns rice]", got["low calorie dishes"])
	require.Equal(t, "[pork beef chicken]", got["first three high calorie dishes"])
	require.Equal(t, "[chicken french fries rice pizza salmon]", got["high calorie dishes after the first two"])
	require.Equal(t, "[pork beef]", got["first two meat dishes"])
	require.Equal(t, "[french fries rice season fruit pizza]", got["vegetarian dishes"])
	require.Equal(t, "true", got["has a vegetarian dish"])
	require.Equal(t, "true", got["all dishes under 1000 calories"])
	require.Equal(t, "true", got["no dish of 1000 calories or more"])
	require.Equal(t, "Optional[french fries]", got["some vegetarian dish"])
	require.Equal(t, "9", got["number of dishes"])
	require.Equal(t, "4200", got["total calories"])
	require.Equal(t, "Optional[pork]", got["most caloric dish"])
	require.Equal(t, "{count=9, sum=4200, min=120, average=466.666667, max=800}", got["calorie statistics"])
	require.Equal(t, "pork, beef, chicken, french fries, rice, season fruit, pizza, prawns, salmon", got["menu"])
	require.Equal(t, "map[FISH:[prawns salmon] MEAT:[pork beef chicken] OTHER:[french fries rice season fruit pizza]]", got["dishes by type"])
	require.Equal(t, "map[DIET:[chicken rice season fruit prawns] FAT:[pork] NORMAL:[beef french fries pizza salmon]]", got["dishes by caloric level"])
	require.Equal(t, "map[FISH:map[DIET:[prawns] NORMAL:[salmon]] MEAT:map[DIET:[chicken] FAT:[pork] NORMAL:[beef]] OTHER:map[DIET:[rice season fruit] NORMAL:[french fries pizza]]]",
		got["dishes by type and caloric level"])
	require.Equal(t, "map[FISH:2 MEAT:3 OTHER:4]", got["number of dishes by type"])
	require.Equal(t, "map[FISH:salmon MEAT:pork OTHER:pizza]", got["most caloric dish by type"])
	require.Equal(t, "map[false:[pork beef chicken prawns salmon] true:[french fries rice season fruit pizza]]", got["vegetarian partition"])
}

func TestApplesCommand(t *testing.T) {
	out, err := execute(t, context.Background(), "--log-level", "none", "apples")
	require.NoError(t, err)

	got := lines(out)
	require.Equal(t, "[Apple{weight=80, color='green'} Apple{weight=155, color='green'}]", got["green apples"])
	require.Equal(t, "[Apple{weight=155, color='green'} Apple{weight=155, color='red'}]", got["heavy apples"])
	require.Equal(t, "[Apple{weight=155, color='green'}]", got["heavy green apples"])
	require.Equal(t, "[Apple{weight=155, color='green'} Apple{weight=155, color='red'} Apple{weight=120, color='red'}]", got["red or heavy apples"])
	require.Equal(t, "[Apple{weight=80, color='green'}]", got["light apples that are not red"])
	require.Equal(t, "[Apple{weight=80, color='green'} Apple{weight=120, color='red'} Apple{weight=155, color='green'} Apple{weight=155, color='red'}]", got["by weight then color"])
	require.Equal(t, "[Apple{weight=155, color='green'} Apple{weight=155, color='red'} Apple{weight=120, color='red'} Apple{weight=80, color='green'}]", got["by weight descending"])
	require.Equal(t, "[green red]", got["colors"])
	require.Equal(t, "510", got["total weight"])
	require.Equal(t, "Optional[Apple{weight=155, color='green'}]", got["heaviest apple"])
}

func TestTradesCommand(t *testing.T) {
	out, err := execute(t, context.Background(), "--log-level", "none", "trades")
	require.NoError(t, err)

	got := lines(out)
	require.Equal(t, "[{Trader:Brian in Cambridge, year: 2011, value:300} {Trader:Raoul in Cambridge, year: 2011, value:400}]", got["2011 transactions by value"])
	require.Equal(t, "[Cambridge Milan]", got["cities"])
	require.Equal(t, "[Trader:Alan in Cambridge Trader:Brian in Cambridge Trader:Raoul in Cambridge]", got["Cambridge traders by name"])
	require.Equal(t, "Alan, Brian, Mario, Raoul", got["trader names"])
	require.Equal(t, "true", got["any trader in Milan"])
	require.Equal(t, "[300 1000 400 950]", got["Cambridge transaction values"])
	require.Equal(t, "Optional[1000]", got["highest value"])
	require.Equal(t, "Optional[{Trader:Brian in Cambridge, year: 2011, value:300}]", got["smallest transaction"])
	require.Equal(t, "map[2011:700 2012:3360]", got["value by year"])
	require.Equal(t, "map[Alan:950 Brian:300 Mario:700 Raoul:400]", got["last transaction value by trader"])
}

func TestNumbersCommand(t *testing.T) {
	out, err := execute(t, context.Background(), "--log-level", "none", "numbers")
	require.NoError(t, err)

	got := lines(out)
	require.Equal(t, "[2 4]", got["distinct even numbers"])
	require.Equal(t, "[1 4 9 16 25]", got["squares"])
	require.Equal(t, "[[1 3] [1 4] [2 3] [2 4] [3 3] [3 4]]", got["pairs"])
	require.Equal(t, "[[2 4] [3 3]]", got["pairs with a sum divisible by 3"])
	require.Equal(t, "Optional[9]", got["first square divisible by 3"])
	require.Equal(t, "5050", got["sum of 1..100"])
	require.Equal(t, "Optional[9]", got["maximum"])
	require.Equal(t, "Optional[3]", got["minimum"])
	require.Equal(t, "50", got["even numbers in 1..100"])
	require.Equal(t, "[[3 4 5] [5 12 13] [6 8 10] [7 24 25] [8 15 17]]", got["pythagorean triples"])
	require.Equal(t, "[0 1 1 2 3 5 8 13 21 34]", got["fibonacci"])
	require.Equal(t, "[1 2 4 8 16 32 64 128]", got["powers of two"])
	require.Equal(t, "[1 3 5 7 9 11 13 15 17 19]", got["odd numbers below 20"])
}

func TestNumbersCommandParallel(t *testing.T) {
	out, err := execute(t, context.Background(), "--log-level", "none", "--workers", "3", "numbers", "--parallel", "--upto", "1000")
	require.NoError(t, err)

	got := lines(out)
	require.Equal(t, "500500", got["sum"])
	require.Equal(t, "333833500", got["sum of squares"])
	require.Equal(t, "500", got["even numbers"])
	require.Equal(t, "Optional[97]", got["first multiple of 97"])
	require.Equal(t, "Optional[1000]", got["maximum"])
	require.Equal(t, "true", got["all positive"])
}

func TestNumbersCommandRejectsInvalidFlags(t *testing.T) {
	_, err := execute(t, context.Background(), "--log-level", "none", "numbers", "--parallel", "--upto", "0")
	require.ErrorIs(t, err, lferrors.ErrInvalidConfiguration)

	_, err = execute(t, context.Background(), "--log-level", "none", "--workers", "0", "numbers")
	require.ErrorIs(t, err, lferrors.ErrInvalidConfiguration)
}

func writeText(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.txt")
	require.NoError(t, os.WriteFile(path, []byte("the quick brown fox\njumps over the lazy dog\nThe end\n"), 0o600))
	return path
}

func TestWordsCommand(t *testing.T) {
	out, err := execute(t, context.Background(), "--log-level", "none", "words", "--file", writeText(t))
	require.NoError(t, err)

	got := lines(out)
	require.Equal(t, "3", got["lines"])
	require.Equal(t, "11", got["words"])
	require.Equal(t, "10", got["distinct words"])
	require.Equal(t, "Optional[quick]", got["longest word"])
	require.Equal(t, "the (3)", got["most frequent word"])
}

func TestWordsCommandErrors(t *testing.T) {
	_, err := execute(t, context.Background(), "--log-level", "none", "words")
	require.ErrorIs(t, err, lferrors.ErrInvalidConfiguration)

	_, err = execute(t, context.Background(), "--log-level", "none", "words", "--file", filepath.Join(t.TempDir(), "missing.txt"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = execute(t, context.Background(), "--log-level", "none", "words", "--file", writeText(t), "--watch", "whenever")
	require.ErrorIs(t, err, lferrors.ErrInvalidConfiguration)
}

func TestWordsCommandWatch(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 1500*time.Millisecond)
	defer cancel()

	out, err := execute(t, ctx, "--log-level", "none", "words", "--file", writeText(t), "--watch", "@every 1s")
	require.NoError(t, err)
	require.GreaterOrEqual(t, strings.Count(out, "distinct words: 10"), 2)
}

func TestMetricsFlag(t *testing.T) {
	out, err := execute(t, context.Background(), "--log-level", "none", "--metrics", "menu")
	require.NoError(t, err)

	require.Contains(t, out, "low calorie dishes: [season fruit prawns rice]")
	require.Contains(t, out, `lazyflow_stream_operations_total{operation="to_slice",stream_name="menu_low_calorie"} 1`)
	require.Contains(t, out, `lazyflow_stream_items_processed_total{stream_name="menu_count"} 9`)
	require.Contains(t, out, "lazyflow_writer_flushes_total")
}

func TestMetricsFlagParallel(t *testing.T) {
	out, err := execute(t, context.Background(), "--log-level", "none", "--metrics", "--workers", "2", "numbers", "--parallel", "--upto", "100")
	require.NoError(t, err)

	require.Contains(t, out, `lazyflow_parallel_evaluations_total{operation="reduce",pipeline_name="numbers_sum"} 1`)
	require.Contains(t, out, "lazyflow_parallel_chunks_total")
	require.Contains(t, out, "lazyflow_workerpool_tasks_completed_total")
}

func TestEnvironmentAndConfigFile(t *testing.T) {
	t.Setenv("LAZYFLOW_METRICS_ENABLED", "true")
	out, err := execute(t, context.Background(), "--log-level", "none", "apples")
	require.NoError(t, err)
	require.Contains(t, out, "lazyflow_stream_operations_total")

	t.Setenv("LAZYFLOW_METRICS_ENABLED", "")
	config := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(config, []byte("log:\n  level: bogus\n"), 0o600))

	_, err = execute(t, context.Background(), "--config", config, "apples")
	require.ErrorContains(t, err, "unknown log level: bogus")

	_, err = execute(t, context.Background(), "--config", filepath.Join(t.TempDir(), "missing.yaml"), "apples")
	require.ErrorContains(t, err, "failed to read config")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, context.Background(), "version")
	require.NoError(t, err)
	require.Equal(t, "lazyflow version dev date unknown commit none\n", out)
}
