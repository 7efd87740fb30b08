package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vnykmshr/lazyflow/pkg/common/validation"
	"github.com/vnykmshr/lazyflow/pkg/fn"
	"github.com/vnykmshr/lazyflow/pkg/scheduler"
	"github.com/vnykmshr/lazyflow/pkg/streaming/collectors"
	"github.com/vnykmshr/lazyflow/pkg/streaming/stream"
	"github.com/vnykmshr/lazyflow/pkg/workerpool"
)

// NewWordsCommand returns the command that reports word statistics of a text file.
func NewWordsCommand() *cobra.Command {
	var file, watch string

	cmd := &cobra.Command{
		Use:   "words",
		Short: "Report word statistics of a text file",
		Long: `Report word statistics of a text file.

The file is read lazily one line at a time. With --watch the report is
printed again at every activation of the cron expression until the command
is interrupted, e.g. --watch "@every 30s" or --watch "*/5 * * * *".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validation.ValidateNotEmpty("cmd", "file", file); err != nil {
				return err
			}
			if watch != "" {
				if err := scheduler.ValidateCron(watch); err != nil {
					return err
				}
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			err = s.report(ctx, wordQueries(s, file))
			if err == nil && watch != "" {
				err = s.watch(ctx, watch, wordQueries, file)
			}
			return s.close(ctx, err)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "path of the text file to read")
	cmd.Flags().StringVar(&watch, "watch", "", "cron expression on which the report is printed again")

	return cmd
}

// words splits the lines of path into words.
func words(s *session, name, path string) (stream.Stream[string], error) {
	lines, err := stream.FileLines(path)
	if err != nil {
		return nil, err
	}
	return stream.FlatMapSlice(track(s, "words_"+name, lines), strings.Fields), nil
}

func wordQueries(s *session, path string) []query {
	return []query{
		{"lines", func(ctx context.Context) (any, error) {
			lines, err := stream.FileLines(path)
			if err != nil {
				return nil, err
			}
			return track(s, "words_lines", lines).Count(ctx)
		}},
		{"words", func(ctx context.Context) (any, error) {
			all, err := words(s, "total", path)
			if err != nil {
				return nil, err
			}
			return all.Count(ctx)
		}},
		{"distinct words", func(ctx context.Context) (any, error) {
			all, err := words(s, "distinct", path)
			if err != nil {
				return nil, err
			}
			return all.Distinct().Count(ctx)
		}},
		{"longest word", func(ctx context.Context) (any, error) {
			all, err := words(s, "longest", path)
			if err != nil {
				return nil, err
			}
			return all.Max(ctx, fn.Comparing(func(w string) int { return len(w) }))
		}},
		{"most frequent word", func(ctx context.Context) (any, error) {
			all, err := words(s, "frequency", path)
			if err != nil {
				return nil, err
			}
			counts, err := stream.Collect(ctx, stream.Map(all, strings.ToLower),
				collectors.GroupingBy(fn.Identity[string](), collectors.Counting[string]()))
			if err != nil {
				return nil, err
			}
			// highest count first, ties broken alphabetically
			order := fn.Comparing(func(e lo.Entry[string, int64]) int64 { return e.Value }).
				ThenComparing(fn.Comparing(func(e lo.Entry[string, int64]) string { return e.Key }).Reversed())
			top, err := stream.FromSlice(lo.Entries(counts)).Max(ctx, order)
			if err != nil || top.IsEmpty() {
				return "", err
			}
			e := top.MustGet()
			return fmt.Sprintf("%s (%d)", e.Key, e.Value), nil
		}},
	}
}

// watch prints the report built by build on every activation of expr until
// ctx is done.
func (s *session) watch(ctx context.Context, expr string, build func(*session, string) []query, path string) error {
	// one worker keeps consecutive reports from interleaving
	pool, err := workerpool.NewWithConfig(workerpool.Config{
		WorkerCount: 1,
		QueueSize:   1,
		Name:        "watch",
		Logger:      s.log,
		Metrics:     s.metrics,
	})
	if err != nil {
		return err
	}
	defer func() { <-pool.Shutdown() }()

	sched, err := scheduler.NewWithConfig(scheduler.Config{Pool: pool, Logger: s.log})
	if err != nil {
		return err
	}

	report := workerpool.TaskFunc(func(tctx context.Context) error {
		if err := s.report(tctx, build(s, path)); err != nil {
			s.log.Error("report failed", zap.String("file", path), zap.Error(err))
			return err
		}
		return nil
	})
	if err := sched.ScheduleCron(s.command, expr, report); err != nil {
		return err
	}
	if err := sched.Start(); err != nil {
		return err
	}

	s.log.Info("watching file", zap.String("file", path), zap.String("schedule", expr))
	<-ctx.Done()
	<-sched.Stop()
	return nil
}
