package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/vnykmshr/lazyflow/pkg/common/validation"
	"github.com/vnykmshr/lazyflow/pkg/logger"
	"github.com/vnykmshr/lazyflow/pkg/metrics"
	"github.com/vnykmshr/lazyflow/pkg/streaming/parallel"
	"github.com/vnykmshr/lazyflow/pkg/streaming/stream"
	"github.com/vnykmshr/lazyflow/pkg/streaming/writer"
)

// query is one printed result line.
type query struct {
	title string
	run   func(ctx context.Context) (any, error)
}

// session carries what a command needs to evaluate and print its queries.
type session struct {
	command string
	started time.Time
	log     logger.Logger
	workers int

	// nil unless --metrics is set
	metrics  *metrics.Registry
	gatherer prometheus.Gatherer

	out writer.Writer
}

func newSession(cmd *cobra.Command) (*session, error) {
	log, err := logger.NewLogger(viper.GetString(logFormatConf), viper.GetString(logLevelConf))
	if err != nil {
		return nil, err
	}

	workers := viper.GetInt(workersConf)
	if err := validation.ValidatePositive("cmd", workersFlag, workers); err != nil {
		return nil, err
	}

	s := &session{
		command: cmd.Name(),
		started: time.Now(),
		log:     log.With(zap.String("command", cmd.Name())),
		workers: workers,
	}

	reg := prometheus.NewRegistry()
	s.metrics = metrics.New(metrics.Config{
		Enabled:  viper.GetBool(metricsConf),
		Registry: reg,
	})
	if s.metrics != nil {
		s.gatherer = reg
	}

	s.out, err = writer.NewWithConfig(cmd.OutOrStdout(), writer.Config{
		BufferSize: 4 * 1024,
		Name:       "stdout",
		Metrics:    s.metrics,
		OnError: func(err error) {
			s.log.Error("failed to write results", zap.Error(err))
		},
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("command started", zap.Int("workers", workers), zap.Bool("metrics", s.metrics != nil))
	return s, nil
}

// track attaches the session's metrics to a pipeline under name.
func track[T any](s *session, name string, st stream.Stream[T]) stream.Stream[T] {
	return stream.Instrument(st, name, s.metrics)
}

func (s *session) parallelConfig(name string) parallel.Config {
	return parallel.Config{
		Workers: s.workers,
		Name:    name,
		Logger:  s.log,
		Metrics: s.metrics,
	}
}

// report evaluates queries in order and prints "title: result" for each one.
func (s *session) report(ctx context.Context, queries []query) error {
	for _, q := range queries {
		v, err := q.run(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", q.title, err)
		}
		if err := s.out.WriteLine(fmt.Sprintf("%s: %v", q.title, v)); err != nil {
			return err
		}
	}
	return s.out.Flush(ctx)
}

// close prints the metrics when enabled and flushes the output.
func (s *session) close(ctx context.Context, cmdErr error) error {
	if cmdErr == nil && s.gatherer != nil {
		cmdErr = s.writeMetrics(ctx)
	}
	err := errors.Join(cmdErr, s.out.Close())

	s.log.Debug("command finished", zap.Duration("took", time.Since(s.started)), zap.Error(err))
	return err
}

func (s *session) writeMetrics(ctx context.Context) error {
	// flush first so the writer's own counters are part of the dump
	if err := s.out.Flush(ctx); err != nil {
		return err
	}

	families, err := s.gatherer.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(s.out, mf); err != nil {
			return err
		}
	}
	return nil
}

// runQueries adapts a query list to a cobra RunE.
func runQueries(build func(s *session) []query) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		return s.close(ctx, s.report(ctx, build(s)))
	}
}
