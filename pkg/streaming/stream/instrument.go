package stream

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	lferrors "github.com/vnykmshr/lazyflow/pkg/common/errors"
	"github.com/vnykmshr/lazyflow/pkg/metrics"
)

// observer records terminal evaluations of an instrumented stream.
// A nil observer records nothing.
type observer struct {
	name     string
	registry *metrics.Registry
}

func (o *observer) record(op string, err error, elapsed time.Duration) {
	if o == nil || o.registry == nil {
		return
	}
	o.registry.StreamOperations.WithLabelValues(op, o.name).Inc()
	o.registry.StreamDuration.WithLabelValues(op, o.name).Observe(elapsed.Seconds())
	if err != nil {
		o.registry.StreamErrors.WithLabelValues(op, o.name, errorType(err)).Inc()
	}
}

func errorType(err error) string {
	switch {
	case errors.Is(err, lferrors.ErrPipelineReused):
		return "reused"
	case errors.Is(err, lferrors.ErrUnboundedEvaluation):
		return "unbounded"
	case errors.Is(err, lferrors.ErrInvalidConfiguration):
		return "invalid"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "other"
	}
}

// countingSource counts every element pulled through it.
type countingSource[T any] struct {
	upstream Source[T]
	items    prometheus.Counter
}

func (s *countingSource[T]) Next(ctx context.Context) (T, bool, error) {
	v, ok, err := s.upstream.Next(ctx)
	if ok && err == nil {
		s.items.Inc()
	}
	return v, ok, err
}

func (s *countingSource[T]) Close() error    { return s.upstream.Close() }
func (s *countingSource[T]) Unbounded() bool { return isUnbounded(s.upstream) }

// Instrument returns a stream that records metrics under name in registry.
// Elements pulled through this point are counted, and every terminal operation
// evaluated on the returned stream or any stream derived from it is recorded.
// A nil registry returns a stream that records nothing.
func Instrument[T any](s Stream[T], name string, registry *metrics.Registry) Stream[T] {
	src, _, err := s.detach()
	obs := &observer{name: name, registry: registry}
	if err != nil {
		return &stream[T]{err: err, obs: obs}
	}
	if registry == nil {
		return &stream[T]{source: src}
	}
	return &stream[T]{
		source: &countingSource[T]{upstream: src, items: registry.StreamItems.WithLabelValues(name)},
		obs:    obs,
	}
}
