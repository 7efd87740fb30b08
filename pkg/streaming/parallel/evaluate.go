package parallel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	lferrors "github.com/vnykmshr/lazyflow/pkg/common/errors"
	"github.com/vnykmshr/lazyflow/pkg/logger"
	"github.com/vnykmshr/lazyflow/pkg/workerpool"
)

// chunk is a contiguous range [start, end) of source indexes.
type chunk struct {
	index int
	start int
	end   int
}

// plan partitions [0, size) into chunks of at most chunkSize elements.
func plan(size, chunkSize int) []chunk {
	starts := lo.RangeWithSteps(0, size, chunkSize)
	chunks := make([]chunk, len(starts))
	for i, start := range starts {
		chunks[i] = chunk{index: i, start: start, end: min(start+chunkSize, size)}
	}
	return chunks
}

// evaluation is one terminal run over the chunks of a pipeline.
type evaluation[T any] struct {
	emit    emitter[T]
	chunks  []chunk
	cancels []context.CancelFunc
}

// each feeds the outputs of chunk c to yield. It stops early, returning
// false, when yield asks to stop or ctx is done.
func (e *evaluation[T]) each(ctx context.Context, c chunk, yield func(T) bool) bool {
	for i := c.start; i < c.end; i++ {
		if ctx.Err() != nil {
			return false
		}
		if !e.emit(i, yield) {
			return false
		}
	}
	return true
}

// cancelAbove abandons every chunk after chunk index.
func (e *evaluation[T]) cancelAbove(index int) {
	for _, cancel := range e.cancels[index+1:] {
		cancel()
	}
}

// cancelAll abandons every chunk.
func (e *evaluation[T]) cancelAll() {
	for _, cancel := range e.cancels {
		cancel()
	}
}

// chunkFunc computes the partial result of one chunk.
type chunkFunc[T, A any] func(ctx context.Context, ev *evaluation[T], c chunk) (A, error)

// run consumes p and evaluates body for every chunk on the worker pool.
// Partial results are returned in chunk order together with whether each
// chunk ran to its end; abandoned chunks report false.
func run[T, A any](ctx context.Context, p *Pipeline[T], op string, body chunkFunc[T, A]) (results []A, completed []bool, err error) {
	start := time.Now()
	cfg := p.config
	log := logger.OrNoop(cfg.Logger)

	defer func() {
		if reg := cfg.Metrics; reg != nil {
			reg.ParallelEvaluations.WithLabelValues(op, cfg.Name).Inc()
		}
		log.Debug("parallel evaluation finished",
			zap.String("pipeline", cfg.Name),
			zap.String("operation", op),
			zap.Duration("took", time.Since(start)),
			zap.Error(err),
		)
	}()

	emit, err := p.detach()
	if err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	pool, release, err := acquirePool(cfg)
	if err != nil {
		return nil, nil, err
	}
	defer release()

	ev := &evaluation[T]{emit: emit, chunks: plan(p.size, cfg.chunkSize(p.size))}
	ctxs := make([]context.Context, len(ev.chunks))
	ev.cancels = make([]context.CancelFunc, len(ev.chunks))
	for i := range ev.chunks {
		ctxs[i], ev.cancels[i] = context.WithCancel(ctx)
	}
	defer ev.cancelAll()

	log.Debug("scheduling chunks",
		zap.String("pipeline", cfg.Name),
		zap.String("operation", op),
		zap.Int("elements", p.size),
		zap.Int("chunks", len(ev.chunks)),
	)

	results = make([]A, len(ev.chunks))
	completed = make([]bool, len(ev.chunks))
	errs := make([]error, len(ev.chunks))

	var wg sync.WaitGroup
	for _, c := range ev.chunks {
		cctx := ctxs[c.index]
		wg.Add(1)
		task := workerpool.TaskFunc(func(tctx context.Context) error {
			defer wg.Done()
			if cctx.Err() != nil {
				skipped(cfg)
				return nil
			}
			chunkStart := time.Now()
			v, berr := protect(log, cfg.Name, c, func() (A, error) { return body(tctx, ev, c) })
			if berr == nil && tctx.Err() != nil && cctx.Err() == nil {
				// the pool's task timeout fired
				berr = tctx.Err()
			}
			results[c.index] = v
			completed[c.index] = berr == nil && cctx.Err() == nil
			errs[c.index] = berr
			if berr != nil {
				ev.cancelAll()
			}
			if reg := cfg.Metrics; reg != nil {
				reg.ParallelChunks.WithLabelValues(cfg.Name).Inc()
				reg.ParallelChunkDuration.WithLabelValues(cfg.Name).Observe(time.Since(chunkStart).Seconds())
			}
			return berr
		})
		if serr := pool.SubmitWithContext(cctx, task); serr != nil {
			wg.Done()
			if cctx.Err() != nil {
				skipped(cfg)
				continue
			}
			errs[c.index] = serr
			ev.cancelAll()
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	for _, cerr := range errs {
		if cerr != nil {
			return nil, nil, cerr
		}
	}
	return results, completed, nil
}

func skipped(cfg Config) {
	if reg := cfg.Metrics; reg != nil {
		reg.ParallelChunksSkipped.WithLabelValues(cfg.Name).Inc()
	}
}

// protect runs f, converting a panic into an *errors.OperationError.
func protect[A any](log logger.Logger, name string, c chunk, f func() (A, error)) (v A, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = lferrors.NewOperationError("parallel", "chunk", fmt.Errorf("panic: %v", r)).
				WithContext(fmt.Sprintf("%s chunk %d [%d,%d)", name, c.index, c.start, c.end))
			log.Error("chunk panicked",
				zap.String("pipeline", name),
				zap.Int("chunk", c.index),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
		}
	}()
	return f()
}

// acquirePool returns the configured pool, or a new one released by the
// returned function.
func acquirePool(cfg Config) (workerpool.Pool, func(), error) {
	if cfg.Pool != nil {
		return cfg.Pool, func() {}, nil
	}
	pool, err := workerpool.NewWithConfig(workerpool.Config{
		WorkerCount: cfg.Workers,
		QueueSize:   cfg.Workers,
		Name:        cfg.Name,
		Metrics:     cfg.Metrics,
		Logger:      cfg.Logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return pool, func() { <-pool.Shutdown() }, nil
}
