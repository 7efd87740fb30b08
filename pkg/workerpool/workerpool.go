package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	lferrors "github.com/vnykmshr/lazyflow/pkg/common/errors"
)

// ErrNilTask is returned when a nil task is submitted.
var ErrNilTask = errors.New("task cannot be nil")

// Submit adds a task to the pool for execution.
// The task will be executed with context.Background().
// Use SubmitWithContext to provide a custom context.
func (p *workerPool) Submit(task Task) error {
	return p.SubmitWithContext(context.Background(), task)
}

// SubmitWithContext adds a task to the pool for execution with the given context.
// The context is passed to the task's Execute method, enabling timeout and
// cancellation propagation. If the pool has a TaskTimeout configured, the
// effective timeout will be the minimum of the context deadline and TaskTimeout.
func (p *workerPool) SubmitWithContext(ctx context.Context, task Task) error {
	if task == nil {
		return ErrNilTask
	}
	if ctx == nil {
		ctx = context.Background()
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.isShutdown {
		return fmt.Errorf("cannot submit task: %w", lferrors.ErrClosed)
	}

	// Check if context is already canceled before attempting to queue
	// This ensures deterministic behavior for pre-canceled contexts
	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case p.taskQueue <- taskWithContext{task: task, ctx: ctx}:
		atomic.AddInt64(&p.totalSubmitted, 1)
		p.recordQueue()
		return nil
	case <-p.shutdownCh:
		return fmt.Errorf("cannot submit task: %w", lferrors.ErrClosed)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown initiates a graceful shutdown of the pool.
func (p *workerPool) Shutdown() <-chan struct{} {
	p.shutdownOnce.Do(func() {
		// Unblock pending submissions first, then wait for them to leave
		close(p.shutdownCh)

		p.mu.Lock()
		p.isShutdown = true
		p.mu.Unlock()

		close(p.drainCh)

		go func() {
			p.workerWg.Wait()
			close(p.done)
		}()
	})

	return p.done
}

// Size returns the number of workers in the pool.
func (p *workerPool) Size() int {
	return p.config.WorkerCount
}

// QueueSize returns the current number of queued tasks waiting for execution.
func (p *workerPool) QueueSize() int {
	return len(p.taskQueue)
}

// ActiveWorkers returns the number of workers currently executing tasks.
func (p *workerPool) ActiveWorkers() int {
	return int(atomic.LoadInt64(&p.activeWorkers))
}

// TotalSubmitted returns the total number of tasks submitted to the pool.
func (p *workerPool) TotalSubmitted() int64 {
	return atomic.LoadInt64(&p.totalSubmitted)
}

// TotalCompleted returns the total number of tasks completed by the pool.
func (p *workerPool) TotalCompleted() int64 {
	return atomic.LoadInt64(&p.totalCompleted)
}

// run is the main loop for a worker.
func (p *workerPool) run(id int) {
	defer p.workerWg.Done()

	for {
		select {
		case twc := <-p.taskQueue:
			p.executeTask(id, twc)
		case <-p.drainCh:
			// No submission can be in flight any more; finish what is queued
			for {
				select {
				case twc := <-p.taskQueue:
					p.executeTask(id, twc)
				default:
					return
				}
			}
		}
	}
}

// executeTask executes a single task with the provided context.
func (p *workerPool) executeTask(id int, twc taskWithContext) {
	atomic.AddInt64(&p.activeWorkers, 1)
	p.recordQueue()
	p.recordActive()

	if p.config.OnTaskStart != nil {
		p.config.OnTaskStart(id, twc.task)
	}

	start := time.Now()
	err := p.safeExecute(id, twc)
	result := Result{
		Task:     twc.task,
		Error:    err,
		Duration: time.Since(start),
		WorkerID: id,
	}

	atomic.AddInt64(&p.activeWorkers, -1)
	atomic.AddInt64(&p.totalCompleted, 1)
	p.recordActive()
	p.recordResult(result)

	if p.config.OnTaskComplete != nil {
		p.config.OnTaskComplete(id, result)
	}
}

// safeExecute runs the task, converting a panic into an error.
func (p *workerPool) safeExecute(id int, twc taskWithContext) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = lferrors.NewOperationError("workerpool", "execute", fmt.Errorf("task panicked: %v", r)).
				WithContext(p.config.Name)
			p.log.Error("task panicked",
				zap.String("pool", p.config.Name),
				zap.Int("worker", id),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
			if p.config.PanicHandler != nil {
				p.config.PanicHandler(twc.task, r)
			}
		}
	}()

	ctx := twc.ctx
	if p.config.TaskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.TaskTimeout)
		defer cancel()
	}

	return twc.task.Execute(ctx)
}

func (p *workerPool) recordQueue() {
	if reg := p.config.Metrics; reg != nil {
		reg.WorkerPoolQueued.WithLabelValues(p.config.Name).Set(float64(len(p.taskQueue)))
	}
}

func (p *workerPool) recordActive() {
	if reg := p.config.Metrics; reg != nil {
		reg.WorkerPoolActive.WithLabelValues(p.config.Name).Set(float64(p.ActiveWorkers()))
	}
}

func (p *workerPool) recordResult(result Result) {
	reg := p.config.Metrics
	if reg == nil {
		return
	}
	reg.TaskExecutionDuration.WithLabelValues(p.config.Name).Observe(result.Duration.Seconds())
	if result.Error != nil {
		reg.TasksFailed.WithLabelValues(p.config.Name).Inc()
	} else {
		reg.TasksCompleted.WithLabelValues(p.config.Name).Inc()
	}
}
