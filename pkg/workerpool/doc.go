/*
Package workerpool provides the fixed-size worker pool that runs parallel chunk evaluation.

A worker pool manages a fixed number of worker goroutines that execute tasks
concurrently. The parallel package submits one task per chunk of its input and
waits for them itself; the pool only bounds concurrency.

Basic usage:

	pool, err := workerpool.New(4, 100) // 4 workers, queue size 100
	if err != nil {
		return err
	}
	defer pool.Shutdown()

	var wg sync.WaitGroup
	wg.Add(1)
	_ = pool.Submit(workerpool.TaskFunc(func(ctx context.Context) error {
		defer wg.Done()
		return nil
	}))
	wg.Wait()

Configuration:

	config := workerpool.Config{
		WorkerCount: 8,
		QueueSize:   16,
		TaskTimeout: 30 * time.Second,
		Logger:      log,
		OnTaskComplete: func(workerID int, result workerpool.Result) {
			if result.Error != nil {
				log.Warn("task failed", zap.Error(result.Error))
			}
		},
	}
	pool, err := workerpool.NewWithConfig(config)

Panics:

A panicking task does not take its worker down. The panic is logged, handed
to Config.PanicHandler and reported as the task's error.

Shutdown:

Shutdown stops accepting tasks, lets the workers finish everything already
queued and closes the returned channel once they have exited:

	<-pool.Shutdown()

Metrics:

NewWithMetrics records pool size, active workers, queue length and task
durations under the given pool name:

	pool, err := workerpool.NewWithMetrics(workerpool.DefaultConfig(), "numbers", metrics.Default())
*/
package workerpool
