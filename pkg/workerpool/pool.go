package workerpool

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/vnykmshr/lazyflow/pkg/common/validation"
	"github.com/vnykmshr/lazyflow/pkg/logger"
	"github.com/vnykmshr/lazyflow/pkg/metrics"
)

// Task represents a unit of work that can be executed by a worker.
type Task interface {
	// Execute runs the task with the given context.
	// It should respect context cancellation and return any error encountered.
	Execute(ctx context.Context) error
}

// TaskFunc is a function type that implements the Task interface.
type TaskFunc func(ctx context.Context) error

// Execute implements the Task interface for TaskFunc.
func (f TaskFunc) Execute(ctx context.Context) error {
	return f(ctx)
}

// Result describes a finished task. It is passed to Config.OnTaskComplete.
type Result struct {
	// Task is the original task that was executed
	Task Task

	// Error is any error returned by the task, or the recovered panic
	Error error

	// Duration is how long the task took to execute
	Duration time.Duration

	// WorkerID identifies which worker executed the task
	WorkerID int
}

// Pool executes tasks on a fixed set of workers.
type Pool interface {
	// Submit adds a task to the pool for execution.
	// Returns an error if the pool is shut down or if the task cannot be queued.
	Submit(task Task) error

	// SubmitWithContext submits a task with a context for cancellation.
	// The context bounds queuing and is passed to the task's Execute method.
	SubmitWithContext(ctx context.Context, task Task) error

	// Shutdown initiates a graceful shutdown of the pool.
	// No new tasks will be accepted, but queued tasks will be completed.
	// Returns a channel that closes when shutdown is complete.
	Shutdown() <-chan struct{}

	// Size returns the number of workers in the pool.
	Size() int

	// QueueSize returns the current number of queued tasks waiting for execution.
	QueueSize() int

	// ActiveWorkers returns the number of workers currently executing tasks.
	ActiveWorkers() int

	// TotalSubmitted returns the total number of tasks submitted to the pool.
	TotalSubmitted() int64

	// TotalCompleted returns the total number of tasks completed by the pool.
	TotalCompleted() int64
}

// Config holds configuration options for creating a worker pool.
type Config struct {
	// WorkerCount is the number of workers in the pool.
	// Must be greater than 0.
	WorkerCount int

	// QueueSize is the number of tasks that can wait for a worker.
	// Zero means Submit blocks until a worker takes the task.
	QueueSize int

	// TaskTimeout bounds the execution of every task. Zero means no timeout.
	TaskTimeout time.Duration

	// Name labels the pool in metrics and logs.
	Name string

	// Metrics records pool gauges and task durations when set.
	Metrics *metrics.Registry

	// Logger receives task panics. Defaults to a no-op logger.
	Logger logger.Logger

	// PanicHandler is called when a task panics. The panic is still
	// reported as the task's error.
	PanicHandler func(task Task, recovered interface{})

	// OnTaskStart is called before a task begins execution.
	OnTaskStart func(workerID int, task Task)

	// OnTaskComplete is called after a task completes (success or failure).
	OnTaskComplete func(workerID int, result Result)
}

// DefaultConfig returns a configuration with one worker per CPU.
func DefaultConfig() Config {
	workers := runtime.GOMAXPROCS(0)
	return Config{
		WorkerCount: workers,
		QueueSize:   workers * 2,
		Name:        "default",
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := validation.ValidatePositive("workerpool", "WorkerCount", c.WorkerCount); err != nil {
		return err
	}
	return validation.ValidateNonNegative("workerpool", "QueueSize", int64(c.QueueSize))
}

// taskWithContext pairs a queued task with its submission context.
type taskWithContext struct {
	task Task
	ctx  context.Context
}

// workerPool implements the Pool interface.
type workerPool struct {
	config Config
	log    logger.Logger

	taskQueue chan taskWithContext

	// shutdownCh stops submissions, drainCh tells workers to finish the queue
	shutdownCh   chan struct{}
	drainCh      chan struct{}
	done         chan struct{}
	shutdownOnce sync.Once

	// State tracking
	mu             sync.RWMutex
	isShutdown     bool
	activeWorkers  int64 // atomic
	totalSubmitted int64 // atomic
	totalCompleted int64 // atomic

	workerWg sync.WaitGroup
}

// New creates a worker pool with the specified number of workers and queue size.
func New(workerCount, queueSize int) (Pool, error) {
	return NewWithConfig(Config{
		WorkerCount: workerCount,
		QueueSize:   queueSize,
	})
}

// NewWithMetrics creates a worker pool that records its activity under name.
func NewWithMetrics(config Config, name string, registry *metrics.Registry) (Pool, error) {
	config.Name = name
	config.Metrics = registry
	return NewWithConfig(config)
}

// NewWithConfig creates a worker pool with the specified configuration.
func NewWithConfig(config Config) (Pool, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Name == "" {
		config.Name = "default"
	}

	pool := &workerPool{
		config:     config,
		log:        logger.OrNoop(config.Logger),
		taskQueue:  make(chan taskWithContext, config.QueueSize),
		shutdownCh: make(chan struct{}),
		drainCh:    make(chan struct{}),
		done:       make(chan struct{}),
	}

	if reg := config.Metrics; reg != nil {
		reg.WorkerPoolSize.WithLabelValues(config.Name).Set(float64(config.WorkerCount))
	}

	for i := 0; i < config.WorkerCount; i++ {
		pool.workerWg.Add(1)
		go pool.run(i)
	}

	return pool, nil
}
