package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	lferrors "github.com/vnykmshr/lazyflow/pkg/common/errors"
	"github.com/vnykmshr/lazyflow/pkg/common/validation"
	"github.com/vnykmshr/lazyflow/pkg/logger"
	"github.com/vnykmshr/lazyflow/pkg/workerpool"
)

// Job describes a scheduled task.
type Job struct {
	ID       string
	RunAt    time.Time
	Interval time.Duration // Zero unless the job repeats on a fixed interval
	Cron     string        // Empty unless the job repeats on a cron schedule
	Runs     int
	Created  time.Time
}

// Scheduler runs tasks at a point in time, on a fixed interval or on a cron
// schedule. Due tasks are submitted to a worker pool.
type Scheduler interface {
	Schedule(id string, task workerpool.Task, runAt time.Time) error
	ScheduleAfter(id string, task workerpool.Task, delay time.Duration) error
	ScheduleRepeating(id string, task workerpool.Task, interval time.Duration) error
	ScheduleCron(id string, cronExpr string, task workerpool.Task) error

	Cancel(id string) bool
	CancelAll()
	List() []Job

	Start() error
	Stop() <-chan struct{}
}

// Config holds scheduler configuration.
type Config struct {
	// Pool runs due tasks. When nil the scheduler owns a pool of four workers.
	Pool workerpool.Pool

	// Location is used to evaluate cron expressions. Default: time.Local
	Location *time.Location

	// TickInterval is how often due tasks are looked up. Default: 50ms
	TickInterval time.Duration

	// MaxTasks bounds the number of scheduled tasks. Default: 10000
	MaxTasks int

	// MaxRuns removes a repeating job after it ran that many times (0 = unlimited).
	MaxRuns int

	Logger logger.Logger
}

// Parser accepts standard five-field expressions, an optional leading
// seconds field and descriptors such as "@hourly" or "@every 10s".
var Parser = cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ValidateCron reports whether expr is a valid cron expression.
func ValidateCron(expr string) error {
	if _, err := Parser.Parse(expr); err != nil {
		return lferrors.NewValidationError("scheduler", "cron", expr, err.Error()).
			WithHint("use five fields, six with seconds, or a descriptor such as @every 30s")
	}
	return nil
}

type scheduledTask struct {
	id           string
	task         workerpool.Task
	runAt        time.Time
	interval     time.Duration
	cronExpr     string
	cronSchedule cron.Schedule
	runs         int
	created      time.Time
}

func (t *scheduledTask) repeating() bool {
	return t.interval > 0 || t.cronSchedule != nil
}

type scheduler struct {
	pool         workerpool.Pool
	ownPool      bool
	location     *time.Location
	tickInterval time.Duration
	maxTasks     int
	maxRuns      int
	log          logger.Logger

	mu      sync.RWMutex
	tasks   map[string]*scheduledTask
	done    chan struct{}
	stopped chan struct{}
	running bool
}

// New creates a scheduler with the default configuration.
func New() (Scheduler, error) {
	return NewWithConfig(Config{})
}

// NewWithConfig creates a scheduler with a custom configuration.
func NewWithConfig(cfg Config) (Scheduler, error) {
	if err := validation.ValidateNonNegative("scheduler", "MaxRuns", int64(cfg.MaxRuns)); err != nil {
		return nil, err
	}

	pool := cfg.Pool
	ownPool := false
	if pool == nil {
		var err error
		if pool, err = workerpool.NewWithConfig(workerpool.Config{
			WorkerCount: 4,
			QueueSize:   100,
			Name:        "scheduler",
			Logger:      cfg.Logger,
		}); err != nil {
			return nil, err
		}
		ownPool = true
	}

	location := cfg.Location
	if location == nil {
		location = time.Local
	}

	tickInterval := cfg.TickInterval
	if tickInterval <= 0 {
		tickInterval = 50 * time.Millisecond
	}

	maxTasks := cfg.MaxTasks
	if maxTasks <= 0 {
		maxTasks = 10000
	}

	return &scheduler{
		pool:         pool,
		ownPool:      ownPool,
		location:     location,
		tickInterval: tickInterval,
		maxTasks:     maxTasks,
		maxRuns:      cfg.MaxRuns,
		log:          logger.OrNoop(cfg.Logger),
		tasks:        make(map[string]*scheduledTask),
		done:         make(chan struct{}),
		stopped:      make(chan struct{}),
	}, nil
}

func checkTask(id string, task workerpool.Task) error {
	if err := validation.ValidateNotEmpty("scheduler", "id", id); err != nil {
		return err
	}
	if len(id) > 255 {
		return lferrors.NewValidationError("scheduler", "id", id, "must be at most 255 characters")
	}
	if task == nil {
		return workerpool.ErrNilTask
	}
	return nil
}

// add stores t unless its id is taken or the scheduler is full.
func (s *scheduler) add(t *scheduledTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[t.id]; exists {
		return fmt.Errorf("task %q: %w", t.id, lferrors.ErrDuplicateKey)
	}
	if len(s.tasks) >= s.maxTasks {
		return lferrors.NewValidationError("scheduler", "MaxTasks", s.maxTasks, "maximum number of tasks reached")
	}

	t.created = time.Now()
	s.tasks[t.id] = t
	return nil
}

func (s *scheduler) Schedule(id string, task workerpool.Task, runAt time.Time) error {
	if err := checkTask(id, task); err != nil {
		return err
	}
	if runAt.IsZero() {
		return lferrors.NewValidationError("scheduler", "runAt", runAt, "must not be zero")
	}
	return s.add(&scheduledTask{id: id, task: task, runAt: runAt})
}

func (s *scheduler) ScheduleAfter(id string, task workerpool.Task, delay time.Duration) error {
	return s.Schedule(id, task, time.Now().Add(delay))
}

func (s *scheduler) ScheduleRepeating(id string, task workerpool.Task, interval time.Duration) error {
	if err := checkTask(id, task); err != nil {
		return err
	}
	if interval <= 0 {
		return lferrors.NewValidationError("scheduler", "interval", interval, "must be positive")
	}
	return s.add(&scheduledTask{id: id, task: task, runAt: time.Now(), interval: interval})
}

func (s *scheduler) ScheduleCron(id string, cronExpr string, task workerpool.Task) error {
	if err := checkTask(id, task); err != nil {
		return err
	}
	schedule, err := Parser.Parse(cronExpr)
	if err != nil {
		return ValidateCron(cronExpr)
	}
	return s.add(&scheduledTask{
		id:           id,
		task:         task,
		runAt:        schedule.Next(time.Now().In(s.location)),
		cronExpr:     cronExpr,
		cronSchedule: schedule,
	})
}

func (s *scheduler) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[id]; exists {
		delete(s.tasks, id)
		return true
	}
	return false
}

func (s *scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = make(map[string]*scheduledTask)
}

func (s *scheduler) List() []Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]Job, 0, len(s.tasks))
	for _, t := range s.tasks {
		jobs = append(jobs, Job{
			ID:       t.id,
			RunAt:    t.runAt,
			Interval: t.interval,
			Cron:     t.cronExpr,
			Runs:     t.runs,
			Created:  t.created,
		})
	}

	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].RunAt.Before(jobs[j].RunAt)
	})
	return jobs
}

func (s *scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-s.done:
		return fmt.Errorf("cannot start scheduler: %w", lferrors.ErrClosed)
	default:
	}
	if s.running {
		return lferrors.NewValidationError("scheduler", "state", "running", "scheduler already running").
			WithHint("call Stop() first")
	}

	s.running = true
	go s.run()
	return nil
}

// Stop ends the scheduling loop. The returned channel is closed once the loop
// has exited and, for an owned pool, every submitted task has finished.
func (s *scheduler) Stop() <-chan struct{} {
	s.mu.Lock()
	wasRunning := s.running
	s.running = false
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	s.mu.Unlock()

	out := make(chan struct{})
	go func() {
		defer close(out)
		if wasRunning {
			<-s.stopped
		}
		if s.ownPool {
			<-s.pool.Shutdown()
		}
	}()
	return out
}

func (s *scheduler) run() {
	defer close(s.stopped)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-s.done
		cancel()
	}()

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.processReadyTasks(ctx, now)
		}
	}
}

type dueTask struct {
	id   string
	task workerpool.Task
	run  int
}

func (s *scheduler) processReadyTasks(ctx context.Context, now time.Time) {
	s.mu.Lock()
	ready := make([]dueTask, 0, len(s.tasks))
	for id, t := range s.tasks {
		if t.runAt.After(now) {
			continue
		}
		t.runs++
		ready = append(ready, dueTask{id: t.id, task: t.task, run: t.runs})

		switch {
		case !t.repeating(), s.maxRuns > 0 && t.runs >= s.maxRuns:
			delete(s.tasks, id)
		case t.interval > 0:
			t.runAt = now.Add(t.interval)
		default:
			t.runAt = t.cronSchedule.Next(now.In(s.location))
		}
	}
	s.mu.Unlock()

	for _, t := range ready {
		if err := s.pool.SubmitWithContext(ctx, t.task); err != nil {
			s.log.Warn("scheduled task not submitted",
				zap.String("task", t.id),
				zap.Error(err),
			)
			continue
		}
		s.log.Debug("scheduled task submitted",
			zap.String("task", t.id),
			zap.Int("run", t.run),
		)
	}
}
