/*
Package scheduler re-runs tasks at a point in time, on a fixed interval or on
a cron schedule.

Due tasks are looked up every TickInterval and submitted to a workerpool.Pool,
so a report that is slower than its schedule never blocks the scheduling loop.

Basic Usage:

	s, err := scheduler.New()
	if err != nil {
		return err
	}
	defer func() { <-s.Stop() }()

	report := workerpool.TaskFunc(func(ctx context.Context) error {
		return printWordCount(ctx, path)
	})

	s.ScheduleCron("words", "@every 30s", report)
	s.Start()

Cron expressions are parsed by github.com/robfig/cron/v3. Five fields, six
fields with leading seconds and descriptors such as "@hourly" or "@every 5m"
are accepted. ValidateCron checks an expression without scheduling it.

Scheduling Methods:

  - Schedule runs a task once at the given time
  - ScheduleAfter runs a task once after a delay
  - ScheduleRepeating runs a task now and then every interval
  - ScheduleCron runs a task at every activation of a cron expression

Config.MaxRuns removes repeating jobs after they ran that many times.
Stop returns a channel that is closed when the loop has exited and, when the
scheduler created its own pool, all submitted tasks have finished.
*/
package scheduler
