package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/airquality-figures/internal/config"
	"github.com/i474232898/airquality-figures/internal/report"
)

// DefaultRunTimeout bounds a single job run.
const DefaultRunTimeout = 5 * time.Minute

// JobRunner runs one configured job. *report.Runner satisfies it.
type JobRunner interface {
	Run(ctx context.Context, job config.Job) (report.Output, error)
}

// Scheduler periodically regenerates the figures of configured jobs.
type Scheduler struct {
	scheduler *gocron.Scheduler
	runner    JobRunner
	jobs      []config.Job
	timeout   time.Duration
	logger    *slog.Logger
}

// New creates a new Scheduler. Jobs without an interval are never scheduled.
func New(jobs []config.Job, runner JobRunner, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		runner:    runner,
		jobs:      jobs,
		timeout:   DefaultRunTimeout,
		logger:    logger,
	}
}

// Start schedules the periodic jobs and starts the underlying scheduler.
// It returns the number of scheduled jobs.
func (s *Scheduler) Start() (int, error) {
	scheduled := 0
	for _, job := range s.jobs {
		interval, err := job.Interval()
		if err != nil {
			return scheduled, err
		}
		if interval == 0 {
			continue
		}

		job := job
		_, err = s.scheduler.Every(interval).SingletonMode().Tag(job.Name).Do(func() {
			s.run(job)
		})
		if err != nil {
			return scheduled, err
		}
		s.logger.Info("job scheduled", "job", job.Name, "every", interval)
		scheduled++
	}

	if scheduled == 0 {
		s.logger.Info("scheduler: no periodic job configured; nothing to schedule")
		return 0, nil
	}
	s.scheduler.StartAsync()
	return scheduled, nil
}

func (s *Scheduler) run(job config.Job) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	out, err := s.runner.Run(ctx, job)
	if err != nil {
		s.logger.Error("scheduled job failed", "job", job.Name, "error", err)
		return
	}
	s.logger.Info("scheduled job done", "job", job.Name, "run_id", out.RunID, "figure", out.Figure)
}

// Len returns the number of jobs known to the underlying scheduler.
func (s *Scheduler) Len() int {
	return s.scheduler.Len()
}

// Stop stops the scheduler and cancels any future runs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
