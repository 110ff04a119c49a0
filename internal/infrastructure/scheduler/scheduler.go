package scheduler

import (
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Job represents a scheduled job
type Job interface {
	Run() error
	Name() string
}

// Scheduler manages background jobs
type Scheduler struct {
	cron *cron.Cron
	log  *slog.Logger
}

// New creates a new scheduler. Schedules use the standard five-field cron
// syntax plus descriptors such as "@daily" and "@every 1h".
func New(log *slog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		log:  log.With("component", "scheduler"),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("scheduler stopped")
}

// AddJob registers job under a cron schedule, for example:
//   - "0 18 * * MON-FRI" - after the close on weekdays
//   - "@daily"           - midnight
//   - "@every 30m"       - every 30 minutes
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		s.log.Debug("running job", "job", job.Name())

		if err := job.Run(); err != nil {
			s.log.Error("job failed", "job", job.Name(), "error", err)
		} else {
			s.log.Debug("job completed", "job", job.Name())
		}
	})
	if err != nil {
		return err
	}

	s.log.Info("job registered", "schedule", schedule, "job", job.Name())
	return nil
}

// RunNow executes a job immediately (outside schedule)
func (s *Scheduler) RunNow(job Job) error {
	s.log.Info("running job immediately", "job", job.Name())
	return job.Run()
}
