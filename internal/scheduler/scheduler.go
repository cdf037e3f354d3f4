package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/nekogravitycat/noq-backend/internal/logger"
)

// Job is a unit of scheduled work.
type Job struct {
	Name string
	// Spec is a six-field cron expression (with seconds).
	Spec string
	Run  func()
}

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron     *cron.Cron
	location *time.Location
}

// New creates a scheduler running in loc and registers jobs. An invalid spec is an error.
func New(loc *time.Location, jobs ...Job) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithSeconds(),
	)

	s := &Scheduler{cron: c, location: loc}
	if err := s.registerJobs(jobs); err != nil {
		return nil, err
	}
	return s, nil
}

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs(jobs []Job) error {
	for _, j := range jobs {
		if _, err := s.cron.AddFunc(j.Spec, j.Run); err != nil {
			logger.Error("Failed to register job", "job", j.Name, "spec", j.Spec, "error", err)
			return fmt.Errorf("register job %s: %w", j.Name, err)
		}
		logger.Info("Registered job", "job", j.Name, "spec", j.Spec)
	}
	return nil
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// IsRunning returns true if the scheduler has jobs registered
func (s *Scheduler) IsRunning() bool {
	return len(s.cron.Entries()) > 0
}

// Next returns the next activation of every registered job.
func (s *Scheduler) Next() []time.Time {
	now := time.Now().In(s.location)
	entries := s.cron.Entries()
	out := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Schedule.Next(now))
	}
	return out
}
