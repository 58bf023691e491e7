package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"rentalfleet-backend/internal/config"
	"rentalfleet-backend/internal/jobs"
	"rentalfleet-backend/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
	cfg  config.SchedulerConfig
}

// NewScheduler creates a new scheduler with the provided job runner
func NewScheduler(jobRunner *jobs.JobRunner, cfg config.SchedulerConfig) *Scheduler {
	// Create cron with UTC timezone and seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
		cfg:  cfg,
	}

	s.registerJobs()
	return s
}

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs() {
	_, err := s.cron.AddFunc(s.cfg.RecomputeMonthlyStats, s.jobs.RecomputeMonthlyStats)
	if err != nil {
		logger.Error("Failed to register RecomputeMonthlyStats job", "error", err)
	}

	_, err = s.cron.AddFunc(s.cfg.RecomputeYearlyStats, s.jobs.RecomputeYearlyStats)
	if err != nil {
		logger.Error("Failed to register RecomputeYearlyStats job", "error", err)
	}

	_, err = s.cron.AddFunc(s.cfg.ScanReminders, s.jobs.RunAllReminderJobs)
	if err != nil {
		logger.Error("Failed to register reminder scan jobs", "error", err)
	}

	logger.Info("All cron jobs registered successfully")
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// IsRunning returns true if the scheduler is running
func (s *Scheduler) IsRunning() bool {
	return len(s.cron.Entries()) > 0
}
