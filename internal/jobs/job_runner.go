// Package jobs holds the scheduled background work: stats recomputation and
// booking reminders. Jobs iterate active tenants; a failure for one tenant is
// logged and never stops the sweep.
package jobs

import (
	"context"

	"rentalfleet-backend/internal/domain"
	"rentalfleet-backend/internal/logger"
	"rentalfleet-backend/internal/repository"
	"rentalfleet-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs.
type JobRunner struct {
	store      repository.Store
	dispatcher *service.Dispatcher
	email      service.EmailService
}

func NewJobRunner(store repository.Store, dispatcher *service.Dispatcher, email service.EmailService) *JobRunner {
	return &JobRunner{store: store, dispatcher: dispatcher, email: email}
}

// runWithRecovery wraps job execution with panic recovery.
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllStatsJobs recomputes every aggregate (for manual execution).
func (jr *JobRunner) RunAllStatsJobs() {
	jr.RecomputeMonthlyStats()
	jr.RecomputeYearlyStats()
}

// RunAllReminderJobs runs the reminder scans (for manual execution).
func (jr *JobRunner) RunAllReminderJobs() {
	jr.ScanUnconfirmedBookings()
	jr.ScanPickupReminders()
	jr.ScanReturnReminders()
}

// forEachTenant applies fn to every active tenant, logging per-tenant errors
// and carrying on.
func (jr *JobRunner) forEachTenant(ctx context.Context, jobName string, fn func(ctx context.Context, tenant domain.Tenant) error) {
	tenants, err := jr.store.Tenants().ListActive(ctx)
	if err != nil {
		logger.Error("Failed to list active tenants", "job", jobName, "error", err)
		return
	}
	for _, t := range tenants {
		if err := fn(ctx, t); err != nil {
			logger.Error("Tenant job iteration failed", "job", jobName, "tenant_id", t.ID, "error", err)
		}
	}
}
