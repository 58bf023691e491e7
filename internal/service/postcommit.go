package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"rentalfleet-backend/internal/logger"
)

// postCommitBudget bounds the detached work spawned after a transaction
// commits; a stuck renderer must not pin goroutines forever.
const postCommitBudget = 2 * time.Minute

type postCommitTask struct {
	name    string
	enabled bool
	run     func(ctx context.Context) error
}

// runPostCommit launches the enabled tasks concurrently, detached from the
// request. All tasks run to completion regardless of sibling failures;
// each failure (or panic) is logged and swallowed.
func runPostCommit(tenantID, bookingID uuid.UUID, tasks ...postCommitTask) {
	for _, t := range tasks {
		if !t.enabled {
			continue
		}
		go func(t postCommitTask) {
			ctx, cancel := context.WithTimeout(context.Background(), postCommitBudget)
			defer cancel()
			defer func() {
				if r := recover(); r != nil {
					logger.Error("post-commit task panicked",
						"task", t.name, "tenant_id", tenantID, "booking_id", bookingID, "panic", r)
				}
			}()
			if err := t.run(ctx); err != nil {
				logger.Error("post-commit task failed",
					"task", t.name, "tenant_id", tenantID, "booking_id", bookingID, "error", err)
				return
			}
			logger.Debug("post-commit task completed",
				"task", t.name, "tenant_id", tenantID, "booking_id", bookingID)
		}(t)
	}
}
