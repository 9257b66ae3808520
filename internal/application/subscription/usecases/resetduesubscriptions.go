package usecases

import (
	"context"
	"time"

	"readora/internal/domain/subscription"
	"readora/internal/shared/logger"
)

const resetBatchSize = 200

// EntitlementInvalidator drops the cached entitlement after a quota mutation.
type EntitlementInvalidator interface {
	Invalidate(ctx context.Context, userID string)
}

// ResetDueSubscriptionsUseCase is the monthly reset sweep: restore the quota
// of every active subscription whose reset date has passed. Each reset is a
// conditional update guarded by the due date, so overlapping sweeps and
// concurrent decrements cannot double-restore or lose a period.
type ResetDueSubscriptionsUseCase struct {
	subscriptionRepo subscription.Repository
	invalidator      EntitlementInvalidator
	logger           logger.Interface
}

func NewResetDueSubscriptionsUseCase(
	subscriptionRepo subscription.Repository,
	invalidator EntitlementInvalidator,
	logger logger.Interface,
) *ResetDueSubscriptionsUseCase {
	return &ResetDueSubscriptionsUseCase{
		subscriptionRepo: subscriptionRepo,
		invalidator:      invalidator,
		logger:           logger,
	}
}

// Execute runs one sweep and returns the number of subscriptions reset.
// Per-user failures are logged and skipped; the sweep reruns on the next tick
// and the due-date guard makes retries safe.
func (uc *ResetDueSubscriptionsUseCase) Execute(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	resetCount := 0
	attempted := make(map[string]bool)

	for {
		userIDs, err := uc.subscriptionRepo.ListUserIDsDueForReset(ctx, now, resetBatchSize)
		if err != nil {
			return resetCount, err
		}

		progressed := false
		for _, userID := range userIDs {
			if attempted[userID] {
				continue
			}
			attempted[userID] = true
			progressed = true

			reset, err := uc.subscriptionRepo.ResetIfDue(ctx, userID, now)
			if err != nil {
				uc.logger.Errorw("failed to reset subscription quota",
					"user_id", userID,
					"error", err,
				)
				continue
			}
			if reset {
				resetCount++
				uc.invalidator.Invalidate(ctx, userID)
			}
		}

		// A page of only already-attempted users means nothing left to do:
		// every remaining due row failed this sweep and will be retried on
		// the next one.
		if len(userIDs) < resetBatchSize || !progressed {
			break
		}
	}

	if resetCount > 0 {
		uc.logger.Infow("subscription quota sweep completed",
			"reset_count", resetCount,
			"swept_at", now,
		)
	}
	return resetCount, nil
}
