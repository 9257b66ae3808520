package usecases

import (
	"context"
	"fmt"

	"readora/internal/domain/subscription"
	vo "readora/internal/domain/subscription/valueobjects"
	"readora/internal/shared/logger"
)

type UpdateSubscriptionStatusCommand struct {
	UserID string
	// RawStatus is the processor's own vocabulary, e.g. "canceled".
	RawStatus string
	// Email, when present, receives a billing notice for pause/cancel.
	Email string
}

// UpdateSubscriptionStatusUseCase handles the status webhook family. Only the
// status column changes; counters and reset date stay as they are so a
// resumed subscription picks up its period where it left off.
type UpdateSubscriptionStatusUseCase struct {
	subscriptionRepo subscription.Repository
	invalidator      EntitlementInvalidator
	notifier         BillingNotifier
	logger           logger.Interface
}

// BillingNotifier sends lifecycle notices. Sending is best effort.
type BillingNotifier interface {
	SendSubscriptionPausedNotice(to string) error
	SendSubscriptionCancelledNotice(to string) error
}

func NewUpdateSubscriptionStatusUseCase(
	subscriptionRepo subscription.Repository,
	invalidator EntitlementInvalidator,
	notifier BillingNotifier,
	logger logger.Interface,
) *UpdateSubscriptionStatusUseCase {
	return &UpdateSubscriptionStatusUseCase{
		subscriptionRepo: subscriptionRepo,
		invalidator:      invalidator,
		notifier:         notifier,
		logger:           logger,
	}
}

func (uc *UpdateSubscriptionStatusUseCase) Execute(ctx context.Context, cmd UpdateSubscriptionStatusCommand) error {
	if cmd.UserID == "" {
		return subscription.ErrMissingBuyerIdentity
	}

	status, ok := vo.StatusFromProcessor(cmd.RawStatus)
	if !ok {
		// Unknown vocabulary is acknowledged but never written: writing a raw
		// status would poison every status check downstream.
		uc.logger.Warnw("ignoring unknown processor status",
			"user_id", cmd.UserID,
			"raw_status", cmd.RawStatus,
		)
		return nil
	}

	if err := uc.subscriptionRepo.UpdateStatus(ctx, cmd.UserID, status); err != nil {
		return fmt.Errorf("failed to update subscription status: %w", err)
	}

	uc.invalidator.Invalidate(ctx, cmd.UserID)
	uc.notifyStatusChange(cmd.Email, status)

	return nil
}

func (uc *UpdateSubscriptionStatusUseCase) notifyStatusChange(email string, status vo.SubscriptionStatus) {
	if uc.notifier == nil || email == "" {
		return
	}

	var err error
	switch status {
	case vo.StatusPaused:
		err = uc.notifier.SendSubscriptionPausedNotice(email)
	case vo.StatusCancelled:
		err = uc.notifier.SendSubscriptionCancelledNotice(email)
	default:
		return
	}
	if err != nil {
		uc.logger.Warnw("failed to send billing notice", "status", status.String(), "error", err)
	}
}
