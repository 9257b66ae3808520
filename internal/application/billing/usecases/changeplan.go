package usecases

import (
	"context"
	"fmt"

	"readora/internal/domain/subscription"
	"readora/internal/shared/logger"
)

type ChangePlanCommand struct {
	UserID     string
	ExternalID string
	PriceID    string
}

// ChangePlanUseCase handles subscription.updated: it re-resolves the plan tier
// from the price identifier and rewrites the allowance baseline. Remaining
// sessions are deliberately untouched; a mid-cycle change only affects what
// the next reset restores.
type ChangePlanUseCase struct {
	subscriptionRepo subscription.Repository
	catalog          *subscription.Catalog
	invalidator      EntitlementInvalidator
	logger           logger.Interface
}

func NewChangePlanUseCase(
	subscriptionRepo subscription.Repository,
	catalog *subscription.Catalog,
	invalidator EntitlementInvalidator,
	logger logger.Interface,
) *ChangePlanUseCase {
	return &ChangePlanUseCase{
		subscriptionRepo: subscriptionRepo,
		catalog:          catalog,
		invalidator:      invalidator,
		logger:           logger,
	}
}

func (uc *ChangePlanUseCase) Execute(ctx context.Context, cmd ChangePlanCommand) error {
	if cmd.UserID == "" {
		return subscription.ErrMissingBuyerIdentity
	}

	tier, ok := uc.catalog.TierForPriceID(cmd.PriceID)
	if !ok {
		uc.logger.Warnw("plan change event carries unknown price ID",
			"price_id", cmd.PriceID,
			"user_id", cmd.UserID,
		)
		return subscription.ErrUnknownPriceID
	}
	allowance, _ := uc.catalog.SessionAllowance(tier)

	if err := uc.subscriptionRepo.UpdatePlan(ctx, cmd.UserID, tier, allowance, cmd.ExternalID); err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}

	uc.invalidator.Invalidate(ctx, cmd.UserID)

	uc.logger.Infow("subscription plan changed",
		"user_id", cmd.UserID,
		"plan_tier", tier.String(),
		"total_sessions", allowance,
	)
	return nil
}
