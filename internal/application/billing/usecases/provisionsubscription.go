package usecases

import (
	"context"
	"fmt"
	"time"

	"readora/internal/domain/subscription"
	"readora/internal/shared/logger"
)

type ProvisionSubscriptionCommand struct {
	UserID     string
	ExternalID string
	PriceID    string
}

// ProvisionSubscriptionUseCase handles the provisioning webhook family:
// subscription.created and subscription.activated. Both grant a full quota
// for the plan resolved from the price identifier, upserted on user identity
// so replays and re-activations converge on one row.
type ProvisionSubscriptionUseCase struct {
	subscriptionRepo subscription.Repository
	catalog          *subscription.Catalog
	invalidator      EntitlementInvalidator
	logger           logger.Interface
}

func NewProvisionSubscriptionUseCase(
	subscriptionRepo subscription.Repository,
	catalog *subscription.Catalog,
	invalidator EntitlementInvalidator,
	logger logger.Interface,
) *ProvisionSubscriptionUseCase {
	return &ProvisionSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		catalog:          catalog,
		invalidator:      invalidator,
		logger:           logger,
	}
}

func (uc *ProvisionSubscriptionUseCase) Execute(ctx context.Context, cmd ProvisionSubscriptionCommand) error {
	if cmd.UserID == "" {
		return subscription.ErrMissingBuyerIdentity
	}

	tier, ok := uc.catalog.TierForPriceID(cmd.PriceID)
	if !ok {
		uc.logger.Warnw("provisioning event carries unknown price ID",
			"price_id", cmd.PriceID,
			"user_id", cmd.UserID,
		)
		return subscription.ErrUnknownPriceID
	}
	allowance, _ := uc.catalog.SessionAllowance(tier)

	sub, err := subscription.NewSubscription(cmd.UserID, cmd.ExternalID, tier, allowance, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to build subscription: %w", err)
	}

	if err := uc.subscriptionRepo.UpsertOnProvision(ctx, sub); err != nil {
		return fmt.Errorf("failed to provision subscription: %w", err)
	}

	uc.invalidator.Invalidate(ctx, cmd.UserID)

	uc.logger.Infow("subscription provisioned",
		"user_id", cmd.UserID,
		"plan_tier", tier.String(),
		"sessions", allowance,
	)
	return nil
}
