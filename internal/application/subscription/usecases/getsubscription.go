// Package usecases (subscription) serves the read side of entitlements: the
// paywall status endpoint and the monthly reset sweep.
package usecases

import (
	"context"
	"time"

	"readora/internal/domain/subscription"
	vo "readora/internal/domain/subscription/valueobjects"
	"readora/internal/infrastructure/cache"
	apperrors "readora/internal/shared/errors"
	"readora/internal/shared/logger"
)

type GetSubscriptionQuery struct {
	UserID string
}

// SubscriptionStatusResult is what the client needs to render the paywall:
// the quota snapshot plus whether a discussion could start right now.
type SubscriptionStatusResult struct {
	HasSubscription   bool
	PlanTier          string
	PlanName          string
	Status            string
	SessionsRemaining int
	TotalSessions     int
	ResetDate         time.Time
	CanStartSession   bool
}

// GetSubscriptionUseCase answers "can this user start a session?". Reads go
// through the entitlement cache; misses fall back to the database and refill
// it. The consumption path never consults this — the conditional update in
// the store is the only arbiter there, so a stale snapshot can at worst show
// an optimistic counter, never grant a session.
type GetSubscriptionUseCase struct {
	subscriptionRepo subscription.Repository
	entitlementCache cache.EntitlementCache
	catalog          *subscription.Catalog
	logger           logger.Interface
}

func NewGetSubscriptionUseCase(
	subscriptionRepo subscription.Repository,
	entitlementCache cache.EntitlementCache,
	catalog *subscription.Catalog,
	logger logger.Interface,
) *GetSubscriptionUseCase {
	return &GetSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		entitlementCache: entitlementCache,
		catalog:          catalog,
		logger:           logger,
	}
}

func (uc *GetSubscriptionUseCase) Execute(ctx context.Context, query GetSubscriptionQuery) (*SubscriptionStatusResult, error) {
	if query.UserID == "" {
		return nil, apperrors.NewValidationError("user ID is required")
	}

	if uc.entitlementCache != nil {
		cached, err := uc.entitlementCache.Get(ctx, query.UserID)
		if err != nil {
			// Cache trouble is not a reason to fail the request.
			uc.logger.Warnw("entitlement cache read failed, falling back to database",
				"user_id", query.UserID,
				"error", err,
			)
		} else if cached != nil {
			if cached.NotFound {
				return &SubscriptionStatusResult{HasSubscription: false}, nil
			}
			return uc.resultFromCache(cached), nil
		}
	}

	sub, err := uc.subscriptionRepo.GetByUserID(ctx, query.UserID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load subscription", err.Error())
	}
	if sub == nil {
		if uc.entitlementCache != nil {
			if err := uc.entitlementCache.SetNullMarker(ctx, query.UserID); err != nil {
				uc.logger.Warnw("failed to cache null marker", "user_id", query.UserID, "error", err)
			}
		}
		return &SubscriptionStatusResult{HasSubscription: false}, nil
	}

	if uc.entitlementCache != nil {
		if err := uc.entitlementCache.Set(ctx, query.UserID, &cache.CachedEntitlement{
			PlanTier:          sub.PlanTier().String(),
			SessionsRemaining: sub.SessionsRemaining(),
			TotalSessions:     sub.TotalSessions(),
			Status:            sub.Status().String(),
			ResetDate:         sub.ResetDate(),
		}); err != nil {
			uc.logger.Warnw("failed to cache entitlement", "user_id", query.UserID, "error", err)
		}
	}

	return &SubscriptionStatusResult{
		HasSubscription:   true,
		PlanTier:          sub.PlanTier().String(),
		PlanName:          uc.planName(sub.PlanTier()),
		Status:            sub.Status().String(),
		SessionsRemaining: sub.SessionsRemaining(),
		TotalSessions:     sub.TotalSessions(),
		ResetDate:         sub.ResetDate(),
		CanStartSession:   sub.CanConsumeSession(),
	}, nil
}

func (uc *GetSubscriptionUseCase) resultFromCache(cached *cache.CachedEntitlement) *SubscriptionStatusResult {
	tier := vo.PlanTier(cached.PlanTier)
	status := vo.SubscriptionStatus(cached.Status)
	return &SubscriptionStatusResult{
		HasSubscription:   true,
		PlanTier:          cached.PlanTier,
		PlanName:          uc.planName(tier),
		Status:            cached.Status,
		SessionsRemaining: cached.SessionsRemaining,
		TotalSessions:     cached.TotalSessions,
		ResetDate:         cached.ResetDate,
		CanStartSession:   status.CanConsume() && cached.SessionsRemaining > 0,
	}
}

func (uc *GetSubscriptionUseCase) planName(tier vo.PlanTier) string {
	if plan, ok := uc.catalog.Plan(tier); ok {
		return plan.Name
	}
	return tier.String()
}

// PortalBaseURL returns the payment processor's customer portal origin for the
// configured billing environment. The client appends its own checkout paths.
func PortalBaseURL(environment string) string {
	if environment == "production" {
		return "https://customer-portal.paddle.com"
	}
	return "https://sandbox-customer-portal.paddle.com"
}
