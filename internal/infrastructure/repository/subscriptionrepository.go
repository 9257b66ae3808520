package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"readora/internal/domain/subscription"
	vo "readora/internal/domain/subscription/valueobjects"
	"readora/internal/infrastructure/persistence/mappers"
	"readora/internal/infrastructure/persistence/models"
	"readora/internal/shared/db"
	"readora/internal/shared/logger"
)

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.SubscriptionMapper
	logger logger.Interface
}

func NewSubscriptionRepository(
	db *gorm.DB,
	logger logger.Interface,
) subscription.Repository {
	return &SubscriptionRepositoryImpl{
		db:     db,
		mapper: mappers.NewSubscriptionMapper(),
		logger: logger,
	}
}

func (r *SubscriptionRepositoryImpl) GetByUserID(ctx context.Context, userID string) (*subscription.Subscription, error) {
	var model models.SubscriptionModel

	if err := db.GetTxFromContext(ctx, r.db).Where("user_id = ?", userID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get subscription by user ID", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		r.logger.Errorw("failed to map subscription model to entity", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to map subscription: %w", err)
	}

	return entity, nil
}

// UpsertOnProvision writes the full provisioned state in one statement keyed
// on user_id, so replaying the same provisioning event converges on the same
// row instead of erroring or duplicating.
func (r *SubscriptionRepositoryImpl) UpsertOnProvision(ctx context.Context, sub *subscription.Subscription) error {
	model := r.mapper.ToModel(sub)

	err := db.GetTxFromContext(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"external_id", "plan_tier", "sessions_remaining",
			"total_sessions", "status", "reset_date", "updated_at",
		}),
	}).Create(model).Error
	if err != nil {
		r.logger.Errorw("failed to upsert subscription", "user_id", sub.UserID(), "error", err)
		return fmt.Errorf("failed to upsert subscription: %w", err)
	}

	r.logger.Infow("subscription provisioned",
		"user_id", sub.UserID(),
		"plan_tier", sub.PlanTier().String(),
		"total_sessions", sub.TotalSessions(),
	)
	return nil
}

func (r *SubscriptionRepositoryImpl) UpdatePlan(ctx context.Context, userID string, tier vo.PlanTier, totalSessions int, externalID string) error {
	updates := map[string]interface{}{
		"plan_tier":      tier.String(),
		"total_sessions": totalSessions,
		"updated_at":     time.Now().UTC(),
	}
	if externalID != "" {
		updates["external_id"] = externalID
	}

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.SubscriptionModel{}).
		Where("user_id = ?", userID).
		Updates(updates)
	if result.Error != nil {
		r.logger.Errorw("failed to update subscription plan", "user_id", userID, "error", result.Error)
		return fmt.Errorf("failed to update subscription plan: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return subscription.ErrNotFound
	}

	r.logger.Infow("subscription plan updated",
		"user_id", userID,
		"plan_tier", tier.String(),
		"total_sessions", totalSessions,
	)
	return nil
}

func (r *SubscriptionRepositoryImpl) UpdateStatus(ctx context.Context, userID string, status vo.SubscriptionStatus) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.SubscriptionModel{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"status":     status.String(),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update subscription status", "user_id", userID, "error", result.Error)
		return fmt.Errorf("failed to update subscription status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return subscription.ErrNotFound
	}

	r.logger.Infow("subscription status updated", "user_id", userID, "status", status.String())
	return nil
}

// TryDecrementSessions is the concurrency-critical consumption path: a single
// conditional UPDATE whose WHERE clause is the entire quota check. The
// database serializes racing callers on the row, so RowsAffected tells us
// authoritatively whether this caller won a session. No read-then-write.
func (r *SubscriptionRepositoryImpl) TryDecrementSessions(ctx context.Context, userID string) (subscription.DecrementResult, error) {
	conn := db.GetTxFromContext(ctx, r.db)

	result := conn.
		Model(&models.SubscriptionModel{}).
		Where("user_id = ? AND status = ? AND sessions_remaining > 0", userID, vo.StatusActive.String()).
		Updates(map[string]interface{}{
			"sessions_remaining": gorm.Expr("sessions_remaining - 1"),
			"updated_at":         time.Now().UTC(),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to decrement sessions", "user_id", userID, "error", result.Error)
		return subscription.DecrementInsufficient, fmt.Errorf("failed to decrement sessions: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		r.logger.Infow("session consumed", "user_id", userID)
		return subscription.DecrementSuccess, nil
	}

	// The guard rejected the update; distinguish a missing row from an
	// exhausted or inactive one for the caller's error mapping.
	var count int64
	if err := conn.Model(&models.SubscriptionModel{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		r.logger.Errorw("failed to check subscription existence", "user_id", userID, "error", err)
		return subscription.DecrementInsufficient, fmt.Errorf("failed to check subscription: %w", err)
	}
	if count == 0 {
		return subscription.DecrementAbsent, nil
	}

	return subscription.DecrementInsufficient, nil
}

// ResetIfDue restores the quota with the same conditional-update discipline as
// the decrement: the due check lives in the WHERE clause, so a racing webhook
// or a second sweep worker cannot double-apply a reset for the same period.
func (r *SubscriptionRepositoryImpl) ResetIfDue(ctx context.Context, userID string, now time.Time) (bool, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.SubscriptionModel{}).
		Where("user_id = ? AND status = ? AND reset_date <= ?", userID, vo.StatusActive.String(), now).
		Updates(map[string]interface{}{
			"sessions_remaining": gorm.Expr("total_sessions"),
			"reset_date":         subscription.NextResetDate(now),
			"updated_at":         now,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to reset subscription quota", "user_id", userID, "error", result.Error)
		return false, fmt.Errorf("failed to reset subscription quota: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		r.logger.Infow("subscription quota reset", "user_id", userID, "next_reset", subscription.NextResetDate(now))
		return true, nil
	}
	return false, nil
}

func (r *SubscriptionRepositoryImpl) ListUserIDsDueForReset(ctx context.Context, now time.Time, limit int) ([]string, error) {
	var userIDs []string

	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.SubscriptionModel{}).
		Where("status = ? AND reset_date <= ?", vo.StatusActive.String(), now).
		Order("reset_date ASC").
		Limit(limit).
		Pluck("user_id", &userIDs).Error
	if err != nil {
		r.logger.Errorw("failed to list subscriptions due for reset", "error", err)
		return nil, fmt.Errorf("failed to list subscriptions due for reset: %w", err)
	}

	return userIDs, nil
}
