package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"readora/internal/domain/billing"
	"readora/internal/infrastructure/persistence/models"
	"readora/internal/shared/db"
	"readora/internal/shared/errors"
	"readora/internal/shared/logger"
)

type WebhookEventRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewWebhookEventRepository(
	db *gorm.DB,
	logger logger.Interface,
) billing.WebhookEventRepository {
	return &WebhookEventRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

// RecordOnce relies on the unique index on event_id: the insert either lands
// or fails with a duplicate key error, which is the dedup signal rather than
// a failure.
func (r *WebhookEventRepositoryImpl) RecordOnce(ctx context.Context, event billing.WebhookEvent) (bool, error) {
	model := &models.WebhookEventModel{
		EventID:    event.EventID,
		EventType:  event.EventType,
		OccurredAt: event.OccurredAt,
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			r.logger.Infow("duplicate webhook event skipped", "event_id", event.EventID, "event_type", event.EventType)
			return true, nil
		}
		r.logger.Errorw("failed to record webhook event", "event_id", event.EventID, "error", err)
		return false, fmt.Errorf("failed to record webhook event: %w", err)
	}

	return false, nil
}
