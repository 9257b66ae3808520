package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"readora/internal/domain/reading"
	"readora/internal/infrastructure/persistence/models"
	"readora/internal/shared/db"
	"readora/internal/shared/logger"
)

type ReadingSessionRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewReadingSessionRepository(
	db *gorm.DB,
	logger logger.Interface,
) reading.SessionHistoryRepository {
	return &ReadingSessionRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *ReadingSessionRepositoryImpl) Append(ctx context.Context, userID, passageSID string, now time.Time) error {
	model := &models.ReadingSessionModel{
		UserID:     userID,
		PassageSID: passageSID,
		StartedAt:  now,
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to append reading session", "user_id", userID, "passage_sid", passageSID, "error", err)
		return fmt.Errorf("failed to append reading session: %w", err)
	}

	return nil
}

func (r *ReadingSessionRepositoryImpl) RecentPassageSIDs(ctx context.Context, userID string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}

	var passageSIDs []string
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.ReadingSessionModel{}).
		Where("user_id = ?", userID).
		Order("started_at DESC").
		Limit(limit).
		Pluck("passage_sid", &passageSIDs).Error
	if err != nil {
		r.logger.Errorw("failed to list recent reading sessions", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list recent reading sessions: %w", err)
	}

	return passageSIDs, nil
}
