package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"readora/internal/domain/reading"
	"readora/internal/infrastructure/persistence/models"
	"readora/internal/shared/db"
	"readora/internal/shared/errors"
	"readora/internal/shared/logger"
)

type BookmarkRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewBookmarkRepository(
	db *gorm.DB,
	logger logger.Interface,
) reading.BookmarkRepository {
	return &BookmarkRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *BookmarkRepositoryImpl) Add(ctx context.Context, userID, passageSID string) error {
	model := &models.BookmarkModel{
		UserID:     userID,
		PassageSID: passageSID,
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		// Re-bookmarking is a no-op, not an error.
		if errors.IsDuplicateError(err) {
			return nil
		}
		r.logger.Errorw("failed to add bookmark", "user_id", userID, "passage_sid", passageSID, "error", err)
		return fmt.Errorf("failed to add bookmark: %w", err)
	}

	return nil
}

func (r *BookmarkRepositoryImpl) Remove(ctx context.Context, userID, passageSID string) error {
	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND passage_sid = ?", userID, passageSID).
		Delete(&models.BookmarkModel{}).Error
	if err != nil {
		r.logger.Errorw("failed to remove bookmark", "user_id", userID, "passage_sid", passageSID, "error", err)
		return fmt.Errorf("failed to remove bookmark: %w", err)
	}

	return nil
}

func (r *BookmarkRepositoryImpl) ListPassageSIDs(ctx context.Context, userID string) ([]string, error) {
	var passageSIDs []string

	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.BookmarkModel{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck("passage_sid", &passageSIDs).Error
	if err != nil {
		r.logger.Errorw("failed to list bookmarks", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}

	return passageSIDs, nil
}
