package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"readora/internal/domain/reading"
	"readora/internal/infrastructure/persistence/mappers"
	"readora/internal/infrastructure/persistence/models"
	"readora/internal/shared/db"
	"readora/internal/shared/errors"
	"readora/internal/shared/logger"
)

type CompletionRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.CompletionMapper
	logger logger.Interface
}

func NewCompletionRepository(
	db *gorm.DB,
	logger logger.Interface,
) reading.CompletionRepository {
	return &CompletionRepositoryImpl{
		db:     db,
		mapper: mappers.NewCompletionMapper(),
		logger: logger,
	}
}

// CreateIfAbsent leans on the (user_id, passage_sid) unique index: a repeat
// completion surfaces as a duplicate key error and reports created=false
// without failing the caller.
func (r *CompletionRepositoryImpl) CreateIfAbsent(ctx context.Context, record *reading.CompletionRecord) (bool, error) {
	model := r.mapper.ToModel(record)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			r.logger.Debugw("completion already recorded",
				"user_id", record.UserID(),
				"passage_sid", record.PassageID(),
			)
			return false, nil
		}
		r.logger.Errorw("failed to create completion record", "user_id", record.UserID(), "error", err)
		return false, fmt.Errorf("failed to create completion record: %w", err)
	}

	if err := record.SetID(model.ID); err != nil {
		return false, fmt.Errorf("failed to set completion record ID: %w", err)
	}

	r.logger.Infow("passage completed for the first time",
		"user_id", record.UserID(),
		"passage_sid", record.PassageID(),
	)
	return true, nil
}

func (r *CompletionRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]*reading.CompletionRecord, error) {
	var completionModels []*models.CompletionModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&completionModels).Error
	if err != nil {
		r.logger.Errorw("failed to list completions", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list completions: %w", err)
	}

	return r.mapper.ToEntities(completionModels), nil
}

func (r *CompletionRepositoryImpl) ListPassageSIDsByUser(ctx context.Context, userID string) ([]string, error) {
	var passageSIDs []string

	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.CompletionModel{}).
		Where("user_id = ?", userID).
		Pluck("passage_sid", &passageSIDs).Error
	if err != nil {
		r.logger.Errorw("failed to list completed passage SIDs", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list completed passages: %w", err)
	}

	return passageSIDs, nil
}
