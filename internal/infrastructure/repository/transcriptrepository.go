package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"readora/internal/domain/reading"
	"readora/internal/infrastructure/persistence/mappers"
	"readora/internal/infrastructure/persistence/models"
	"readora/internal/shared/db"
	"readora/internal/shared/logger"
)

type TranscriptRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.TranscriptMapper
	logger logger.Interface
}

func NewTranscriptRepository(
	db *gorm.DB,
	logger logger.Interface,
) reading.TranscriptRepository {
	return &TranscriptRepositoryImpl{
		db:     db,
		mapper: mappers.NewTranscriptMapper(),
		logger: logger,
	}
}

func (r *TranscriptRepositoryImpl) Create(ctx context.Context, record *reading.TranscriptRecord) error {
	model, err := r.mapper.ToModel(record)
	if err != nil {
		r.logger.Errorw("failed to map transcript entity to model", "error", err)
		return fmt.Errorf("failed to map transcript: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create transcript", "user_id", record.UserID(), "error", err)
		return fmt.Errorf("failed to create transcript: %w", err)
	}

	if err := record.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set transcript ID: %w", err)
	}

	r.logger.Infow("transcript saved",
		"sid", model.SID,
		"user_id", model.UserID,
		"passage_sid", model.PassageSID,
	)
	return nil
}

func (r *TranscriptRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]*reading.TranscriptRecord, error) {
	var transcriptModels []*models.TranscriptModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&transcriptModels).Error
	if err != nil {
		r.logger.Errorw("failed to list transcripts", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list transcripts: %w", err)
	}

	return r.mapper.ToEntities(transcriptModels)
}

func (r *TranscriptRepositoryImpl) ListByPassage(ctx context.Context, userID, passageSID string) ([]*reading.TranscriptRecord, error) {
	var transcriptModels []*models.TranscriptModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND passage_sid = ?", userID, passageSID).
		Order("created_at DESC").
		Find(&transcriptModels).Error
	if err != nil {
		r.logger.Errorw("failed to list transcripts by passage", "user_id", userID, "passage_sid", passageSID, "error", err)
		return nil, fmt.Errorf("failed to list transcripts: %w", err)
	}

	return r.mapper.ToEntities(transcriptModels)
}

func (r *TranscriptRepositoryImpl) GetByCompletion(ctx context.Context, userID, completionSID string) (*reading.TranscriptRecord, error) {
	var model models.TranscriptModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND completion_sid = ?", userID, completionSID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get transcript by completion", "user_id", userID, "completion_sid", completionSID, "error", err)
		return nil, fmt.Errorf("failed to get transcript: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// DeleteOwned scopes the delete by owner in the WHERE clause, so one user can
// never delete another user's transcript no matter what SID they send.
func (r *TranscriptRepositoryImpl) DeleteOwned(ctx context.Context, userID, transcriptSID string) (bool, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND sid = ?", userID, transcriptSID).
		Delete(&models.TranscriptModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete transcript", "user_id", userID, "sid", transcriptSID, "error", result.Error)
		return false, fmt.Errorf("failed to delete transcript: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		r.logger.Infow("transcript deleted", "user_id", userID, "sid", transcriptSID)
		return true, nil
	}
	return false, nil
}
