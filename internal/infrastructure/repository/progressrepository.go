package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"readora/internal/domain/reading"
	"readora/internal/infrastructure/persistence/mappers"
	"readora/internal/infrastructure/persistence/models"
	"readora/internal/shared/db"
	"readora/internal/shared/logger"
)

type ProgressRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.ProgressMapper
	logger logger.Interface
}

func NewProgressRepository(
	db *gorm.DB,
	logger logger.Interface,
) reading.ProgressRepository {
	return &ProgressRepositoryImpl{
		db:     db,
		mapper: mappers.NewProgressMapper(),
		logger: logger,
	}
}

func (r *ProgressRepositoryImpl) GetByUserID(ctx context.Context, userID string) (*reading.Progress, error) {
	var model models.ProgressModel

	if err := db.GetTxFromContext(ctx, r.db).Where("user_id = ?", userID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get reading progress", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get reading progress: %w", err)
	}

	return r.mapper.ToEntity(&model), nil
}

func (r *ProgressRepositoryImpl) Create(ctx context.Context, progress *reading.Progress) error {
	model := r.mapper.ToModel(progress)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create reading progress", "user_id", progress.UserID(), "error", err)
		return fmt.Errorf("failed to create reading progress: %w", err)
	}

	if err := progress.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set progress ID: %w", err)
	}

	r.logger.Infow("reading progress created", "user_id", model.UserID, "grade_level", model.GradeLevel)
	return nil
}

func (r *ProgressRepositoryImpl) Update(ctx context.Context, progress *reading.Progress) error {
	model := r.mapper.ToModel(progress)

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.ProgressModel{}).
		Where("user_id = ?", progress.UserID()).
		Updates(map[string]interface{}{
			"student_name":          model.StudentName,
			"grade_level":           model.GradeLevel,
			"reading_streak":        model.ReadingStreak,
			"total_reading_minutes": model.TotalReadingMinutes,
			"last_read_date":        model.LastReadDate,
			"last_active_date":      model.LastActiveDate,
			"updated_at":            model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update reading progress", "user_id", progress.UserID(), "error", result.Error)
		return fmt.Errorf("failed to update reading progress: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("reading progress not found for user %s", progress.UserID())
	}

	return nil
}

func (r *ProgressRepositoryImpl) TouchLastActive(ctx context.Context, userID string, now time.Time) error {
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.ProgressModel{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"last_active_date": now,
			"updated_at":       now,
		}).Error
	if err != nil {
		r.logger.Errorw("failed to touch last active date", "user_id", userID, "error", err)
		return fmt.Errorf("failed to touch last active date: %w", err)
	}

	return nil
}
