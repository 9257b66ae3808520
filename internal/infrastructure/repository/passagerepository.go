package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"readora/internal/domain/reading"
	"readora/internal/infrastructure/persistence/mappers"
	"readora/internal/infrastructure/persistence/models"
	"readora/internal/shared/db"
	"readora/internal/shared/logger"
)

const (
	defaultPassagePageSize = 20
	maxPassagePageSize     = 100
)

type PassageRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.PassageMapper
	logger logger.Interface
}

func NewPassageRepository(
	db *gorm.DB,
	logger logger.Interface,
) reading.PassageRepository {
	return &PassageRepositoryImpl{
		db:     db,
		mapper: mappers.NewPassageMapper(),
		logger: logger,
	}
}

func (r *PassageRepositoryImpl) Create(ctx context.Context, passage *reading.Passage) error {
	model := r.mapper.ToModel(passage)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create passage", "title", passage.Title(), "error", err)
		return fmt.Errorf("failed to create passage: %w", err)
	}

	if err := passage.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set passage ID: %w", err)
	}

	r.logger.Infow("passage created", "sid", model.SID, "title", model.Title)
	return nil
}

func (r *PassageRepositoryImpl) GetBySID(ctx context.Context, sid string) (*reading.Passage, error) {
	var model models.PassageModel

	if err := db.GetTxFromContext(ctx, r.db).Where("sid = ?", sid).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get passage by SID", "sid", sid, "error", err)
		return nil, fmt.Errorf("failed to get passage: %w", err)
	}

	return r.mapper.ToEntity(&model), nil
}

func (r *PassageRepositoryImpl) List(ctx context.Context, filter reading.PassageFilter) ([]*reading.Passage, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.PassageModel{})

	if len(filter.GradeLevels) > 0 {
		query = query.Where("grade_level IN ?", filter.GradeLevels)
	}
	if len(filter.LessonTypes) > 0 {
		query = query.Where("lesson_type IN ?", filter.LessonTypes)
	}
	if filter.Subject != "" {
		pattern := "%" + strings.ToLower(filter.Subject) + "%"
		query = query.Where("LOWER(subject) LIKE ? OR LOWER(title) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count passages", "error", err)
		return nil, 0, fmt.Errorf("failed to count passages: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultPassagePageSize
	}
	if limit > maxPassagePageSize {
		limit = maxPassagePageSize
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}

	var passageModels []*models.PassageModel
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&passageModels).Error
	if err != nil {
		r.logger.Errorw("failed to list passages", "error", err)
		return nil, 0, fmt.Errorf("failed to list passages: %w", err)
	}

	return r.mapper.ToEntities(passageModels), total, nil
}

func (r *PassageRepositoryImpl) ListByAuthor(ctx context.Context, userID string) ([]*reading.Passage, error) {
	var passageModels []*models.PassageModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("created_by = ?", userID).
		Order("created_at DESC").
		Find(&passageModels).Error
	if err != nil {
		r.logger.Errorw("failed to list passages by author", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list passages: %w", err)
	}

	return r.mapper.ToEntities(passageModels), nil
}
