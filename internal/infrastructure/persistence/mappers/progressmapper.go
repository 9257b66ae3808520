package mappers

import (
	"readora/internal/domain/reading"
	"readora/internal/infrastructure/persistence/models"
)

type ProgressMapper interface {
	ToEntity(model *models.ProgressModel) *reading.Progress
	ToModel(entity *reading.Progress) *models.ProgressModel
}

type ProgressMapperImpl struct{}

func NewProgressMapper() ProgressMapper {
	return &ProgressMapperImpl{}
}

func (m *ProgressMapperImpl) ToEntity(model *models.ProgressModel) *reading.Progress {
	if model == nil {
		return nil
	}

	return reading.ReconstructProgress(
		model.ID,
		model.UserID,
		model.StudentName,
		model.GradeLevel,
		model.ReadingStreak,
		model.TotalReadingMinutes,
		model.LastReadDate,
		model.LastActiveDate,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func (m *ProgressMapperImpl) ToModel(entity *reading.Progress) *models.ProgressModel {
	if entity == nil {
		return nil
	}

	return &models.ProgressModel{
		ID:                  entity.ID(),
		UserID:              entity.UserID(),
		StudentName:         entity.StudentName(),
		GradeLevel:          entity.CurrentGradeLevel(),
		ReadingStreak:       entity.ReadingStreak(),
		TotalReadingMinutes: entity.TotalReadingMinutes(),
		LastReadDate:        entity.LastReadDate(),
		LastActiveDate:      entity.LastActiveDate(),
		CreatedAt:           entity.CreatedAt(),
		UpdatedAt:           entity.UpdatedAt(),
	}
}
