package mappers

import (
	"readora/internal/domain/reading"
	"readora/internal/infrastructure/persistence/models"
)

type PassageMapper interface {
	ToEntity(model *models.PassageModel) *reading.Passage
	ToModel(entity *reading.Passage) *models.PassageModel
	ToEntities(models []*models.PassageModel) []*reading.Passage
}

type PassageMapperImpl struct{}

func NewPassageMapper() PassageMapper {
	return &PassageMapperImpl{}
}

func (m *PassageMapperImpl) ToEntity(model *models.PassageModel) *reading.Passage {
	if model == nil {
		return nil
	}

	return reading.ReconstructPassage(
		model.ID,
		model.SID,
		model.Title,
		model.Content,
		model.Subject,
		model.GradeLevel,
		model.LessonType,
		model.EstimatedMinutes,
		model.CreatedBy,
		model.CreatedAt,
	)
}

func (m *PassageMapperImpl) ToModel(entity *reading.Passage) *models.PassageModel {
	if entity == nil {
		return nil
	}

	return &models.PassageModel{
		ID:               entity.ID(),
		SID:              entity.SID(),
		Title:            entity.Title(),
		Content:          entity.Content(),
		Subject:          entity.Subject(),
		GradeLevel:       entity.GradeLevel(),
		LessonType:       entity.LessonType(),
		EstimatedMinutes: entity.EstimatedMinutes(),
		CreatedBy:        entity.CreatedBy(),
		CreatedAt:        entity.CreatedAt(),
	}
}

func (m *PassageMapperImpl) ToEntities(passageModels []*models.PassageModel) []*reading.Passage {
	entities := make([]*reading.Passage, 0, len(passageModels))
	for _, model := range passageModels {
		entities = append(entities, m.ToEntity(model))
	}
	return entities
}
