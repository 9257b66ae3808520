package mappers

import (
	"readora/internal/domain/reading"
	"readora/internal/infrastructure/persistence/models"
)

type CompletionMapper interface {
	ToEntity(model *models.CompletionModel) *reading.CompletionRecord
	ToModel(entity *reading.CompletionRecord) *models.CompletionModel
	ToEntities(models []*models.CompletionModel) []*reading.CompletionRecord
}

type CompletionMapperImpl struct{}

func NewCompletionMapper() CompletionMapper {
	return &CompletionMapperImpl{}
}

func (m *CompletionMapperImpl) ToEntity(model *models.CompletionModel) *reading.CompletionRecord {
	if model == nil {
		return nil
	}

	return reading.ReconstructCompletionRecord(
		model.ID,
		model.SID,
		model.UserID,
		model.PassageSID,
		model.CreatedAt,
	)
}

func (m *CompletionMapperImpl) ToModel(entity *reading.CompletionRecord) *models.CompletionModel {
	if entity == nil {
		return nil
	}

	return &models.CompletionModel{
		ID:         entity.ID(),
		SID:        entity.SID(),
		UserID:     entity.UserID(),
		PassageSID: entity.PassageID(),
		CreatedAt:  entity.CompletedAt(),
	}
}

func (m *CompletionMapperImpl) ToEntities(completionModels []*models.CompletionModel) []*reading.CompletionRecord {
	entities := make([]*reading.CompletionRecord, 0, len(completionModels))
	for _, model := range completionModels {
		entities = append(entities, m.ToEntity(model))
	}
	return entities
}
