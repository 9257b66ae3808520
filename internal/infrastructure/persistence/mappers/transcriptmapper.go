package mappers

import (
	"encoding/json"
	"fmt"

	"readora/internal/domain/reading"
	"readora/internal/infrastructure/persistence/models"
)

type TranscriptMapper interface {
	ToEntity(model *models.TranscriptModel) (*reading.TranscriptRecord, error)
	ToModel(entity *reading.TranscriptRecord) (*models.TranscriptModel, error)
	ToEntities(models []*models.TranscriptModel) ([]*reading.TranscriptRecord, error)
}

type TranscriptMapperImpl struct{}

func NewTranscriptMapper() TranscriptMapper {
	return &TranscriptMapperImpl{}
}

func (m *TranscriptMapperImpl) ToEntity(model *models.TranscriptModel) (*reading.TranscriptRecord, error) {
	if model == nil {
		return nil, nil
	}

	var messages []reading.TranscriptMessage
	if err := json.Unmarshal(model.Messages, &messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transcript messages: %w", err)
	}

	return reading.ReconstructTranscriptRecord(
		model.ID,
		model.SID,
		model.UserID,
		model.PassageSID,
		model.CompletionSID,
		messages,
		model.DurationSeconds,
		model.CreatedAt,
	), nil
}

func (m *TranscriptMapperImpl) ToModel(entity *reading.TranscriptRecord) (*models.TranscriptModel, error) {
	if entity == nil {
		return nil, nil
	}

	messages, err := json.Marshal(entity.Messages())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transcript messages: %w", err)
	}

	return &models.TranscriptModel{
		ID:              entity.ID(),
		SID:             entity.SID(),
		UserID:          entity.UserID(),
		PassageSID:      entity.PassageID(),
		CompletionSID:   entity.CompletionSID(),
		Messages:        messages,
		DurationSeconds: entity.DurationSeconds(),
		CreatedAt:       entity.CreatedAt(),
	}, nil
}

func (m *TranscriptMapperImpl) ToEntities(transcriptModels []*models.TranscriptModel) ([]*reading.TranscriptRecord, error) {
	entities := make([]*reading.TranscriptRecord, 0, len(transcriptModels))
	for _, model := range transcriptModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
