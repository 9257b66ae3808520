// Package usecases (reading) covers the passage library, student progress and
// transcript management.
package usecases

import (
	"context"

	"readora/internal/domain/reading"
	apperrors "readora/internal/shared/errors"
	"readora/internal/shared/logger"
)

type CreatePassageCommand struct {
	Title            string
	Content          string
	Subject          string
	GradeLevel       string
	LessonType       string
	EstimatedMinutes int
	CreatedBy        string
}

type CreatePassageUseCase struct {
	passageRepo reading.PassageRepository
	logger      logger.Interface
}

func NewCreatePassageUseCase(passageRepo reading.PassageRepository, logger logger.Interface) *CreatePassageUseCase {
	return &CreatePassageUseCase{
		passageRepo: passageRepo,
		logger:      logger,
	}
}

func (uc *CreatePassageUseCase) Execute(ctx context.Context, cmd CreatePassageCommand) (*reading.Passage, error) {
	passage, err := reading.NewPassage(
		cmd.Title, cmd.Content, cmd.Subject,
		cmd.GradeLevel, cmd.LessonType,
		cmd.EstimatedMinutes, cmd.CreatedBy,
	)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid passage", err.Error())
	}

	if err := uc.passageRepo.Create(ctx, passage); err != nil {
		return nil, apperrors.NewInternalError("failed to create passage", err.Error())
	}

	uc.logger.Infow("passage created",
		"passage_sid", passage.SID(),
		"title", passage.Title(),
		"created_by", passage.CreatedBy(),
	)
	return passage, nil
}
