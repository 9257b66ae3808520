package usecases

import (
	"context"
	"time"

	"readora/internal/domain/reading"
	apperrors "readora/internal/shared/errors"
	"readora/internal/shared/logger"
)

type UpdateGradeCommand struct {
	UserID     string
	GradeLevel string
}

type UpdateGradeUseCase struct {
	progressRepo reading.ProgressRepository
	logger       logger.Interface
}

func NewUpdateGradeUseCase(progressRepo reading.ProgressRepository, logger logger.Interface) *UpdateGradeUseCase {
	return &UpdateGradeUseCase{
		progressRepo: progressRepo,
		logger:       logger,
	}
}

func (uc *UpdateGradeUseCase) Execute(ctx context.Context, cmd UpdateGradeCommand) error {
	if cmd.UserID == "" {
		return apperrors.NewValidationError("user ID is required")
	}

	progress, err := uc.progressRepo.GetByUserID(ctx, cmd.UserID)
	if err != nil {
		return apperrors.NewInternalError("failed to load progress", err.Error())
	}
	if progress == nil {
		return apperrors.NewNotFoundError("student has not completed onboarding")
	}

	if err := progress.ChangeGrade(cmd.GradeLevel, time.Now().UTC()); err != nil {
		return apperrors.NewValidationError("invalid grade level", err.Error())
	}

	if err := uc.progressRepo.Update(ctx, progress); err != nil {
		return apperrors.NewInternalError("failed to update grade level", err.Error())
	}

	uc.logger.Infow("grade level updated",
		"user_id", cmd.UserID,
		"grade_level", cmd.GradeLevel,
	)
	return nil
}
