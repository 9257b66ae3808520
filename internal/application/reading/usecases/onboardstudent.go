package usecases

import (
	"context"
	"time"

	"readora/internal/domain/reading"
	apperrors "readora/internal/shared/errors"
	"readora/internal/shared/logger"
)

type OnboardStudentCommand struct {
	UserID      string
	StudentName string
	GradeLevel  string
}

// OnboardStudentUseCase creates the progress record when the student picks a
// grade level. Re-onboarding an existing student returns the existing record
// untouched; the client retries setup flows freely.
type OnboardStudentUseCase struct {
	progressRepo reading.ProgressRepository
	logger       logger.Interface
}

func NewOnboardStudentUseCase(progressRepo reading.ProgressRepository, logger logger.Interface) *OnboardStudentUseCase {
	return &OnboardStudentUseCase{
		progressRepo: progressRepo,
		logger:       logger,
	}
}

func (uc *OnboardStudentUseCase) Execute(ctx context.Context, cmd OnboardStudentCommand) (*reading.Progress, error) {
	if cmd.UserID == "" {
		return nil, apperrors.NewValidationError("user ID is required")
	}

	existing, err := uc.progressRepo.GetByUserID(ctx, cmd.UserID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load progress", err.Error())
	}
	if existing != nil {
		return existing, nil
	}

	progress, err := reading.NewProgress(cmd.UserID, cmd.StudentName, cmd.GradeLevel, time.Now().UTC())
	if err != nil {
		return nil, apperrors.NewValidationError("invalid onboarding data", err.Error())
	}

	if err := uc.progressRepo.Create(ctx, progress); err != nil {
		return nil, apperrors.NewInternalError("failed to create progress", err.Error())
	}

	uc.logger.Infow("student onboarded",
		"user_id", cmd.UserID,
		"grade_level", cmd.GradeLevel,
	)
	return progress, nil
}
