package usecases

import (
	"context"
	"time"

	"readora/internal/domain/reading"
	apperrors "readora/internal/shared/errors"
)

type GetProgressQuery struct {
	UserID string
}

type ProgressResult struct {
	StudentName         string
	CurrentGradeLevel   string
	ReadingStreak       int
	TotalReadingMinutes int
	LastReadDate        *time.Time
	LastActiveDate      time.Time
	OnboardedAt         time.Time
}

type GetProgressUseCase struct {
	progressRepo reading.ProgressRepository
}

func NewGetProgressUseCase(progressRepo reading.ProgressRepository) *GetProgressUseCase {
	return &GetProgressUseCase{progressRepo: progressRepo}
}

func (uc *GetProgressUseCase) Execute(ctx context.Context, query GetProgressQuery) (*ProgressResult, error) {
	if query.UserID == "" {
		return nil, apperrors.NewValidationError("user ID is required")
	}

	progress, err := uc.progressRepo.GetByUserID(ctx, query.UserID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load progress", err.Error())
	}
	if progress == nil {
		return nil, apperrors.NewNotFoundError("student has not completed onboarding")
	}

	return &ProgressResult{
		StudentName:         progress.StudentName(),
		CurrentGradeLevel:   progress.CurrentGradeLevel(),
		ReadingStreak:       progress.ReadingStreak(),
		TotalReadingMinutes: progress.TotalReadingMinutes(),
		LastReadDate:        progress.LastReadDate(),
		LastActiveDate:      progress.LastActiveDate(),
		OnboardedAt:         progress.CreatedAt(),
	}, nil
}
