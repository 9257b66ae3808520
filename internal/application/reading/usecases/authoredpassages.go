package usecases

import (
	"context"

	"readora/internal/domain/reading"
	apperrors "readora/internal/shared/errors"
)

type AuthoredPassagesQuery struct {
	UserID string
}

// AuthoredPassagesUseCase lists the passages a user created, newest first.
type AuthoredPassagesUseCase struct {
	passageRepo reading.PassageRepository
}

func NewAuthoredPassagesUseCase(passageRepo reading.PassageRepository) *AuthoredPassagesUseCase {
	return &AuthoredPassagesUseCase{passageRepo: passageRepo}
}

func (uc *AuthoredPassagesUseCase) Execute(ctx context.Context, query AuthoredPassagesQuery) ([]PassageListItem, error) {
	passages, err := uc.passageRepo.ListByAuthor(ctx, query.UserID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list authored passages", err.Error())
	}

	items := make([]PassageListItem, 0, len(passages))
	for _, passage := range passages {
		items = append(items, PassageListItem{
			SID:              passage.SID(),
			Title:            passage.Title(),
			Subject:          passage.Subject(),
			GradeLevel:       passage.GradeLevel(),
			LessonType:       passage.LessonType(),
			EstimatedMinutes: passage.EstimatedMinutes(),
			CreatedAt:        passage.CreatedAt(),
		})
	}

	return items, nil
}
