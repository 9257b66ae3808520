package usecases

import (
	"context"
	"time"

	"readora/internal/domain/reading"
	apperrors "readora/internal/shared/errors"
	"readora/internal/shared/services/markdown"
)

type GetPassageQuery struct {
	PassageSID string
}

// PassageDetail carries a passage plus its rendered content. ContentHTML is
// sanitized markdown output; the raw markdown never reaches the client.
type PassageDetail struct {
	SID              string
	Title            string
	ContentHTML      string
	Subject          string
	GradeLevel       string
	LessonType       string
	EstimatedMinutes int
	CreatedAt        time.Time
}

type GetPassageUseCase struct {
	passageRepo reading.PassageRepository
	markdown    markdown.MarkdownService
}

func NewGetPassageUseCase(passageRepo reading.PassageRepository, markdownService markdown.MarkdownService) *GetPassageUseCase {
	return &GetPassageUseCase{
		passageRepo: passageRepo,
		markdown:    markdownService,
	}
}

func (uc *GetPassageUseCase) Execute(ctx context.Context, query GetPassageQuery) (*PassageDetail, error) {
	passage, err := uc.passageRepo.GetBySID(ctx, query.PassageSID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load passage", err.Error())
	}
	if passage == nil {
		return nil, apperrors.NewNotFoundError("passage not found")
	}

	contentHTML, err := uc.markdown.ToHTMLSanitized(passage.Content())
	if err != nil {
		return nil, apperrors.NewInternalError("failed to render passage", err.Error())
	}

	return &PassageDetail{
		SID:              passage.SID(),
		Title:            passage.Title(),
		ContentHTML:      contentHTML,
		Subject:          passage.Subject(),
		GradeLevel:       passage.GradeLevel(),
		LessonType:       passage.LessonType(),
		EstimatedMinutes: passage.EstimatedMinutes(),
		CreatedAt:        passage.CreatedAt(),
	}, nil
}
