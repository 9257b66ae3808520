package usecases

import (
	"context"

	"readora/internal/domain/reading"
	apperrors "readora/internal/shared/errors"
	"readora/internal/shared/logger"
)

type BookmarkPassageCommand struct {
	UserID     string
	PassageSID string
}

// BookmarkPassageUseCase adds or removes a passage bookmark. Adding twice is
// a no-op; removing a bookmark that does not exist is also a no-op.
type BookmarkPassageUseCase struct {
	bookmarkRepo reading.BookmarkRepository
	passageRepo  reading.PassageRepository
	logger       logger.Interface
}

func NewBookmarkPassageUseCase(
	bookmarkRepo reading.BookmarkRepository,
	passageRepo reading.PassageRepository,
	logger logger.Interface,
) *BookmarkPassageUseCase {
	return &BookmarkPassageUseCase{
		bookmarkRepo: bookmarkRepo,
		passageRepo:  passageRepo,
		logger:       logger,
	}
}

func (uc *BookmarkPassageUseCase) Add(ctx context.Context, cmd BookmarkPassageCommand) error {
	if cmd.UserID == "" {
		return apperrors.NewValidationError("user ID is required")
	}

	passage, err := uc.passageRepo.GetBySID(ctx, cmd.PassageSID)
	if err != nil {
		return apperrors.NewInternalError("failed to load passage", err.Error())
	}
	if passage == nil {
		return apperrors.NewNotFoundError("passage not found")
	}

	if err := uc.bookmarkRepo.Add(ctx, cmd.UserID, cmd.PassageSID); err != nil {
		return apperrors.NewInternalError("failed to bookmark passage", err.Error())
	}
	return nil
}

func (uc *BookmarkPassageUseCase) Remove(ctx context.Context, cmd BookmarkPassageCommand) error {
	if cmd.UserID == "" {
		return apperrors.NewValidationError("user ID is required")
	}

	if err := uc.bookmarkRepo.Remove(ctx, cmd.UserID, cmd.PassageSID); err != nil {
		return apperrors.NewInternalError("failed to remove bookmark", err.Error())
	}
	return nil
}

type ListBookmarksQuery struct {
	UserID string
}

type ListBookmarksUseCase struct {
	bookmarkRepo reading.BookmarkRepository
	passageRepo  reading.PassageRepository
	logger       logger.Interface
}

func NewListBookmarksUseCase(
	bookmarkRepo reading.BookmarkRepository,
	passageRepo reading.PassageRepository,
	logger logger.Interface,
) *ListBookmarksUseCase {
	return &ListBookmarksUseCase{
		bookmarkRepo: bookmarkRepo,
		passageRepo:  passageRepo,
		logger:       logger,
	}
}

// Execute returns the user's bookmarked passages as list items. A bookmark
// whose passage has since disappeared is skipped.
func (uc *ListBookmarksUseCase) Execute(ctx context.Context, query ListBookmarksQuery) ([]PassageListItem, error) {
	if query.UserID == "" {
		return nil, apperrors.NewValidationError("user ID is required")
	}

	sids, err := uc.bookmarkRepo.ListPassageSIDs(ctx, query.UserID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list bookmarks", err.Error())
	}

	items := make([]PassageListItem, 0, len(sids))
	for _, sid := range sids {
		passage, err := uc.passageRepo.GetBySID(ctx, sid)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to load bookmarked passage", err.Error())
		}
		if passage == nil {
			uc.logger.Debugw("bookmark references missing passage", "user_id", query.UserID, "passage_sid", sid)
			continue
		}
		items = append(items, PassageListItem{
			SID:              passage.SID(),
			Title:            passage.Title(),
			Subject:          passage.Subject(),
			GradeLevel:       passage.GradeLevel(),
			LessonType:       passage.LessonType(),
			EstimatedMinutes: passage.EstimatedMinutes(),
			Bookmarked:       true,
			CreatedAt:        passage.CreatedAt(),
		})
	}
	return items, nil
}
