package usecases

import (
	"context"
	"time"

	"readora/internal/domain/reading"
	apperrors "readora/internal/shared/errors"
	"readora/internal/shared/logger"
)

type ListPassagesQuery struct {
	// UserID, when set, overlays completion and bookmark state on each item.
	UserID      string
	GradeLevels []string
	LessonTypes []string
	Subject     string
	Page        int
	Limit       int
}

// PassageListItem omits the content body; the list view only needs metadata.
type PassageListItem struct {
	SID              string
	Title            string
	Subject          string
	GradeLevel       string
	LessonType       string
	EstimatedMinutes int
	Completed        bool
	Bookmarked       bool
	CreatedAt        time.Time
}

type PassageListResult struct {
	Items []PassageListItem
	Total int64
	Page  int
	Limit int
}

type ListPassagesUseCase struct {
	passageRepo    reading.PassageRepository
	completionRepo reading.CompletionRepository
	bookmarkRepo   reading.BookmarkRepository
	logger         logger.Interface
}

func NewListPassagesUseCase(
	passageRepo reading.PassageRepository,
	completionRepo reading.CompletionRepository,
	bookmarkRepo reading.BookmarkRepository,
	logger logger.Interface,
) *ListPassagesUseCase {
	return &ListPassagesUseCase{
		passageRepo:    passageRepo,
		completionRepo: completionRepo,
		bookmarkRepo:   bookmarkRepo,
		logger:         logger,
	}
}

func (uc *ListPassagesUseCase) Execute(ctx context.Context, query ListPassagesQuery) (*PassageListResult, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	filter := reading.PassageFilter{
		GradeLevels: query.GradeLevels,
		LessonTypes: query.LessonTypes,
		Subject:     query.Subject,
		Page:        page,
		Limit:       limit,
	}

	passages, total, err := uc.passageRepo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list passages", err.Error())
	}

	completed, bookmarked := uc.userOverlays(ctx, query.UserID)

	items := make([]PassageListItem, 0, len(passages))
	for _, passage := range passages {
		items = append(items, PassageListItem{
			SID:              passage.SID(),
			Title:            passage.Title(),
			Subject:          passage.Subject(),
			GradeLevel:       passage.GradeLevel(),
			LessonType:       passage.LessonType(),
			EstimatedMinutes: passage.EstimatedMinutes(),
			Completed:        completed[passage.SID()],
			Bookmarked:       bookmarked[passage.SID()],
			CreatedAt:        passage.CreatedAt(),
		})
	}

	return &PassageListResult{
		Items: items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// userOverlays fetches the user's completed and bookmarked passage sets.
// Overlay failures degrade to unmarked items rather than failing the listing.
func (uc *ListPassagesUseCase) userOverlays(ctx context.Context, userID string) (completed, bookmarked map[string]bool) {
	completed = make(map[string]bool)
	bookmarked = make(map[string]bool)
	if userID == "" {
		return completed, bookmarked
	}

	completedSIDs, err := uc.completionRepo.ListPassageSIDsByUser(ctx, userID)
	if err != nil {
		uc.logger.Warnw("failed to load completion overlay", "user_id", userID, "error", err)
	}
	for _, sid := range completedSIDs {
		completed[sid] = true
	}

	bookmarkedSIDs, err := uc.bookmarkRepo.ListPassageSIDs(ctx, userID)
	if err != nil {
		uc.logger.Warnw("failed to load bookmark overlay", "user_id", userID, "error", err)
	}
	for _, sid := range bookmarkedSIDs {
		bookmarked[sid] = true
	}

	return completed, bookmarked
}
