package usecases

import (
	"context"
	"time"

	"readora/internal/domain/reading"
	apperrors "readora/internal/shared/errors"
	"readora/internal/shared/logger"
)

type RecordSessionCommand struct {
	UserID     string
	PassageSID string
}

// RecordSessionUseCase logs that a user opened a discussion on a passage.
// This is the "recently read" feed, not the billing record: consumption is
// accounted separately when the discussion completes.
type RecordSessionUseCase struct {
	historyRepo  reading.SessionHistoryRepository
	passageRepo  reading.PassageRepository
	progressRepo reading.ProgressRepository
	logger       logger.Interface
}

func NewRecordSessionUseCase(
	historyRepo reading.SessionHistoryRepository,
	passageRepo reading.PassageRepository,
	progressRepo reading.ProgressRepository,
	logger logger.Interface,
) *RecordSessionUseCase {
	return &RecordSessionUseCase{
		historyRepo:  historyRepo,
		passageRepo:  passageRepo,
		progressRepo: progressRepo,
		logger:       logger,
	}
}

func (uc *RecordSessionUseCase) Execute(ctx context.Context, cmd RecordSessionCommand) error {
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

	now := time.Now().UTC()
	if err := uc.historyRepo.Append(ctx, cmd.UserID, cmd.PassageSID, now); err != nil {
		return apperrors.NewInternalError("failed to record session", err.Error())
	}

	// Last-active stamp is best effort: a user without a progress row just
	// has nothing to stamp.
	if err := uc.progressRepo.TouchLastActive(ctx, cmd.UserID, now); err != nil {
		uc.logger.Debugw("could not stamp last active", "user_id", cmd.UserID, "error", err)
	}

	return nil
}

type RecentPassagesQuery struct {
	UserID string
	Limit  int
}

type RecentPassagesUseCase struct {
	historyRepo reading.SessionHistoryRepository
	passageRepo reading.PassageRepository
	logger      logger.Interface
}

func NewRecentPassagesUseCase(
	historyRepo reading.SessionHistoryRepository,
	passageRepo reading.PassageRepository,
	logger logger.Interface,
) *RecentPassagesUseCase {
	return &RecentPassagesUseCase{
		historyRepo: historyRepo,
		passageRepo: passageRepo,
		logger:      logger,
	}
}

// Execute returns the user's most recently opened passages, newest first.
func (uc *RecentPassagesUseCase) Execute(ctx context.Context, query RecentPassagesQuery) ([]PassageListItem, error) {
	if query.UserID == "" {
		return nil, apperrors.NewValidationError("user ID is required")
	}

	limit := query.Limit
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	sids, err := uc.historyRepo.RecentPassageSIDs(ctx, query.UserID, limit)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load session history", err.Error())
	}

	items := make([]PassageListItem, 0, len(sids))
	for _, sid := range sids {
		passage, err := uc.passageRepo.GetBySID(ctx, sid)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to load passage", err.Error())
		}
		if passage == nil {
			continue
		}
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
