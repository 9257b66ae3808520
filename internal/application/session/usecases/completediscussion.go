// Package usecases (session) implements the consumption path invoked when a
// discussion ends: completion record, progress credit, transcript, then the
// atomic quota decrement.
package usecases

import (
	"context"
	"fmt"
	"time"

	"readora/internal/domain/reading"
	"readora/internal/domain/subscription"
	apperrors "readora/internal/shared/errors"
	"readora/internal/shared/logger"
	"readora/internal/shared/services/markdown"
)

type CompleteDiscussionCommand struct {
	UserID          string
	PassageSID      string
	Messages        []reading.TranscriptMessage
	DurationSeconds int
}

// CompleteDiscussionResult reports the outcome of each protocol step. The
// caller uses Decrement to decide whether to show the paywall prompt.
type CompleteDiscussionResult struct {
	// Gated means the discussion was below the minimum viable duration and
	// was treated as a connection failure: nothing recorded, nothing consumed.
	Gated          bool
	NewlyCompleted bool
	TranscriptSID  string
	Decrement      subscription.DecrementResult
	ReadingStreak  int
}

// CompleteDiscussionUseCase runs the consumption protocol. The steps are
// deliberately not wrapped in one transaction: each is independently durable,
// and a failure in one must not block the later steps from attempting. In
// particular a decrement failure never rolls back the completion or the
// transcript — the discussion happened, and its record outranks billing
// bookkeeping.
type CompleteDiscussionUseCase struct {
	subscriptionRepo  subscription.Repository
	passageRepo       reading.PassageRepository
	completionRepo    reading.CompletionRepository
	transcriptRepo    reading.TranscriptRepository
	progressRepo      reading.ProgressRepository
	sanitizer         markdown.MarkdownService
	invalidator       EntitlementInvalidator
	minSessionSeconds int
	logger            logger.Interface
}

// EntitlementInvalidator drops the cached entitlement after a decrement.
type EntitlementInvalidator interface {
	Invalidate(ctx context.Context, userID string)
}

func NewCompleteDiscussionUseCase(
	subscriptionRepo subscription.Repository,
	passageRepo reading.PassageRepository,
	completionRepo reading.CompletionRepository,
	transcriptRepo reading.TranscriptRepository,
	progressRepo reading.ProgressRepository,
	sanitizer markdown.MarkdownService,
	invalidator EntitlementInvalidator,
	minSessionSeconds int,
	logger logger.Interface,
) *CompleteDiscussionUseCase {
	return &CompleteDiscussionUseCase{
		subscriptionRepo:  subscriptionRepo,
		passageRepo:       passageRepo,
		completionRepo:    completionRepo,
		transcriptRepo:    transcriptRepo,
		progressRepo:      progressRepo,
		sanitizer:         sanitizer,
		invalidator:       invalidator,
		minSessionSeconds: minSessionSeconds,
		logger:            logger,
	}
}

func (uc *CompleteDiscussionUseCase) Execute(ctx context.Context, cmd CompleteDiscussionCommand) (*CompleteDiscussionResult, error) {
	if cmd.UserID == "" {
		return nil, apperrors.NewValidationError("user ID is required")
	}

	passage, err := uc.passageRepo.GetBySID(ctx, cmd.PassageSID)
	if err != nil {
		return nil, fmt.Errorf("failed to load passage: %w", err)
	}
	if passage == nil {
		return nil, apperrors.NewNotFoundError("passage not found")
	}

	// Duration gate: anything shorter is a connection failure, not a
	// session. No record, no transcript, no decrement.
	if cmd.DurationSeconds < uc.minSessionSeconds {
		uc.logger.Infow("discussion below minimum duration, not counted",
			"user_id", cmd.UserID,
			"passage_sid", cmd.PassageSID,
			"duration_seconds", cmd.DurationSeconds,
			"min_seconds", uc.minSessionSeconds,
		)
		return &CompleteDiscussionResult{Gated: true}, nil
	}

	now := time.Now().UTC()
	result := &CompleteDiscussionResult{}

	// Step 1: completion record, idempotent on (user, passage).
	completion, err := reading.NewCompletionRecord(cmd.UserID, cmd.PassageSID, now)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid completion", err.Error())
	}
	created, err := uc.completionRepo.CreateIfAbsent(ctx, completion)
	if err != nil {
		// Keep going: the transcript and the decrement still matter.
		uc.logger.Errorw("completion step failed",
			"user_id", cmd.UserID,
			"passage_sid", cmd.PassageSID,
			"error", err,
		)
	}
	result.NewlyCompleted = created

	// Step 2: streak and time credit, first completion of this passage only.
	if created {
		uc.creditProgress(ctx, cmd.UserID, passage.EstimatedMinutes(), now, result)
	}

	// Step 3: the transcript is always persisted, re-discussions included.
	// Message content arrives from the dialogue client and is sanitized before
	// it is stored; the transcript view replays it as-is.
	messages := make([]reading.TranscriptMessage, len(cmd.Messages))
	for i, msg := range cmd.Messages {
		messages[i] = reading.TranscriptMessage{
			Role:      msg.Role,
			Content:   uc.sanitizer.Sanitize(msg.Content),
			Timestamp: msg.Timestamp,
		}
	}
	completionSID := ""
	if created {
		completionSID = completion.SID()
	}
	transcript, err := reading.NewTranscriptRecord(cmd.UserID, cmd.PassageSID, completionSID, messages, cmd.DurationSeconds, now)
	if err != nil {
		uc.logger.Errorw("transcript step failed",
			"user_id", cmd.UserID,
			"passage_sid", cmd.PassageSID,
			"error", err,
		)
	} else if err := uc.transcriptRepo.Create(ctx, transcript); err != nil {
		uc.logger.Errorw("transcript step failed",
			"user_id", cmd.UserID,
			"passage_sid", cmd.PassageSID,
			"error", err,
		)
	} else {
		result.TranscriptSID = transcript.SID()
	}

	// Step 4: the atomic decrement, last and never rolled back.
	decrement, err := uc.subscriptionRepo.TryDecrementSessions(ctx, cmd.UserID)
	if err != nil {
		uc.logger.Errorw("decrement step failed",
			"user_id", cmd.UserID,
			"error", err,
		)
		return nil, apperrors.NewInternalError("failed to consume session", err.Error())
	}
	result.Decrement = decrement
	if decrement == subscription.DecrementSuccess {
		uc.invalidator.Invalidate(ctx, cmd.UserID)
	} else {
		uc.logger.Warnw("discussion recorded without quota decrement",
			"user_id", cmd.UserID,
			"passage_sid", cmd.PassageSID,
			"decrement_result", decrement.String(),
		)
	}

	return result, nil
}

// creditProgress applies streak and reading-time credit. A missing progress
// row (user skipped onboarding) is not an error; credit just has nowhere to
// land yet.
func (uc *CompleteDiscussionUseCase) creditProgress(ctx context.Context, userID string, minutes int, now time.Time, result *CompleteDiscussionResult) {
	progress, err := uc.progressRepo.GetByUserID(ctx, userID)
	if err != nil {
		uc.logger.Errorw("progress step failed", "user_id", userID, "error", err)
		return
	}
	if progress == nil {
		uc.logger.Debugw("no progress record to credit", "user_id", userID)
		return
	}

	progress.RecordReading(minutes, now)
	if err := uc.progressRepo.Update(ctx, progress); err != nil {
		uc.logger.Errorw("progress step failed", "user_id", userID, "error", err)
		return
	}
	result.ReadingStreak = progress.ReadingStreak()
}
