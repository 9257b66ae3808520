package usecases

import (
	"context"
	"time"

	"readora/internal/domain/reading"
	apperrors "readora/internal/shared/errors"
	"readora/internal/shared/logger"
)

type ListTranscriptsQuery struct {
	UserID string
	// PassageSID, when set, narrows the listing to one passage.
	PassageSID string
}

// TranscriptSummary omits the message bodies; the list view shows metadata
// and the client fetches a full transcript on demand.
type TranscriptSummary struct {
	SID             string
	PassageSID      string
	CompletionSID   string
	MessageCount    int
	DurationSeconds int
	CreatedAt       time.Time
}

type TranscriptDetail struct {
	SID             string
	PassageSID      string
	CompletionSID   string
	Messages        []reading.TranscriptMessage
	DurationSeconds int
	CreatedAt       time.Time
}

type ListTranscriptsUseCase struct {
	transcriptRepo reading.TranscriptRepository
}

func NewListTranscriptsUseCase(transcriptRepo reading.TranscriptRepository) *ListTranscriptsUseCase {
	return &ListTranscriptsUseCase{transcriptRepo: transcriptRepo}
}

func (uc *ListTranscriptsUseCase) Execute(ctx context.Context, query ListTranscriptsQuery) ([]TranscriptSummary, error) {
	if query.UserID == "" {
		return nil, apperrors.NewValidationError("user ID is required")
	}

	var (
		records []*reading.TranscriptRecord
		err     error
	)
	if query.PassageSID != "" {
		records, err = uc.transcriptRepo.ListByPassage(ctx, query.UserID, query.PassageSID)
	} else {
		records, err = uc.transcriptRepo.ListByUser(ctx, query.UserID)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list transcripts", err.Error())
	}

	summaries := make([]TranscriptSummary, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, TranscriptSummary{
			SID:             record.SID(),
			PassageSID:      record.PassageID(),
			CompletionSID:   record.CompletionSID(),
			MessageCount:    len(record.Messages()),
			DurationSeconds: record.DurationSeconds(),
			CreatedAt:       record.CreatedAt(),
		})
	}
	return summaries, nil
}

type GetTranscriptQuery struct {
	UserID        string
	CompletionSID string
}

type GetTranscriptUseCase struct {
	transcriptRepo reading.TranscriptRepository
}

func NewGetTranscriptUseCase(transcriptRepo reading.TranscriptRepository) *GetTranscriptUseCase {
	return &GetTranscriptUseCase{transcriptRepo: transcriptRepo}
}

func (uc *GetTranscriptUseCase) Execute(ctx context.Context, query GetTranscriptQuery) (*TranscriptDetail, error) {
	if query.UserID == "" {
		return nil, apperrors.NewValidationError("user ID is required")
	}

	record, err := uc.transcriptRepo.GetByCompletion(ctx, query.UserID, query.CompletionSID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load transcript", err.Error())
	}
	if record == nil {
		return nil, apperrors.NewNotFoundError("transcript not found")
	}

	return &TranscriptDetail{
		SID:             record.SID(),
		PassageSID:      record.PassageID(),
		CompletionSID:   record.CompletionSID(),
		Messages:        record.Messages(),
		DurationSeconds: record.DurationSeconds(),
		CreatedAt:       record.CreatedAt(),
	}, nil
}

type DeleteTranscriptCommand struct {
	UserID        string
	TranscriptSID string
}

// DeleteTranscriptUseCase removes a transcript the user owns. Ownership is
// enforced in the delete predicate itself: a transcript belonging to someone
// else reads as not found.
type DeleteTranscriptUseCase struct {
	transcriptRepo reading.TranscriptRepository
	logger         logger.Interface
}

func NewDeleteTranscriptUseCase(transcriptRepo reading.TranscriptRepository, logger logger.Interface) *DeleteTranscriptUseCase {
	return &DeleteTranscriptUseCase{
		transcriptRepo: transcriptRepo,
		logger:         logger,
	}
}

func (uc *DeleteTranscriptUseCase) Execute(ctx context.Context, cmd DeleteTranscriptCommand) error {
	if cmd.UserID == "" {
		return apperrors.NewValidationError("user ID is required")
	}

	deleted, err := uc.transcriptRepo.DeleteOwned(ctx, cmd.UserID, cmd.TranscriptSID)
	if err != nil {
		return apperrors.NewInternalError("failed to delete transcript", err.Error())
	}
	if !deleted {
		return apperrors.NewNotFoundError("transcript not found")
	}

	uc.logger.Infow("transcript deleted",
		"user_id", cmd.UserID,
		"transcript_sid", cmd.TranscriptSID,
	)
	return nil
}
