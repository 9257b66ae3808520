package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	readingUsecases "readora/internal/application/reading/usecases"
	sessionUsecases "readora/internal/application/session/usecases"
	"readora/internal/domain/reading"
	"readora/internal/domain/subscription"
	"readora/internal/interfaces/http/middleware"
	"readora/internal/shared/utils"
)

type SessionHandler struct {
	completeDiscussionUC *sessionUsecases.CompleteDiscussionUseCase
	recordSessionUC      *readingUsecases.RecordSessionUseCase
	recentPassagesUC     *readingUsecases.RecentPassagesUseCase
}

func NewSessionHandler(
	completeDiscussionUC *sessionUsecases.CompleteDiscussionUseCase,
	recordSessionUC *readingUsecases.RecordSessionUseCase,
	recentPassagesUC *readingUsecases.RecentPassagesUseCase,
) *SessionHandler {
	return &SessionHandler{
		completeDiscussionUC: completeDiscussionUC,
		recordSessionUC:      recordSessionUC,
		recentPassagesUC:     recentPassagesUC,
	}
}

type transcriptMessageRequest struct {
	Role      string    `json:"role" binding:"required,oneof=user assistant system"`
	Content   string    `json:"content" binding:"required"`
	Timestamp time.Time `json:"timestamp"`
}

type completeDiscussionRequest struct {
	PassageSID      string                     `json:"passage_sid" binding:"required"`
	Messages        []transcriptMessageRequest `json:"messages" binding:"required,min=1,dive"`
	DurationSeconds int                        `json:"duration_seconds" binding:"min=0"`
}

type completeDiscussionResponse struct {
	Counted        bool   `json:"counted"`
	NewlyCompleted bool   `json:"newly_completed"`
	TranscriptSID  string `json:"transcript_sid,omitempty"`
	QuotaConsumed  bool   `json:"quota_consumed"`
	QuotaState     string `json:"quota_state"`
	ReadingStreak  int    `json:"reading_streak,omitempty"`
}

// CompleteDiscussion finalizes a finished discussion: records it and consumes
// one session from the quota.
func (h *SessionHandler) CompleteDiscussion(c *gin.Context) {
	var req completeDiscussionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	messages := make([]reading.TranscriptMessage, len(req.Messages))
	for i, msg := range req.Messages {
		messages[i] = reading.TranscriptMessage{
			Role:      msg.Role,
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
		}
	}

	result, err := h.completeDiscussionUC.Execute(c.Request.Context(), sessionUsecases.CompleteDiscussionCommand{
		UserID:          middleware.UserID(c),
		PassageSID:      req.PassageSID,
		Messages:        messages,
		DurationSeconds: req.DurationSeconds,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if result.Gated {
		utils.SuccessResponse(c, http.StatusOK, "discussion too short to count", completeDiscussionResponse{
			Counted:    false,
			QuotaState: "not_consumed",
		})
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", completeDiscussionResponse{
		Counted:        true,
		NewlyCompleted: result.NewlyCompleted,
		TranscriptSID:  result.TranscriptSID,
		QuotaConsumed:  result.Decrement == subscription.DecrementSuccess,
		QuotaState:     result.Decrement.String(),
		ReadingStreak:  result.ReadingStreak,
	})
}

type startSessionRequest struct {
	PassageSID string `json:"passage_sid" binding:"required"`
}

// StartSession records that the user opened a discussion on a passage.
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	err := h.recordSessionUC.Execute(c.Request.Context(), readingUsecases.RecordSessionCommand{
		UserID:     middleware.UserID(c),
		PassageSID: req.PassageSID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"recorded": true})
}

// RecentPassages returns the user's recently opened passages, newest first.
func (h *SessionHandler) RecentPassages(c *gin.Context) {
	items, err := h.recentPassagesUC.Execute(c.Request.Context(), readingUsecases.RecentPassagesQuery{
		UserID: middleware.UserID(c),
		Limit:  queryInt(c, "limit", 10),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"items": items})
}
