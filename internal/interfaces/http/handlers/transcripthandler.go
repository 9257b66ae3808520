package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	readingUsecases "readora/internal/application/reading/usecases"
	"readora/internal/interfaces/http/middleware"
	"readora/internal/shared/utils"
)

type TranscriptHandler struct {
	listTranscriptsUC  *readingUsecases.ListTranscriptsUseCase
	getTranscriptUC    *readingUsecases.GetTranscriptUseCase
	deleteTranscriptUC *readingUsecases.DeleteTranscriptUseCase
}

func NewTranscriptHandler(
	listTranscriptsUC *readingUsecases.ListTranscriptsUseCase,
	getTranscriptUC *readingUsecases.GetTranscriptUseCase,
	deleteTranscriptUC *readingUsecases.DeleteTranscriptUseCase,
) *TranscriptHandler {
	return &TranscriptHandler{
		listTranscriptsUC:  listTranscriptsUC,
		getTranscriptUC:    getTranscriptUC,
		deleteTranscriptUC: deleteTranscriptUC,
	}
}

func (h *TranscriptHandler) ListTranscripts(c *gin.Context) {
	summaries, err := h.listTranscriptsUC.Execute(c.Request.Context(), readingUsecases.ListTranscriptsQuery{
		UserID:     middleware.UserID(c),
		PassageSID: c.Query("passage_sid"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"items": summaries})
}

// GetByCompletion fetches the transcript tied to a first-time completion.
func (h *TranscriptHandler) GetByCompletion(c *gin.Context) {
	detail, err := h.getTranscriptUC.Execute(c.Request.Context(), readingUsecases.GetTranscriptQuery{
		UserID:        middleware.UserID(c),
		CompletionSID: c.Param("completion_sid"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", detail)
}

func (h *TranscriptHandler) DeleteTranscript(c *gin.Context) {
	err := h.deleteTranscriptUC.Execute(c.Request.Context(), readingUsecases.DeleteTranscriptCommand{
		UserID:        middleware.UserID(c),
		TranscriptSID: c.Param("sid"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"deleted": true})
}
