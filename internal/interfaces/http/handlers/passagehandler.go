package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	readingUsecases "readora/internal/application/reading/usecases"
	"readora/internal/interfaces/http/middleware"
	"readora/internal/shared/utils"
)

type PassageHandler struct {
	createPassageUC *readingUsecases.CreatePassageUseCase
	getPassageUC    *readingUsecases.GetPassageUseCase
	listPassagesUC  *readingUsecases.ListPassagesUseCase
	authoredUC      *readingUsecases.AuthoredPassagesUseCase
	bookmarkUC      *readingUsecases.BookmarkPassageUseCase
	listBookmarksUC *readingUsecases.ListBookmarksUseCase
}

func NewPassageHandler(
	createPassageUC *readingUsecases.CreatePassageUseCase,
	getPassageUC *readingUsecases.GetPassageUseCase,
	listPassagesUC *readingUsecases.ListPassagesUseCase,
	authoredUC *readingUsecases.AuthoredPassagesUseCase,
	bookmarkUC *readingUsecases.BookmarkPassageUseCase,
	listBookmarksUC *readingUsecases.ListBookmarksUseCase,
) *PassageHandler {
	return &PassageHandler{
		createPassageUC: createPassageUC,
		getPassageUC:    getPassageUC,
		listPassagesUC:  listPassagesUC,
		authoredUC:      authoredUC,
		bookmarkUC:      bookmarkUC,
		listBookmarksUC: listBookmarksUC,
	}
}

type createPassageRequest struct {
	Title            string `json:"title" binding:"required,max=200"`
	Content          string `json:"content" binding:"required"`
	Subject          string `json:"subject" binding:"max=100"`
	GradeLevel       string `json:"grade_level" binding:"required,gradelevel"`
	LessonType       string `json:"lesson_type" binding:"required"`
	EstimatedMinutes int    `json:"estimated_minutes" binding:"min=0,max=180"`
}

func (h *PassageHandler) CreatePassage(c *gin.Context) {
	var req createPassageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	passage, err := h.createPassageUC.Execute(c.Request.Context(), readingUsecases.CreatePassageCommand{
		Title:            req.Title,
		Content:          req.Content,
		Subject:          req.Subject,
		GradeLevel:       req.GradeLevel,
		LessonType:       req.LessonType,
		EstimatedMinutes: req.EstimatedMinutes,
		CreatedBy:        middleware.UserID(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"sid":   passage.SID(),
		"title": passage.Title(),
	}, "passage created")
}

func (h *PassageHandler) GetPassage(c *gin.Context) {
	detail, err := h.getPassageUC.Execute(c.Request.Context(), readingUsecases.GetPassageQuery{
		PassageSID: c.Param("sid"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", detail)
}

func (h *PassageHandler) ListPassages(c *gin.Context) {
	result, err := h.listPassagesUC.Execute(c.Request.Context(), readingUsecases.ListPassagesQuery{
		UserID:      middleware.UserID(c),
		GradeLevels: c.QueryArray("grade_level"),
		LessonTypes: c.QueryArray("lesson_type"),
		Subject:     c.Query("subject"),
		Page:        queryInt(c, "page", 1),
		Limit:       queryInt(c, "limit", 20),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	totalPages := int(result.Total) / result.Limit
	if int(result.Total)%result.Limit > 0 {
		totalPages++
	}
	utils.SuccessResponse(c, http.StatusOK, "", utils.ListResponse{
		Items:      result.Items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.Limit,
		TotalPages: totalPages,
	})
}

func (h *PassageHandler) ListAuthored(c *gin.Context) {
	items, err := h.authoredUC.Execute(c.Request.Context(), readingUsecases.AuthoredPassagesQuery{
		UserID: middleware.UserID(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"items": items})
}

func (h *PassageHandler) BookmarkPassage(c *gin.Context) {
	err := h.bookmarkUC.Add(c.Request.Context(), readingUsecases.BookmarkPassageCommand{
		UserID:     middleware.UserID(c),
		PassageSID: c.Param("sid"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"bookmarked": true})
}

func (h *PassageHandler) UnbookmarkPassage(c *gin.Context) {
	err := h.bookmarkUC.Remove(c.Request.Context(), readingUsecases.BookmarkPassageCommand{
		UserID:     middleware.UserID(c),
		PassageSID: c.Param("sid"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"bookmarked": false})
}

func (h *PassageHandler) ListBookmarks(c *gin.Context) {
	items, err := h.listBookmarksUC.Execute(c.Request.Context(), readingUsecases.ListBookmarksQuery{
		UserID: middleware.UserID(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"items": items})
}
