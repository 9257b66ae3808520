package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	readingUsecases "readora/internal/application/reading/usecases"
	"readora/internal/interfaces/http/middleware"
	"readora/internal/shared/utils"
)

type ProgressHandler struct {
	onboardUC     *readingUsecases.OnboardStudentUseCase
	getProgressUC *readingUsecases.GetProgressUseCase
	updateGradeUC *readingUsecases.UpdateGradeUseCase
}

func NewProgressHandler(
	onboardUC *readingUsecases.OnboardStudentUseCase,
	getProgressUC *readingUsecases.GetProgressUseCase,
	updateGradeUC *readingUsecases.UpdateGradeUseCase,
) *ProgressHandler {
	return &ProgressHandler{
		onboardUC:     onboardUC,
		getProgressUC: getProgressUC,
		updateGradeUC: updateGradeUC,
	}
}

type onboardRequest struct {
	StudentName string `json:"student_name" binding:"max=100"`
	GradeLevel  string `json:"grade_level" binding:"required,gradelevel"`
}

func (h *ProgressHandler) Onboard(c *gin.Context) {
	var req onboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	progress, err := h.onboardUC.Execute(c.Request.Context(), readingUsecases.OnboardStudentCommand{
		UserID:      middleware.UserID(c),
		StudentName: req.StudentName,
		GradeLevel:  req.GradeLevel,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"student_name": progress.StudentName(),
		"grade_level":  progress.CurrentGradeLevel(),
	})
}

func (h *ProgressHandler) GetProgress(c *gin.Context) {
	result, err := h.getProgressUC.Execute(c.Request.Context(), readingUsecases.GetProgressQuery{
		UserID: middleware.UserID(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"student_name":          result.StudentName,
		"grade_level":           result.CurrentGradeLevel,
		"reading_streak":        result.ReadingStreak,
		"total_reading_minutes": result.TotalReadingMinutes,
		"last_read_date":        result.LastReadDate,
		"last_active_date":      result.LastActiveDate,
		"onboarded_at":          result.OnboardedAt,
	})
}

type updateGradeRequest struct {
	GradeLevel string `json:"grade_level" binding:"required,gradelevel"`
}

func (h *ProgressHandler) UpdateGrade(c *gin.Context) {
	var req updateGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	err := h.updateGradeUC.Execute(c.Request.Context(), readingUsecases.UpdateGradeCommand{
		UserID:     middleware.UserID(c),
		GradeLevel: req.GradeLevel,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"grade_level": req.GradeLevel})
}
