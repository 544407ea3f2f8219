package handlers

import (
	"net/http"

	"github.com/campusworks/quiz-attempt-service/internal/services"
	"github.com/campusworks/quiz-attempt-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// AttemptHandler exposes the attempt lifecycle over HTTP
type AttemptHandler struct {
	BaseHandler
	attemptService services.AttemptService
}

func NewAttemptHandler(attemptService services.AttemptService, logger utils.Logger) *AttemptHandler {
	return &AttemptHandler{
		BaseHandler:    NewBaseHandler(logger),
		attemptService: attemptService,
	}
}

// StartAttempt handles POST /api/v1/attempts/start
func (h *AttemptHandler) StartAttempt(c *gin.Context) {
	var req services.StartAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	studentID := extractStudentID(c)

	runtimeQuiz, err := h.attemptService.Start(c.Request.Context(), &req, studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogInfo(c, "Attempt started", "answer_sheet_id", runtimeQuiz.AnswerSheetID)
	c.JSON(http.StatusOK, runtimeQuiz)
}

// SubmitAnswer handles POST /api/v1/attempts/:id/answers
func (h *AttemptHandler) SubmitAnswer(c *gin.Context) {
	sheetID, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}

	var req services.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	studentID := extractStudentID(c)

	slot, err := h.attemptService.SubmitAnswer(c.Request.Context(), sheetID, &req, studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, slot)
}

// FinishAttempt handles PATCH /api/v1/attempts/:id/finish
func (h *AttemptHandler) FinishAttempt(c *gin.Context) {
	sheetID, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}

	studentID := extractStudentID(c)

	result, err := h.attemptService.Finish(c.Request.Context(), sheetID, studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogInfo(c, "Attempt finished",
		"answer_sheet_id", result.AnswerSheetID,
		"attempt_score", result.AttemptScore)
	c.JSON(http.StatusOK, result)
}

// GetAttempt handles GET /api/v1/attempts/:id
func (h *AttemptHandler) GetAttempt(c *gin.Context) {
	sheetID, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}

	studentID := extractStudentID(c)

	detail, err := h.attemptService.GetByID(c.Request.Context(), sheetID, studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// GetTimeRemaining handles GET /api/v1/attempts/:id/time-remaining
func (h *AttemptHandler) GetTimeRemaining(c *gin.Context) {
	sheetID, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}

	studentID := extractStudentID(c)

	remaining, err := h.attemptService.TimeRemaining(c.Request.Context(), sheetID, studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, remaining)
}
