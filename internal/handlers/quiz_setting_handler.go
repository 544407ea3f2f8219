package handlers

import (
	"net/http"
	"time"

	"github.com/campusworks/quiz-attempt-service/internal/services"
	"github.com/campusworks/quiz-attempt-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// QuizSettingHandler manages quiz keys and activation windows over HTTP
type QuizSettingHandler struct {
	BaseHandler
	settingService services.QuizSettingService
}

func NewQuizSettingHandler(settingService services.QuizSettingService, logger utils.Logger) *QuizSettingHandler {
	return &QuizSettingHandler{
		BaseHandler:    NewBaseHandler(logger),
		settingService: settingService,
	}
}

// CreateQuizSetting handles POST /api/v1/quiz-settings
func (h *QuizSettingHandler) CreateQuizSetting(c *gin.Context) {
	var req services.CreateQuizSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	setting, err := h.settingService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogInfo(c, "Quiz setting created", "setting_id", setting.ID)
	c.JSON(http.StatusCreated, setting)
}

// GetQuizSetting handles GET /api/v1/quiz-settings/:id
func (h *QuizSettingHandler) GetQuizSetting(c *gin.Context) {
	id, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}

	setting, err := h.settingService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, setting)
}

// ListQuizSettings handles GET /api/v1/quizzes/:quiz_id/settings
func (h *QuizSettingHandler) ListQuizSettings(c *gin.Context) {
	quizID, ok := ParseUintIDParam(c, "quiz_id")
	if !ok {
		return
	}

	settings, err := h.settingService.ListByQuiz(c.Request.Context(), quizID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

// UpdateQuizSetting handles PATCH /api/v1/quiz-settings/:id
func (h *QuizSettingHandler) UpdateQuizSetting(c *gin.Context) {
	id, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateQuizSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	setting, err := h.settingService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogInfo(c, "Quiz setting updated", "setting_id", setting.ID)
	c.JSON(http.StatusOK, setting)
}

// DeleteQuizSetting handles DELETE /api/v1/quiz-settings/:id
func (h *QuizSettingHandler) DeleteQuizSetting(c *gin.Context) {
	id, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.settingService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Quiz setting deleted",
	})
}

// ValidateQuizKey handles POST /api/v1/quiz-settings/validate
func (h *QuizSettingHandler) ValidateQuizKey(c *gin.Context) {
	var req services.ValidateQuizKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	setting, err := h.settingService.ValidateKey(c.Request.Context(), req.QuizID, req.QuizKey, time.Now())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Quiz key is valid",
		Data: gin.H{
			"quiz_id":            setting.QuizID,
			"instructions":       setting.Instructions,
			"time_limit_seconds": int64(setting.TimeLimit / time.Second),
		},
	})
}
