package handlers

import (
	"fmt"
	"net/http"

	"github.com/campusworks/quiz-attempt-service/internal/services"
	"github.com/campusworks/quiz-attempt-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// ReportHandler serves downloadable result reports
type ReportHandler struct {
	BaseHandler
	exportService services.ExportService
}

func NewReportHandler(exportService services.ExportService, logger utils.Logger) *ReportHandler {
	return &ReportHandler{
		BaseHandler:   NewBaseHandler(logger),
		exportService: exportService,
	}
}

// ExportQuizResults handles GET /api/v1/quizzes/:quiz_id/results/export
func (h *ReportHandler) ExportQuizResults(c *gin.Context) {
	quizID, ok := ParseUintIDParam(c, "quiz_id")
	if !ok {
		return
	}

	data, err := h.exportService.ExportQuizResults(c.Request.Context(), quizID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("quiz_%d_results.xlsx", quizID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		data)
}
