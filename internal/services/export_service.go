package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/campusworks/quiz-attempt-service/internal/models"
	"github.com/campusworks/quiz-attempt-service/internal/repositories"
	"github.com/xuri/excelize/v2"
)

// ExportService produces downloadable result files for a quiz.
type ExportService interface {
	// ExportQuizResults renders every answer sheet of the quiz into an
	// Excel workbook and returns the file bytes.
	ExportQuizResults(ctx context.Context, quizID uint) ([]byte, error)
}

type exportService struct {
	repo    repositories.Repository
	runtime RuntimeQuizService
	logger  *slog.Logger
}

func NewExportService(repo repositories.Repository, runtime RuntimeQuizService, logger *slog.Logger) ExportService {
	return &exportService{
		repo:    repo,
		runtime: runtime,
		logger:  logger,
	}
}

func (s *exportService) ExportQuizResults(ctx context.Context, quizID uint) ([]byte, error) {
	quiz, err := s.runtime.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	sheets, err := s.repo.AnswerSheet().ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to list answer sheets: %w", err)
	}

	f := excelize.NewFile()
	sheetName := "Results"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{
		"Student ID", "Status", "Score", "Total Points", "Percentage",
		"Started At", "Finished At", "Time Spent (minutes)",
	}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, sheet := range sheets {
		row := buildResultRow(sheet)
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Quiz results exported",
		"quiz_id", quizID,
		"quiz_title", quiz.Title,
		"sheets", len(sheets))

	return buf.Bytes(), nil
}

func buildResultRow(sheet *models.AnswerSheet) []interface{} {
	score := 0.0
	if sheet.AttemptScore != nil {
		score = *sheet.AttemptScore
	}

	percentage := 0.0
	if sheet.TotalPoints > 0 {
		percentage = score / float64(sheet.TotalPoints) * 100
	}

	finishedAt := ""
	timeSpentMinutes := 0.0
	if sheet.TimeFinish != nil {
		finishedAt = sheet.TimeFinish.Format(time.RFC3339)
		timeSpentMinutes = sheet.TimeFinish.Sub(sheet.TimeStart).Minutes()
	}

	return []interface{}{
		sheet.StudentID,
		string(sheet.Status),
		score,
		sheet.TotalPoints,
		percentage,
		sheet.TimeStart.Format(time.RFC3339),
		finishedAt,
		timeSpentMinutes,
	}
}
